package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Frame payload validation (wrong landmark count, bad camera).
	ErrBadFrame = "E_BAD_FRAME"

	// A sculpting session is already attached to this world.
	ErrSessionBusy = "E_SESSION_BUSY"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadFrame:        {},
	ErrSessionBusy:     {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string            `json:"type"`
	ProtocolVersion string            `json:"protocol_version"`
	ClientName      string            `json:"client_name"`
	Capabilities    HelloCapabilities `json:"capabilities,omitempty"`
}

type HelloCapabilities struct {
	MaxQueue int `json:"max_queue,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id"`
	WorldParams     WorldParams `json:"world_params"`
	TuningDigest    string      `json:"tuning_digest,omitempty"`
}

type WorldParams struct {
	GridSize      int      `json:"grid_size"`
	Palette       []string `json:"palette"`
	HistoryCap    int      `json:"history_cap"`
	MinConfidence float64  `json:"min_confidence"`
}

// FRAME (client -> server): one tracking callback's worth of input.
// Landmarks are [x, y, z] with x,y in camera-normalized [0,1] and z
// relative depth; the camera block carries the renderer's current view.
type FrameMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	TimeMs          int64     `json:"time_ms"`
	Hands           []HandMsg `json:"hands"`
	Camera          CameraMsg `json:"camera"`
}

type HandMsg struct {
	Handedness string       `json:"handedness,omitempty"`
	Landmarks  [][3]float64 `json:"landmarks"`
}

type CameraMsg struct {
	Position [3]float64 `json:"position"`
	Forward  [3]float64 `json:"forward"`
	Up       [3]float64 `json:"up"`
	FOVDeg   float64    `json:"fov_deg,omitempty"`
	Aspect   float64    `json:"aspect,omitempty"`
}

// EVENT (server -> client): one observable pipeline event.
const (
	EventMode         = "mode"
	EventColor        = "color"
	EventCursor       = "cursor"
	EventCursorHidden = "cursor_hidden"
	EventOrbit        = "orbit"
)

type EventMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Event           string      `json:"event"`
	Mode            string      `json:"mode,omitempty"`
	ColorIndex      *int        `json:"color_index,omitempty"`
	Cursor          *[3]int     `json:"cursor,omitempty"`
	Orbit           *[2]float64 `json:"orbit,omitempty"`
}

// WORLD (server -> client): full world content after a mutation.
type WorldMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	GridSize        int     `json:"grid_size"`
	Voxels          []Voxel `json:"voxels"`
	Digest          string  `json:"digest"`
}

type Voxel struct {
	X          int `json:"x"`
	Y          int `json:"y"`
	Z          int `json:"z"`
	ColorIndex int `json:"colorIndex"`
}

// ERROR (server -> client)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message,omitempty"`
}

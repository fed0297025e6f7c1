// Command bot drives the sculpting server with synthetic hand poses:
// it places a short wall, cycles the palette, and carves one voxel out,
// logging every world digest it receives.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"handsculpt.ai/internal/protocol"
	"handsculpt.ai/internal/sim/gesture"
	"handsculpt.ai/internal/sim/handpose"
)

// Top-down camera over the grid center. The bot computes the screen
// position whose pick ray lands on a chosen ground cell.
type camera struct {
	msg     protocol.CameraMsg
	grid    float64
	tanHalf float64
}

func newCamera(grid int) camera {
	g := float64(grid)
	return camera{
		msg: protocol.CameraMsg{
			Position: [3]float64{g / 2, 20, g / 2},
			Forward:  [3]float64{0, -1, 0},
			Up:       [3]float64{0, 0, -1},
			FOVDeg:   60,
			Aspect:   1,
		},
		grid:    g,
		tanHalf: math.Tan(30 * math.Pi / 180),
	}
}

// anchorFor returns the tracking-space anchor (x mirrored, as a selfie
// camera reports it) that picks ground cell (x, z).
func (c camera) anchorFor(x, z int) (ax, ay float64) {
	span := c.msg.Position[1] * c.tanHalf
	ndcX := (float64(x) - c.grid/2) / span
	ndcY := (c.grid/2 - float64(z)) / span
	nx := (ndcX + 1) / 2
	ny := (1 - ndcY) / 2
	return 1 - nx, ny
}

type step struct {
	pose gesture.Landmarks // nil means no hands visible
	hold int               // frames to repeat the step
}

func script(cam camera) []step {
	var steps []step
	pinch := func(x, z int) {
		ax, ay := cam.anchorFor(x, z)
		steps = append(steps,
			step{pose: handpose.PinchAt(ax, ay), hold: 1},
			step{pose: nil, hold: 10}, // wait out the action cooldown
		)
	}

	// A five-voxel wall along x at z=8.
	for x := 6; x <= 10; x++ {
		pinch(x, 8)
	}
	// Stack one on top of the middle voxel.
	pinch(8, 8)

	// Cycle the palette twice, then one more voxel in the new color.
	steps = append(steps,
		step{pose: handpose.PeaceAt(0.5, 0.5), hold: 1},
		step{pose: nil, hold: 16},
		step{pose: handpose.PeaceAt(0.5, 0.5), hold: 1},
		step{pose: nil, hold: 16},
	)
	pinch(6, 10)

	// Carve out the wall's left end.
	ax, ay := cam.anchorFor(6, 8)
	steps = append(steps,
		step{pose: handpose.FistAt(ax, ay), hold: 1},
		step{pose: nil, hold: 10},
	)
	return steps
}

func main() {
	var (
		url      = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name     = flag.String("name", "bot", "client name")
		interval = flag.Duration("interval", 33*time.Millisecond, "frame interval")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      *name,
		Capabilities:    protocol.HelloCapabilities{MaxQueue: 32},
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	grid := make(chan int, 1)
	go readLoop(conn, logger, grid)

	gridSize := 16
	select {
	case gridSize = <-grid:
	case <-time.After(5 * time.Second):
		logger.Fatalf("no WELCOME within 5s")
	}
	cam := newCamera(gridSize)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for _, st := range script(cam) {
		for i := 0; i < st.hold; i++ {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
			frame := protocol.FrameMsg{
				Type:            protocol.TypeFrame,
				ProtocolVersion: protocol.Version,
				TimeMs:          time.Now().UnixMilli(),
				Camera:          cam.msg,
			}
			if st.pose != nil {
				frame.Hands = []protocol.HandMsg{{Handedness: "right", Landmarks: handpose.Wire(st.pose)}}
			}
			if err := conn.WriteJSON(frame); err != nil {
				logger.Fatalf("send FRAME: %v", err)
			}
		}
	}

	// Let the last WORLD update arrive before closing.
	time.Sleep(500 * time.Millisecond)
	logger.Printf("script done")
}

func readLoop(conn *websocket.Conn, logger *log.Logger, grid chan<- int) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME session=%s grid=%d palette=%d digest=%s",
				w.SessionID, w.WorldParams.GridSize, len(w.WorldParams.Palette), w.TuningDigest)
			select {
			case grid <- w.WorldParams.GridSize:
			default:
			}
		case protocol.TypeEvent:
			var e protocol.EventMsg
			if err := json.Unmarshal(msg, &e); err != nil {
				continue
			}
			logger.Printf("EVENT %s mode=%s", e.Event, e.Mode)
		case protocol.TypeWorld:
			var w protocol.WorldMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WORLD voxels=%d digest=%s", len(w.Voxels), w.Digest)
		case protocol.TypeError:
			var e protocol.ErrorMsg
			if err := json.Unmarshal(msg, &e); err != nil {
				continue
			}
			logger.Printf("ERROR %s: %s", e.Code, e.Message)
		}
	}
}

// Package ws terminates the hand-tracking websocket: one sculpting
// client streams FRAME messages in and receives EVENT/WORLD updates out.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"handsculpt.ai/internal/protocol"
	"handsculpt.ai/internal/sim/session"
	"handsculpt.ai/internal/sim/tuning"
	"handsculpt.ai/internal/sim/world"
)

// Recorder receives every accepted frame, typically a framelog.Writer.
type Recorder interface {
	Write(protocol.FrameMsg) error
}

type Server struct {
	tuning tuning.Tuning
	log    *log.Logger
	rec    Recorder

	mu    sync.Mutex
	world *world.World
	busy  bool
	seq   int

	upgrader websocket.Upgrader
}

func NewServer(w *world.World, t tuning.Tuning, logger *log.Logger, rec Recorder) *Server {
	return &Server{
		tuning: t,
		log:    logger,
		rec:    rec,
		world:  w,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// View runs fn with exclusive access to the world. Export handlers use
// it to read a consistent snapshot while a session may be stepping.
func (s *Server) View(fn func(*world.World)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.world)
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sessionID, out := s.handshake(conn)
		if sessionID == "" {
			return
		}

		s.mu.Lock()
		sess := session.New(s.world, s.tuning, out)
		world0 := sess.WorldMessage()
		s.mu.Unlock()

		// The initial WORLD snapshot goes straight to the socket: the
		// writer goroutine is not running yet and the queue may be too
		// small to hold it.
		if err := writeJSON(conn, world0); err != nil {
			s.release(sess)
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				s.sendError(out, protocol.ErrProtoBadRequest, "malformed message")
				continue
			}
			if base.Type != protocol.TypeFrame {
				continue
			}
			var frame protocol.FrameMsg
			if err := json.Unmarshal(msg, &frame); err != nil {
				s.sendError(out, protocol.ErrProtoBadRequest, "malformed FRAME")
				continue
			}
			if frame.ProtocolVersion != protocol.Version {
				s.sendError(out, protocol.ErrProtoBadRequest, "bad protocol_version")
				continue
			}

			s.mu.Lock()
			err = sess.Step(frame)
			s.mu.Unlock()
			if err != nil {
				s.sendError(out, protocol.ErrBadFrame, err.Error())
				continue
			}
			if s.rec != nil {
				if err := s.rec.Write(frame); err != nil {
					s.log.Printf("frame record: %v", err)
				}
			}
		}

		// Cleanup.
		s.release(sess)
		if n := sess.Dropped(); n > 0 {
			s.log.Printf("session %s: dropped %d outbound messages", sessionID, n)
		}
		s.log.Printf("session %s closed", sessionID)
	}
}

func (s *Server) handshake(conn *websocket.Conn) (sessionID string, out chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", nil
	}
	if hello.ClientName == "" {
		hello.ClientName = "client"
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		b, _ := json.Marshal(protocol.ErrorMsg{
			Type:            protocol.TypeError,
			ProtocolVersion: protocol.Version,
			Code:            protocol.ErrSessionBusy,
			Message:         "another sculpting session is active",
		})
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		_ = conn.WriteMessage(websocket.TextMessage, b)
		return "", nil
	}
	s.busy = true
	s.seq++
	sessionID = fmt.Sprintf("s-%d", s.seq)
	s.mu.Unlock()

	maxQ := hello.Capabilities.MaxQueue
	if maxQ <= 0 {
		maxQ = 8
	}
	if maxQ > 64 {
		maxQ = 64
	}
	out = make(chan []byte, maxQ)

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sessionID,
		WorldParams: protocol.WorldParams{
			GridSize:      s.tuning.GridSize,
			Palette:       s.tuning.Palette,
			HistoryCap:    s.tuning.HistoryCap,
			MinConfidence: s.tuning.MinConfidence,
		},
		TuningDigest: s.tuning.Digest(),
	}
	// Written directly: the writer goroutine starts only after the
	// handshake, and the client's queue size must not gate WELCOME.
	if err := writeJSON(conn, welcome); err != nil {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
		return "", nil
	}

	s.log.Printf("session %s: %s connected", sessionID, hello.ClientName)
	return sessionID, out
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}

// release detaches the session and frees the single sculpting slot.
func (s *Server) release(sess *session.Session) {
	s.mu.Lock()
	sess.Close()
	s.busy = false
	s.mu.Unlock()
}

func (s *Server) sendError(out chan []byte, code, message string) {
	b, err := json.Marshal(protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Code:            code,
		Message:         message,
	})
	if err != nil {
		return
	}
	select {
	case out <- b:
	default:
	}
}

package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"anthill.ai/internal/persistence/recording"
	"anthill.ai/internal/viewerproto"
)

const (
	maxIntervalMS = 10_000

	// Looping streams never end, so they are paced.
	minLoopIntervalMS = 10
)

// Server serves one loaded recording. The recording is never mutated after
// NewServer, so handlers share it without locking.
type Server struct {
	rec     recording.Recording
	encoded []byte
	log     *log.Logger

	// AllowRemote lifts the loopback-only restriction.
	AllowRemote bool

	upgrader websocket.Upgrader
	nextID   atomic.Uint64
}

func NewServer(rec recording.Recording, logger *log.Logger) (*Server, error) {
	b, err := recording.Encode(rec)
	if err != nil {
		return nil, fmt.Errorf("encode recording: %w", err)
	}
	return &Server{
		rec:     rec,
		encoded: b,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}, nil
}

// Routes registers the viewer endpoints on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/recording", s.RecordingHandler())
	mux.HandleFunc("/v1/bootstrap", s.BootstrapHandler())
	mux.HandleFunc("/v1/ws", s.WSHandler())
}

func (s *Server) allowed(rw http.ResponseWriter, r *http.Request) bool {
	if s.AllowRemote || isLoopbackRemote(r.RemoteAddr) {
		return true
	}
	http.Error(rw, "forbidden", http.StatusForbidden)
	return false
}

// RecordingHandler serves the binary recording, uncompressed.
func (s *Server) RecordingHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !s.allowed(rw, r) {
			return
		}
		rw.Header().Set("Content-Type", "application/octet-stream")
		rw.Header().Set("Content-Length", fmt.Sprint(len(s.encoded)))
		_, _ = rw.Write(s.encoded)
	}
}

func (s *Server) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !s.allowed(rw, r) {
			return
		}

		resp := viewerproto.BootstrapResponse{
			ProtocolVersion: viewerproto.Version,
			Map:             s.rec.Map,
			Frames:          len(s.rec.Frames),
			Counts:          s.rec.Counts(),
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(resp)
	}
}

func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !s.allowed(rw, r) {
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Handshake: must send SUBSCRIBE first.
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		sub, ok := parseSubscribe(msg)
		if !ok {
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected SUBSCRIBE"), time.Now().Add(time.Second))
			return
		}
		s.normalizeSubscribe(&sub)

		sid := fmt.Sprintf("V%d", s.nextID.Add(1))
		if s.log != nil {
			s.log.Printf("viewer %s subscribed from=%d interval_ms=%d loop=%v", sid, sub.FromFrame, sub.IntervalMS, sub.Loop)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		subs := make(chan viewerproto.SubscribeMsg, 1)

		// Writer goroutine.
		writeErr := make(chan error, 1)
		go func() {
			writeErr <- s.stream(ctx, conn, sub, subs)
		}()

		// Reader loop: allow SUBSCRIBE updates.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			sub, ok := parseSubscribe(msg)
			if !ok {
				continue
			}
			s.normalizeSubscribe(&sub)
			// Keep only the latest pending update.
			select {
			case <-subs:
			default:
			}
			subs <- sub
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

		// Best-effort wait for the writer to stop so it doesn't outlive conn.
		select {
		case err := <-writeErr:
			if err != nil && !errors.Is(err, context.Canceled) && s.log != nil {
				s.log.Printf("viewer %s: %v", sid, err)
			}
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// stream writes frames starting at sub.FromFrame until the context ends. Without
// Loop it sends END after the last frame and waits for a seek.
func (s *Server) stream(ctx context.Context, conn *websocket.Conn, sub viewerproto.SubscribeMsg, subs <-chan viewerproto.SubscribeMsg) error {
	n := len(s.rec.Frames)
	idx := sub.FromFrame
	ended := false

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		var next <-chan time.Time
		if !ended {
			next = timer.C
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub = <-subs:
			idx = sub.FromFrame
			ended = false
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(0)
			continue
		case <-next:
		}

		var v any
		switch {
		case idx < n:
			v = viewerproto.FrameMsg{
				Type:            viewerproto.TypeFrame,
				ProtocolVersion: viewerproto.Version,
				Index:           idx,
				Frame:           s.rec.Frames[idx],
			}
			idx++
		case sub.Loop && n > 0:
			idx = 0
			timer.Reset(0)
			continue
		default:
			v = viewerproto.EndMsg{
				Type:            viewerproto.TypeEnd,
				ProtocolVersion: viewerproto.Version,
				Frames:          n,
			}
			ended = true
		}

		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return err
		}
		if !ended {
			timer.Reset(time.Duration(sub.IntervalMS) * time.Millisecond)
		}
	}
}

func parseSubscribe(msg []byte) (viewerproto.SubscribeMsg, bool) {
	var sub viewerproto.SubscribeMsg
	if err := json.Unmarshal(msg, &sub); err != nil {
		return sub, false
	}
	if sub.Type != viewerproto.TypeSubscribe || sub.ProtocolVersion != viewerproto.Version {
		return sub, false
	}
	return sub, true
}

func (s *Server) normalizeSubscribe(sub *viewerproto.SubscribeMsg) {
	if sub.FromFrame < 0 {
		sub.FromFrame = 0
	}
	if sub.FromFrame > len(s.rec.Frames) {
		sub.FromFrame = len(s.rec.Frames)
	}
	if sub.IntervalMS < 0 {
		sub.IntervalMS = 0
	}
	if sub.IntervalMS > maxIntervalMS {
		sub.IntervalMS = maxIntervalMS
	}
	if sub.Loop && sub.IntervalMS < minLoopIntervalMS {
		sub.IntervalMS = minLoopIntervalMS
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

package viewerproto

import "anthill.ai/internal/sim/model"

// Version is the viewer protocol version.
const Version = "1"

const (
	TypeSubscribe = "SUBSCRIBE"
	TypeFrame     = "FRAME"
	TypeEnd       = "END"
)

// Client -> Server. First message on the viewer WS connection; re-sending it seeks
// the stream.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	FromFrame       int    `json:"from_frame,omitempty"`

	// Delay between frames. Zero streams without delay unless Loop is set, which
	// enforces a small minimum.
	IntervalMS int  `json:"interval_ms,omitempty"`
	Loop       bool `json:"loop,omitempty"`
}

// HTTP response for GET /v1/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string       `json:"protocol_version"`
	Map             model.Map    `json:"map"`
	Frames          int          `json:"frames"`
	Counts          model.Counts `json:"counts"`
}

// Server -> Client. One message per recorded frame.
type FrameMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Index           int         `json:"index"`
	Frame           model.Frame `json:"frame"`
}

// Server -> Client. Sent once the last frame went out and Loop is off.
type EndMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Frames          int    `json:"frames"`
}

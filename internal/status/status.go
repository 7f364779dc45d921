// Package status derives the database readiness signal reported by the health endpoint.
package status

import "github.com/PaulBabatuyi/authapi/internal/db"

// Labels reported for each connection state.
const (
	LabelDisconnected  = "disconnected"
	LabelConnected     = "connected"
	LabelConnecting    = "connecting"
	LabelDisconnecting = "disconnecting"
	LabelUnknown       = "unknown"
)

// Status is the readiness view of the database link.
type Status struct {
	Connected  bool   `json:"connected"`
	StateLabel string `json:"status"`
}

// Reporter reads the state from a db.StateSource. It has no side effects.
type Reporter struct {
	src db.StateSource
}

// NewReporter returns a Reporter for src.
func NewReporter(src db.StateSource) *Reporter {
	return &Reporter{src: src}
}

// GetStatus never fails; states it does not know map to LabelUnknown.
func (r *Reporter) GetStatus() Status {
	state := r.src.State()
	return Status{
		Connected:  state == db.Connected,
		StateLabel: Label(state),
	}
}

// Label returns the label for a raw connection state.
func Label(s db.ConnState) string {
	switch s {
	case db.Disconnected:
		return LabelDisconnected
	case db.Connected:
		return LabelConnected
	case db.Connecting:
		return LabelConnecting
	case db.Disconnecting:
		return LabelDisconnecting
	default:
		return LabelUnknown
	}
}

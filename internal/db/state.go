package db

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConnState is the raw state of the link to MongoDB. Values follow the
// ordering used by the health endpoint consumers: 0 disconnected,
// 1 connected, 2 connecting, 3 disconnecting.
type ConnState int32

const (
	Disconnected  ConnState = 0
	Connected     ConnState = 1
	Connecting    ConnState = 2
	Disconnecting ConnState = 3
)

// StateSource reports the current connection state.
type StateSource interface {
	State() ConnState
}

// Static is a StateSource that never changes, used by the in-memory store.
type Static ConnState

// State returns s.
func (s Static) State() ConnState { return ConnState(s) }

var connStateGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "mongo_connection_state",
	Help: "Current MongoDB connection state (0 disconnected, 1 connected, 2 connecting, 3 disconnecting)",
})

// stateHolder is an atomically updated ConnState.
type stateHolder struct {
	v atomic.Int32
}

func (h *stateHolder) load() ConnState { return ConnState(h.v.Load()) }

// transition moves to s unless the current state is one of unless. It
// reports whether the state changed.
func (h *stateHolder) transition(s ConnState, unless ...ConnState) bool {
	for {
		old := h.v.Load()
		if old == int32(s) {
			return false
		}
		for _, u := range unless {
			if old == int32(u) {
				return false
			}
		}
		if h.v.CompareAndSwap(old, int32(s)) {
			connStateGauge.Set(float64(s))
			return true
		}
	}
}

// store sets the state and reports whether it changed.
func (h *stateHolder) store(s ConnState) bool {
	old := h.v.Swap(int32(s))
	connStateGauge.Set(float64(s))
	return old != int32(s)
}

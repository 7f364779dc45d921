package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PaulBabatuyi/authapi/internal/db"
)

func TestGetStatus(t *testing.T) {
	cases := []struct {
		state     db.ConnState
		label     string
		connected bool
	}{
		{db.Disconnected, LabelDisconnected, false},
		{db.Connected, LabelConnected, true},
		{db.Connecting, LabelConnecting, false},
		{db.Disconnecting, LabelDisconnecting, false},
		{db.ConnState(4), LabelUnknown, false},
		{db.ConnState(99), LabelUnknown, false},
		{db.ConnState(-1), LabelUnknown, false},
	}

	for _, tc := range cases {
		got := NewReporter(db.Static(tc.state)).GetStatus()
		assert.Equal(t, tc.label, got.StateLabel, "state %d", tc.state)
		assert.Equal(t, tc.connected, got.Connected, "state %d", tc.state)
	}
}

package meeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusScheduled, StatusLive, true},
		{StatusLive, StatusProcessing, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusError, true},

		{StatusScheduled, StatusProcessing, false},
		{StatusLive, StatusCompleted, false},
		{StatusLive, StatusScheduled, false},
		{StatusCompleted, StatusError, false},
		{StatusCompleted, StatusLive, false},
		{StatusError, StatusProcessing, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusError.Terminal())
	assert.False(t, StatusScheduled.Terminal())
	assert.False(t, StatusLive.Terminal())
	assert.False(t, StatusProcessing.Terminal())
}

func TestMeetingIsMember(t *testing.T) {
	m := &Meeting{HostID: "host", ParticipantIDs: []string{"host", "alice"}}

	assert.True(t, m.IsMember("host"))
	assert.True(t, m.IsMember("alice"))
	assert.False(t, m.IsMember("mallory"))
}

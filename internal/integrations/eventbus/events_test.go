package eventbus

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	now := time.Date(2026, 10, 16, 10, 0, 0, 0, time.FixedZone("MSK", 3*60*60))
	body, err := newEnvelope(EventSlotBooked, SlotBooked{StationID: "st-1", PointNumber: 2, UserID: "u"}, now)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, EventSlotBooked, env.Type)
	assert.Equal(t, time.UTC, env.OccurredAt.Location())
	assert.JSONEq(t, `{"station_id":"st-1","point_number":2,"slot_id":"","start":"0001-01-01T00:00:00Z","end":"0001-01-01T00:00:00Z","user_id":"u"}`, string(env.Payload))
}

func TestNewEnvelope_UnsupportedPayload(t *testing.T) {
	_, err := newEnvelope(EventSlotBooked, make(chan int), time.Now())
	assert.ErrorIs(t, err, ErrEncode)
}

package audit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "dataspace/pkg/domain"
)

// The Kafka sink publishes events as JSON for downstream compliance
// consumers, so both IDs must appear as UUID strings on the wire.
func TestEvent_SerializesIDsAsStrings(t *testing.T) {
	event := Event{
		ID:         id.NewEventID(),
		TransferID: id.NewTransferID(),
		Action:     ActionTransferRequested,
		Actor:      ActorAPI,
		Metadata:   "Consumer=consumer-1",
		Timestamp:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, event.ID.String(), decoded["id"])
	assert.Equal(t, event.TransferID.String(), decoded["transfer_id"])
	assert.Equal(t, "TRANSFER_REQUESTED", decoded["action"])

	var roundTrip Event
	require.NoError(t, json.Unmarshal(payload, &roundTrip))
	assert.Equal(t, event, roundTrip)
}

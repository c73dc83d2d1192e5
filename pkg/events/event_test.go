package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeKeepsTypeAndTime(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	evt := BaseEvent{Type: LabelsCommitted, Data: map[string]interface{}{"changed": 2}, OccurredAt: at}

	raw, err := Marshal(evt)
	require.NoError(t, err)

	got, err := Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, LabelsCommitted, got.EventType())
	assert.True(t, at.Equal(got.Timestamp()))
	assert.EqualValues(t, 2, got.Payload()["changed"])
}

func TestUnmarshalGarbage(t *testing.T) {
	_, err := Unmarshal([]byte("{"))
	assert.Error(t, err)
}

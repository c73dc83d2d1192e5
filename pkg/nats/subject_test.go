package nats

import (
	"testing"

	"capsule-labeling-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "labeling.LABELS_COMMITTED", Subject(events.LabelsCommitted))
	assert.Equal(t, "labeling.FRAMES_DISCOVERED", Subject(events.FramesDiscovered))
}

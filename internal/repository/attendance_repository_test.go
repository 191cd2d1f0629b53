package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/studio-booking/internal/model"
	"github.com/pulsefit/studio-booking/internal/utils"
)

func TestActivityKindFromID(t *testing.T) {
	kind, err := ActivityKindFromID("class_9f3a")
	require.NoError(t, err)
	assert.Equal(t, model.ActivityKindClass, kind)

	kind, err = ActivityKindFromID("event_9f3a")
	require.NoError(t, err)
	assert.Equal(t, model.ActivityKindEvent, kind)
}

func TestActivityKindFromIDRejectsOtherPrefixes(t *testing.T) {
	for _, id := range []string{"booking_1", "pack_1", "noprefix", ""} {
		_, err := ActivityKindFromID(id)
		assert.ErrorIs(t, err, ErrUnknownActivityKind, "id %q", id)
	}
}

func TestActivityKindFromIDRoundTripsGeneratedIDs(t *testing.T) {
	kind, err := ActivityKindFromID(utils.NewID("class"))
	require.NoError(t, err)
	assert.Equal(t, model.ActivityKindClass, kind)

	kind, err = ActivityKindFromID(utils.NewID("event"))
	require.NoError(t, err)
	assert.Equal(t, model.ActivityKindEvent, kind)
}

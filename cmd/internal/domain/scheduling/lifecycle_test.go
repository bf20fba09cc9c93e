package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     error
	}{
		{StatusScheduled, StatusConfirmed, nil},
		{StatusConfirmed, StatusInProgress, nil},
		{StatusInProgress, StatusCompleted, nil},
		{StatusScheduled, StatusCancelled, nil},
		{StatusConfirmed, StatusNoShow, nil},
		{StatusInProgress, StatusCancelled, nil},
		{StatusScheduled, StatusCompleted, ErrInvalidTransition},
		{StatusConfirmed, StatusScheduled, ErrInvalidTransition},
		{StatusScheduled, StatusScheduled, ErrInvalidTransition},
		{StatusCompleted, StatusCancelled, ErrTerminalStatus},
		{StatusCancelled, StatusScheduled, ErrTerminalStatus},
		{StatusNoShow, StatusConfirmed, ErrTerminalStatus},
		{StatusScheduled, "Booked", ErrUnknownStatus},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			err := CanTransition(tc.from, tc.to)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestStatusSets(t *testing.T) {
	for _, s := range OccupyingStatuses {
		assert.True(t, s.Occupying(), s)
	}
	assert.False(t, StatusCancelled.Occupying())
	assert.False(t, StatusNoShow.Occupying())

	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCompleted.Occupying(), "completed visits keep their slot")
	assert.False(t, StatusInProgress.Terminal())
}

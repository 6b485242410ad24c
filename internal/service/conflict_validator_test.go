package service_test

import (
	"context"
	"testing"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/Freeeeeet/mentor_scheduler/internal/repository/memory"
	"github.com/Freeeeeet/mentor_scheduler/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSlotStillFree(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mentorID := uuid.New()
	store.PutSession(scheduledSession(mentorID, monday, "10:00", 60))

	validator := service.NewConflictValidator(store, 1)

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"before touching", "09:00", "10:00", true},
		{"same", "10:00", "11:00", false},
		{"overlapping start", "09:30", "10:30", false},
		{"after touching", "11:00", "12:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			free, err := validator.IsSlotStillFree(ctx, mentorID, monday, model.Interval{Start: clock(tt.start), End: clock(tt.end)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, free)
		})
	}

	free, err := validator.IsSlotStillFree(ctx, mentorID, tuesday, model.Interval{Start: clock("10:00"), End: clock("11:00")})
	require.NoError(t, err)
	assert.True(t, free, "other dates are independent")
}

func TestIsSlotStillFree_SeesFreshBookings(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mentorID := uuid.New()
	validator := service.NewConflictValidator(store, 1)
	slot := model.Interval{Start: clock("10:00"), End: clock("11:00")}

	free, err := validator.IsSlotStillFree(ctx, mentorID, monday, slot)
	require.NoError(t, err)
	assert.True(t, free)

	store.PutSession(scheduledSession(mentorID, monday, "10:00", 60))

	free, err = validator.IsSlotStillFree(ctx, mentorID, monday, slot)
	require.NoError(t, err)
	assert.False(t, free)
}

func TestIsSlotStillFree_PropagatesFailure(t *testing.T) {
	store := memory.NewStore()
	mentorID := uuid.New()
	validator := service.NewConflictValidator(flakyBookings{Store: store, failFor: mentorID}, 1)

	free, err := validator.IsSlotStillFree(context.Background(), mentorID, monday, model.Interval{Start: clock("10:00"), End: clock("11:00")})
	assert.ErrorIs(t, err, errUnavailable)
	assert.False(t, free)
}

func TestIsSlotStillFree_Capacity(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mentorID := uuid.New()
	store.PutSession(scheduledSession(mentorID, monday, "10:00", 60))

	slot := model.Interval{Start: clock("10:00"), End: clock("11:00")}

	free, err := service.NewConflictValidator(store, 2).IsSlotStillFree(ctx, mentorID, monday, slot)
	require.NoError(t, err)
	assert.True(t, free)

	_, err = service.NewConflictValidator(store, 2).IsSlotStillFree(ctx, mentorID, monday, model.Interval{Start: clock("10:00"), End: clock("10:00")})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

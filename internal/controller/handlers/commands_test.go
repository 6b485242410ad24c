package handlers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/Freeeeeet/mentor_scheduler/internal/repository/memory"
	"github.com/Freeeeeet/mentor_scheduler/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandlers(t *testing.T) (*Handlers, *memory.Store, uuid.UUID) {
	t.Helper()

	store := memory.NewStore()
	store.PutSchedule(model.CampusSchedule{
		Campus:      "Pune",
		WorkingDays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		StartTime:   model.NewClock(9, 0),
		EndTime:     model.NewClock(11, 0),
	})

	mentorID := uuid.MustParse("6f1c2d3e-0000-4000-8000-000000000001")
	store.PutMentor(mentorID, "Pune", true, false)

	logger := zap.NewNop()
	availability := service.NewAvailabilityService(store, store, store, store, service.AvailabilityOptions{}, logger)
	validator := service.NewConflictValidator(store, availability.Capacity())
	assigner := service.NewAutoAssigner(store, store, store, availability, validator, nil, logger).
		WithClock(func() time.Time { return time.Date(2026, time.October, 19, 6, 0, 0, 0, time.UTC) })

	h := NewHandlers(availability, assigner, validator, store, []int64{42}, 0, logger)
	return h, store, mentorID
}

func bookedSession(store *memory.Store, mentorID uuid.UUID, start model.Clock) {
	date := model.NewDate(2026, time.October, 19)
	store.PutSession(model.Session{
		ID:              uuid.New(),
		MentorID:        &mentorID,
		StudentID:       uuid.New(),
		Campus:          "Pune",
		ScheduledDate:   &date,
		ScheduledTime:   &start,
		DurationMinutes: 60,
		Status:          model.SessionStatusScheduled,
	})
}

func TestIsAdmin(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	assert.True(t, h.IsAdmin(42))
	assert.False(t, h.IsAdmin(7))
}

func TestSlotsReply(t *testing.T) {
	ctx := context.Background()
	h, store, mentorID := newTestHandlers(t)
	bookedSession(store, mentorID, model.NewClock(9, 0))

	reply := h.SlotsReply(ctx, "/slots Pune 2026-10-19")
	assert.Equal(t, "📅 Pune, 2026-10-19 (Mon), 1 h\n\n"+
		"🔴 09:00-10:00 6f1c2d3e 1/1\n"+
		"🟢 10:00-11:00 6f1c2d3e 0/1\n"+
		"\nFree: 1 of 2", reply)
}

func TestSlotsReply_Usage(t *testing.T) {
	ctx := context.Background()
	h, _, _ := newTestHandlers(t)

	tests := []struct {
		text string
		want string
	}{
		{"/slots", "Usage:"},
		{"/slots Pune", "Usage:"},
		{"/slots Pune 19.10.2026", "❌ Date"},
		{"/slots Pune 2026-10-19 0", "❌ minutes"},
		{"/slots Atlantis 2026-10-19", "No eligible mentors"},
		{"/slots Pune 2026-10-24", "No slots"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Contains(t, h.SlotsReply(ctx, tt.text), tt.want)
		})
	}
}

func TestFreeReply(t *testing.T) {
	ctx := context.Background()
	h, store, mentorID := newTestHandlers(t)
	bookedSession(store, mentorID, model.NewClock(9, 0))

	assert.Equal(t, "🔴 2026-10-19 09:30-10:00 is taken",
		h.FreeReply(ctx, "/free "+mentorID.String()+" 2026-10-19 09:30 30"))
	assert.Equal(t, "🟢 2026-10-19 10:00-11:00 is free",
		h.FreeReply(ctx, "/free "+mentorID.String()+" 2026-10-19 10:00 60"))

	assert.Contains(t, h.FreeReply(ctx, "/free bob 2026-10-19 10:00 60"), "UUID")
	assert.Contains(t, h.FreeReply(ctx, "/free "+mentorID.String()+" 2026-10-19 25:00 60"), "Time")
	assert.Contains(t, h.FreeReply(ctx, "/free "+mentorID.String()+" 2026-10-19"), "Usage:")
}

func TestAutoAssignReply(t *testing.T) {
	ctx := context.Background()
	h, store, _ := newTestHandlers(t)

	session := model.Session{
		ID:              uuid.New(),
		StudentID:       uuid.New(),
		Campus:          "Pune",
		DurationMinutes: 60,
		Status:          model.SessionStatusPending,
	}
	store.PutSession(session)

	assert.Contains(t, h.AutoAssignReply(ctx, "/autoassign "+session.ID.String()+" Pune critical"), "Priority")
	assert.Equal(t, "✅ Session scheduled", h.AutoAssignReply(ctx, "/autoassign "+session.ID.String()+" Pune urgent"))
	assert.Contains(t, h.AutoAssignReply(ctx, "/autoassign "+session.ID.String()+" Pune"), "no longer waiting")
	assert.Contains(t, h.AutoAssignReply(ctx, "/autoassign "+uuid.NewString()+" Pune"), "not found")

	stored, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusScheduled, stored.Status)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 min", FormatDuration(45))
	assert.Equal(t, "2 h", FormatDuration(120))
	assert.Equal(t, "1 h 30 min", FormatDuration(90))
}

func TestFormatSlots_Truncates(t *testing.T) {
	date := model.NewDate(2026, time.October, 19)
	mentorID := uuid.New()

	var slots []model.AvailableSlot
	for i := 0; i < maxSlotLines+5; i++ {
		start := model.NewClock(0, i)
		slots = append(slots, model.AvailableSlot{
			Date:        date,
			StartTime:   start,
			EndTime:     start.Add(1),
			MentorID:    mentorID,
			CapacityMax: 1,
			IsAvailable: true,
		})
	}

	out := FormatSlots("Pune", date, 1, slots)
	assert.Contains(t, out, "... and 5 more")
	assert.Equal(t, maxSlotLines, strings.Count(out, "🟢"))
	assert.True(t, strings.HasSuffix(out, "Free: 65 of 65"))
}

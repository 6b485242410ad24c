package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/Freeeeeet/mentor_scheduler/internal/repository/memory"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	monday   = model.NewDate(2026, time.October, 19)
	tuesday  = monday.AddDays(1)
	saturday = monday.AddDays(5)

	weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

	errUnavailable = errors.New("document store unavailable")
)

func clock(s string) model.Clock {
	c, err := model.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func clockPtr(s string) *model.Clock {
	c := clock(s)
	return &c
}

func puneSchedule(start, end string) model.CampusSchedule {
	return model.CampusSchedule{
		Campus:      "Pune",
		WorkingDays: weekdays,
		StartTime:   clock(start),
		EndTime:     clock(end),
	}
}

func starts(slots []model.AvailableSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime.String()
	}
	return out
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}

// scheduledSession занимающая сессия ментора
func scheduledSession(mentorID uuid.UUID, date model.Date, start string, minutes int) model.Session {
	d := date
	c := clock(start)
	return model.Session{
		ID:              uuid.New(),
		MentorID:        &mentorID,
		StudentID:       uuid.New(),
		Campus:          "Pune",
		Topic:           "existing",
		ScheduledDate:   &d,
		ScheduledTime:   &c,
		DurationMinutes: minutes,
		Status:          model.SessionStatusScheduled,
		CreatedAt:       time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
	}
}

func pendingSession(minutes int) model.Session {
	return model.Session{
		ID:              uuid.New(),
		StudentID:       uuid.New(),
		Campus:          "Pune",
		Topic:           "graphs",
		Priority:        model.PriorityMedium,
		DurationMinutes: minutes,
		Status:          model.SessionStatusPending,
		CreatedAt:       time.Date(2026, time.October, 2, 0, 0, 0, 0, time.UTC),
	}
}

// flakyBookings отказывает при чтении броней выбранного ментора
type flakyBookings struct {
	*memory.Store
	failFor uuid.UUID
}

func (f flakyBookings) GetOccupyingBookings(ctx context.Context, mentorID uuid.UUID, date model.Date) ([]model.Interval, error) {
	if mentorID == f.failFor {
		return nil, errUnavailable
	}
	return f.Store.GetOccupyingBookings(ctx, mentorID, date)
}

// flakyPreferences отказывает при чтении предпочтений выбранного ментора
type flakyPreferences struct {
	*memory.Store
	failFor uuid.UUID
}

func (f flakyPreferences) GetPreferences(ctx context.Context, mentorID uuid.UUID) ([]model.MentorPreference, error) {
	if mentorID == f.failFor {
		return nil, errUnavailable
	}
	return f.Store.GetPreferences(ctx, mentorID)
}

// racingSessions перед первым CommitSession успевает записать в тот же слот
// чужую сессию, как если бы другой запрос выиграл гонку.
type racingSessions struct {
	*memory.Store
	once sync.Once
	t    *testing.T
}

func (r *racingSessions) CommitSession(ctx context.Context, req model.CommitRequest) error {
	r.once.Do(func() {
		rival := pendingSession(60)
		r.Store.PutSession(rival)
		rivalReq := req
		rivalReq.SessionID = rival.ID
		if err := r.Store.CommitSession(ctx, rivalReq); err != nil {
			r.t.Fatalf("rival commit: %v", err)
		}
	})
	return r.Store.CommitSession(ctx, req)
}

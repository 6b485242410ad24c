package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/google/uuid"
)

// ScheduleRepository источник рабочих календарей кампусов.
// Неизвестный кампус - model.ErrNotFound.
type ScheduleRepository interface {
	GetSchedule(ctx context.Context, campus string) (*model.CampusSchedule, error)
}

// LeaveRepository проверяет одобренные отпуска
type LeaveRepository interface {
	IsOnLeave(ctx context.Context, mentorID uuid.UUID, date model.Date) (bool, error)
}

// BookingReader возвращает занимающие сессии (scheduled, in_progress) ментора на дату
type BookingReader interface {
	GetOccupyingBookings(ctx context.Context, mentorID uuid.UUID, date model.Date) ([]model.Interval, error)
}

// SessionRepository хранилище сессий
type SessionRepository interface {
	BookingReader

	// GetSession возвращает model.ErrNotFound для неизвестной сессии
	GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error)

	// CommitSession атомарно переводит сессию в scheduled, если в слоте ещё есть ёмкость.
	// Ошибки: model.ErrSlotTaken, model.ErrNotFound, model.ErrSessionNotSchedulable.
	CommitSession(ctx context.Context, req model.CommitRequest) error

	ListPending(ctx context.Context) ([]*model.Session, error)
	ListByUser(ctx context.Context, userID uuid.UUID, role model.SessionRole) ([]*model.Session, error)
}

// MentorDirectory справочник менторов
type MentorDirectory interface {
	// ListEligibleMentors активные и не исключённые из автоназначения менторы кампуса
	ListEligibleMentors(ctx context.Context, campus string) ([]uuid.UUID, error)

	// GetMentorCampus кампус активного ментора; неизвестный или неактивный - model.ErrNotFound
	GetMentorCampus(ctx context.Context, mentorID uuid.UUID) (string, error)
}

// RequireCampusMentor проверяет, что ментор активен и работает в кампусе campus.
// Чужой ментор неотличим от неизвестного: model.ErrNotFound.
func RequireCampusMentor(ctx context.Context, mentors MentorDirectory, mentorID uuid.UUID, campus string) error {
	mentorCampus, err := mentors.GetMentorCampus(ctx, mentorID)
	if err != nil {
		return fmt.Errorf("get mentor campus: %w", err)
	}
	if mentorCampus != campus {
		return fmt.Errorf("mentor %s in campus %s: %w", mentorID, campus, model.ErrNotFound)
	}
	return nil
}

// PreferenceRepository явные предпочтения менторов по слотам
type PreferenceRepository interface {
	GetPreferences(ctx context.Context, mentorID uuid.UUID) ([]model.MentorPreference, error)
}

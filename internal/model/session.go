package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusPending    SessionStatus = "pending"     // Запрос без ментора
	SessionStatusAssigned   SessionStatus = "assigned"    // Ментор назначен, время не выбрано
	SessionStatusScheduled  SessionStatus = "scheduled"   // Слот подтверждён
	SessionStatusInProgress SessionStatus = "in_progress" // Идёт сейчас
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
)

// OccupyingStatuses статусы, которые занимают ёмкость слота
var OccupyingStatuses = []SessionStatus{SessionStatusScheduled, SessionStatusInProgress}

// IsOccupying сообщает, занимает ли статус слот
func (s SessionStatus) IsOccupying() bool {
	return s == SessionStatusScheduled || s == SessionStatusInProgress
}

// IsSchedulable сообщает, можно ли перевести сессию в scheduled
func (s SessionStatus) IsSchedulable() bool {
	return s == SessionStatusPending || s == SessionStatusAssigned
}

// SessionRole с чьей стороны смотрим на сессии пользователя
type SessionRole string

const (
	SessionRoleMentee SessionRole = "mentee"
	SessionRoleMentor SessionRole = "mentor"
	SessionRoleAll    SessionRole = "all"
)

// ParseSessionRole разбирает роль; пустая строка = all
func ParseSessionRole(s string) (SessionRole, error) {
	switch r := SessionRole(s); r {
	case "":
		return SessionRoleAll, nil
	case SessionRoleMentee, SessionRoleMentor, SessionRoleAll:
		return r, nil
	default:
		return "", fmt.Errorf("unknown session role %q: %w", s, ErrInvalidInput)
	}
}

// DefaultSessionDurationMinutes длительность, если в запросе не указана
const DefaultSessionDurationMinutes = 60

// Session встреча ментора и студента (pair programming)
type Session struct {
	ID              uuid.UUID     `json:"id"`
	MentorID        *uuid.UUID    `json:"mentor_id"` // nil для открытых запросов
	StudentID       uuid.UUID     `json:"student_id"`
	Campus          string        `json:"campus"`
	Topic           string        `json:"topic"`
	Description     string        `json:"description,omitempty"`
	Priority        Priority      `json:"priority"`
	ScheduledDate   *Date         `json:"scheduled_date,omitempty"`
	ScheduledTime   *Clock        `json:"scheduled_time,omitempty"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          SessionStatus `json:"status"`
	AssignedAt      *time.Time    `json:"assigned_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Duration возвращает длительность с подстановкой значения по умолчанию
func (s *Session) Duration() int {
	if s.DurationMinutes <= 0 {
		return DefaultSessionDurationMinutes
	}
	return s.DurationMinutes
}

// Interval возвращает занимаемый интервал, если время назначено
func (s *Session) Interval() (Interval, bool) {
	if s.ScheduledTime == nil {
		return Interval{}, false
	}
	start := *s.ScheduledTime
	return Interval{Start: start, End: start.Add(s.Duration())}, true
}

// CommitRequest условная запись сессии в слот
type CommitRequest struct {
	SessionID uuid.UUID
	MentorID  uuid.UUID
	Date      Date
	Start     Clock
	Capacity  int // максимум одновременных занимающих сессий в слоте
}

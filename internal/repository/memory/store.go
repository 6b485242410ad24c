// Package memory хранит данные планировщика в памяти процесса.
// Поведение CommitSession совпадает с Postgres-реализацией.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/google/uuid"
)

type mentor struct {
	id       uuid.UUID
	campus   string
	active   bool
	excluded bool
}

type Store struct {
	mu          sync.RWMutex
	schedules   map[string]model.CampusSchedule
	mentors     []mentor
	leaves      []model.LeaveRecord
	preferences map[uuid.UUID][]model.MentorPreference
	sessions    map[uuid.UUID]*model.Session
	now         func() time.Time
}

func NewStore() *Store {
	return &Store{
		schedules:   make(map[string]model.CampusSchedule),
		preferences: make(map[uuid.UUID][]model.MentorPreference),
		sessions:    make(map[uuid.UUID]*model.Session),
		now:         time.Now,
	}
}

// PutSchedule добавляет или заменяет расписание кампуса
func (s *Store) PutSchedule(sched model.CampusSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[sched.Campus] = sched
}

// PutMentor регистрирует или обновляет ментора; порядок первого добавления сохраняется
func (s *Store) PutMentor(id uuid.UUID, campus string, active, excluded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := mentor{id: id, campus: campus, active: active, excluded: excluded}
	for i := range s.mentors {
		if s.mentors[i].id == id {
			s.mentors[i] = m
			return
		}
	}
	s.mentors = append(s.mentors, m)
}

func (s *Store) PutLeave(leave model.LeaveRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaves = append(s.leaves, leave)
}

func (s *Store) PutPreference(pref model.MentorPreference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences[pref.MentorID] = append(s.preferences[pref.MentorID], pref)
}

// PutSession сохраняет копию сессии
func (s *Store) PutSession(session model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := session
	s.sessions[session.ID] = &stored
}

func (s *Store) GetSchedule(_ context.Context, campus string) (*model.CampusSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sched, ok := s.schedules[campus]
	if !ok {
		return nil, fmt.Errorf("campus schedule %s: %w", campus, model.ErrNotFound)
	}
	return &sched, nil
}

func (s *Store) ListEligibleMentors(_ context.Context, campus string) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []uuid.UUID
	for _, m := range s.mentors {
		if m.campus == campus && m.active && !m.excluded {
			ids = append(ids, m.id)
		}
	}
	return ids, nil
}

func (s *Store) GetMentorCampus(_ context.Context, mentorID uuid.UUID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.mentors {
		if m.id == mentorID && m.active {
			return m.campus, nil
		}
	}
	return "", fmt.Errorf("mentor %s: %w", mentorID, model.ErrNotFound)
}

func (s *Store) IsOnLeave(_ context.Context, mentorID uuid.UUID, date model.Date) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.leaves {
		if s.leaves[i].UserID == mentorID && s.leaves[i].Blocks(date) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) GetPreferences(_ context.Context, mentorID uuid.UUID) ([]model.MentorPreference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefs := s.preferences[mentorID]
	out := make([]model.MentorPreference, len(prefs))
	copy(out, prefs)
	return out, nil
}

func (s *Store) GetSession(_ context.Context, id uuid.UUID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, model.ErrNotFound)
	}
	copied := *session
	return &copied, nil
}

func (s *Store) GetOccupyingBookings(_ context.Context, mentorID uuid.UUID, date model.Date) ([]model.Interval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.occupying(mentorID, date, uuid.Nil), nil
}

// occupying вызывается под блокировкой
func (s *Store) occupying(mentorID uuid.UUID, date model.Date, except uuid.UUID) []model.Interval {
	intervals := []model.Interval{}
	for _, session := range s.sortedSessions() {
		if session.ID == except || !session.Status.IsOccupying() {
			continue
		}
		if session.MentorID == nil || *session.MentorID != mentorID {
			continue
		}
		if session.ScheduledDate == nil || !session.ScheduledDate.Equal(date) {
			continue
		}
		if interval, ok := session.Interval(); ok {
			intervals = append(intervals, interval)
		}
	}
	return intervals
}

// CommitSession проверяет ёмкость слота и переводит сессию в scheduled
// под одной блокировкой, поэтому два конкурирующих вызова не займут один слот.
func (s *Store) CommitSession(_ context.Context, req model.CommitRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[req.SessionID]
	if !ok {
		return fmt.Errorf("session %s: %w", req.SessionID, model.ErrNotFound)
	}
	if !session.Status.IsSchedulable() {
		return fmt.Errorf("session %s is %s: %w", req.SessionID, session.Status, model.ErrSessionNotSchedulable)
	}

	capacity := req.Capacity
	if capacity <= 0 {
		capacity = 1
	}

	slot := model.Interval{Start: req.Start, End: req.Start.Add(session.Duration())}
	if slot.CountOverlaps(s.occupying(req.MentorID, req.Date, req.SessionID)) >= capacity {
		return fmt.Errorf("mentor %s at %s %s: %w", req.MentorID, req.Date, req.Start, model.ErrSlotTaken)
	}

	now := s.now()
	mentorID := req.MentorID
	date := req.Date
	start := req.Start

	session.MentorID = &mentorID
	session.ScheduledDate = &date
	session.ScheduledTime = &start
	session.Status = model.SessionStatusScheduled
	if session.AssignedAt == nil {
		session.AssignedAt = &now
	}
	session.UpdatedAt = now

	return nil
}

func (s *Store) ListPending(_ context.Context) ([]*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []*model.Session
	for _, session := range s.sortedSessions() {
		if session.Status == model.SessionStatusPending {
			copied := *session
			pending = append(pending, &copied)
		}
	}
	return pending, nil
}

func (s *Store) ListByUser(_ context.Context, userID uuid.UUID, role model.SessionRole) ([]*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Session
	for _, session := range s.sortedSessions() {
		isMentee := session.StudentID == userID
		isMentor := session.MentorID != nil && *session.MentorID == userID

		var match bool
		switch role {
		case model.SessionRoleMentee:
			match = isMentee
		case model.SessionRoleMentor:
			match = isMentor
		default:
			match = isMentee || isMentor
		}

		if match {
			copied := *session
			out = append(out, &copied)
		}
	}
	return out, nil
}

// sortedSessions детерминированный порядок обхода: по времени создания, затем по ID
func (s *Store) sortedSessions() []*model.Session {
	list := make([]*model.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		list = append(list, session)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID.String() < list[j].ID.String()
	})
	return list
}

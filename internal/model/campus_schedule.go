package model

import (
	"fmt"
	"time"

	// Часовые пояса кампусов должны разрешаться независимо от хоста
	_ "time/tzdata"
)

// CampusSchedule рабочий календарь кампуса.
// Время задаётся в локальном поясе кампуса (Timezone).
type CampusSchedule struct {
	Campus      string         `json:"campus"`
	Timezone    string         `json:"timezone"` // IANA, например Asia/Kolkata; пусто = UTC
	WorkingDays []time.Weekday `json:"working_days"`
	StartTime   Clock          `json:"start_time"`
	EndTime     Clock          `json:"end_time"`
	BreakStart  *Clock         `json:"break_start,omitempty"`
	BreakEnd    *Clock         `json:"break_end,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Validate проверяет инварианты расписания
func (s *CampusSchedule) Validate() error {
	if s.StartTime < 0 || s.EndTime > MinutesPerDay {
		return fmt.Errorf("campus %s: working hours out of day bounds: %w", s.Campus, ErrInvalidInput)
	}

	if s.StartTime >= s.EndTime {
		return fmt.Errorf("campus %s: start time %s must be before end time %s: %w",
			s.Campus, s.StartTime, s.EndTime, ErrInvalidInput)
	}

	if (s.BreakStart == nil) != (s.BreakEnd == nil) {
		return fmt.Errorf("campus %s: break needs both start and end: %w", s.Campus, ErrInvalidInput)
	}

	if s.HasBreak() {
		if *s.BreakStart < s.StartTime || *s.BreakStart >= *s.BreakEnd || *s.BreakEnd > s.EndTime {
			return fmt.Errorf("campus %s: break %s-%s must lie within working hours: %w",
				s.Campus, *s.BreakStart, *s.BreakEnd, ErrInvalidInput)
		}
	}

	if _, err := s.Location(); err != nil {
		return err
	}

	return nil
}

// HasBreak сообщает, задан ли перерыв
func (s *CampusSchedule) HasBreak() bool {
	return s.BreakStart != nil && s.BreakEnd != nil
}

// InBreak проверяет, что момент начала шага попадает в [BreakStart, BreakEnd)
func (s *CampusSchedule) InBreak(start Clock) bool {
	if !s.HasBreak() {
		return false
	}
	return start >= *s.BreakStart && start < *s.BreakEnd
}

// IsWorkingDay проверяет, работает ли кампус в этот день недели
func (s *CampusSchedule) IsWorkingDay(weekday time.Weekday) bool {
	for _, d := range s.WorkingDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// Location возвращает часовой пояс кампуса
func (s *CampusSchedule) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("campus %s: timezone %q: %w", s.Campus, s.Timezone, ErrInvalidInput)
	}
	return loc, nil
}

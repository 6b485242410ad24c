package model

import (
	"time"

	"github.com/google/uuid"
)

// PreferenceState явное предпочтение ментора для слота
type PreferenceState string

const (
	PreferenceAvailable   PreferenceState = "available"
	PreferenceUnavailable PreferenceState = "unavailable"
	PreferenceUnset       PreferenceState = "unset" // следовать расписанию кампуса
)

// MentorPreference предпочтение ментора на день недели и время начала слота
type MentorPreference struct {
	MentorID  uuid.UUID       `json:"mentor_id"`
	Weekday   time.Weekday    `json:"weekday"`
	StartTime Clock           `json:"start_time"`
	State     PreferenceState `json:"state"`
}

type preferenceKey struct {
	weekday time.Weekday
	start   Clock
}

// PreferenceSet предпочтения одного ментора
type PreferenceSet struct {
	states map[preferenceKey]PreferenceState
}

// NewPreferenceSet собирает набор из записей
func NewPreferenceSet(prefs []MentorPreference) PreferenceSet {
	set := PreferenceSet{states: make(map[preferenceKey]PreferenceState, len(prefs))}
	for _, p := range prefs {
		set.states[preferenceKey{weekday: p.Weekday, start: p.StartTime}] = p.State
	}
	return set
}

// Lookup возвращает состояние; без записи - PreferenceUnset
func (s PreferenceSet) Lookup(weekday time.Weekday, start Clock) PreferenceState {
	state, ok := s.states[preferenceKey{weekday: weekday, start: start}]
	if !ok || state == "" {
		return PreferenceUnset
	}
	return state
}

// Allows сообщает, можно ли предлагать слот
func (s PreferenceSet) Allows(weekday time.Weekday, start Clock) bool {
	return s.Lookup(weekday, start) != PreferenceUnavailable
}

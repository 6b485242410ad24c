package model

import "github.com/google/uuid"

// AvailableSlot вычисляемый слот ментора на дату. Не сохраняется в БД.
type AvailableSlot struct {
	Date         Date      `json:"date"`
	StartTime    Clock     `json:"start_time"`
	EndTime      Clock     `json:"end_time"`
	MentorID     uuid.UUID `json:"mentor_id"`
	CapacityUsed int       `json:"capacity_used"`
	CapacityMax  int       `json:"capacity_max"`
	IsAvailable  bool      `json:"is_available"`
}

// Interval возвращает интервал слота
func (s AvailableSlot) Interval() Interval {
	return Interval{Start: s.StartTime, End: s.EndTime}
}

// AvailabilitySummary сводка доступности ментора за период
type AvailabilitySummary struct {
	TotalDays          int     `json:"total_days"`
	DaysWithSlots      int     `json:"days_with_slots"`
	TotalSlots         int     `json:"total_slots"`
	DaysOnLeave        int     `json:"days_on_leave"`
	AverageSlotsPerDay float64 `json:"average_slots_per_day"`
}

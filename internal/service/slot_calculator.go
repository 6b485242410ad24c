package service

import (
	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/google/uuid"
)

// DayRequest входные данные расчёта слотов одного ментора на один день
type DayRequest struct {
	Schedule    *model.CampusSchedule
	MentorID    uuid.UUID
	Date        model.Date
	OnLeave     bool
	Bookings    []model.Interval // уже отфильтрованы по занимающим статусам
	Duration    int              // минуты
	CapacityMax int
}

// ComputeDaySlots нарезает рабочий день кампуса на слоты длительностью Duration.
//
// Шаги идут от StartTime с шагом Duration, пока конец шага не выходит за EndTime.
// Шаг, начало которого попадает в перерыв [BreakStart, BreakEnd), не предлагается.
// CapacityUsed - число броней, пересекающихся со слотом (полуоткрытые интервалы).
// В отпуск и в нерабочий день возвращается пустой список.
func ComputeDaySlots(req DayRequest) []model.AvailableSlot {
	slots := []model.AvailableSlot{}

	sched := req.Schedule
	if sched == nil || req.OnLeave || req.Duration <= 0 || req.CapacityMax <= 0 {
		return slots
	}

	if !sched.IsWorkingDay(req.Date.Weekday()) {
		return slots
	}

	for start := sched.StartTime; start.Add(req.Duration) <= sched.EndTime; start = start.Add(req.Duration) {
		if sched.InBreak(start) {
			continue
		}

		slot := model.Interval{Start: start, End: start.Add(req.Duration)}
		used := slot.CountOverlaps(req.Bookings)

		slots = append(slots, model.AvailableSlot{
			Date:         req.Date,
			StartTime:    slot.Start,
			EndTime:      slot.End,
			MentorID:     req.MentorID,
			CapacityUsed: used,
			CapacityMax:  req.CapacityMax,
			IsAvailable:  used < req.CapacityMax,
		})
	}

	return slots
}

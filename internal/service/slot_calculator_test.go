package service_test

import (
	"testing"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/Freeeeeet/mentor_scheduler/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayRequest(sched model.CampusSchedule, duration int) service.DayRequest {
	return service.DayRequest{
		Schedule:    &sched,
		MentorID:    uuid.New(),
		Date:        monday,
		Duration:    duration,
		CapacityMax: 1,
	}
}

func TestComputeDaySlots_WorkingDayNoBreak(t *testing.T) {
	slots := service.ComputeDaySlots(dayRequest(puneSchedule("09:00", "12:00"), 60))

	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, starts(slots))
	for _, s := range slots {
		assert.True(t, s.IsAvailable)
		assert.Equal(t, 0, s.CapacityUsed)
		assert.Equal(t, 1, s.CapacityMax)
		assert.Equal(t, monday, s.Date)
	}
}

func TestComputeDaySlots_TilesWholeDay(t *testing.T) {
	schedules := []model.CampusSchedule{
		puneSchedule("09:00", "18:00"),
		puneSchedule("08:15", "17:40"),
		puneSchedule("10:00", "10:45"),
	}
	durations := []int{1, 15, 25, 30, 45, 60, 90, 120, 600}

	for _, sched := range schedules {
		for _, duration := range durations {
			slots := service.ComputeDaySlots(dayRequest(sched, duration))

			span := int(sched.EndTime - sched.StartTime)
			require.Len(t, slots, span/duration, "%s-%s / %d", sched.StartTime, sched.EndTime, duration)

			next := sched.StartTime
			for _, s := range slots {
				assert.Equal(t, next, s.StartTime, "no gaps or overlaps")
				assert.Equal(t, duration, int(s.EndTime-s.StartTime))
				assert.LessOrEqual(t, s.EndTime, sched.EndTime, "no partial slot at the boundary")
				next = s.EndTime
			}
		}
	}
}

func TestComputeDaySlots_BoundaryExcludedByOneMinute(t *testing.T) {
	slots := service.ComputeDaySlots(dayRequest(puneSchedule("09:00", "11:59"), 60))
	assert.Equal(t, []string{"09:00", "10:00"}, starts(slots))
}

func TestComputeDaySlots_BreakExclusion(t *testing.T) {
	sched := puneSchedule("09:00", "13:00")
	sched.BreakStart = clockPtr("11:00")
	sched.BreakEnd = clockPtr("12:00")

	slots := service.ComputeDaySlots(dayRequest(sched, 60))
	assert.Equal(t, []string{"09:00", "10:00", "12:00"}, starts(slots))
}

func TestComputeDaySlots_BreakDropsStepsRegardlessOfBookings(t *testing.T) {
	sched := puneSchedule("09:00", "18:00")
	sched.BreakStart = clockPtr("13:00")
	sched.BreakEnd = clockPtr("14:00")

	for _, duration := range []int{15, 20, 30, 60} {
		req := dayRequest(sched, duration)
		req.Bookings = []model.Interval{{Start: clock("12:00"), End: clock("15:00")}}

		for _, s := range service.ComputeDaySlots(req) {
			assert.False(t, sched.InBreak(s.StartTime), "duration %d offered %s", duration, s.StartTime)
		}
	}
}

func TestComputeDaySlots_FullSlot(t *testing.T) {
	req := dayRequest(puneSchedule("09:00", "12:00"), 60)
	req.Bookings = []model.Interval{{Start: clock("10:00"), End: clock("11:00")}}

	slots := service.ComputeDaySlots(req)
	require.Len(t, slots, 3)

	assert.True(t, slots[0].IsAvailable)
	assert.False(t, slots[1].IsAvailable)
	assert.Equal(t, 1, slots[1].CapacityUsed)
	assert.True(t, slots[2].IsAvailable)
}

func TestComputeDaySlots_TouchingIntervalsDoNotConflict(t *testing.T) {
	req := dayRequest(puneSchedule("08:00", "13:00"), 60)
	req.Bookings = []model.Interval{
		{Start: clock("09:00"), End: clock("10:00")},
		{Start: clock("10:00"), End: clock("11:00")},
	}

	used := map[string]int{}
	for _, s := range service.ComputeDaySlots(req) {
		used[s.StartTime.String()] = s.CapacityUsed
	}

	assert.Equal(t, map[string]int{
		"08:00": 0,
		"09:00": 1,
		"10:00": 1,
		"11:00": 0,
		"12:00": 0,
	}, used)
}

func TestComputeDaySlots_GroupCapacity(t *testing.T) {
	req := dayRequest(puneSchedule("09:00", "10:00"), 60)
	req.CapacityMax = 3
	req.Bookings = []model.Interval{
		{Start: clock("09:00"), End: clock("10:00")},
		{Start: clock("09:30"), End: clock("10:30")},
	}

	slots := service.ComputeDaySlots(req)
	require.Len(t, slots, 1)
	assert.Equal(t, 2, slots[0].CapacityUsed)
	assert.True(t, slots[0].IsAvailable)

	req.Bookings = append(req.Bookings, model.Interval{Start: clock("08:30"), End: clock("09:15")})
	slots = service.ComputeDaySlots(req)
	assert.False(t, slots[0].IsAvailable)
}

func TestComputeDaySlots_LeaveDay(t *testing.T) {
	req := dayRequest(puneSchedule("09:00", "18:00"), 60)
	req.OnLeave = true
	req.Bookings = []model.Interval{{Start: clock("10:00"), End: clock("11:00")}}

	slots := service.ComputeDaySlots(req)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestComputeDaySlots_NonWorkingDay(t *testing.T) {
	req := dayRequest(puneSchedule("09:00", "18:00"), 60)
	req.Date = saturday
	assert.Empty(t, service.ComputeDaySlots(req))
}

func TestComputeDaySlots_InvalidParameters(t *testing.T) {
	req := dayRequest(puneSchedule("09:00", "18:00"), 0)
	assert.Empty(t, service.ComputeDaySlots(req))

	req = dayRequest(puneSchedule("09:00", "18:00"), 60)
	req.CapacityMax = 0
	assert.Empty(t, service.ComputeDaySlots(req))

	req.Schedule = nil
	assert.Empty(t, service.ComputeDaySlots(req))
}

func TestComputeDaySlots_Idempotent(t *testing.T) {
	sched := puneSchedule("09:00", "18:00")
	sched.BreakStart = clockPtr("13:00")
	sched.BreakEnd = clockPtr("14:00")

	req := dayRequest(sched, 45)
	req.Bookings = []model.Interval{{Start: clock("09:30"), End: clock("10:15")}}

	assert.Equal(t, service.ComputeDaySlots(req), service.ComputeDaySlots(req))
}

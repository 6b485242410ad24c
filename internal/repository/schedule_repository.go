package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/Freeeeeet/mentor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

// GetSchedule получает рабочий календарь кампуса
func (r *ScheduleRepository) GetSchedule(ctx context.Context, campus string) (*model.CampusSchedule, error) {
	query := `
		SELECT campus, timezone, working_days, start_time, end_time, break_start, break_end, updated_at
		FROM campus_schedules
		WHERE campus = $1
	`

	var (
		sched       model.CampusSchedule
		workingDays []int16
		start, end  pgtype.Time
		breakStart  pgtype.Time
		breakEnd    pgtype.Time
	)
	err := r.pool.QueryRow(ctx, query, campus).Scan(
		&sched.Campus,
		&sched.Timezone,
		&workingDays,
		&start,
		&end,
		&breakStart,
		&breakEnd,
		&sched.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, fmt.Errorf("campus schedule %s: %w", campus, model.ErrNotFound)
		}
		return nil, fmt.Errorf("get campus schedule: %w", err)
	}

	sched.WorkingDays = make([]time.Weekday, 0, len(workingDays))
	for _, d := range workingDays {
		sched.WorkingDays = append(sched.WorkingDays, time.Weekday(d))
	}
	sched.StartTime = clockFromPg(start)
	sched.EndTime = clockFromPg(end)
	sched.BreakStart = clockPtrFromPg(breakStart)
	sched.BreakEnd = clockPtrFromPg(breakEnd)

	return &sched, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LeaveRepository struct {
	pool *pgxpool.Pool
}

func NewLeaveRepository(pool *pgxpool.Pool) *LeaveRepository {
	return &LeaveRepository{pool: pool}
}

// IsOnLeave проверяет, есть ли у ментора одобренный отпуск на дату
func (r *LeaveRepository) IsOnLeave(ctx context.Context, mentorID uuid.UUID, date model.Date) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_records
			WHERE user_id = $1
			  AND status = $2
			  AND start_date <= $3
			  AND end_date >= $3
		)
	`

	var onLeave bool
	err := r.pool.QueryRow(ctx, query, mentorID, string(model.LeaveStatusApproved), pgDate(date)).Scan(&onLeave)
	if err != nil {
		return false, fmt.Errorf("check leave: %w", err)
	}

	return onLeave, nil
}

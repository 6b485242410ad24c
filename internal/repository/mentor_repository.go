package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/Freeeeeet/mentor_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MentorRepository struct {
	pool *pgxpool.Pool
}

func NewMentorRepository(pool *pgxpool.Pool) *MentorRepository {
	return &MentorRepository{pool: pool}
}

// ListEligibleMentors возвращает активных менторов кампуса, доступных для автоназначения.
// Порядок стабильный: он определяет, кто получит слот при равных условиях.
func (r *MentorRepository) ListEligibleMentors(ctx context.Context, campus string) ([]uuid.UUID, error) {
	query := `
		SELECT id
		FROM mentors
		WHERE campus = $1
		  AND is_active
		  AND NOT excluded_from_auto_assign
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, campus)
	if err != nil {
		return nil, fmt.Errorf("list eligible mentors: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan mentor: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mentors: %w", err)
	}

	return ids, nil
}

// GetMentorCampus получает кампус активного ментора
func (r *MentorRepository) GetMentorCampus(ctx context.Context, mentorID uuid.UUID) (string, error) {
	query := `
		SELECT campus
		FROM mentors
		WHERE id = $1
		  AND is_active
	`

	var campus string
	err := r.pool.QueryRow(ctx, query, mentorID).Scan(&campus)
	if err != nil {
		if base.IsNotFound(err) {
			return "", fmt.Errorf("mentor %s: %w", mentorID, model.ErrNotFound)
		}
		return "", fmt.Errorf("get mentor campus: %w", err)
	}

	return campus, nil
}

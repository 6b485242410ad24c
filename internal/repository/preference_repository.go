package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PreferenceRepository struct {
	pool *pgxpool.Pool
}

func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

// GetPreferences получает явные предпочтения ментора.
// Отсутствие строки означает PreferenceUnset и сюда не попадает.
func (r *PreferenceRepository) GetPreferences(ctx context.Context, mentorID uuid.UUID) ([]model.MentorPreference, error) {
	query := `
		SELECT weekday, start_time, is_available
		FROM mentor_preferences
		WHERE mentor_id = $1
	`

	rows, err := r.pool.Query(ctx, query, mentorID)
	if err != nil {
		return nil, fmt.Errorf("get mentor preferences: %w", err)
	}
	defer rows.Close()

	var prefs []model.MentorPreference
	for rows.Next() {
		var (
			weekday   int16
			start     pgtype.Time
			available bool
		)
		if err := rows.Scan(&weekday, &start, &available); err != nil {
			return nil, fmt.Errorf("scan mentor preference: %w", err)
		}

		state := model.PreferenceUnavailable
		if available {
			state = model.PreferenceAvailable
		}

		prefs = append(prefs, model.MentorPreference{
			MentorID:  mentorID,
			Weekday:   time.Weekday(weekday),
			StartTime: clockFromPg(start),
			State:     state,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mentor preferences: %w", err)
	}

	return prefs, nil
}

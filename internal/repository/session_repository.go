package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/Freeeeeet/mentor_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionColumns = `
	id, mentor_id, student_id, campus, topic, description, priority,
	scheduled_date, scheduled_time, duration_minutes, status, assigned_at, created_at, updated_at
`

type SessionRepository struct {
	db *base.Repository
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: base.NewRepository(pool)}
}

// GetSession получает сессию по ID
func (r *SessionRepository) GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	session, err := scanSession(r.db.Pool().QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, fmt.Errorf("session %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	return session, nil
}

// GetOccupyingBookings возвращает интервалы занимающих сессий ментора на дату
func (r *SessionRepository) GetOccupyingBookings(ctx context.Context, mentorID uuid.UUID, date model.Date) ([]model.Interval, error) {
	intervals, err := occupyingIntervals(ctx, r.db.Pool(), mentorID, date, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("get occupying bookings: %w", err)
	}
	return intervals, nil
}

// CommitSession записывает сессию в слот, если там осталась ёмкость.
// Конкурирующие записи к одному ментору на одну дату сериализуются
// транзакционной advisory-блокировкой, а занятость перепроверяется уже под ней.
func (r *SessionRepository) CommitSession(ctx context.Context, req model.CommitRequest) error {
	capacity := req.Capacity
	if capacity <= 0 {
		capacity = 1
	}

	return r.db.InTx(ctx, func(tx pgx.Tx) error {
		var (
			status   model.SessionStatus
			duration int
		)
		err := tx.QueryRow(ctx,
			`SELECT status, duration_minutes FROM sessions WHERE id = $1 FOR UPDATE`,
			req.SessionID,
		).Scan(&status, &duration)
		if err != nil {
			if base.IsNotFound(err) {
				return fmt.Errorf("session %s: %w", req.SessionID, model.ErrNotFound)
			}
			return fmt.Errorf("lock session: %w", err)
		}

		if !status.IsSchedulable() {
			return fmt.Errorf("session %s is %s: %w", req.SessionID, status, model.ErrSessionNotSchedulable)
		}

		if duration <= 0 {
			duration = model.DefaultSessionDurationMinutes
		}

		lockKey := req.MentorID.String() + ":" + req.Date.String()
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
			return fmt.Errorf("lock mentor day: %w", err)
		}

		occupied, err := occupyingIntervals(ctx, tx, req.MentorID, req.Date, req.SessionID)
		if err != nil {
			return fmt.Errorf("recheck occupying bookings: %w", err)
		}

		slot := model.Interval{Start: req.Start, End: req.Start.Add(duration)}
		if slot.CountOverlaps(occupied) >= capacity {
			return fmt.Errorf("mentor %s at %s %s: %w", req.MentorID, req.Date, req.Start, model.ErrSlotTaken)
		}

		_, err = tx.Exec(ctx, `
			UPDATE sessions
			SET mentor_id = $2,
			    scheduled_date = $3,
			    scheduled_time = $4,
			    status = $5,
			    assigned_at = COALESCE(assigned_at, NOW()),
			    updated_at = NOW()
			WHERE id = $1
			  AND status IN ($6, $7)
		`, req.SessionID, req.MentorID, pgDate(req.Date), pgTime(req.Start), string(model.SessionStatusScheduled),
			string(model.SessionStatusPending), string(model.SessionStatusAssigned))
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}

		return nil
	})
}

// ListPending возвращает сессии, ожидающие назначения, от старых к новым
func (r *SessionRepository) ListPending(ctx context.Context) ([]*model.Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE status = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Pool().Query(ctx, query, string(model.SessionStatusPending))
	if err != nil {
		return nil, fmt.Errorf("list pending sessions: %w", err)
	}

	return collectSessions(rows)
}

// ListByUser возвращает сессии пользователя в роли студента, ментора или в обеих
func (r *SessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, role model.SessionRole) ([]*model.Session, error) {
	var filter string
	switch role {
	case model.SessionRoleMentee:
		filter = `student_id = $1`
	case model.SessionRoleMentor:
		filter = `mentor_id = $1`
	default:
		filter = `(student_id = $1 OR mentor_id = $1)`
	}

	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE ` + filter + `
		ORDER BY created_at, id
	`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions by user: %w", err)
	}

	return collectSessions(rows)
}

func occupyingIntervals(ctx context.Context, q base.Querier, mentorID uuid.UUID, date model.Date, except uuid.UUID) ([]model.Interval, error) {
	statuses := make([]string, len(model.OccupyingStatuses))
	for i, s := range model.OccupyingStatuses {
		statuses[i] = string(s)
	}

	rows, err := q.Query(ctx, `
		SELECT scheduled_time, duration_minutes
		FROM sessions
		WHERE mentor_id = $1
		  AND scheduled_date = $2
		  AND scheduled_time IS NOT NULL
		  AND status = ANY($3)
		  AND id <> $4
		ORDER BY scheduled_time
	`, mentorID, pgDate(date), statuses, except)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	intervals := []model.Interval{}
	for rows.Next() {
		var (
			start    pgtype.Time
			duration int
		)
		if err := rows.Scan(&start, &duration); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		if duration <= 0 {
			duration = model.DefaultSessionDurationMinutes
		}
		begin := clockFromPg(start)
		intervals = append(intervals, model.Interval{Start: begin, End: begin.Add(duration)})
	}

	return intervals, rows.Err()
}

func scanSession(row pgx.Row) (*model.Session, error) {
	var (
		session       model.Session
		scheduledDate pgtype.Date
		scheduledTime pgtype.Time
	)
	err := row.Scan(
		&session.ID,
		&session.MentorID,
		&session.StudentID,
		&session.Campus,
		&session.Topic,
		&session.Description,
		&session.Priority,
		&scheduledDate,
		&scheduledTime,
		&session.DurationMinutes,
		&session.Status,
		&session.AssignedAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.ScheduledDate = datePtrFromPg(scheduledDate)
	session.ScheduledTime = clockPtrFromPg(scheduledTime)

	return &session, nil
}

func collectSessions(rows pgx.Rows) ([]*model.Session, error) {
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

package repository

import (
	"time"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/jackc/pgx/v5/pgtype"
)

const microsPerMinute = int64(time.Minute / time.Microsecond)

// Колонки TIME хранят время суток в микросекундах, DATE - календарный день

func pgTime(c model.Clock) pgtype.Time {
	return pgtype.Time{Microseconds: int64(c) * microsPerMinute, Valid: true}
}

func clockFromPg(t pgtype.Time) model.Clock {
	return model.Clock(t.Microseconds / microsPerMinute)
}

func clockPtrFromPg(t pgtype.Time) *model.Clock {
	if !t.Valid {
		return nil
	}
	c := clockFromPg(t)
	return &c
}

func pgDate(d model.Date) pgtype.Date {
	return pgtype.Date{Time: d.Time(), Valid: true}
}

func dateFromPg(d pgtype.Date) model.Date {
	return model.DateOf(d.Time)
}

func datePtrFromPg(d pgtype.Date) *model.Date {
	if !d.Valid {
		return nil
	}
	date := dateFromPg(d)
	return &date
}

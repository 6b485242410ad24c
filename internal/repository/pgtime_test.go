package repository

import (
	"testing"
	"time"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestClockConversion(t *testing.T) {
	c := model.NewClock(14, 30)

	pg := pgTime(c)
	assert.True(t, pg.Valid)
	assert.Equal(t, int64(14*3600+30*60)*1_000_000, pg.Microseconds)
	assert.Equal(t, c, clockFromPg(pg))

	assert.Nil(t, clockPtrFromPg(pgtype.Time{}))
	assert.Equal(t, c, *clockPtrFromPg(pg))
}

func TestDateConversion(t *testing.T) {
	d := model.NewDate(2026, time.October, 19)

	pg := pgDate(d)
	assert.True(t, pg.Valid)
	assert.True(t, d.Equal(dateFromPg(pg)))

	// pgx может вернуть DATE в локальном поясе: берётся только календарный день
	local := pgtype.Date{Time: time.Date(2026, time.October, 19, 0, 0, 0, 0, time.FixedZone("IST", 19800)), Valid: true}
	assert.Equal(t, "2026-10-19", dateFromPg(local).String())

	assert.Nil(t, datePtrFromPg(pgtype.Date{}))
}

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-15")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2026, time.October, 15), d)
	assert.Equal(t, time.Thursday, d.Weekday())
	assert.Equal(t, "2026-10-15", d.String())

	_, err = ParseDate("15.10.2026")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2026, time.December, 30)
	next := d.AddDays(3)

	assert.Equal(t, NewDate(2027, time.January, 2), next)
	assert.True(t, d.Before(next))
	assert.True(t, next.After(d))
	assert.Equal(t, 3, d.DaysUntil(next))
	assert.Equal(t, -1, d.Compare(next))
	assert.Equal(t, 0, d.Compare(NewDate(2026, time.December, 30)))
}

func TestDateIn(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC 15 октября - уже 16 октября в Индии
	instant := time.Date(2026, time.October, 15, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, NewDate(2026, time.October, 16), DateIn(instant, kolkata))
	assert.Equal(t, NewDate(2026, time.October, 15), DateIn(instant, time.UTC))
}

func TestDateAt(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	at := NewDate(2026, time.October, 16).At(NewClock(9, 30), kolkata)
	assert.Equal(t, time.Date(2026, time.October, 16, 4, 0, 0, 0, time.UTC), at.UTC())
}

func TestDateJSON(t *testing.T) {
	data, err := json.Marshal(NewDate(2026, time.March, 1))
	require.NoError(t, err)
	assert.JSONEq(t, `"2026-03-01"`, string(data))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-02"`), &d))
	assert.Equal(t, NewDate(2026, time.March, 2), d)
}

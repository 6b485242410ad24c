package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

// Clock настенное время с точностью до минуты (минуты от полуночи)
type Clock int

// NewClock создаёт Clock из часов и минут
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock разбирает строку формата HH:MM
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("parse clock %q: %w", s, ErrInvalidInput)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("parse clock %q: hour: %w", s, ErrInvalidInput)
	}

	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("parse clock %q: minute: %w", s, ErrInvalidInput)
	}

	return NewClock(hour, minute), nil
}

// Hour возвращает часы
func (c Clock) Hour() int { return int(c) / 60 }

// Minute возвращает минуты внутри часа
func (c Clock) Minute() int { return int(c) % 60 }

// Add сдвигает время на указанное число минут
func (c Clock) Add(minutes int) Clock { return c + Clock(minutes) }

// String форматирует время как HH:MM.
// Конец сессии может выйти за полночь, тогда часы будут >= 24.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Interval полуоткрытый интервал [Start, End)
type Interval struct {
	Start Clock `json:"start_time"`
	End   Clock `json:"end_time"`
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов.
// Соприкасающиеся интервалы (10:00-11:00 и 11:00-12:00) не пересекаются.
func (i Interval) Overlaps(other Interval) bool {
	return !(i.End <= other.Start || i.Start >= other.End)
}

// CountOverlaps считает интервалы из списка, пересекающиеся с i
func (i Interval) CountOverlaps(intervals []Interval) int {
	count := 0
	for _, other := range intervals {
		if i.Overlaps(other) {
			count++
		}
	}
	return count
}

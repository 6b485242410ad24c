package model

import (
	"fmt"
	"strconv"
	"strings"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ParsePriority разбирает приоритет; пустая строка = medium
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p, nil
	default:
		return "", fmt.Errorf("unknown priority %q: %w", s, ErrInvalidInput)
	}
}

// PriorityPolicy максимальное окно поиска (в днях) для каждого приоритета
type PriorityPolicy map[Priority]int

// DefaultPriorityPolicy исходная таблица ожидания
func DefaultPriorityPolicy() PriorityPolicy {
	return PriorityPolicy{
		PriorityUrgent: 1,
		PriorityHigh:   2,
		PriorityMedium: 3,
		PriorityLow:    7,
	}
}

// MaxWaitDays возвращает окно поиска для приоритета
func (p PriorityPolicy) MaxWaitDays(priority Priority) (int, error) {
	days, ok := p[priority]
	if !ok {
		return 0, fmt.Errorf("no wait window for priority %q: %w", priority, ErrInvalidInput)
	}
	return days, nil
}

// ParsePriorityPolicy разбирает строку вида "urgent=1,high=2,medium=3,low=7".
// Неуказанные приоритеты берутся из DefaultPriorityPolicy.
func ParsePriorityPolicy(s string) (PriorityPolicy, error) {
	policy := DefaultPriorityPolicy()
	if strings.TrimSpace(s) == "" {
		return policy, nil
	}

	for _, pair := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("priority policy entry %q: expected name=days: %w", pair, ErrInvalidInput)
		}

		priority, err := ParsePriority(name)
		if err != nil || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("priority policy entry %q: %w", pair, ErrInvalidInput)
		}

		days, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || days < 0 {
			return nil, fmt.Errorf("priority policy entry %q: days must be a non-negative integer: %w", pair, ErrInvalidInput)
		}

		policy[priority] = days
	}

	return policy, nil
}

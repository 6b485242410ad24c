package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/google/uuid"
)

// ConflictValidator перепроверяет слот прямо перед записью.
// Это проверка "по возможности": окончательную гарантию даёт условная запись
// SessionRepository.CommitSession.
type ConflictValidator struct {
	bookings BookingReader
	capacity int
}

func NewConflictValidator(bookings BookingReader, capacity int) *ConflictValidator {
	if capacity <= 0 {
		capacity = 1
	}
	return &ConflictValidator{bookings: bookings, capacity: capacity}
}

// IsSlotStillFree каждый раз заново читает брони ментора на дату.
// Ошибка хранилища возвращается как есть: ни "свободно", ни "занято" не предполагается.
func (v *ConflictValidator) IsSlotStillFree(ctx context.Context, mentorID uuid.UUID, date model.Date, slot model.Interval) (bool, error) {
	if slot.End <= slot.Start {
		return false, fmt.Errorf("slot %s-%s is empty: %w", slot.Start, slot.End, model.ErrInvalidInput)
	}

	bookings, err := v.bookings.GetOccupyingBookings(ctx, mentorID, date)
	if err != nil {
		return false, fmt.Errorf("get occupying bookings: %w", err)
	}

	return slot.CountOverlaps(bookings) < v.capacity, nil
}

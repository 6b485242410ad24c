package model

import "errors"

var (
	// ErrNotFound неизвестный кампус, ментор или сессия
	ErrNotFound = errors.New("not found")

	// ErrSlotTaken слот заняли между выбором и подтверждением
	ErrSlotTaken = errors.New("slot is no longer available")

	// ErrSessionNotSchedulable сессия не в статусе pending/assigned
	ErrSessionNotSchedulable = errors.New("session cannot be scheduled in its current status")

	// ErrInvalidInput некорректные параметры запроса
	ErrInvalidInput = errors.New("invalid input")
)

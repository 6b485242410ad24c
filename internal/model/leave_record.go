package model

import (
	"time"

	"github.com/google/uuid"
)

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
	LeaveStatusExpired  LeaveStatus = "expired"
)

// LeaveRecord отпуск ментора, даты включительно
type LeaveRecord struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	StartDate Date        `json:"start_date"`
	EndDate   Date        `json:"end_date"`
	Status    LeaveStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// Blocks сообщает, блокирует ли отпуск планирование на дату.
// Учитываются только одобренные отпуска.
func (l *LeaveRecord) Blocks(date Date) bool {
	if l.Status != LeaveStatusApproved {
		return false
	}
	return !date.Before(l.StartDate) && !date.After(l.EndDate)
}

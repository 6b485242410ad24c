package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AutoAssigner назначает ожидающей сессии самый ранний свободный слот
type AutoAssigner struct {
	sessions     SessionRepository
	schedules    ScheduleRepository
	mentors      MentorDirectory
	availability *AvailabilityService
	validator    *ConflictValidator
	policy       model.PriorityPolicy
	now          func() time.Time
	logger       *zap.Logger
}

func NewAutoAssigner(
	sessions SessionRepository,
	schedules ScheduleRepository,
	mentors MentorDirectory,
	availability *AvailabilityService,
	validator *ConflictValidator,
	policy model.PriorityPolicy,
	logger *zap.Logger,
) *AutoAssigner {
	if policy == nil {
		policy = model.DefaultPriorityPolicy()
	}

	return &AutoAssigner{
		sessions:     sessions,
		schedules:    schedules,
		mentors:      mentors,
		availability: availability,
		validator:    validator,
		policy:       policy,
		now:          time.Now,
		logger:       logger,
	}
}

// WithClock подменяет источник текущего времени
func (a *AutoAssigner) WithClock(now func() time.Time) *AutoAssigner {
	a.now = now
	return a
}

// AutoAssign ищет слот в окне [сегодня, сегодня+maxWaitDays(priority)] и
// записывает в него сессию. false без ошибки означает "свободных слотов нет",
// статус сессии при этом не меняется.
func (a *AutoAssigner) AutoAssign(ctx context.Context, sessionID uuid.UUID, campus string, priority model.Priority) (bool, error) {
	waitDays, err := a.policy.MaxWaitDays(priority)
	if err != nil {
		return false, err
	}

	session, err := a.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("get session: %w", err)
	}

	if !session.Status.IsSchedulable() {
		return false, fmt.Errorf("session %s is %s: %w", sessionID, session.Status, model.ErrSessionNotSchedulable)
	}

	sched, err := a.schedules.GetSchedule(ctx, campus)
	if err != nil {
		return false, fmt.Errorf("get campus schedule %s: %w", campus, err)
	}

	loc, err := sched.Location()
	if err != nil {
		return false, err
	}

	now := a.now().In(loc)
	today := model.DateOf(now)
	nowClock := model.NewClock(now.Hour(), now.Minute())

	mentors, err := a.mentors.ListEligibleMentors(ctx, campus)
	if err != nil {
		return false, fmt.Errorf("list eligible mentors: %w", err)
	}

	if len(mentors) == 0 {
		a.logger.Info("No eligible mentors for auto-assignment",
			zap.String("session_id", sessionID.String()),
			zap.String("campus", campus))
		return false, nil
	}

	duration := session.Duration()
	slots, err := a.availability.FindSlots(ctx, campus, mentors, today, today.AddDays(waitDays), duration)
	if err != nil {
		return false, fmt.Errorf("find slots: %w", err)
	}

	for _, slot := range slots {
		if !slot.IsAvailable {
			continue
		}

		// Сегодняшние слоты, которые уже начались, не предлагаем
		if slot.Date.Equal(today) && slot.StartTime <= nowClock {
			continue
		}

		free, err := a.validator.IsSlotStillFree(ctx, slot.MentorID, slot.Date, slot.Interval())
		if err != nil {
			return false, fmt.Errorf("validate slot: %w", err)
		}
		if !free {
			continue
		}

		err = a.sessions.CommitSession(ctx, model.CommitRequest{
			SessionID: sessionID,
			MentorID:  slot.MentorID,
			Date:      slot.Date,
			Start:     slot.StartTime,
			Capacity:  a.availability.Capacity(),
		})
		if errors.Is(err, model.ErrSlotTaken) {
			a.logger.Info("Slot taken concurrently, trying next candidate",
				zap.String("session_id", sessionID.String()),
				zap.String("mentor_id", slot.MentorID.String()),
				zap.String("date", slot.Date.String()),
				zap.String("start_time", slot.StartTime.String()))
			continue
		}
		if err != nil {
			return false, fmt.Errorf("commit session: %w", err)
		}

		a.logger.Info("Session auto-assigned",
			zap.String("session_id", sessionID.String()),
			zap.String("mentor_id", slot.MentorID.String()),
			zap.String("date", slot.Date.String()),
			zap.String("start_time", slot.StartTime.String()),
			zap.String("priority", string(priority)))

		return true, nil
	}

	a.logger.Info("No free slot in auto-assignment window",
		zap.String("session_id", sessionID.String()),
		zap.String("campus", campus),
		zap.String("priority", string(priority)),
		zap.Int("window_days", waitDays))

	return false, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultUpcomingLimit сколько ближайших сессий показывать
const DefaultUpcomingLimit = 10

type BookingService struct {
	sessions     SessionRepository
	mentors      MentorDirectory
	availability *AvailabilityService
	validator    *ConflictValidator
	now          func() time.Time
	logger       *zap.Logger
}

func NewBookingService(
	sessions SessionRepository,
	mentors MentorDirectory,
	availability *AvailabilityService,
	validator *ConflictValidator,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		sessions:     sessions,
		mentors:      mentors,
		availability: availability,
		validator:    validator,
		now:          time.Now,
		logger:       logger,
	}
}

// WithClock подменяет источник текущего времени
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// ConfirmBooking записывает сессию в выбранный пользователем слот.
// Слот должен быть из тех, что движок предлагает ментору кампуса сессии,
// и ещё не начаться по часам кампуса, иначе model.ErrInvalidInput.
// Если слот заняли, возвращается model.ErrSlotTaken: другой слот молча
// не подбирается, пользователь должен выбрать заново.
func (s *BookingService) ConfirmBooking(ctx context.Context, sessionID, mentorID uuid.UUID, date model.Date, start model.Clock) (*model.Session, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if !session.Status.IsSchedulable() {
		return nil, fmt.Errorf("session %s is %s: %w", sessionID, session.Status, model.ErrSessionNotSchedulable)
	}

	if err := RequireCampusMentor(ctx, s.mentors, mentorID, session.Campus); err != nil {
		return nil, err
	}

	sched, err := s.availability.Schedule(ctx, session.Campus)
	if err != nil {
		return nil, err
	}

	loc, err := sched.Location()
	if err != nil {
		return nil, err
	}

	now := s.now().In(loc)
	today := model.DateOf(now)
	if date.Before(today) || (date.Equal(today) && start <= model.NewClock(now.Hour(), now.Minute())) {
		return nil, fmt.Errorf("slot %s %s has already started in campus %s: %w", date, start, session.Campus, model.ErrInvalidInput)
	}

	offered, err := s.availability.OfferedSlot(ctx, sched, mentorID, date, start, session.Duration())
	if err != nil {
		return nil, fmt.Errorf("resolve slot: %w", err)
	}
	if !offered.IsAvailable {
		return nil, fmt.Errorf("mentor %s at %s %s: %w", mentorID, date, start, model.ErrSlotTaken)
	}

	free, err := s.validator.IsSlotStillFree(ctx, mentorID, date, offered.Interval())
	if err != nil {
		return nil, fmt.Errorf("validate slot: %w", err)
	}
	if !free {
		return nil, fmt.Errorf("mentor %s at %s %s: %w", mentorID, date, start, model.ErrSlotTaken)
	}

	err = s.sessions.CommitSession(ctx, model.CommitRequest{
		SessionID: sessionID,
		MentorID:  mentorID,
		Date:      date,
		Start:     start,
		Capacity:  s.availability.Capacity(),
	})
	if err != nil {
		if errors.Is(err, model.ErrSlotTaken) {
			s.logger.Info("Booking lost the race for slot",
				zap.String("session_id", sessionID.String()),
				zap.String("mentor_id", mentorID.String()),
				zap.String("date", date.String()),
				zap.String("start_time", start.String()))
		} else {
			s.logger.Error("Failed to commit booking",
				zap.String("session_id", sessionID.String()),
				zap.Error(err))
		}
		return nil, fmt.Errorf("commit session: %w", err)
	}

	s.logger.Info("Booking confirmed",
		zap.String("session_id", sessionID.String()),
		zap.String("mentor_id", mentorID.String()),
		zap.String("date", date.String()),
		zap.String("start_time", start.String()))

	booked := *session
	booked.MentorID = &mentorID
	booked.ScheduledDate = &date
	booked.ScheduledTime = &start
	booked.Status = model.SessionStatusScheduled

	return &booked, nil
}

// UpcomingSessions ближайшие сессии пользователя: будущие scheduled,
// assigned в ожидании времени, а для менторов ещё и pending.
// "Сегодня" и время сессии считаются в поясе кампуса сессии.
func (s *BookingService) UpcomingSessions(ctx context.Context, userID uuid.UUID, role model.SessionRole, limit int) ([]*model.Session, error) {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}

	sessions, err := s.sessions.ListByUser(ctx, userID, role)
	if err != nil {
		return nil, fmt.Errorf("list sessions by user: %w", err)
	}

	now := s.now()
	withPending := role == model.SessionRoleMentor || role == model.SessionRoleAll
	zones := make(map[string]*time.Location)

	type entry struct {
		session *model.Session
		key     time.Time
	}

	upcoming := make([]entry, 0, len(sessions))
	for _, session := range sessions {
		switch session.Status {
		case model.SessionStatusScheduled:
			if session.ScheduledDate == nil {
				continue
			}
			loc := s.campusLocation(ctx, session.Campus, zones)
			if !session.ScheduledDate.Before(model.DateIn(now, loc)) {
				upcoming = append(upcoming, entry{session: session, key: scheduledAt(session, loc)})
			}
		case model.SessionStatusAssigned:
			upcoming = append(upcoming, entry{session: session, key: session.CreatedAt})
		case model.SessionStatusPending:
			if withPending {
				upcoming = append(upcoming, entry{session: session, key: session.CreatedAt})
			}
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].key.Before(upcoming[j].key)
	})

	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}

	out := make([]*model.Session, len(upcoming))
	for i, e := range upcoming {
		out[i] = e.session
	}
	return out, nil
}

// campusLocation пояс кампуса с кэшем на время запроса.
// Если календарь не прочитать, сессия считается в UTC.
func (s *BookingService) campusLocation(ctx context.Context, campus string, zones map[string]*time.Location) *time.Location {
	if loc, ok := zones[campus]; ok {
		return loc
	}

	loc := time.UTC
	sched, err := s.availability.Schedule(ctx, campus)
	if err == nil {
		loc, err = sched.Location()
	}
	if err != nil {
		s.logger.Warn("Falling back to UTC for campus time zone",
			zap.String("campus", campus),
			zap.Error(err))
		loc = time.UTC
	}

	zones[campus] = loc
	return loc
}

// scheduledAt абсолютный момент начала сессии в поясе кампуса
func scheduledAt(s *model.Session, loc *time.Location) time.Time {
	var clock model.Clock
	if s.ScheduledTime != nil {
		clock = *s.ScheduledTime
	}
	return s.ScheduledDate.At(clock, loc)
}

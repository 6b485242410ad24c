package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxRangeDays предел длины диапазона дат в одном запросе
	MaxRangeDays = 92

	defaultFetchConcurrency = 8
)

// AvailabilityOptions настройки агрегатора
type AvailabilityOptions struct {
	CapacityMax      int // сессий на слот, по умолчанию 1
	FetchConcurrency int // параллельных выборок по менторам
}

// AvailabilityService собирает слоты по менторам и датам.
// Только чтение: ничего не пишет в хранилище.
type AvailabilityService struct {
	schedules   ScheduleRepository
	leaves      LeaveRepository
	bookings    BookingReader
	preferences PreferenceRepository
	capacity    int
	concurrency int
	logger      *zap.Logger
}

func NewAvailabilityService(
	schedules ScheduleRepository,
	leaves LeaveRepository,
	bookings BookingReader,
	preferences PreferenceRepository,
	opts AvailabilityOptions,
	logger *zap.Logger,
) *AvailabilityService {
	if opts.CapacityMax <= 0 {
		opts.CapacityMax = 1
	}
	if opts.FetchConcurrency <= 0 {
		opts.FetchConcurrency = defaultFetchConcurrency
	}

	return &AvailabilityService{
		schedules:   schedules,
		leaves:      leaves,
		bookings:    bookings,
		preferences: preferences,
		capacity:    opts.CapacityMax,
		concurrency: opts.FetchConcurrency,
		logger:      logger,
	}
}

// Capacity возвращает ёмкость слота
func (s *AvailabilityService) Capacity() int {
	return s.capacity
}

// mentorDay результат по одному ментору на одну дату
type mentorDay struct {
	slots   []model.AvailableSlot
	onLeave bool
}

// FindSlots возвращает слоты всех менторов за диапазон [from, to] включительно,
// отсортированные по дате, времени начала, затем свободные раньше заполненных.
//
// Ошибка выборки по ментору не прерывает запрос: его слоты на эту дату
// пропускаются, а результат остаётся корректным, хотя и неполным.
func (s *AvailabilityService) FindSlots(ctx context.Context, campus string, mentors []uuid.UUID, from, to model.Date, duration int) ([]model.AvailableSlot, error) {
	dates, err := dateRange(from, to)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d: %w", duration, model.ErrInvalidInput)
	}

	sched, err := s.loadSchedule(ctx, campus)
	if err != nil {
		return nil, err
	}

	days, err := s.collect(ctx, sched, mentors, dates, duration)
	if err != nil {
		return nil, err
	}

	slots := []model.AvailableSlot{}
	for _, mentorDays := range days {
		for _, day := range mentorDays {
			slots = append(slots, day.slots...)
		}
	}

	SortSlots(slots)
	return slots, nil
}

// FindSlotsForMentor слоты одного ментора на одну дату
func (s *AvailabilityService) FindSlotsForMentor(ctx context.Context, mentorID uuid.UUID, campus string, date model.Date, duration int) ([]model.AvailableSlot, error) {
	return s.FindSlots(ctx, campus, []uuid.UUID{mentorID}, date, date, duration)
}

// NextAvailableSlot первый свободный слот ментора в [from, from+days)
func (s *AvailabilityService) NextAvailableSlot(ctx context.Context, mentorID uuid.UUID, campus string, from model.Date, days, duration int) (*model.AvailableSlot, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d: %w", days, model.ErrInvalidInput)
	}

	slots, err := s.FindSlots(ctx, campus, []uuid.UUID{mentorID}, from, from.AddDays(days-1), duration)
	if err != nil {
		return nil, err
	}

	for i := range slots {
		if slots[i].IsAvailable {
			slot := slots[i]
			return &slot, nil
		}
	}

	return nil, nil
}

// Summary сводка доступности ментора за days дней начиная с from
func (s *AvailabilityService) Summary(ctx context.Context, mentorID uuid.UUID, campus string, from model.Date, days, duration int) (*model.AvailabilitySummary, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d: %w", days, model.ErrInvalidInput)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d: %w", duration, model.ErrInvalidInput)
	}

	dates, err := dateRange(from, from.AddDays(days-1))
	if err != nil {
		return nil, err
	}

	sched, err := s.loadSchedule(ctx, campus)
	if err != nil {
		return nil, err
	}

	collected, err := s.collect(ctx, sched, []uuid.UUID{mentorID}, dates, duration)
	if err != nil {
		return nil, err
	}

	summary := &model.AvailabilitySummary{TotalDays: days}
	for _, day := range collected[0] {
		if day.onLeave {
			summary.DaysOnLeave++
			continue
		}

		free := 0
		for _, slot := range day.slots {
			if slot.IsAvailable {
				free++
			}
		}
		if free > 0 {
			summary.DaysWithSlots++
			summary.TotalSlots += free
		}
	}

	if summary.DaysWithSlots > 0 {
		avg := float64(summary.TotalSlots) / float64(summary.DaysWithSlots)
		summary.AverageSlotsPerDay = math.Round(avg*10) / 10
	}

	return summary, nil
}

// Schedule возвращает проверенный календарь кампуса
func (s *AvailabilityService) Schedule(ctx context.Context, campus string) (*model.CampusSchedule, error) {
	return s.loadSchedule(ctx, campus)
}

// OfferedSlot возвращает слот ментора на дату, начинающийся ровно в start,
// если такой слот вообще предлагается (рабочий день, часы кампуса, не перерыв,
// сетка длительности, нет отпуска, нет запрета в предпочтениях).
// Слот может оказаться заполненным: это видно по IsAvailable.
// В отличие от FindSlots ошибки выборки возвращаются, а не пропускаются.
func (s *AvailabilityService) OfferedSlot(ctx context.Context, sched *model.CampusSchedule, mentorID uuid.UUID, date model.Date, start model.Clock, duration int) (*model.AvailableSlot, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d: %w", duration, model.ErrInvalidInput)
	}

	prefs, err := s.preferences.GetPreferences(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("get mentor preferences: %w", err)
	}

	day, err := s.mentorDay(ctx, sched, mentorID, date, duration, model.NewPreferenceSet(prefs))
	if err != nil {
		return nil, err
	}
	if day.onLeave {
		return nil, fmt.Errorf("mentor %s is on leave on %s: %w", mentorID, date, model.ErrInvalidInput)
	}

	for i := range day.slots {
		if day.slots[i].StartTime == start {
			slot := day.slots[i]
			return &slot, nil
		}
	}

	return nil, fmt.Errorf("no %d-minute slot at %s on %s in campus %s: %w",
		duration, start, date, sched.Campus, model.ErrInvalidInput)
}

// SortSlots упорядочивает слоты: дата, время начала, свободные раньше заполненных.
// Сортировка стабильная, поэтому при равенстве сохраняется порядок менторов.
func SortSlots(slots []model.AvailableSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if c := a.Date.Compare(b.Date); c != 0 {
			return c < 0
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.IsAvailable && !b.IsAvailable
	})
}

func (s *AvailabilityService) loadSchedule(ctx context.Context, campus string) (*model.CampusSchedule, error) {
	sched, err := s.schedules.GetSchedule(ctx, campus)
	if err != nil {
		return nil, fmt.Errorf("get campus schedule %s: %w", campus, err)
	}
	if err := sched.Validate(); err != nil {
		return nil, err
	}
	return sched, nil
}

// collect параллельно по менторам считает слоты на каждую дату.
// Результат индексирован [ментор][дата], поэтому порядок детерминирован.
func (s *AvailabilityService) collect(ctx context.Context, sched *model.CampusSchedule, mentors []uuid.UUID, dates []model.Date, duration int) ([][]mentorDay, error) {
	result := make([][]mentorDay, len(mentors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, mentorID := range mentors {
		i, mentorID := i, mentorID
		g.Go(func() error {
			result[i] = s.mentorDays(gctx, sched, mentorID, dates, duration)
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *AvailabilityService) mentorDays(ctx context.Context, sched *model.CampusSchedule, mentorID uuid.UUID, dates []model.Date, duration int) []mentorDay {
	days := make([]mentorDay, len(dates))

	prefs, err := s.preferences.GetPreferences(ctx, mentorID)
	if err != nil {
		s.logger.Warn("Skipping mentor: failed to load preferences",
			zap.String("mentor_id", mentorID.String()),
			zap.String("campus", sched.Campus),
			zap.Error(err))
		return days
	}
	prefSet := model.NewPreferenceSet(prefs)

	for i, date := range dates {
		day, err := s.mentorDay(ctx, sched, mentorID, date, duration, prefSet)
		if err != nil {
			s.logger.Warn("Skipping mentor day: fetch failed",
				zap.String("mentor_id", mentorID.String()),
				zap.String("date", date.String()),
				zap.Error(err))
			continue
		}
		days[i] = day
	}

	return days
}

func (s *AvailabilityService) mentorDay(ctx context.Context, sched *model.CampusSchedule, mentorID uuid.UUID, date model.Date, duration int, prefs model.PreferenceSet) (mentorDay, error) {
	onLeave, err := s.leaves.IsOnLeave(ctx, mentorID, date)
	if err != nil {
		return mentorDay{}, fmt.Errorf("check leave: %w", err)
	}
	if onLeave {
		return mentorDay{onLeave: true}, nil
	}

	if !sched.IsWorkingDay(date.Weekday()) {
		return mentorDay{}, nil
	}

	bookings, err := s.bookings.GetOccupyingBookings(ctx, mentorID, date)
	if err != nil {
		return mentorDay{}, fmt.Errorf("get occupying bookings: %w", err)
	}

	slots := ComputeDaySlots(DayRequest{
		Schedule:    sched,
		MentorID:    mentorID,
		Date:        date,
		Bookings:    bookings,
		Duration:    duration,
		CapacityMax: s.capacity,
	})

	allowed := slots[:0]
	for _, slot := range slots {
		if prefs.Allows(date.Weekday(), slot.StartTime) {
			allowed = append(allowed, slot)
		}
	}

	return mentorDay{slots: allowed}, nil
}

func dateRange(from, to model.Date) ([]model.Date, error) {
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("date range bounds are required: %w", model.ErrInvalidInput)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("date range %s..%s is reversed: %w", from, to, model.ErrInvalidInput)
	}

	days := from.DaysUntil(to) + 1
	if days > MaxRangeDays {
		return nil, fmt.Errorf("date range of %d days exceeds %d: %w", days, MaxRangeDays, model.ErrInvalidInput)
	}

	dates := make([]model.Date, 0, days)
	for d := from; !d.After(to); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates, nil
}

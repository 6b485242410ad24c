package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PendingSessions источник сессий, ожидающих назначения
type PendingSessions interface {
	ListPending(ctx context.Context) ([]*model.Session, error)
}

// Assigner назначает слот одной сессии
type Assigner interface {
	AutoAssign(ctx context.Context, sessionID uuid.UUID, campus string, priority model.Priority) (bool, error)
}

// SweepResult итог одного прохода автоназначения
type SweepResult struct {
	Pending  int
	Assigned int
	Failed   int
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sessions PendingSessions
	assigner Assigner
	cron     *cron.Cron
	enabled  bool
	ctx      context.Context
	logger   *zap.Logger
}

// NewScheduler создаёт новый планировщик. Пустое расписание отключает проход.
// Расписание в формате cron с секундами: "0 */15 * * * *".
func NewScheduler(sessions PendingSessions, assigner Assigner, cronExpr string, logger *zap.Logger) (*Scheduler, error) {
	cl := cronLogger{logger: logger.Sugar()}
	s := &Scheduler{
		sessions: sessions,
		assigner: assigner,
		cron:     cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.SkipIfStillRunning(cl))),
		ctx:      context.Background(),
		logger:   logger,
	}

	if cronExpr == "" {
		return s, nil
	}

	if _, err := s.cron.AddFunc(cronExpr, func() { s.Sweep(s.ctx) }); err != nil {
		return nil, fmt.Errorf("parse auto-assign schedule %q: %w", cronExpr, err)
	}
	s.enabled = true

	return s, nil
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	if !s.enabled {
		s.logger.Info("Auto-assign sweep disabled")
		return
	}

	s.logger.Info("Starting background scheduler")
	s.ctx = ctx
	s.cron.Start()
}

// Stop останавливает фоновые задачи и дожидается текущего прохода
func (s *Scheduler) Stop() {
	if !s.enabled {
		return
	}

	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

// Sweep пытается назначить все ожидающие сессии.
// Ошибка по одной сессии логируется и не прерывает проход.
func (s *Scheduler) Sweep(ctx context.Context) SweepResult {
	var result SweepResult

	pending, err := s.sessions.ListPending(ctx)
	if err != nil {
		s.logger.Error("Failed to list pending sessions", zap.Error(err))
		return result
	}
	result.Pending = len(pending)

	for _, session := range pending {
		if ctx.Err() != nil {
			s.logger.Info("Auto-assign sweep cancelled")
			break
		}

		priority := session.Priority
		if priority == "" {
			priority = model.PriorityMedium
		}

		ok, err := s.assigner.AutoAssign(ctx, session.ID, session.Campus, priority)
		if err != nil {
			result.Failed++
			s.logger.Error("Auto-assign failed",
				zap.String("session_id", session.ID.String()),
				zap.String("campus", session.Campus),
				zap.Error(err))
			continue
		}
		if ok {
			result.Assigned++
		}
	}

	s.logger.Info("Auto-assign sweep completed",
		zap.Int("pending", result.Pending),
		zap.Int("assigned", result.Assigned),
		zap.Int("failed", result.Failed))

	return result
}

// cronLogger перенаправляет журнал cron в zap
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}

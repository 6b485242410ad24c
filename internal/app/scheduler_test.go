package app

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/Freeeeeet/mentor_scheduler/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type assignCall struct {
	sessionID uuid.UUID
	campus    string
	priority  model.Priority
}

type fakeAssigner struct {
	results map[uuid.UUID]bool
	errs    map[uuid.UUID]error
	calls   []assignCall
}

func (f *fakeAssigner) AutoAssign(_ context.Context, sessionID uuid.UUID, campus string, priority model.Priority) (bool, error) {
	f.calls = append(f.calls, assignCall{sessionID: sessionID, campus: campus, priority: priority})
	return f.results[sessionID], f.errs[sessionID]
}

type failingLister struct{}

func (failingLister) ListPending(context.Context) ([]*model.Session, error) {
	return nil, errors.New("connection refused")
}

func pending(store *memory.Store, campus string, priority model.Priority) uuid.UUID {
	id := uuid.New()
	store.PutSession(model.Session{
		ID:        id,
		StudentID: uuid.New(),
		Campus:    campus,
		Priority:  priority,
		Status:    model.SessionStatusPending,
	})
	return id
}

func TestSweep(t *testing.T) {
	store := memory.NewStore()
	assigned := pending(store, "Pune", model.PriorityUrgent)
	waiting := pending(store, "Pune", "")
	broken := pending(store, "Bangalore", model.PriorityLow)

	done := uuid.New()
	store.PutSession(model.Session{ID: done, StudentID: uuid.New(), Campus: "Pune", Status: model.SessionStatusCompleted})

	assigner := &fakeAssigner{
		results: map[uuid.UUID]bool{assigned: true},
		errs:    map[uuid.UUID]error{broken: errors.New("schedule unavailable")},
	}

	s, err := NewScheduler(store, assigner, "", zap.NewNop())
	require.NoError(t, err)

	result := s.Sweep(context.Background())
	assert.Equal(t, SweepResult{Pending: 3, Assigned: 1, Failed: 1}, result)

	require.Len(t, assigner.calls, 3)
	byID := make(map[uuid.UUID]assignCall)
	for _, c := range assigner.calls {
		byID[c.sessionID] = c
	}
	assert.Equal(t, model.PriorityUrgent, byID[assigned].priority)
	assert.Equal(t, model.PriorityMedium, byID[waiting].priority, "empty priority falls back to medium")
	assert.Equal(t, "Bangalore", byID[broken].campus)
	assert.NotContains(t, byID, done)
}

func TestSweep_ListFailure(t *testing.T) {
	assigner := &fakeAssigner{}
	s, err := NewScheduler(failingLister{}, assigner, "", zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, SweepResult{}, s.Sweep(context.Background()))
	assert.Empty(t, assigner.calls)
}

func TestSweep_Cancelled(t *testing.T) {
	store := memory.NewStore()
	pending(store, "Pune", model.PriorityHigh)

	assigner := &fakeAssigner{}
	s, err := NewScheduler(store, assigner, "", zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := s.Sweep(ctx)
	assert.Equal(t, 1, result.Pending)
	assert.Empty(t, assigner.calls)
}

func TestNewScheduler_CronExpression(t *testing.T) {
	_, err := NewScheduler(memory.NewStore(), &fakeAssigner{}, "every tuesday", zap.NewNop())
	assert.Error(t, err)

	s, err := NewScheduler(memory.NewStore(), &fakeAssigner{}, "0 */15 * * * *", zap.NewNop())
	require.NoError(t, err)
	assert.True(t, s.enabled)

	s.Start(context.Background())
	s.Stop()

	disabled, err := NewScheduler(memory.NewStore(), &fakeAssigner{}, "", zap.NewNop())
	require.NoError(t, err)
	assert.False(t, disabled.enabled)
	disabled.Start(context.Background())
	disabled.Stop()
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, parseLevel("").Level())
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug").Level())
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn").Level())
	assert.Equal(t, zapcore.InfoLevel, parseLevel("loud").Level())
}

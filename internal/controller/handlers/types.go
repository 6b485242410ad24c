package handlers

import (
	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/Freeeeeet/mentor_scheduler/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	availability    *service.AvailabilityService
	assigner        *service.AutoAssigner
	validator       *service.ConflictValidator
	mentors         service.MentorDirectory
	admins          map[int64]struct{}
	defaultDuration int
	logger          *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	availability *service.AvailabilityService,
	assigner *service.AutoAssigner,
	validator *service.ConflictValidator,
	mentors service.MentorDirectory,
	adminIDs []int64,
	defaultDuration int,
	logger *zap.Logger,
) *Handlers {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	if defaultDuration <= 0 {
		defaultDuration = model.DefaultSessionDurationMinutes
	}

	return &Handlers{
		availability:    availability,
		assigner:        assigner,
		validator:       validator,
		mentors:         mentors,
		admins:          admins,
		defaultDuration: defaultDuration,
		logger:          logger,
	}
}

// IsAdmin проверяет, есть ли пользователь в списке администраторов
func (h *Handlers) IsAdmin(telegramID int64) bool {
	_, ok := h.admins[telegramID]
	return ok
}

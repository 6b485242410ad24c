package controller

import (
	"context"

	"github.com/Freeeeeet/mentor_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/mentor_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	availability *service.AvailabilityService,
	assigner *service.AutoAssigner,
	validator *service.ConflictValidator,
	mentors service.MentorDirectory,
	adminIDs []int64,
	defaultDuration int,
	logger *zap.Logger,
) *BotController {
	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		availability,
		assigner,
		validator,
		mentors,
		adminIDs,
		defaultDuration,
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleHelp)

	// Команды с аргументами
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/slots", bot.MatchTypePrefix, c.handlers.HandleSlots)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/free", bot.MatchTypePrefix, c.handlers.HandleFree)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/autoassign", bot.MatchTypePrefix, c.handlers.HandleAutoAssign)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "slots", Description: "📅 Slots on a campus for a date"},
		{Command: "free", Description: "🔎 Check that a slot is still free"},
		{Command: "autoassign", Description: "⚡ Auto-assign a pending session"},
		{Command: "help", Description: "❓ Command reference"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting admin bot")
	c.bot.Start(ctx)
}

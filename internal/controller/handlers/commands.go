package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const helpText = "📚 Scheduling admin commands:\n\n" +
	"/slots <campus> <YYYY-MM-DD> [minutes] - slots of every eligible mentor on a date\n" +
	"/free <mentor-id> <YYYY-MM-DD> <HH:MM> <minutes> - is the slot still free right now\n" +
	"/autoassign <session-id> <campus> [priority] - assign the earliest free slot\n" +
	"/help - show this help\n\n" +
	"Priorities: urgent, high, medium (default), low"

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleSlots обрабатывает команду /slots
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, h.SlotsReply(ctx, update.Message.Text))
}

// HandleFree обрабатывает команду /free
func (h *Handlers) HandleFree(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, h.FreeReply(ctx, update.Message.Text))
}

// HandleAutoAssign обрабатывает команду /autoassign
func (h *Handlers) HandleAutoAssign(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, h.AutoAssignReply(ctx, update.Message.Text))
}

// SlotsReply текст ответа на /slots <campus> <date> [minutes]
func (h *Handlers) SlotsReply(ctx context.Context, text string) string {
	args := commandArgs(text)
	if len(args) < 2 || len(args) > 3 {
		return "Usage: /slots <campus> <YYYY-MM-DD> [minutes]"
	}

	campus := args[0]
	date, err := model.ParseDate(args[1])
	if err != nil {
		return "❌ Date must look like 2026-10-19"
	}

	duration := h.defaultDuration
	if len(args) == 3 {
		if duration, err = parseMinutes(args[2]); err != nil {
			return "❌ " + err.Error()
		}
	}

	mentors, err := h.mentors.ListEligibleMentors(ctx, campus)
	if err != nil {
		return h.failure("list mentors", err)
	}
	if len(mentors) == 0 {
		return fmt.Sprintf("No eligible mentors in %s", campus)
	}

	slots, err := h.availability.FindSlots(ctx, campus, mentors, date, date, duration)
	if err != nil {
		return h.failure("find slots", err)
	}

	return FormatSlots(campus, date, duration, slots)
}

// FreeReply текст ответа на /free <mentor-id> <date> <HH:MM> <minutes>
func (h *Handlers) FreeReply(ctx context.Context, text string) string {
	args := commandArgs(text)
	if len(args) != 4 {
		return "Usage: /free <mentor-id> <YYYY-MM-DD> <HH:MM> <minutes>"
	}

	mentorID, err := uuid.Parse(args[0])
	if err != nil {
		return "❌ Mentor id must be a UUID"
	}
	date, err := model.ParseDate(args[1])
	if err != nil {
		return "❌ Date must look like 2026-10-19"
	}
	start, err := model.ParseClock(args[2])
	if err != nil {
		return "❌ Time must look like 14:30"
	}
	minutes, err := parseMinutes(args[3])
	if err != nil {
		return "❌ " + err.Error()
	}

	slot := model.Interval{Start: start, End: start.Add(minutes)}
	free, err := h.validator.IsSlotStillFree(ctx, mentorID, date, slot)
	if err != nil {
		return h.failure("check slot", err)
	}

	if free {
		return fmt.Sprintf("🟢 %s %s is free", date, FormatInterval(slot))
	}
	return fmt.Sprintf("🔴 %s %s is taken", date, FormatInterval(slot))
}

// AutoAssignReply текст ответа на /autoassign <session-id> <campus> [priority]
func (h *Handlers) AutoAssignReply(ctx context.Context, text string) string {
	args := commandArgs(text)
	if len(args) < 2 || len(args) > 3 {
		return "Usage: /autoassign <session-id> <campus> [priority]"
	}

	sessionID, err := uuid.Parse(args[0])
	if err != nil {
		return "❌ Session id must be a UUID"
	}

	var raw string
	if len(args) == 3 {
		raw = args[2]
	}
	priority, err := model.ParsePriority(raw)
	if err != nil {
		return "❌ Priority must be one of urgent, high, medium, low"
	}

	assigned, err := h.assigner.AutoAssign(ctx, sessionID, args[1], priority)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return "❌ Session or campus not found"
	case errors.Is(err, model.ErrSessionNotSchedulable):
		return "❌ Session is no longer waiting for a slot"
	case err != nil:
		return h.failure("auto-assign", err)
	}

	if !assigned {
		return fmt.Sprintf("⏳ No free slot within the %s window, session stays pending", priority)
	}

	h.logger.Info("Session auto-assigned from admin bot", zap.String("session_id", sessionID.String()))
	return "✅ Session scheduled"
}

func (h *Handlers) failure(op string, err error) string {
	if errors.Is(err, model.ErrInvalidInput) {
		return "❌ " + err.Error()
	}
	if errors.Is(err, model.ErrNotFound) {
		return "❌ Not found"
	}
	h.logger.Error("Admin command failed", zap.String("op", op), zap.Error(err))
	return "❌ Something went wrong. Try again later."
}

// commandArgs аргументы после имени команды; "/slots@bot Pune" тоже поддерживается
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

func parseMinutes(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > model.MinutesPerDay {
		return 0, fmt.Errorf("minutes must be between 1 and %d", model.MinutesPerDay)
	}
	return n, nil
}

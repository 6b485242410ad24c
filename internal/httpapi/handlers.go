package httpapi

import (
	"fmt"
	"net/http"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/Freeeeeet/mentor_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type campusSlotsQuery struct {
	From     string `form:"from" binding:"required"`
	To       string `form:"to" binding:"required"`
	Duration int    `form:"duration" binding:"omitempty,min=1,max=1440"`
}

type mentorSlotsQuery struct {
	Campus   string `form:"campus" binding:"required"`
	Date     string `form:"date" binding:"required"`
	Duration int    `form:"duration" binding:"omitempty,min=1,max=1440"`
}

type mentorWindowQuery struct {
	Campus   string `form:"campus" binding:"required"`
	From     string `form:"from" binding:"required"`
	Days     int    `form:"days" binding:"omitempty,min=1,max=92"`
	Duration int    `form:"duration" binding:"omitempty,min=1,max=1440"`
}

type confirmRequest struct {
	MentorID  string `json:"mentor_id" binding:"required,uuid"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
}

type autoAssignRequest struct {
	Campus   string `json:"campus" binding:"required"`
	Priority string `json:"priority"`
}

type upcomingQuery struct {
	Role  string `form:"role" binding:"omitempty,oneof=mentee mentor all"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

const defaultWindowDays = 7

// CampusSlots слоты всех доступных менторов кампуса за период
func (h *Handler) CampusSlots(c *gin.Context) {
	var q campusSlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	from, err := model.ParseDate(q.From)
	if err != nil {
		badRequest(c, err)
		return
	}
	to, err := model.ParseDate(q.To)
	if err != nil {
		badRequest(c, err)
		return
	}

	campus := c.Param("campus")
	mentors, err := h.mentors.ListEligibleMentors(c.Request.Context(), campus)
	if err != nil {
		h.writeError(c, err)
		return
	}

	slots, err := h.availability.FindSlots(c.Request.Context(), campus, mentors, from, to, h.duration(q.Duration))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// MentorSlots слоты ментора на дату
func (h *Handler) MentorSlots(c *gin.Context) {
	mentorID, ok := uuidParam(c, "mentorID")
	if !ok {
		return
	}

	var q mentorSlotsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	date, err := model.ParseDate(q.Date)
	if err != nil {
		badRequest(c, err)
		return
	}

	if err := service.RequireCampusMentor(c.Request.Context(), h.mentors, mentorID, q.Campus); err != nil {
		h.writeError(c, err)
		return
	}

	slots, err := h.availability.FindSlotsForMentor(c.Request.Context(), mentorID, q.Campus, date, h.duration(q.Duration))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// NextSlot ближайший свободный слот ментора
func (h *Handler) NextSlot(c *gin.Context) {
	mentorID, q, from, ok := h.bindWindow(c)
	if !ok {
		return
	}

	slot, err := h.availability.NextAvailableSlot(c.Request.Context(), mentorID, q.Campus, from, windowDays(q.Days), h.duration(q.Duration))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slot": slot})
}

// Summary сводка доступности ментора
func (h *Handler) Summary(c *gin.Context) {
	mentorID, q, from, ok := h.bindWindow(c)
	if !ok {
		return
	}

	summary, err := h.availability.Summary(c.Request.Context(), mentorID, q.Campus, from, windowDays(q.Days), h.duration(q.Duration))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ConfirmBooking записывает сессию в выбранный пользователем слот
func (h *Handler) ConfirmBooking(c *gin.Context) {
	sessionID, ok := uuidParam(c, "sessionID")
	if !ok {
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	mentorID, err := uuid.Parse(req.MentorID)
	if err != nil {
		badRequest(c, err)
		return
	}
	date, err := model.ParseDate(req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}
	start, err := model.ParseClock(req.StartTime)
	if err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.booking.ConfirmBooking(c.Request.Context(), sessionID, mentorID, date, start)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// AutoAssign назначает сессии ближайший слот в окне приоритета
func (h *Handler) AutoAssign(c *gin.Context) {
	sessionID, ok := uuidParam(c, "sessionID")
	if !ok {
		return
	}

	var req autoAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	priority, err := model.ParsePriority(req.Priority)
	if err != nil {
		badRequest(c, err)
		return
	}

	assigned, err := h.assigner.AutoAssign(c.Request.Context(), sessionID, req.Campus, priority)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"assigned":   assigned,
	})
}

// Upcoming ближайшие сессии пользователя
func (h *Handler) Upcoming(c *gin.Context) {
	userID, ok := uuidParam(c, "userID")
	if !ok {
		return
	}

	var q upcomingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	role, err := model.ParseSessionRole(q.Role)
	if err != nil {
		badRequest(c, err)
		return
	}

	sessions, err := h.booking.UpcomingSessions(c.Request.Context(), userID, role, q.Limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if sessions == nil {
		sessions = []*model.Session{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *Handler) bindWindow(c *gin.Context) (uuid.UUID, mentorWindowQuery, model.Date, bool) {
	var q mentorWindowQuery

	mentorID, ok := uuidParam(c, "mentorID")
	if !ok {
		return uuid.Nil, q, model.Date{}, false
	}

	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return uuid.Nil, q, model.Date{}, false
	}

	from, err := model.ParseDate(q.From)
	if err != nil {
		badRequest(c, err)
		return uuid.Nil, q, model.Date{}, false
	}

	if err := service.RequireCampusMentor(c.Request.Context(), h.mentors, mentorID, q.Campus); err != nil {
		h.writeError(c, err)
		return uuid.Nil, q, model.Date{}, false
	}

	return mentorID, q, from, true
}

func (h *Handler) duration(requested int) int {
	if requested > 0 {
		return requested
	}
	if h.defaultDuration > 0 {
		return h.defaultDuration
	}
	return model.DefaultSessionDurationMinutes
}

func windowDays(days int) int {
	if days > 0 {
		return days
	}
	return defaultWindowDays
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, fmt.Errorf("%s: %w", name, err))
		return uuid.Nil, false
	}
	return id, true
}

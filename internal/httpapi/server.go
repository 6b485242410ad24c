// Package httpapi JSON API для интерфейса бронирования
package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/mentor_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler обработчики API
type Handler struct {
	availability    *service.AvailabilityService
	assigner        *service.AutoAssigner
	booking         *service.BookingService
	mentors         service.MentorDirectory
	defaultDuration int
	logger          *zap.Logger
}

func NewHandler(
	availability *service.AvailabilityService,
	assigner *service.AutoAssigner,
	booking *service.BookingService,
	mentors service.MentorDirectory,
	defaultDuration int,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		availability:    availability,
		assigner:        assigner,
		booking:         booking,
		mentors:         mentors,
		defaultDuration: defaultDuration,
		logger:          logger,
	}
}

// NewRouter регистрирует маршруты API
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))

	api := r.Group("/api/v1")
	{
		api.GET("/campuses/:campus/slots", h.CampusSlots)

		api.GET("/mentors/:mentorID/slots", h.MentorSlots)
		api.GET("/mentors/:mentorID/next-slot", h.NextSlot)
		api.GET("/mentors/:mentorID/summary", h.Summary)

		api.POST("/sessions/:sessionID/confirm", h.ConfirmBooking)
		api.POST("/sessions/:sessionID/auto-assign", h.AutoAssign)

		api.GET("/users/:userID/upcoming", h.Upcoming)
	}

	return r
}

// NewServer HTTP-сервер с таймаутами
func NewServer(addr string, router http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

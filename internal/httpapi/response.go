package httpapi

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/mentor_scheduler/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse представляет ответ с ошибкой API
type ErrorResponse struct {
	// Код ошибки для программной обработки, например SLOT_TAKEN
	Code string `json:"code"`

	// Человекочитаемое сообщение
	Message string `json:"message"`

	// Дополнительные детали (опционально)
	Details string `json:"details,omitempty"`
}

const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeSlotTaken      = "SLOT_TAKEN"
	CodeNotSchedulable = "SESSION_NOT_SCHEDULABLE"
	CodeInternalError  = "INTERNAL_ERROR"
)

// SlotTakenMessage показывается пользователю, проигравшему гонку за слот
const SlotTakenMessage = "this slot was just taken, please pick another"

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    CodeInvalidRequest,
		Message: "invalid request",
		Details: err.Error(),
	})
}

// writeError переводит доменную ошибку в HTTP-ответ.
// Неизвестные ошибки логируются и наружу не раскрываются.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		badRequest(c, err)
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    CodeNotFound,
			Message: "not found",
			Details: err.Error(),
		})
	case errors.Is(err, model.ErrSlotTaken):
		c.JSON(http.StatusConflict, ErrorResponse{
			Code:    CodeSlotTaken,
			Message: SlotTakenMessage,
		})
	case errors.Is(err, model.ErrSessionNotSchedulable):
		c.JSON(http.StatusConflict, ErrorResponse{
			Code:    CodeNotSchedulable,
			Message: "session can no longer be scheduled",
			Details: err.Error(),
		})
	default:
		h.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    CodeInternalError,
			Message: "unexpected error, try again later",
		})
	}
}

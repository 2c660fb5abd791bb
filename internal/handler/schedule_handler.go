package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/uwplan/planner-backend/internal/model"
	"github.com/uwplan/planner-backend/internal/response"
	"github.com/uwplan/planner-backend/internal/sequence"
	"github.com/uwplan/planner-backend/internal/service"
	"github.com/uwplan/planner-backend/internal/validator"
)

type ScheduleHandler struct {
	scheduleService service.ScheduleService
	log             zerolog.Logger
}

func NewScheduleHandler(scheduleService service.ScheduleService, log zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		log:             log.With().Str("component", "schedule_handler").Logger(),
	}
}

// Validate godoc
// POST /api/v1/schedules/validate
func (h *ScheduleHandler) Validate(c *gin.Context) {
	var req model.ValidateScheduleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	out, err := h.scheduleService.Validate(c.Request.Context(), &req)
	if err != nil {
		status, code := validationErrorStatus(err)
		if code == response.ErrInternal {
			h.log.Error().Err(err).Str("degree", req.Degree).Msg("Schedule validation failed")
		}
		if code == response.ErrUnknownSequence {
			response.FailWithFields(c, status, code, map[string]string{"sequence": err.Error()})
			return
		}
		response.Fail(c, status, code)
		return
	}

	response.Success(c, http.StatusOK, out)
}

// validationErrorStatus maps a schedule service error to an HTTP status and code.
func validationErrorStatus(err error) (int, response.ErrCode) {
	if errors.Is(err, sequence.ErrUnknownSequence) {
		return http.StatusBadRequest, response.ErrUnknownSequence
	}
	return http.StatusInternalServerError, response.ErrInternal
}

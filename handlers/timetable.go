package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	timetableRepo "github.com/nikolasamardzija/busNS-rest-api/database/repository/timetable"
	"github.com/nikolasamardzija/busNS-rest-api/models"
	"github.com/nikolasamardzija/busNS-rest-api/services/scraper"
	"github.com/nikolasamardzija/busNS-rest-api/services/tasks"
	"github.com/nikolasamardzija/busNS-rest-api/services/timetable"
	"github.com/nikolasamardzija/busNS-rest-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TimetableHandler serves line listings and timetables.
type TimetableHandler struct {
	Service timetable.TimetableService
	Queue   TaskEnqueuer
}

func NewTimetableHandler(svc timetable.TimetableService, queue TaskEnqueuer) *TimetableHandler {
	return &TimetableHandler{Service: svc, Queue: queue}
}

// GetCityLinesHandler lists city lines for ?day.
func (h *TimetableHandler) GetCityLinesHandler(c *gin.Context) {
	h.listLines(c, timetable.CityLines)
}

// GetIntercityLinesHandler lists intercity lines for ?day.
func (h *TimetableHandler) GetIntercityLinesHandler(c *gin.Context) {
	h.listLines(c, timetable.IntercityLines)
}

func (h *TimetableHandler) listLines(c *gin.Context, kind timetable.ListingKind) {
	lines, err := h.Service.ListLines(c.Request.Context(), kind, c.Query("day"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

// GetTimetableHandler returns the live timetable of :line.
func (h *TimetableHandler) GetTimetableHandler(c *gin.Context) {
	tt, err := h.Service.GetTimetable(c.Request.Context(), c.Param("line"), c.Query("day"), c.Query("rv"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tt)
}

// GetStoredTimetableHandler returns the last persisted timetable of :line.
func (h *TimetableHandler) GetStoredTimetableHandler(c *gin.Context) {
	tt, err := h.Service.StoredTimetable(c.Request.Context(), c.Param("line"), c.Query("day"), c.Query("rv"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tt)
}

// ListStoredTimetablesHandler returns every persisted timetable for ?day and ?rv.
func (h *TimetableHandler) ListStoredTimetablesHandler(c *gin.Context) {
	list, err := h.Service.StoredTimetables(c.Request.Context(), c.Query("day"), c.Query("rv"))
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []models.Timetable{}
	}
	c.JSON(http.StatusOK, list)
}

// RefreshTimetablesHandler queues a background refresh of every line of a listing.
func (h *TimetableHandler) RefreshTimetablesHandler(c *gin.Context) {
	logger := getLogger(c)

	var input tasks.RefreshPayload
	if c.Request.Body != nil {
		// an empty body, chunked or not, falls through to the rv check
		if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
	}
	if input.Direction == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid parameter", "rv is required")
		return
	}
	if input.Day == "" {
		input.Day = "R"
	}

	task, err := tasks.NewRefreshTask(input, asynq.TaskID(uuid.New().String()))
	if err != nil {
		logger.Error("Failed to build refresh task", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal server error", "failed to build task")
		return
	}
	info, err := h.Queue.EnqueueContext(c.Request.Context(), task)
	if err != nil {
		logger.Error("Failed to enqueue refresh task", zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "queue unavailable", "refresh could not be scheduled")
		return
	}

	logger.Info("Refresh queued", zap.String("taskID", info.ID), zap.String("day", input.Day), zap.String("rv", input.Direction))
	c.JSON(http.StatusAccepted, gin.H{"taskID": info.ID, "day": input.Day, "rv": input.Direction})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, scraper.ErrInvalidParameter):
		return http.StatusBadRequest, "invalid parameter"
	case errors.Is(err, scraper.ErrEmptySchedule), errors.Is(err, scraper.ErrEmptyListing):
		return http.StatusNotFound, "no departures"
	case errors.Is(err, timetableRepo.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, scraper.ErrTransport), errors.Is(err, scraper.ErrMalformedDocument):
		return http.StatusBadGateway, "upstream error"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "upstream timeout"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func respondError(c *gin.Context, err error) {
	status, label := statusFor(err)
	if status >= http.StatusInternalServerError {
		getLogger(c).Error("Request failed", zap.Int("status", status), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, utils.ErrorResponse{Error: label, Message: err.Error()})
}

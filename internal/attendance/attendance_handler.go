package attendance

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	attendanceerrors "sistema-asistencia/internal/attendance/errors"
	"sistema-asistencia/internal/middleware"
	"sistema-asistencia/internal/shared/apperror"
	"sistema-asistencia/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// bindOptionalJSON accepts an empty body as the zero request.
func bindOptionalJSON(c *gin.Context, req any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *Handler) CheckIn(c *gin.Context) {
	studentID := c.GetString("user_id")

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", httpErr.Message, nil)
		return
	}

	resp, err := h.service.CheckIn(c.Request.Context(), studentID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	middleware.RememberResponse(c, http.StatusCreated, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

// CheckOut refuses a session shorter than the minimum length unless the student gives a reason.
func (h *Handler) CheckOut(c *gin.Context) {
	studentID := c.GetString("user_id")

	var req CheckOutRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", httpErr.Message, nil)
		return
	}

	if trimmed(req.EarlyDepartureReason) == "" {
		active, err := h.service.GetActive(c.Request.Context(), studentID)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		if active.RequiresEarlyDepartureReason {
			h.writeServiceError(c, attendanceerrors.ErrEarlyDepartureReasonRequired)
			return
		}
	}

	resp, err := h.service.CheckOut(c.Request.Context(), studentID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	middleware.RememberResponse(c, http.StatusOK, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetActive(c *gin.Context) {
	resp, err := h.service.GetActive(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	filter := ListFilter{
		StudentID: strings.TrimSpace(c.Query("student_id")),
		State:     strings.ToLower(strings.TrimSpace(c.Query("state"))),
	}
	if !c.GetBool(middleware.CtxScopeAll) {
		filter.StudentID = c.GetString("user_id")
	}

	switch filter.State {
	case "", StateOpen, StateClosed:
	default:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", "state must be open or closed")
		return
	}

	var err error
	if filter.From, err = parseTimeQuery(c, "from"); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}
	if filter.To, err = parseTimeQuery(c, "to"); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))

	items, meta, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items, &meta)
}

func parseTimeQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, errors.New(key + " must be an RFC3339 timestamp")
	}
	return &t, nil
}

func (h *Handler) ForceCheckOut(c *gin.Context) {
	var req ForceCheckOutRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.ForceCheckOut(c.Request.Context(), c.Param("id"), c.GetString("user_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RunMaintenance(c *gin.Context) {
	resp, err := h.service.RunMaintenance(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CapLongRunning(c *gin.Context) {
	var req SweepRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	closed, err := h.service.CapLongRunningSessions(c.Request.Context(), req.ThresholdHours, req.CreditHours)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, SweepResponse{Pass: PassCap, Closed: closed}, nil)
}

func (h *Handler) CloseStale(c *gin.Context) {
	var req SweepRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	closed, err := h.service.AutoCloseStaleRecords(c.Request.Context(), req.ThresholdHours, req.CreditHours)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, SweepResponse{Pass: PassStale, Closed: closed}, nil)
}

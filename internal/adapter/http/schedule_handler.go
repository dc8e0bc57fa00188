package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	scheduleuc "coop-lending/internal/usecase/schedule"
)

type ScheduleHandler struct {
	uc  *scheduleuc.Usecase
	log *zap.Logger
}

func NewScheduleHandler(uc *scheduleuc.Usecase, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{uc: uc, log: log.Named("http.schedule")}
}

// GenerateSchedule answers 201 when rows were created and 200 when they already existed.
func (h *ScheduleHandler) GenerateSchedule(c echo.Context) error {
	out, err := h.uc.Generate(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	code := http.StatusOK
	if out.Created {
		code = http.StatusCreated
	}
	return c.JSON(code, out)
}

func (h *ScheduleHandler) GetSchedule(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ScheduleHandler) GetSummary(c echo.Context) error {
	out, err := h.uc.Summary(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ScheduleHandler) AdvanceStatuses(c echo.Context) error {
	res, err := h.uc.Advance(c.Request().Context())
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"changed":    res.Changed(),
		"scanned":    res.Scanned,
		"to_due":     res.ToDue,
		"to_overdue": res.ToOverdue,
		"batches":    res.Batches,
	})
}

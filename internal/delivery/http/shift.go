package http

import (
	"net/http"
	"strings"

	"comanda/internal/models"
	"comanda/internal/service"

	"github.com/gin-gonic/gin"
)

// OpenShift
// @Summary OpenShift
// @Description Opens a cash shift; fails if one is already open
// @ID open-shift
// @Accept json
// @Produce json
// @Param body body service.OpenShiftRequest true "shift"
// @Success 201 {object} models.Shift
// @Failure 400,409 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/shifts/open [post]
func (h *Handler) OpenShift(c *gin.Context) {
	var req service.OpenShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	shift, err := h.svc.OpenShift(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, shift)
}

// CloseShift
// @Summary CloseShift
// @Description Closes a shift and reconciles counted cash against expected
// @ID close-shift
// @Accept json
// @Produce json
// @Param id path string true "shift id"
// @Param body body service.CloseShiftRequest true "cash count"
// @Success 200 {object} models.Shift
// @Failure 400,404,409 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/shifts/{id}/close [post]
func (h *Handler) CloseShift(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing shift id")
		return
	}

	var req service.CloseShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	shift, err := h.svc.CloseShift(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shift)
}

// CurrentShift
// @Summary CurrentShift
// @Description Returns the currently open shift
// @ID current-shift
// @Produce json
// @Success 200 {object} models.Shift
// @Failure 404,409 {object} errorResponse
// @Router /api/shifts/current [get]
func (h *Handler) CurrentShift(c *gin.Context) {
	shift, err := h.svc.CurrentShift()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shift)
}

// DailyReport
// @Summary DailyReport
// @Description Day-level revenue/product/courier summary
// @ID daily-report
// @Produce json
// @Param date query string true "calendar date YYYY-MM-DD"
// @Param shift_type query string false "matutino or vespertino"
// @Success 200 {object} service.DayReport
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/reports/daily [get]
func (h *Handler) DailyReport(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing date")
		return
	}

	report, err := h.svc.DailyReport(date, models.ShiftType(c.Query("shift_type")))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/epeers/crisisboard/internal/models"
	"github.com/epeers/crisisboard/internal/services"
	"github.com/epeers/crisisboard/internal/util"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandler handles the stateless analytics endpoints
type AnalyticsHandler struct {
	dashboardSvc *services.DashboardService
	cycleParams  models.CycleParams
	now          func() time.Time
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(dashboardSvc *services.DashboardService, cycleParams models.CycleParams) *AnalyticsHandler {
	return &AnalyticsHandler{
		dashboardSvc: dashboardSvc,
		cycleParams:  cycleParams,
		now:          time.Now,
	}
}

// Cycle handles GET /cycle
// @Summary Generate the market cycle table
// @Description Panic, good and hard years over the configured range, with the entry nearest to the focus year
// @Tags analytics
// @Produce json
// @Param start query int false "First year to include"
// @Param end query int false "Last year to include"
// @Param year query int false "Focus year (defaults to the current year)"
// @Success 200 {object} models.CycleResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /cycle [get]
func (h *AnalyticsHandler) Cycle(c *gin.Context) {
	params := h.cycleParams
	params.Intervals = append([]int(nil), h.cycleParams.Intervals...)

	var err error
	if params.Range.Start, err = intQuery(c, "start", params.Range.Start); err != nil {
		badRequest(c, err.Error())
		return
	}
	if params.Range.End, err = intQuery(c, "end", params.Range.End); err != nil {
		badRequest(c, err.Error())
		return
	}
	focusYear, err := intQuery(c, "year", util.CurrentYear(h.now()))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	entries, err := services.GenerateCycle(params)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCycleParams) {
			badRequest(c, err.Error())
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.CycleResponse{
		Params:  params,
		Focus:   services.FocusEntry(entries, focusYear),
		Entries: entries,
	})
}

// Convert handles GET /convert
// @Summary Convert an amount between currencies
// @Description Convert with the live snapshot's exchange rates. Without a usable rate the amount is returned unchanged.
// @Tags analytics
// @Produce json
// @Param amount query number false "Amount to convert (defaults to 0)"
// @Param from query string true "Source currency"
// @Param to query string true "Target currency"
// @Success 200 {object} models.ConvertResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /convert [get]
func (h *AnalyticsHandler) Convert(c *gin.Context) {
	var req models.ConvertRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var rates *models.ExchangeRates
	if snap, _, err := h.dashboardSvc.Current(); err == nil {
		rates = snap.Rates
	}

	resp := models.ConvertResponse{
		Amount:    req.Amount,
		From:      strings.ToUpper(req.From),
		To:        strings.ToUpper(req.To),
		Converted: services.Convert(req.Amount, req.From, req.To, rates),
	}
	if rates != nil {
		resp.Base = rates.Base
	}
	c.JSON(http.StatusOK, resp)
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return v, nil
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

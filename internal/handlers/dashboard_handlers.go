package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/epeers/crisisboard/internal/models"
	"github.com/epeers/crisisboard/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// SnapshotFreshHeader tells clients whether the snapshot is within its staleness window
const SnapshotFreshHeader = "X-Snapshot-Fresh"

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardSvc *services.DashboardService
	profiles     []models.ThresholdProfile
}

// NewDashboardHandler creates a new DashboardHandler. profiles are the threshold
// profiles a client may select per request.
func NewDashboardHandler(dashboardSvc *services.DashboardService, profiles []models.ThresholdProfile) *DashboardHandler {
	return &DashboardHandler{
		dashboardSvc: dashboardSvc,
		profiles:     profiles,
	}
}

// Get handles GET /dashboard
// @Summary Get the dashboard snapshot
// @Description Return the last committed snapshot with its crisis summary and macro annotation. Metal prices are converted when currency is given.
// @Tags dashboard
// @Produce json
// @Param currency query string false "ISO currency code for metal prices"
// @Param profile query string false "Threshold profile used for the crisis summary"
// @Success 200 {object} models.DashboardResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	snap, ok := h.current(c)
	if !ok {
		return
	}

	warnings := append([]models.Warning(nil), snap.Warnings...)

	profile, found := h.profile(c.Query("profile"))
	if !found {
		warnings = append(warnings, models.Warning{
			Code:    models.WarnProfileFallback,
			Message: fmt.Sprintf("unknown threshold profile %q, using %s", c.Query("profile"), profile.Name),
		})
	}

	resp := models.DashboardResponse{
		Snapshot:   *snap,
		Currency:   quoteCurrency(snap),
		Summary:    services.SummarizeCrisis(snap.CrisisEvents, profile),
		Annotation: services.AnnotateMacro(snap.MacroSeries),
	}

	if currency := strings.ToUpper(strings.TrimSpace(c.Query("currency"))); currency != "" && currency != resp.Currency {
		metals, converted := services.ConvertQuotes(snap.Metals, currency, snap.Rates)
		resp.Snapshot.Metals = metals
		if converted {
			resp.Currency = currency
		} else {
			warnings = append(warnings, models.Warning{
				Code:    models.WarnConversionSkipped,
				Message: "no exchange rate for " + currency + ", prices left unconverted",
			})
		}
	}

	resp.Warnings = warnings
	c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /dashboard/refresh
// @Summary Refresh the dashboard
// @Description Fetch every section and commit a new snapshot. When every crisis feed fails the previous snapshot stays live.
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.RefreshResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /dashboard/refresh [post]
func (h *DashboardHandler) Refresh(c *gin.Context) {
	result, err := h.dashboardSvc.Refresh(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRefreshSuperseded):
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "superseded",
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrAggregationTotalFailure):
			c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error:   "upstream_unavailable",
				Message: err.Error(),
			})
		default:
			log.Errorf("Refresh: %v", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "internal_error",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, models.RefreshResponse{
		RefreshID: result.Snapshot.RefreshID,
		Status:    result.CrisisStatus,
		Events:    len(result.Snapshot.CrisisEvents),
		Warnings:  result.Snapshot.Warnings,
	})
}

// CrisisSummary handles GET /dashboard/crisis/summary
// @Summary Summarize crisis events
// @Description Headline and highlights for the crisis events of the live snapshot, scored with the active or requested threshold profile
// @Tags dashboard
// @Produce json
// @Param min_severity query number false "Only summarize events at or above this severity"
// @Param profile query string false "Threshold profile used to count high-risk events"
// @Success 200 {object} models.CrisisSummary
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /dashboard/crisis/summary [get]
func (h *DashboardHandler) CrisisSummary(c *gin.Context) {
	snap, ok := h.current(c)
	if !ok {
		return
	}

	events := snap.CrisisEvents
	if raw := c.Query("min_severity"); raw != "" {
		minSeverity, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "bad_request",
				Message: "min_severity must be a number",
			})
			return
		}
		events = make([]models.CrisisEvent, 0, len(snap.CrisisEvents))
		for _, e := range snap.CrisisEvents {
			if e.Severity >= minSeverity {
				events = append(events, e)
			}
		}
	}

	profile, found := h.profile(c.Query("profile"))
	if !found {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: fmt.Sprintf("unknown threshold profile %q", c.Query("profile")),
		})
		return
	}

	summary := services.SummarizeCrisis(events, profile)
	if summary == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// MacroAnnotation handles GET /dashboard/macro/annotation
// @Summary Annotate the macro chart
// @Description Describe the macro series with the largest move between its last two observations
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.MacroChartAnnotation
// @Success 204
// @Failure 503 {object} models.ErrorResponse
// @Router /dashboard/macro/annotation [get]
func (h *DashboardHandler) MacroAnnotation(c *gin.Context) {
	snap, ok := h.current(c)
	if !ok {
		return
	}

	annotation := services.AnnotateMacro(snap.MacroSeries)
	if annotation == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, annotation)
}

// current writes the error response itself when there is no snapshot
func (h *DashboardHandler) current(c *gin.Context) (*models.DashboardSnapshot, bool) {
	snap, fresh, err := h.dashboardSvc.Current()
	if err != nil {
		if errors.Is(err, services.ErrNoSnapshot) {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:   "no_snapshot",
				Message: "dashboard has not been refreshed yet",
			})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return nil, false
	}
	c.Header(SnapshotFreshHeader, strconv.FormatBool(fresh))
	return snap, true
}

// profile resolves a requested profile name. An empty name selects the active
// profile; an unknown one returns the active profile and false.
func (h *DashboardHandler) profile(name string) (models.ThresholdProfile, bool) {
	active := h.dashboardSvc.Profile()
	if name == "" || name == active.Name {
		return active, true
	}
	for _, p := range h.profiles {
		if p.Name == name {
			return p, true
		}
	}
	return active, false
}

func quoteCurrency(snap *models.DashboardSnapshot) string {
	if len(snap.Metals) > 0 {
		return snap.Metals[0].Currency
	}
	if snap.Rates != nil {
		return snap.Rates.Base
	}
	return ""
}

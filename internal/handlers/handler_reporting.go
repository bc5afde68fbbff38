package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
)

// reportingHandler handles HTTP requests for the derived reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the report routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/companies/:companyID/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/balance-sheet", h.balanceSheet)
		reports.GET("/income-statement", h.incomeStatement)
		reports.GET("/cash-flow", h.cashFlow)
	}
}

func parseDateQuery(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be YYYY-MM-DD"})
		return nil, false
	}
	return &parsed, true
}

func (h *reportingHandler) trialBalance(c *gin.Context) {
	startDate, ok := parseDateQuery(c, "startDate")
	if !ok {
		return
	}
	endDatePtr, ok := parseDateQuery(c, "endDate")
	if !ok {
		return
	}
	endDate := time.Now().UTC()
	if endDatePtr != nil {
		endDate = *endDatePtr
	}
	useSnapshots := c.DefaultQuery("useSnapshots", "true") != "false"

	report, err := h.reportingService.TrialBalance(c.Request.Context(), c.Param("companyID"), startDate, endDate, useSnapshots)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) balanceSheet(c *gin.Context) {
	asOfPtr, ok := parseDateQuery(c, "asOf")
	if !ok {
		return
	}
	asOf := time.Now().UTC()
	if asOfPtr != nil {
		asOf = *asOfPtr
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), c.Param("companyID"), asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) periodRange(c *gin.Context) (time.Time, time.Time, bool) {
	startDate, ok := parseDateQuery(c, "startDate")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	endDate, ok := parseDateQuery(c, "endDate")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if startDate == nil || endDate == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate and endDate are required"})
		return time.Time{}, time.Time{}, false
	}
	return *startDate, *endDate, true
}

func (h *reportingHandler) incomeStatement(c *gin.Context) {
	start, end, ok := h.periodRange(c)
	if !ok {
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), c.Param("companyID"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) cashFlow(c *gin.Context) {
	start, end, ok := h.periodRange(c)
	if !ok {
		return
	}

	report, err := h.reportingService.CashFlow(c.Request.Context(), c.Param("companyID"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

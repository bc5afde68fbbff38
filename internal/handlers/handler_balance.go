package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
	"github.com/finbooks/finbooks/internal/utils/accounting"
)

// balanceHandler handles HTTP requests related to balances and snapshots.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
	accountService portssvc.AccountSvcFacade
}

func newBalanceHandler(bs portssvc.BalanceSvcFacade, as portssvc.AccountSvcFacade) *balanceHandler {
	return &balanceHandler{balanceService: bs, accountService: as}
}

// registerBalanceRoutes registers routes related to balances and snapshots.
func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade, accountService portssvc.AccountSvcFacade) {
	h := newBalanceHandler(balanceService, accountService)

	rg.GET("/companies/:companyID/accounts/:code/balance", h.getBalance)

	balances := rg.Group("/companies/:companyID/balances")
	{
		balances.POST("", h.createSnapshot)
		balances.POST("/batch", h.saveBalances)
		balances.GET("/credits-debits", h.creditsDebits)
	}
}

func (h *balanceHandler) getBalance(c *gin.Context) {
	var params dto.BalanceQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	asOf := time.Now().UTC()
	if params.AsOf != nil {
		asOf = *params.AsOf
	}

	companyID := c.Param("companyID")
	code := c.Param("code")

	account, err := h.accountService.GetAccountByCode(c.Request.Context(), companyID, code)
	if err != nil {
		respondError(c, err)
		return
	}

	balance, err := h.balanceService.CalculateBalance(c.Request.Context(), companyID, code, asOf)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		CompanyID:      companyID,
		AccountCode:    code,
		AsOf:           asOf,
		Balance:        balance,
		DisplayBalance: accounting.DisplayBalance(balance, account.NormalBalance),
		NormalBalance:  string(account.NormalBalance),
	})
}

func (h *balanceHandler) createSnapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSnapshot", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	snapshot, err := h.balanceService.CreateSnapshot(c.Request.Context(), c.Param("companyID"), req.AccountCode, req.Timestamp, requestUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToSnapshotResponse(snapshot))
}

// saveBalances checkpoints every active account with new activity.
func (h *balanceHandler) saveBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SaveBalancesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SaveBalances", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	created, err := h.balanceService.SaveBalances(c.Request.Context(), c.Param("companyID"), req.Timestamp, requestUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SaveBalancesResponse{SnapshotsCreated: created, Timestamp: req.Timestamp})
}

// creditsDebits aggregates totals over a bounded window, bypassing snapshots.
func (h *balanceHandler) creditsDebits(c *gin.Context) {
	startDate, err := time.Parse("2006-01-02", c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be YYYY-MM-DD"})
		return
	}
	endDate, err := time.Parse("2006-01-02", c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be YYYY-MM-DD"})
		return
	}
	accountCodes := c.QueryArray("accountCode")

	credits, debits, err := h.balanceService.CreditsDebits(c.Request.Context(), c.Param("companyID"), accountCodes, startDate, endDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"credits":   credits,
		"debits":    debits,
		"startDate": startDate.Format("2006-01-02"),
		"endDate":   endDate.Format("2006-01-02"),
	})
}

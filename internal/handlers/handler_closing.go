package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

// closingHandler handles HTTP requests related to accounting closings.
type closingHandler struct {
	closingService portssvc.ClosingSvcFacade
}

func newClosingHandler(cs portssvc.ClosingSvcFacade) *closingHandler {
	return &closingHandler{closingService: cs}
}

// registerClosingRoutes registers routes related to accounting closings.
func registerClosingRoutes(rg *gin.RouterGroup, closingService portssvc.ClosingSvcFacade) {
	h := newClosingHandler(closingService)

	closings := rg.Group("/companies/:companyID/closings")
	{
		closings.POST("", h.createClosing)
		closings.GET("", h.listClosings)
		closings.POST("/:closingID/close", h.closeClosing)
	}
}

func (h *closingHandler) createClosing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateClosingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateClosing", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	closing, err := h.closingService.CreateClosing(c.Request.Context(), c.Param("companyID"), req, requestUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToClosingResponse(closing))
}

func (h *closingHandler) listClosings(c *gin.Context) {
	closings, err := h.closingService.ListClosings(c.Request.Context(), c.Param("companyID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"closings": dto.ToClosingResponses(closings)})
}

// closeClosing transitions OPEN -> CLOSED and freezes the period.
func (h *closingHandler) closeClosing(c *gin.Context) {
	closing, err := h.closingService.CloseClosing(c.Request.Context(), c.Param("companyID"), c.Param("closingID"), requestUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToClosingResponse(closing))
}

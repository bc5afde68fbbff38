// Package handlers wires the HTTP surface: one handler per resource, all
// registered under /api/v1.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	registerCustomValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to per-resource
// route registrations.
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1")

	registerCompanyRoutes(v1, services.Company)
	registerAccountRoutes(v1, services.Account)
	registerEntryRoutes(v1, services.Journal)
	registerTransactionRoutes(v1, services.Transaction, services.Journal)
	registerBalanceRoutes(v1, services.Balance, services.Account)
	registerReportingRoutes(v1, services.Reporting)
	registerClosingRoutes(v1, services.Closing)
}

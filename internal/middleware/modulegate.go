package middleware

import (
	"net/http"

	"github.com/SahayFarms/farm_books_app/internal/core/domain"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// RequireModule creates a Gin middleware that rejects requests for tenants
// that have the given optional module disabled.
func RequireModule(tenantSvc portssvc.TenantSvcFacade, module domain.ModuleKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.Param("tenantID")
		if tenantID == "" {
			c.Next()
			return
		}

		enabled, err := tenantSvc.IsModuleEnabled(c.Request.Context(), tenantID, module)
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Error("Failed to check module setting", "module", string(module), "error", err.Error())
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if !enabled {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Module is disabled for this tenant"})
			return
		}

		c.Next()
	}
}

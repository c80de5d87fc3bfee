package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/instock-app/instock-server/internal/auth"
	"github.com/instock-app/instock-server/internal/service"
	"go.uber.org/zap"
)

type StatsHandler struct {
	statsService *service.StatsService
	logger       *zap.Logger
}

func NewStatsHandler(statsService *service.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		logger:       logger,
	}
}

// GetStats returns the full analytics report for a business.
func (h *StatsHandler) GetStats(c *gin.Context) {
	businessID := c.Param("businessId")

	report, err := h.statsService.GetStats(c.Request.Context(), claimsFrom(c), businessID)
	if err != nil {
		if errors.Is(err, auth.ErrAccessDenied) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied",
			})
			return
		}

		h.logger.Error("Failed to build stats report",
			zap.String("business_id", businessID),
			zap.Error(err))

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to build stats report",
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// claimsFrom reads the identity headers the gateway forwards after verifying
// the caller's token.
func claimsFrom(c *gin.Context) auth.UserClaims {
	return auth.UserClaims{
		UserID:     c.GetHeader("X-User-Id"),
		BusinessID: c.GetHeader("X-User-Business-Id"),
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/instock-app/instock-server/internal/auth"
	"github.com/instock-app/instock-server/internal/domain"
	"github.com/instock-app/instock-server/internal/repository"
	"github.com/instock-app/instock-server/internal/service"
	"go.uber.org/zap"
)

type MilestoneHandler struct {
	milestoneService *service.MilestoneService
	logger           *zap.Logger
}

func NewMilestoneHandler(milestoneService *service.MilestoneService, logger *zap.Logger) *MilestoneHandler {
	return &MilestoneHandler{
		milestoneService: milestoneService,
		logger:           logger,
	}
}

func (h *MilestoneHandler) GetMilestones(c *gin.Context) {
	businessID := c.Param("businessId")

	milestones, err := h.milestoneService.GetMilestones(c.Request.Context(), claimsFrom(c), businessID)
	if err != nil {
		if errors.Is(err, auth.ErrAccessDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		h.logger.Error("Failed to list milestones",
			zap.String("business_id", businessID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list milestones"})
		return
	}

	c.JSON(http.StatusOK, milestones)
}

func (h *MilestoneHandler) HideMilestone(c *gin.Context) {
	businessID := c.Param("businessId")

	var req domain.HideMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	err := h.milestoneService.HideMilestone(c.Request.Context(), claimsFrom(c), businessID, req.MilestoneID)
	if err != nil {
		var validation *domain.ValidationError
		switch {
		case errors.Is(err, auth.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case errors.Is(err, repository.ErrMilestoneNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
		case errors.As(err, &validation):
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
		default:
			h.logger.Error("Failed to hide milestone",
				zap.String("milestone_id", req.MilestoneID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hide milestone"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

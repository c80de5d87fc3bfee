package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/instock-app/instock-server/internal/auth"
	"github.com/instock-app/instock-server/internal/domain"
	"github.com/instock-app/instock-server/internal/service"
	"go.uber.org/zap"
)

type ItemHandler struct {
	itemService *service.ItemService
	logger      *zap.Logger
}

func NewItemHandler(itemService *service.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

func (h *ItemHandler) CreateItem(c *gin.Context) {
	businessID := c.Param("businessId")

	var req domain.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), claimsFrom(c), businessID, req)
	if err != nil {
		var validation *domain.ValidationError
		switch {
		case errors.Is(err, auth.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case errors.Is(err, service.ErrItemExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Item already exists"})
		case errors.As(err, &validation):
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
		default:
			h.logger.Error("Failed to create item",
				zap.String("sku", req.SKU),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) GetItems(c *gin.Context) {
	businessID := c.Param("businessId")

	items, err := h.itemService.GetItems(c.Request.Context(), claimsFrom(c), businessID)
	if err != nil {
		if errors.Is(err, auth.ErrAccessDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		h.logger.Error("Failed to list items",
			zap.String("business_id", businessID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list items"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) AddStockUpdate(c *gin.Context) {
	businessID := c.Param("businessId")
	sku := c.Param("sku")

	var req domain.StockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	record, err := h.itemService.AddStockUpdate(c.Request.Context(), claimsFrom(c), businessID, sku, req)
	if err != nil {
		var validation *domain.ValidationError
		switch {
		case errors.Is(err, auth.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		case errors.Is(err, service.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		case errors.Is(err, service.ErrZeroAmountChange),
			errors.Is(err, service.ErrUnknownReason):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &validation):
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
		default:
			h.logger.Error("Failed to add stock update",
				zap.String("sku", sku),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add stock update"})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *ItemHandler) UploadItemImage(c *gin.Context) {
	businessID := c.Param("businessId")
	sku := c.Param("sku")

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}
	defer file.Close()

	location, err := h.itemService.UploadItemImage(c.Request.Context(), claimsFrom(c), businessID, sku, header.Filename, file)
	if err != nil {
		if errors.Is(err, auth.ErrAccessDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		h.logger.Error("Failed to upload image",
			zap.String("sku", sku),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename": header.Filename,
		"location": location,
	})
}

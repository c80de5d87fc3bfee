package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/instock-app/instock-server/internal/auth"
	"github.com/instock-app/instock-server/internal/domain"
	"github.com/instock-app/instock-server/internal/repository"
	"github.com/instock-app/instock-server/internal/stats"
	"go.uber.org/zap"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrItemExists       = errors.New("item already exists")
	ErrZeroAmountChange = errors.New("stock change amount must not be zero")
	ErrUnknownReason    = errors.New("unrecognised reason for change")
)

// ItemStore is the persistence surface the services need from the item table.
type ItemStore interface {
	GetAllItems(ctx context.Context, businessID string) ([]map[string]types.AttributeValue, error)
	GetItem(ctx context.Context, businessID, sku string) (map[string]types.AttributeValue, error)
	PutItem(ctx context.Context, item *domain.Item) error
	SetStockState(ctx context.Context, businessID, sku, stock, updatesJSON string) error
	SetImageFilename(ctx context.Context, businessID, sku, filename string) error
}

// Uploader is the object-store surface for image uploads.
type Uploader interface {
	UploadFile(ctx context.Context, key string, body io.Reader) (string, error)
}

type ItemService struct {
	store      ItemStore
	access     stats.AccessChecker
	milestones *MilestoneService
	uploader   Uploader
	logger     *zap.Logger
	now        func() time.Time
}

func NewItemService(store ItemStore, access stats.AccessChecker, milestones *MilestoneService, uploader Uploader, logger *zap.Logger) *ItemService {
	return &ItemService{
		store:      store,
		access:     access,
		milestones: milestones,
		uploader:   uploader,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, user auth.UserClaims, businessID string, req domain.CreateItemRequest) (*domain.Item, error) {
	if !s.access.HasBusinessAccess(user.BusinessID, businessID) {
		return nil, auth.ErrAccessDenied
	}
	if businessID == "" {
		return nil, &domain.ValidationError{Field: "businessId"}
	}
	if req.SKU == "" {
		return nil, &domain.ValidationError{Field: "sku"}
	}
	if req.Name == "" {
		return nil, &domain.ValidationError{Field: "name"}
	}

	_, err := s.store.GetItem(ctx, businessID, req.SKU)
	if err == nil {
		return nil, ErrItemExists
	}
	if !errors.Is(err, repository.ErrItemNotFound) {
		return nil, err
	}

	item := &domain.Item{
		SKU:        req.SKU,
		BusinessID: businessID,
		Category:   req.Category,
		Name:       req.Name,
		Stock:      strconv.Itoa(req.Stock),
	}
	if err := s.store.PutItem(ctx, item); err != nil {
		s.logger.Error("Failed to save item",
			zap.String("sku", item.SKU),
			zap.String("business_id", businessID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Item created",
		zap.String("sku", item.SKU),
		zap.String("business_id", businessID),
		zap.Int("initial_stock", req.Stock))

	return item, nil
}

func (s *ItemService) GetItems(ctx context.Context, user auth.UserClaims, businessID string) ([]domain.ItemSummary, error) {
	if !s.access.HasBusinessAccess(user.BusinessID, businessID) {
		return nil, auth.ErrAccessDenied
	}

	raw, err := s.store.GetAllItems(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return stats.DecodeItems(raw)
}

// AddStockUpdate appends one stock change to an item's history and moves its
// stock level by the signed amount. A sale may push the item's running sale
// total over a milestone threshold, in which case a milestone is recorded.
func (s *ItemService) AddStockUpdate(ctx context.Context, user auth.UserClaims, businessID, sku string, req domain.StockUpdateRequest) (*domain.StockUpdateRecord, error) {
	if !s.access.HasBusinessAccess(user.BusinessID, businessID) {
		return nil, auth.ErrAccessDenied
	}
	if sku == "" {
		return nil, &domain.ValidationError{Field: "sku"}
	}
	if req.AmountChanged == 0 {
		return nil, ErrZeroAmountChange
	}
	if !recognisedReason(domain.Reason(req.ReasonForChange)) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReason, req.ReasonForChange)
	}

	attrs, err := s.store.GetItem(ctx, businessID, sku)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	var records []domain.StockUpdateRecord
	if encoded := attrString(attrs, "StockUpdates"); encoded != "" {
		if err := json.Unmarshal([]byte(encoded), &records); err != nil {
			return nil, fmt.Errorf("item %s: malformed stock history: %w", sku, err)
		}
	}

	record := domain.StockUpdateRecord{
		ReasonForChange: req.ReasonForChange,
		AmountChanged:   req.AmountChanged,
		DateTimeAdded:   s.now().Format("2006-01-02T15:04:05"),
	}
	records = append(records, record)

	encoded, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode stock history: %w", err)
	}

	currentStock, _ := strconv.Atoi(attrScalar(attrs, "Stock"))
	newStock := currentStock + req.AmountChanged
	if err := s.store.SetStockState(ctx, businessID, sku, strconv.Itoa(newStock), string(encoded)); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	s.logger.Info("Stock updated",
		zap.String("sku", sku),
		zap.String("business_id", businessID),
		zap.String("reason", req.ReasonForChange),
		zap.Int("amount", req.AmountChanged),
		zap.Int("new_stock", newStock))

	if domain.Reason(req.ReasonForChange) == domain.ReasonSale && s.milestones != nil {
		prevSales := totalSales(records[:len(records)-1])
		milestone, err := s.milestones.RecordIfReached(ctx, businessID, sku,
			attrString(attrs, "Name"), attrString(attrs, "ImageFilename"),
			prevSales, totalSales(records))
		if err != nil {
			// The stock update already succeeded; a milestone failure is
			// logged, not surfaced.
			s.logger.Error("Failed to record milestone",
				zap.String("sku", sku),
				zap.Error(err))
		} else if milestone != nil {
			s.logger.Info("Milestone reached",
				zap.String("sku", sku),
				zap.Int("total_sales", milestone.TotalSales))
		}
	}

	return &record, nil
}

// UploadItemImage stores an item image and records its filename on the item.
func (s *ItemService) UploadItemImage(ctx context.Context, user auth.UserClaims, businessID, sku, filename string, body io.Reader) (string, error) {
	if !s.access.HasBusinessAccess(user.BusinessID, businessID) {
		return "", auth.ErrAccessDenied
	}
	if filename == "" {
		return "", &domain.ValidationError{Field: "filename"}
	}

	key := fmt.Sprintf("%s/%s/%s", businessID, sku, filename)
	location, err := s.uploader.UploadFile(ctx, key, body)
	if err != nil {
		s.logger.Error("Failed to upload item image",
			zap.String("sku", sku),
			zap.String("key", key),
			zap.Error(err))
		return "", err
	}

	if err := s.store.SetImageFilename(ctx, businessID, sku, filename); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return "", ErrItemNotFound
		}
		return "", err
	}

	s.logger.Info("Item image recorded",
		zap.String("sku", sku),
		zap.String("filename", filename))

	return location, nil
}

func recognisedReason(reason domain.Reason) bool {
	if reason == domain.ReasonReturned {
		return true
	}
	for _, known := range domain.PerformanceReasons {
		if reason == known {
			return true
		}
	}
	return false
}

func totalSales(records []domain.StockUpdateRecord) int {
	total := 0
	for _, rec := range records {
		if domain.Reason(rec.ReasonForChange) != domain.ReasonSale {
			continue
		}
		if rec.AmountChanged < 0 {
			total -= rec.AmountChanged
		} else {
			total += rec.AmountChanged
		}
	}
	return total
}

func attrString(attrs map[string]types.AttributeValue, name string) string {
	if v, ok := attrs[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func attrScalar(attrs map[string]types.AttributeValue, name string) string {
	switch v := attrs[name].(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	}
	return ""
}

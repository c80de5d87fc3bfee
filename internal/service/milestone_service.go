package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/instock-app/instock-server/internal/auth"
	"github.com/instock-app/instock-server/internal/domain"
	"github.com/instock-app/instock-server/internal/events"
	"github.com/instock-app/instock-server/internal/stats"
	"go.uber.org/zap"
)

// Sale totals that earn a milestone, ascending.
var milestoneThresholds = []int{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

type MilestoneStore interface {
	Save(ctx context.Context, milestone *domain.Milestone) error
	GetAllForBusiness(ctx context.Context, businessID string) ([]domain.Milestone, error)
	Hide(ctx context.Context, businessID, milestoneID string) error
}

type MilestonePublisher interface {
	PublishMilestoneReached(event events.MilestoneReachedEvent) error
}

type MilestoneService struct {
	store     MilestoneStore
	publisher MilestonePublisher
	access    stats.AccessChecker
	logger    *zap.Logger
	now       func() time.Time
}

// NewMilestoneService wires the milestone write and read paths. publisher may
// be nil when no broker is configured.
func NewMilestoneService(store MilestoneStore, publisher MilestonePublisher, access stats.AccessChecker, logger *zap.Logger) *MilestoneService {
	return &MilestoneService{
		store:     store,
		publisher: publisher,
		access:    access,
		logger:    logger,
		now:       time.Now,
	}
}

// RecordIfReached saves a milestone when the item's sale total crossed a
// threshold between prevSales and newSales. Returns nil without error when no
// threshold was crossed.
func (s *MilestoneService) RecordIfReached(ctx context.Context, businessID, sku, itemName, imageFilename string, prevSales, newSales int) (*domain.Milestone, error) {
	threshold, crossed := crossedThreshold(prevSales, newSales)
	if !crossed {
		return nil, nil
	}

	milestone := &domain.Milestone{
		MilestoneID:      uuid.NewString(),
		BusinessID:       businessID,
		ItemSKU:          sku,
		ItemName:         itemName,
		ImageFilename:    imageFilename,
		TotalSales:       threshold,
		DateTime:         s.now().Format(time.RFC3339),
		DisplayMilestone: true,
	}
	if err := s.store.Save(ctx, milestone); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := events.MilestoneReachedEvent{
			EventID:    milestone.MilestoneID,
			BusinessID: businessID,
			ItemSKU:    sku,
			ItemName:   itemName,
			TotalSales: threshold,
			Timestamp:  s.now(),
		}
		if err := s.publisher.PublishMilestoneReached(event); err != nil {
			// The milestone is saved; delivery is best effort.
			s.logger.Error("Failed to publish milestone event",
				zap.String("milestone_id", milestone.MilestoneID),
				zap.Error(err))
		}
	}

	return milestone, nil
}

func (s *MilestoneService) GetMilestones(ctx context.Context, user auth.UserClaims, businessID string) ([]domain.Milestone, error) {
	if !s.access.HasBusinessAccess(user.BusinessID, businessID) {
		return nil, auth.ErrAccessDenied
	}
	return s.store.GetAllForBusiness(ctx, businessID)
}

func (s *MilestoneService) HideMilestone(ctx context.Context, user auth.UserClaims, businessID, milestoneID string) error {
	if !s.access.HasBusinessAccess(user.BusinessID, businessID) {
		return auth.ErrAccessDenied
	}
	if milestoneID == "" {
		return &domain.ValidationError{Field: "milestoneId"}
	}
	return s.store.Hide(ctx, businessID, milestoneID)
}

// crossedThreshold returns the highest threshold t with prev < t <= next.
func crossedThreshold(prev, next int) (int, bool) {
	crossed := 0
	for _, t := range milestoneThresholds {
		if prev < t && t <= next {
			crossed = t
		}
	}
	return crossed, crossed != 0
}

package service

import (
	"context"
	"fmt"

	"github.com/instock-app/instock-server/internal/auth"
	"github.com/instock-app/instock-server/internal/domain"
	"github.com/instock-app/instock-server/internal/stats"
	"go.uber.org/zap"
)

// StatsService fetches a business's raw item records and hands them to the
// report builder. The access check runs before the fetch so an unauthorized
// caller never triggers a table read.
type StatsService struct {
	items   ItemStore
	builder *stats.Builder
	access  stats.AccessChecker
	logger  *zap.Logger
}

func NewStatsService(items ItemStore, builder *stats.Builder, access stats.AccessChecker, logger *zap.Logger) *StatsService {
	return &StatsService{
		items:   items,
		builder: builder,
		access:  access,
		logger:  logger,
	}
}

func (s *StatsService) GetStats(ctx context.Context, user auth.UserClaims, businessID string) (*domain.AllStats, error) {
	if !s.access.HasBusinessAccess(user.BusinessID, businessID) {
		return nil, auth.ErrAccessDenied
	}

	raw, err := s.items.GetAllItems(ctx, businessID)
	if err != nil {
		s.logger.Error("Failed to fetch items for stats",
			zap.String("business_id", businessID),
			zap.Error(err))
		return nil, fmt.Errorf("fetch items for business %s: %w", businessID, err)
	}

	return s.builder.BuildReport(ctx, user.BusinessID, businessID, raw)
}

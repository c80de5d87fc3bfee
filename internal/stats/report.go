package stats

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/instock-app/instock-server/internal/auth"
	"github.com/instock-app/instock-server/internal/domain"
	"go.uber.org/zap"
)

// AccessChecker is the external gate confirming a user may read a business's
// data.
type AccessChecker interface {
	HasBusinessAccess(userBusinessID, businessID string) bool
}

// Builder assembles the full report for one business from its raw item
// records.
type Builder struct {
	access AccessChecker
	engine *Engine
	logger *zap.Logger
}

func NewBuilder(access AccessChecker, engine *Engine, logger *zap.Logger) *Builder {
	return &Builder{
		access: access,
		engine: engine,
		logger: logger,
	}
}

// BuildReport checks access, decodes the raw items, and merges the aggregate
// and suggestion outputs into one report.
//
// An unauthorized caller gets auth.ErrAccessDenied. An authorized caller with
// no items gets a fully zeroed report with the no-suggestions placeholder, so
// "forbidden" and "empty business" stay distinguishable. Decode failures
// propagate: no partial report is ever returned.
func (b *Builder) BuildReport(ctx context.Context, userBusinessID, businessID string, rawItems []map[string]types.AttributeValue) (*domain.AllStats, error) {
	if !b.access.HasBusinessAccess(userBusinessID, businessID) {
		return nil, auth.ErrAccessDenied
	}

	if len(rawItems) == 0 {
		empty := emptyAggregates()
		empty.Suggestions = domain.NoSuggestions()
		return empty, nil
	}

	items, err := DecodeItems(rawItems)
	if err != nil {
		b.logger.Error("Failed to decode items for report",
			zap.String("business_id", businessID),
			zap.Error(err))
		return nil, fmt.Errorf("decode items for business %s: %w", businessID, err)
	}

	report := Aggregate(items)
	report.Suggestions = b.engine.Suggest(items)

	b.logger.Info("Report built",
		zap.String("business_id", businessID),
		zap.Int("item_count", len(items)))

	return report, nil
}

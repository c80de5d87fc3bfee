package stats

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/instock-app/instock-server/internal/auth"
	"github.com/instock-app/instock-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticChecker bool

func (c staticChecker) HasBusinessAccess(userBusinessID, businessID string) bool {
	return bool(c)
}

func newTestBuilder(allowed bool) *Builder {
	return NewBuilder(staticChecker(allowed), newTestEngine(), zap.NewNop())
}

func TestBuildReport_AccessDenied(t *testing.T) {
	raw := []map[string]types.AttributeValue{rawItem(nil)}

	report, err := newTestBuilder(false).BuildReport(context.Background(), "biz-2", "biz-1", raw)

	require.ErrorIs(t, err, auth.ErrAccessDenied)
	assert.Nil(t, report, "no report for an unauthorized caller, whatever the data")
}

func TestBuildReport_EmptyBusiness(t *testing.T) {
	report, err := newTestBuilder(true).BuildReport(context.Background(), "biz-1", "biz-1", nil)

	require.NoError(t, err)
	require.NotNil(t, report, "authorized but empty is a report, not an error")
	for _, reason := range domain.PerformanceReasons {
		assert.Equal(t, 0, report.OverallPerformance[reason])
	}
	assert.Empty(t, report.CategoryPerformance)
	assert.Empty(t, report.SalesByMonth)
	require.NotNil(t, report.Suggestions)
	assert.Equal(t, domain.NoSuggestionsMessage, report.Suggestions.Error)
}

func TestBuildReport_FullBuild(t *testing.T) {
	raw := []map[string]types.AttributeValue{
		rawItem(map[string]types.AttributeValue{
			"StockUpdates": &types.AttributeValueMemberS{
				Value: `[{"ReasonForChange":"Sale","AmountChanged":-5,"DateTimeAdded":"2024-03-10T00:00:00"}]`,
			},
		}),
	}

	report, err := newTestBuilder(true).BuildReport(context.Background(), "biz-1", "biz-1", raw)

	require.NoError(t, err)
	assert.Equal(t, 5, report.OverallPerformance[domain.ReasonSale])
	assert.Equal(t, 5, report.SalesByMonth[2024]["Mar"])
	require.NotNil(t, report.Suggestions)
	assert.Empty(t, report.Suggestions.Error)
	require.False(t, report.Suggestions.BestSellingItem.Absent())
	assert.Equal(t, "SKU-1", report.Suggestions.BestSellingItem.Item.SKU)
}

func TestBuildReport_MalformedHistoryPropagates(t *testing.T) {
	raw := []map[string]types.AttributeValue{
		rawItem(map[string]types.AttributeValue{
			"StockUpdates": &types.AttributeValueMemberS{Value: `not json`},
		}),
	}

	report, err := newTestBuilder(true).BuildReport(context.Background(), "biz-1", "biz-1", raw)

	require.Error(t, err)
	assert.Nil(t, report)
}

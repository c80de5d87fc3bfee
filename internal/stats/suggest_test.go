package stats

import (
	"testing"
	"time"

	"github.com/instock-app/instock-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	engine := NewEngine()
	engine.Now = func() time.Time { return fixedNow }
	return engine
}

func saleOn(amount int, daysAgo int) domain.StockChangeEvent {
	return domain.StockChangeEvent{
		Reason:     domain.ReasonSale,
		Amount:     amount,
		OccurredAt: fixedNow.AddDate(0, 0, -daysAgo),
	}
}

func TestSuggest_NoItems(t *testing.T) {
	suggestions := newTestEngine().Suggest(nil)

	assert.Equal(t, domain.NoSuggestionsMessage, suggestions.Error)
	assert.True(t, suggestions.BestSellingItem.Absent())
	assert.True(t, suggestions.WorstSellingItem.Absent())
	assert.True(t, suggestions.MostReturnedItem.Absent())
	assert.True(t, suggestions.ItemToRestock.Absent())
	assert.Equal(t, "0 days", suggestions.LongestNoSales.Key)
	assert.Equal(t, domain.NoCategoriesFound, suggestions.BestSellingCategory.Category)
	assert.Equal(t, domain.NoCategoriesFound, suggestions.WorstSellingCategory.Category)
}

func TestSuggest_BestAndWorstSeller(t *testing.T) {
	items := []domain.ItemSummary{
		{SKU: "A", Name: "Atlas", Category: "Books", Events: []domain.StockChangeEvent{saleOn(-10, 3)}},
		{SKU: "B", Name: "Biro", Category: "Stationery", Events: []domain.StockChangeEvent{saleOn(-3, 5)}},
	}

	suggestions := newTestEngine().Suggest(items)

	require.False(t, suggestions.BestSellingItem.Absent())
	assert.Equal(t, 10, suggestions.BestSellingItem.Key)
	assert.Equal(t, "A", suggestions.BestSellingItem.Item.SKU)

	require.False(t, suggestions.WorstSellingItem.Absent())
	assert.Equal(t, 3, suggestions.WorstSellingItem.Key)
	assert.Equal(t, "B", suggestions.WorstSellingItem.Item.SKU)
}

func TestSuggest_NoSalesYieldsSentinels(t *testing.T) {
	items := []domain.ItemSummary{
		{SKU: "A", Category: "Books", Events: []domain.StockChangeEvent{
			{Reason: domain.ReasonOrder, Amount: 15, OccurredAt: fixedNow.AddDate(0, -1, 0)},
		}},
	}

	suggestions := newTestEngine().Suggest(items)

	assert.Empty(t, suggestions.Error, "items were supplied, so no placeholder")
	assert.True(t, suggestions.BestSellingItem.Absent())
	assert.True(t, suggestions.WorstSellingItem.Absent())
	assert.True(t, suggestions.ItemToRestock.Absent())
	assert.Equal(t, "0 days", suggestions.LongestNoSales.Key)
	assert.True(t, suggestions.LongestNoSales.Absent())
	// Categories of supplied items still rank, even at zero sales.
	assert.Equal(t, "Books", suggestions.BestSellingCategory.Category)
	assert.Equal(t, 0, suggestions.BestSellingCategory.Sales)
}

func TestSuggest_MostReturnedCountsReturnedNotReturn(t *testing.T) {
	items := []domain.ItemSummary{
		{SKU: "A", Category: "Books", Events: []domain.StockChangeEvent{
			{Reason: domain.ReasonReturn, Amount: 6, OccurredAt: fixedNow.AddDate(0, 0, -2)},
		}},
		{SKU: "B", Category: "Books", Events: []domain.StockChangeEvent{
			{Reason: domain.ReasonReturned, Amount: 2, OccurredAt: fixedNow.AddDate(0, 0, -4)},
		}},
	}

	suggestions := newTestEngine().Suggest(items)

	require.False(t, suggestions.MostReturnedItem.Absent())
	assert.Equal(t, "B", suggestions.MostReturnedItem.Item.SKU)
	assert.Equal(t, 2, suggestions.MostReturnedItem.Key)
}

func TestSuggest_LongestNoSales(t *testing.T) {
	items := []domain.ItemSummary{
		{SKU: "fresh", Category: "Books", Events: []domain.StockChangeEvent{saleOn(-1, 10)}},
		{SKU: "stale", Category: "Books", Events: []domain.StockChangeEvent{saleOn(-1, 40)}},
	}

	suggestions := newTestEngine().Suggest(items)

	require.False(t, suggestions.LongestNoSales.Absent())
	assert.Equal(t, "40 days", suggestions.LongestNoSales.Key)
	assert.Equal(t, "stale", suggestions.LongestNoSales.Item.SKU)
}

func TestSuggest_RestockRequiresTwoSales(t *testing.T) {
	items := []domain.ItemSummary{
		{SKU: "A", Category: "Books", Stock: "7", Events: []domain.StockChangeEvent{saleOn(-5, 83)}},
	}

	suggestions := newTestEngine().Suggest(items)

	assert.True(t, suggestions.ItemToRestock.Absent())
	// The single sale still drives the drought ranking.
	assert.Equal(t, "83 days", suggestions.LongestNoSales.Key)
}

func TestSuggest_RestockAveragesGapsIncludingNow(t *testing.T) {
	items := []domain.ItemSummary{
		{SKU: "A", Category: "Books", Stock: "5", Events: []domain.StockChangeEvent{
			saleOn(-1, 20),
			saleOn(-2, 10),
		}},
	}

	suggestions := newTestEngine().Suggest(items)

	require.False(t, suggestions.ItemToRestock.Absent())
	// Gaps: 20d->10d ago is 10 days, 10d ago->now is 10 days; mean is 10.
	assert.Equal(t, "10:5", suggestions.ItemToRestock.Key)
	assert.Equal(t, "A", suggestions.ItemToRestock.Item.SKU)
}

func TestSuggest_RestockPrefersSlowestMoverPerUnitStock(t *testing.T) {
	items := []domain.ItemSummary{
		// avg gap 10 days over 40 in stock: velocity 0.25
		{SKU: "steady", Category: "Books", Stock: "40", Events: []domain.StockChangeEvent{
			saleOn(-1, 20), saleOn(-1, 10),
		}},
		// avg gap 30 days over 2 in stock: velocity 15
		{SKU: "slow", Category: "Books", Stock: "2", Events: []domain.StockChangeEvent{
			saleOn(-1, 60), saleOn(-1, 30),
		}},
	}

	suggestions := newTestEngine().Suggest(items)

	require.False(t, suggestions.ItemToRestock.Absent())
	assert.Equal(t, "slow", suggestions.ItemToRestock.Item.SKU)
	assert.Equal(t, "30:2", suggestions.ItemToRestock.Key)
}

// Category sale totals accumulate across items sharing a category. The system
// this replaces overwrote the running total with each item's contribution;
// summation is the deliberate behavior here.
func TestSuggest_CategorySalesAccumulateAcrossItems(t *testing.T) {
	items := []domain.ItemSummary{
		{SKU: "A", Category: "Books", Events: []domain.StockChangeEvent{saleOn(-10, 5)}},
		{SKU: "B", Category: "Books", Events: []domain.StockChangeEvent{saleOn(-3, 7)}},
		{SKU: "C", Category: "Games", Events: []domain.StockChangeEvent{saleOn(-5, 2)}},
	}

	suggestions := newTestEngine().Suggest(items)

	assert.Equal(t, "Books", suggestions.BestSellingCategory.Category)
	assert.Equal(t, 13, suggestions.BestSellingCategory.Sales)
	assert.Equal(t, "Games", suggestions.WorstSellingCategory.Category)
	assert.Equal(t, 5, suggestions.WorstSellingCategory.Sales)
}

func TestAverageDaysBetween_SortsBeforeAveraging(t *testing.T) {
	dates := []time.Time{
		fixedNow.AddDate(0, 0, -10),
		fixedNow.AddDate(0, 0, -30),
		fixedNow,
	}
	assert.Equal(t, 15, averageDaysBetween(dates))
}

func TestWholeDays_Truncates(t *testing.T) {
	from := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 3, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, wholeDays(from, to))
}

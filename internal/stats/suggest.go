package stats

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/instock-app/instock-server/internal/domain"
)

// Engine derives the suggestion insights from per-item sales facts.
//
// Now is the clock the drought and velocity calculations measure against and
// is replaceable in tests. RestockRank orders restock candidates; the default
// treats a long average gap between sales relative to remaining stock as the
// strongest signal. The original ordering of the ratio keys was never fully
// specified upstream, so the ranking stays a replaceable function.
type Engine struct {
	Now         func() time.Time
	RestockRank func(avgDaysBetweenSales, stock int) float64
}

func NewEngine() *Engine {
	return &Engine{
		Now:         time.Now,
		RestockRank: defaultRestockRank,
	}
}

func defaultRestockRank(avgDaysBetweenSales, stock int) float64 {
	if stock < 1 {
		stock = 1
	}
	return float64(avgDaysBetweenSales) / float64(stock)
}

// Suggest computes the seven insight rankings across the supplied items.
// Where two items tie exactly, the later one in the input wins; callers must
// not rely on a specific winner among exact ties.
func (e *Engine) Suggest(items []domain.ItemSummary) *domain.Suggestions {
	if len(items) == 0 {
		return domain.NoSuggestions()
	}
	now := e.Now()

	var (
		best         domain.ItemRanking
		worst        domain.ItemRanking
		mostReturned domain.ItemRanking
		longest      domain.StringItemRanking
		longestDays  = -1
		restock      domain.StringItemRanking
		restockScore float64
	)
	longest.Key = "0 days"

	categorySales := map[string]int{}
	var categoryOrder []string

	for i := range items {
		item := &items[i]

		itemSales := 0
		itemReturns := 0
		var saleDates []time.Time
		var mostRecentSale time.Time

		for _, ev := range item.Events {
			magnitude := ev.Magnitude()
			if ev.Reason == domain.ReasonSale {
				itemSales += magnitude
				saleDates = append(saleDates, ev.OccurredAt)
				if ev.OccurredAt.After(mostRecentSale) {
					mostRecentSale = ev.OccurredAt
				}
			}
			if ev.Reason == domain.ReasonReturned {
				itemReturns += magnitude
			}
		}

		if _, seen := categorySales[item.Category]; !seen {
			categoryOrder = append(categoryOrder, item.Category)
		}
		categorySales[item.Category] += itemSales

		if itemSales > 0 {
			if best.Absent() || itemSales >= best.Key {
				best = domain.ItemRanking{Key: itemSales, Item: item}
			}
			if worst.Absent() || itemSales <= worst.Key {
				worst = domain.ItemRanking{Key: itemSales, Item: item}
			}
		}

		if itemReturns > 0 && (mostReturned.Absent() || itemReturns >= mostReturned.Key) {
			mostReturned = domain.ItemRanking{Key: itemReturns, Item: item}
		}

		if !mostRecentSale.IsZero() {
			days := wholeDays(mostRecentSale, now)
			if days >= longestDays {
				longestDays = days
				longest = domain.StringItemRanking{
					Key:  fmt.Sprintf("%d days", days),
					Item: item,
				}
			}
		}

		// The restock ratio needs at least two sales: a single sale has no gap
		// to average.
		if len(saleDates) > 1 {
			saleDates = append(saleDates, now)
			avgDays := averageDaysBetween(saleDates)
			stock, _ := strconv.Atoi(item.Stock)
			score := e.RestockRank(avgDays, stock)
			if restock.Absent() || score >= restockScore {
				restockScore = score
				restock = domain.StringItemRanking{
					Key:  fmt.Sprintf("%d:%s", avgDays, item.Stock),
					Item: item,
				}
			}
		}
	}

	bestCategory, worstCategory := rankCategories(categoryOrder, categorySales)

	return &domain.Suggestions{
		BestSellingItem:      best,
		WorstSellingItem:     worst,
		ItemToRestock:        restock,
		LongestNoSales:       longest,
		BestSellingCategory:  bestCategory,
		WorstSellingCategory: worstCategory,
		MostReturnedItem:     mostReturned,
	}
}

// rankCategories picks the categories with the highest and lowest accumulated
// sale units. Among equals the best keeps the earliest category seen and the
// worst the latest, matching a stable descending sort of the accumulator.
func rankCategories(order []string, sales map[string]int) (best, worst domain.CategoryRanking) {
	if len(order) == 0 {
		sentinel := domain.CategoryRanking{Category: domain.NoCategoriesFound}
		return sentinel, sentinel
	}
	best = domain.CategoryRanking{Sales: sales[order[0]], Category: order[0]}
	worst = best
	for _, category := range order[1:] {
		units := sales[category]
		if units > best.Sales {
			best = domain.CategoryRanking{Sales: units, Category: category}
		}
		if units <= worst.Sales {
			worst = domain.CategoryRanking{Sales: units, Category: category}
		}
	}
	return best, worst
}

// wholeDays is the number of complete days between two instants, truncated.
func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// averageDaysBetween sorts the dates ascending and averages the whole-day gaps
// between neighbours. Callers guarantee at least two dates.
func averageDaysBetween(dates []time.Time) int {
	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	totalDays := 0
	for i := 0; i < len(sorted)-1; i++ {
		totalDays += wholeDays(sorted[i], sorted[i+1])
	}
	return totalDays / (len(sorted) - 1)
}

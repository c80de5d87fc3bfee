package stats

import (
	"runtime"
	"sync"

	"github.com/instock-app/instock-server/internal/domain"
)

// Items are split across this many goroutines once the set is large enough to
// be worth partitioning. The fold is commutative and associative per item, so
// partial results merge without ordering concerns.
const parallelThreshold = 64

// Aggregate folds every stock-change event of every item into the overall,
// per-category, and per-month performance maps.
func Aggregate(items []domain.ItemSummary) *domain.AllStats {
	workers := runtime.NumCPU()
	if len(items) < parallelThreshold || workers < 2 {
		return aggregateChunk(items)
	}

	chunk := (len(items) + workers - 1) / workers
	partials := make([]*domain.AllStats, 0, workers)
	var wg sync.WaitGroup
	for start := 0; start < len(items); start += chunk {
		end := start + chunk
		if end > len(items) {
			end = len(items)
		}
		partial := emptyAggregates()
		partials = append(partials, partial)
		wg.Add(1)
		go func(part *domain.AllStats, slice []domain.ItemSummary) {
			defer wg.Done()
			for _, item := range slice {
				for _, ev := range item.Events {
					apply(part, item.Category, ev)
				}
			}
		}(partial, items[start:end])
	}
	wg.Wait()

	result := partials[0]
	for _, partial := range partials[1:] {
		mergeStats(result, partial)
	}
	return result
}

func aggregateChunk(items []domain.ItemSummary) *domain.AllStats {
	stats := emptyAggregates()
	for _, item := range items {
		for _, ev := range item.Events {
			apply(stats, item.Category, ev)
		}
	}
	return stats
}

func emptyAggregates() *domain.AllStats {
	return &domain.AllStats{
		OverallPerformance:  domain.SeedPerformance(),
		CategoryPerformance: map[string]map[domain.Reason]int{},
		SalesByMonth:        map[int]map[string]int{},
		DeductionsByMonth:   map[int]map[string]int{},
	}
}

func apply(stats *domain.AllStats, category string, ev domain.StockChangeEvent) {
	magnitude := ev.Magnitude()
	year := ev.OccurredAt.Year()
	month := ev.OccurredAt.Format("Jan")

	stats.OverallPerformance[ev.Reason] += magnitude

	categoryPerf, ok := stats.CategoryPerformance[category]
	if !ok {
		categoryPerf = domain.SeedPerformance()
		stats.CategoryPerformance[category] = categoryPerf
	}
	categoryPerf[ev.Reason] += magnitude

	if ev.Reason == domain.ReasonSale {
		addToMonth(stats.SalesByMonth, year, month, magnitude)
	}

	// A deduction is a genuine loss of stock: negative, and not explained by a
	// sale or an order.
	if ev.Reason != domain.ReasonSale && ev.Reason != domain.ReasonOrder && ev.Amount < 0 {
		addToMonth(stats.DeductionsByMonth, year, month, magnitude)
	}
}

func addToMonth(byYear map[int]map[string]int, year int, month string, units int) {
	months, ok := byYear[year]
	if !ok {
		months = map[string]int{}
		byYear[year] = months
	}
	months[month] += units
}

// mergeStats adds src into dst, unioning keys. Used to combine partial folds.
func mergeStats(dst, src *domain.AllStats) {
	for reason, units := range src.OverallPerformance {
		dst.OverallPerformance[reason] += units
	}
	for category, perf := range src.CategoryPerformance {
		dstPerf, ok := dst.CategoryPerformance[category]
		if !ok {
			dstPerf = domain.SeedPerformance()
			dst.CategoryPerformance[category] = dstPerf
		}
		for reason, units := range perf {
			dstPerf[reason] += units
		}
	}
	mergeMonths(dst.SalesByMonth, src.SalesByMonth)
	mergeMonths(dst.DeductionsByMonth, src.DeductionsByMonth)
}

func mergeMonths(dst, src map[int]map[string]int) {
	for year, months := range src {
		for month, units := range months {
			addToMonth(dst, year, month, units)
		}
	}
}

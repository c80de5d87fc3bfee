package domain

import (
	"encoding/json"
	"strconv"
)

// NoSuggestionsMessage is returned in place of rankings when a business has no
// data to rank.
const NoSuggestionsMessage = "No Stats Suggestions"

// NoCategoriesFound is the sentinel category name when no category qualifies.
const NoCategoriesFound = "No Categories Found"

// ItemRanking is one item insight: the winning item under an integer key
// (e.g. total sale units). A nil Item marks "no suggestion available" — a
// zero key alone is not enough to tell a genuine zero ranking apart.
type ItemRanking struct {
	Key  int
	Item *ItemSummary
}

// Absent reports whether no item qualified for this ranking.
func (r ItemRanking) Absent() bool { return r.Item == nil }

// MarshalJSON emits the singleton-map wire shape, e.g. {"10": {...item...}}.
func (r ItemRanking) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]*ItemSummary{strconv.Itoa(r.Key): r.Item})
}

// StringItemRanking is an item insight under a string key, such as
// "<days> days" or the "<avgDays>:<stock>" restock ratio.
type StringItemRanking struct {
	Key  string
	Item *ItemSummary
}

func (r StringItemRanking) Absent() bool { return r.Item == nil }

func (r StringItemRanking) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]*ItemSummary{r.Key: r.Item})
}

// CategoryRanking is a category insight: sale units -> category name.
type CategoryRanking struct {
	Sales    int
	Category string
}

func (r CategoryRanking) Absent() bool { return r.Category == NoCategoriesFound }

func (r CategoryRanking) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{strconv.Itoa(r.Sales): r.Category})
}

// Suggestions carries the seven derived insights. Error is set instead of
// rankings when there was nothing to rank.
type Suggestions struct {
	BestSellingItem      ItemRanking       `json:"bestSellingItem"`
	WorstSellingItem     ItemRanking       `json:"worstSellingItem"`
	ItemToRestock        StringItemRanking `json:"itemToRestock"`
	LongestNoSales       StringItemRanking `json:"longestNoSales"`
	BestSellingCategory  CategoryRanking   `json:"bestSellingCategory"`
	WorstSellingCategory CategoryRanking   `json:"worstSellingCategory"`
	MostReturnedItem     ItemRanking       `json:"mostReturnedItem"`
	Error                string            `json:"error,omitempty"`
}

// NoSuggestions is the placeholder for a business with no rankable data.
func NoSuggestions() *Suggestions {
	return &Suggestions{
		LongestNoSales:       StringItemRanking{Key: "0 days"},
		BestSellingCategory:  CategoryRanking{Category: NoCategoriesFound},
		WorstSellingCategory: CategoryRanking{Category: NoCategoriesFound},
		Error:                NoSuggestionsMessage,
	}
}

// AllStats is the full report returned to the caller: the aggregate maps plus
// the suggestion insights.
type AllStats struct {
	OverallPerformance  map[Reason]int            `json:"overallPerformance"`
	CategoryPerformance map[string]map[Reason]int `json:"categoryPerformance"`
	SalesByMonth        map[int]map[string]int    `json:"salesByMonth"`
	DeductionsByMonth   map[int]map[string]int    `json:"deductionsByMonth"`
	Suggestions         *Suggestions              `json:"suggestions"`
}

package domain

// Reason is the fixed vocabulary of stock-change reason codes. The string
// values are the external spellings stored with each stock update, so they are
// preserved exactly at the serialization boundary.
type Reason string

const (
	ReasonSale      Reason = "Sale"
	ReasonOrder     Reason = "Order"
	ReasonReturn    Reason = "Return"
	ReasonGiveaway  Reason = "Giveaway"
	ReasonDamaged   Reason = "Damaged"
	ReasonRestocked Reason = "Restocked"
	ReasonLost      Reason = "Lost"

	// ReasonReturned is a historically distinct spelling that only the
	// most-returned suggestion recognises. It is not one of the seven seeded
	// performance keys. Kept separate from ReasonReturn pending product
	// clarification.
	ReasonReturned Reason = "Returned"
)

// PerformanceReasons are the seven keys every performance map is seeded with,
// in their canonical order.
var PerformanceReasons = []Reason{
	ReasonSale,
	ReasonOrder,
	ReasonReturn,
	ReasonGiveaway,
	ReasonDamaged,
	ReasonRestocked,
	ReasonLost,
}

// SeedPerformance returns a reason map with all seven performance keys at 0.
func SeedPerformance() map[Reason]int {
	m := make(map[Reason]int, len(PerformanceReasons))
	for _, r := range PerformanceReasons {
		m[r] = 0
	}
	return m
}

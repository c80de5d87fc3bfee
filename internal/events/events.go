package events

import (
	"time"
)

// MilestoneReachedEvent announces an item crossing a total-sales threshold.
// Downstream consumers (notifications, the social feed) react to it; this
// service only produces.
type MilestoneReachedEvent struct {
	EventID    string    `json:"event_id"`
	BusinessID string    `json:"business_id"`
	ItemSKU    string    `json:"item_sku"`
	ItemName   string    `json:"item_name"`
	TotalSales int       `json:"total_sales"`
	Timestamp  time.Time `json:"timestamp"`
}

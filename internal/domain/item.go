package domain

import (
	"time"
)

// Item is the persisted shape of an inventory item. Stock histories are stored
// alongside the item as a JSON-encoded string attribute, mirroring the table
// layout.
type Item struct {
	SKU           string `dynamodbav:"SKU"          json:"sku"`
	BusinessID    string `dynamodbav:"BusinessId"   json:"businessId"`
	Category      string `dynamodbav:"Category"     json:"category"`
	Name          string `dynamodbav:"Name"         json:"name"`
	Stock         string `dynamodbav:"Stock"        json:"stock"`
	ImageFilename string `dynamodbav:"ImageFilename,omitempty" json:"imageFilename,omitempty"`
	StockUpdates  string `dynamodbav:"StockUpdates,omitempty" json:"stockUpdates,omitempty"`
}

// StockUpdateRecord is one entry of the encoded StockUpdates history, in its
// wire spelling.
type StockUpdateRecord struct {
	ReasonForChange string `json:"ReasonForChange"`
	AmountChanged   int    `json:"AmountChanged"`
	DateTimeAdded   string `json:"DateTimeAdded"`
}

// StockChangeEvent is one decoded stock change. Amount keeps its sign;
// magnitude is taken where the aggregates need it.
type StockChangeEvent struct {
	Reason     Reason
	Amount     int
	OccurredAt time.Time
}

// Magnitude returns the absolute number of units changed.
func (e StockChangeEvent) Magnitude() int {
	if e.Amount < 0 {
		return -e.Amount
	}
	return e.Amount
}

// ItemSummary is the transient read model the stats engines consume: item
// identity plus its full decoded event history. A nil Events slice means the
// item had no recorded history; event order is arrival order, not guaranteed
// chronological.
type ItemSummary struct {
	SKU        string             `json:"sku"`
	BusinessID string             `json:"businessId"`
	Category   string             `json:"category"`
	Name       string             `json:"name"`
	Stock      string             `json:"stock"`
	Events     []StockChangeEvent `json:"-"`
}

// CreateItemRequest is the write-path payload for a new item.
type CreateItemRequest struct {
	SKU      string `json:"sku" binding:"required"`
	Category string `json:"category"`
	Name     string `json:"name" binding:"required"`
	Stock    int    `json:"stock"`
}

// StockUpdateRequest records one stock change against an item.
type StockUpdateRequest struct {
	ReasonForChange string `json:"reasonForChange" binding:"required"`
	AmountChanged   int    `json:"amountChanged" binding:"required"`
}

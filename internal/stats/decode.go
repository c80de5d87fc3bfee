package stats

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/instock-app/instock-server/internal/domain"
)

// Layouts accepted for the DateTimeAdded string of a stock update. Histories
// written by older clients used the space-separated form.
var eventTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DecodeItems turns raw item records into the read model the engines consume.
// A history that fails to decode fails the whole call: a partially decoded
// item would silently understate its contribution to every aggregate.
func DecodeItems(raw []map[string]types.AttributeValue) ([]domain.ItemSummary, error) {
	items := make([]domain.ItemSummary, 0, len(raw))
	for _, attrs := range raw {
		item, err := decodeItem(attrs)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeItem(attrs map[string]types.AttributeValue) (domain.ItemSummary, error) {
	item := domain.ItemSummary{
		SKU:        stringAttr(attrs, "SKU"),
		BusinessID: stringAttr(attrs, "BusinessId"),
		Category:   stringAttr(attrs, "Category"),
		Name:       stringAttr(attrs, "Name"),
		Stock:      scalarAttr(attrs, "Stock"),
	}

	// Absent history means no stock changes were ever recorded, not an error.
	encoded := stringAttr(attrs, "StockUpdates")
	if encoded == "" {
		return item, nil
	}

	var records []domain.StockUpdateRecord
	if err := json.Unmarshal([]byte(encoded), &records); err != nil {
		return domain.ItemSummary{}, fmt.Errorf("item %s: malformed stock history: %w", item.SKU, err)
	}

	item.Events = make([]domain.StockChangeEvent, 0, len(records))
	for _, rec := range records {
		occurredAt, err := parseEventTime(rec.DateTimeAdded)
		if err != nil {
			return domain.ItemSummary{}, fmt.Errorf("item %s: %w", item.SKU, err)
		}
		item.Events = append(item.Events, domain.StockChangeEvent{
			Reason:     domain.Reason(rec.ReasonForChange),
			Amount:     rec.AmountChanged,
			OccurredAt: occurredAt,
		})
	}
	return item, nil
}

func parseEventTime(value string) (time.Time, error) {
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable stock update timestamp %q", value)
}

// stringAttr reads an S attribute, returning "" when absent or of another type.
func stringAttr(attrs map[string]types.AttributeValue, name string) string {
	if v, ok := attrs[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

// scalarAttr reads an attribute that may be stored as either S or N. Stock was
// written as a number by early clients and as a string since.
func scalarAttr(attrs map[string]types.AttributeValue, name string) string {
	switch v := attrs[name].(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	}
	return ""
}

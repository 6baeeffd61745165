package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is invalid, empty, or not
// in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"kind":       true,
	"status":     true,
	"total_base": true,
	"due_date":   true,
	"paid":       true,
}

// OrderFilterFields contains allowed equality filter columns for orders
var OrderFilterFields = map[string]bool{
	"kind":            true,
	"status":          true,
	"counterparty_id": true,
	"currency":        true,
	"paid":            true,
}

// AccountSortFields contains allowed sort fields for settlement accounts
var AccountSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"direction":      true,
	"status":         true,
	"original_base":  true,
	"remaining_base": true,
	"due_date":       true,
}

// AccountFilterFields contains allowed equality filter columns for accounts
var AccountFilterFields = map[string]bool{
	"direction":       true,
	"status":          true,
	"counterparty_id": true,
	"order_id":        true,
}

// PositionSortFields contains allowed sort fields for inventory positions
var PositionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"variant_id":       true,
	"quantity_on_hand": true,
}

// PositionFilterFields contains allowed equality filter columns for positions
var PositionFilterFields = map[string]bool{
	"variant_id": true,
}

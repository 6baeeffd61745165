package persistence

import (
	"fmt"

	"github.com/retail/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter assembles a query from a shared.Filter using column
// allow-lists. Filter keys outside the allow-list are dropped and values
// are always bound as parameters; user input never reaches the SQL text.
func applyFilter(db *gorm.DB, filter shared.Filter, sortFields, filterFields map[string]bool) *gorm.DB {
	for key, value := range filter.Filters {
		if filterFields[key] {
			db = db.Where(fmt.Sprintf("%s = ?", key), value)
		}
	}

	field := ValidateSortField(filter.OrderBy, sortFields, "created_at")
	dir := ValidateSortOrder(filter.OrderDir)
	db = db.Order(fmt.Sprintf("%s %s", field, dir))

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		db = db.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return db
}

// applyFilterForCount applies only the filter conditions, without sorting
// or pagination.
func applyFilterForCount(db *gorm.DB, filter shared.Filter, filterFields map[string]bool) *gorm.DB {
	for key, value := range filter.Filters {
		if filterFields[key] {
			db = db.Where(fmt.Sprintf("%s = ?", key), value)
		}
	}
	return db
}

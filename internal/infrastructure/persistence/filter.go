package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/furnish/backend/internal/domain/shared"
)

// sortableColumns limits OrderBy to known column names so a filter value can
// never inject SQL through the ORDER BY clause.
var sortableColumns = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"code":         true,
	"sku":          true,
	"status":       true,
	"order_no":     true,
	"po_no":        true,
	"bill_no":      true,
	"statement_no": true,
	"total_amount": true,
}

// applyFilter applies pagination and ordering from a shared.Filter
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" && sortableColumns[filter.OrderBy] {
		dir := "ASC"
		if strings.EqualFold(filter.OrderDir, "desc") {
			dir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + dir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applySearch adds a case-insensitive match over the given columns
func applySearch(query *gorm.DB, filter shared.Filter, columns ...string) *gorm.DB {
	if filter.Search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + filter.Search + "%"
	clauses := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		clauses = append(clauses, col+" ILIKE ?")
		args = append(args, pattern)
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}

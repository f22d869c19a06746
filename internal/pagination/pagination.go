// Package pagination pages ledger and activity listings. Listings are
// ordered by a time column with the record id as tie-breaker, so pages stay
// stable while new records arrive.
package pagination

import (
	"fmt"

	"gorm.io/gorm"
)

// Sort orders
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Sort     string `form:"sort" binding:"omitempty,oneof=newest oldest"`
}

// Normalize fills in defaults and clamps values that did not go through
// request binding.
func (p *PageRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = defaultPageSize
	case p.PageSize > maxPageSize:
		p.PageSize = maxPageSize
	}
	if p.Sort != SortOldest {
		p.Sort = SortNewest
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// OrderBy returns the ORDER BY clause for column, newest first unless
// Sort is SortOldest.
func (p PageRequest) OrderBy(column string) string {
	dir := "DESC"
	if p.Sort == SortOldest {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s, id %s", column, dir, dir)
}

// PageResponse wraps a paginated list of items with metadata.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// NewPageResponse creates a PageResponse from the given data and total count.
func NewPageResponse[T any](data []T, page, pageSize int, totalItems int64) PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	}
	return PageResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

// Fetch counts the rows matched by query and loads one page of them ordered
// by timeColumn. query must already carry its Model and filters. Errors are
// returned as the store reported them.
func Fetch[T any](query *gorm.DB, req PageRequest, timeColumn string) (*PageResponse[T], error) {
	req.Normalize()

	var totalItems int64
	if err := query.Session(&gorm.Session{}).Count(&totalItems).Error; err != nil {
		return nil, err
	}

	var items []T
	if err := query.Session(&gorm.Session{}).
		Order(req.OrderBy(timeColumn)).
		Offset(req.Offset()).Limit(req.PageSize).
		Find(&items).Error; err != nil {
		return nil, err
	}

	resp := NewPageResponse(items, req.Page, req.PageSize, totalItems)
	return &resp, nil
}

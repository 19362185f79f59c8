package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Pagination is 1-based.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize applies defaults and bounds.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages rounds up.
func (p Pagination) TotalPages(total int64) int {
	if p.Limit <= 0 || total == 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// TimeRange is inclusive on both ends. Bounds are bound in UTC, the zone
// every timestamp column is written in.
type TimeRange struct {
	From time.Time
	To   time.Time
}

func (r *TimeRange) apply(db *gorm.DB, column string) *gorm.DB {
	if r == nil {
		return db
	}
	return db.Where(column+" >= ? AND "+column+" <= ?", r.From.UTC(), r.To.UTC())
}

// containsPattern builds a LIKE pattern for use against LOWER(column).
func containsPattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

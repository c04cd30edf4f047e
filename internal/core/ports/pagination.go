package ports

import (
	"math"

	"github.com/sould/property-match/internal/core/domain"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// NewPage applies defaults and caps the limit.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

// Skip is the number of documents before the page. It saturates at
// math.MaxInt64 instead of wrapping for absurd page numbers.
func (p Page) Skip() int64 {
	if p.Number <= 1 || p.Limit <= 0 {
		return 0
	}
	before, limit := int64(p.Number-1), int64(p.Limit)
	if before > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return before * limit
}

// PropertyPage is one page of a property search.
type PropertyPage struct {
	Items      []domain.Property
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TotalPages returns the page count for total items at limit per page.
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

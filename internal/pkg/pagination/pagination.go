// Package pagination clamps loosely typed page/limit/sort inputs and derives
// page metadata from a total count. Nothing here rejects input: bad values
// fall back to defaults or the nearest bound.
package pagination

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/yungbote/solutions-catalog/internal/domain/catalog"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50

	// MaxPage keeps (page-1)*MaxLimit well inside int64.
	MaxPage = math.MaxInt32
)

// Page parses a page number. Blank, non-numeric and non-positive input all
// yield DefaultPage; oversized input is clamped to MaxPage.
func Page(raw string) int {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(strings.TrimSpace(raw), "-") {
		return MaxPage
	}
	if err != nil || n < 1 {
		return DefaultPage
	}
	if n > MaxPage {
		return MaxPage
	}
	return int(n)
}

// Limit parses a page size. Blank input yields DefaultLimit; any present
// value is clamped into [1, MaxLimit], with non-numeric input treated as
// below range.
func Limit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

func SortBy(raw string) catalog.SortField {
	f := catalog.SortField(strings.TrimSpace(raw))
	if !f.Valid() {
		return catalog.SortByCreatedAt
	}
	return f
}

func SortOrder(raw string) catalog.SortOrder {
	switch catalog.SortOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case catalog.SortAsc:
		return catalog.SortAsc
	default:
		return catalog.SortDesc
	}
}

// Offset is the number of rows to skip for page/limit.
func Offset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	return (page - 1) * limit
}

// Build derives PageInfo. totalPages is ceil(total/limit); next/prev are
// only set when that direction exists.
func Build(total int64, page, limit int) catalog.PageInfo {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = DefaultPage
	}
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	info := catalog.PageInfo{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
	if info.HasNextPage {
		next := page + 1
		info.NextPage = &next
	}
	if info.HasPrevPage {
		prev := page - 1
		info.PrevPage = &prev
	}
	return info
}

package engine

import "github.com/marketfair/catalog/internal/domain"

// Pagination is the metadata block decorating every result page.
type Pagination struct {
	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// Paginate slices one page out of an ordered sequence and computes its
// metadata. skip = (page-1)*pageSize; the slice is clamped to the sequence
// bounds, so an out-of-range page yields an empty slice, never an error.
//
// totalCount is supplied by the caller: strategies working over a bounded
// candidate window must pass the independent full-category count here, not
// len(ordered), or TotalPages would undercount.
func Paginate(ordered []*domain.Listing, page, pageSize, totalCount int) ([]*domain.Listing, Pagination) {
	skip := (page - 1) * pageSize

	lo := skip
	if lo < 0 || lo > len(ordered) {
		lo = len(ordered) // out-of-range page, including int-overflowed skip
	}
	hi := lo + pageSize
	if hi > len(ordered) {
		hi = len(ordered)
	}

	slice := make([]*domain.Listing, hi-lo)
	copy(slice, ordered[lo:hi])

	totalPages := 0
	if totalCount > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}

	return slice, Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

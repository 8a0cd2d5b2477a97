// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged lists.
const PageSize = 50

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Skip returns the number of rows before page for Find().SetSkip().
func Skip(page int) int64 {
	if page < 1 {
		page = 1
	}
	return int64((page - 1) * PageSize)
}

// Pager holds the navigation values a list template needs.
type Pager struct {
	Page       int
	TotalPages int
	Total      int64
	Start      int // 1-based index of the first row shown (0 if none)
	End        int // 1-based index of the last row shown (0 if none)
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// New computes a Pager for the given page, total matching rows and the
// number of rows actually shown.
func New(page int, total int64, shown int) Pager {
	return newWithSize(page, total, shown, PageSize)
}

func newWithSize(page int, total int64, shown, size int) Pager {
	if page < 1 {
		page = 1
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	p := Pager{
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   max(page-1, 1),
		NextPage:   min(page+1, totalPages),
	}
	if shown > 0 {
		p.Start = (page-1)*size + 1
		p.End = p.Start + shown - 1
	}
	return p
}

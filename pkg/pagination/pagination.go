package pagination

import (
	"math"
	"net/http"
	"strconv"
)

// MaxPerPage caps the page size a client may request.
const MaxPerPage = 100

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
	Offset  int `json:"-"`
}

// DefaultParams returns the first page with the given size.
func DefaultParams(perPage int) Params {
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = 20
	}
	return Params{Page: 1, PerPage: perPage}
}

// FromRequest reads "page" (1-based) and "limit" from the query string,
// falling back to defaultPerPage for missing or out of range values.
func FromRequest(r *http.Request, defaultPerPage int) Params {
	p := DefaultParams(defaultPerPage)
	q := r.URL.Query()

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 && v <= MaxPerPage {
		p.PerPage = v
	}

	p.Page = ClampPage(p.Page, p.PerPage)
	p.Offset = (p.Page - 1) * p.PerPage
	return p
}

// ClampPage bounds page so that (page-1)*perPage cannot overflow. Pages past
// the clamp are empty anyway.
func ClampPage(page, perPage int) int {
	if page < 1 {
		return 1
	}
	if perPage > 0 && page > math.MaxInt/perPage {
		return math.MaxInt / perPage
	}
	return page
}

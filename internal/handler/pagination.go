package handler

import (
	"net/http"
	"strconv"
)

// Guestbook pages. MaxLimit caps what a single listing request can pull.
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

type PaginationParams struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit/offset from the query string. Out-of-range or
// unparseable values fall back to the defaults rather than erroring, so a
// bad query never breaks the listing.
func ParsePagination(r *http.Request) PaginationParams {
	params := PaginationParams{Limit: DefaultLimit}

	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 && limit <= MaxLimit {
		params.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		params.Offset = offset
	}

	return params
}

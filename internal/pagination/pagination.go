// Package pagination builds page windows and prev/next links for the
// listing endpoints.
package pagination

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Page describes one window of a paginated collection. It is embedded
// into listing responses alongside the items.
type Page struct {
	Total        int     `json:"total"`
	CurrentTotal int     `json:"currentTotal"`
	TotalPages   int     `json:"totalPages"`
	PrevPage     *string `json:"prevPage"`
	NextPage     *string `json:"nextPage"`
}

// OutOfRangeError reports a request for a page beyond the last one.
// Handlers map it to a 400 response.
type OutOfRangeError struct {
	Page       int
	TotalPages int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("page %d exceeds total pages %d", e.Page, e.TotalPages)
}

// Paginate computes the page metadata for a window of currentTotal items
// out of total, viewed at the given page and limit. An empty collection
// (totalPages 0) is never out of range.
func Paginate(total, currentTotal, page, limit int, baseURL string) (Page, error) {
	totalPages := (total + limit - 1) / limit

	if page > totalPages && totalPages > 0 {
		return Page{}, &OutOfRangeError{Page: page, TotalPages: totalPages}
	}

	p := Page{
		Total:        total,
		CurrentTotal: currentTotal,
		TotalPages:   totalPages,
	}
	if page > 1 {
		p.PrevPage = link(baseURL, page-1, limit)
	}
	if page < totalPages {
		p.NextPage = link(baseURL, page+1, limit)
	}
	return p, nil
}

func link(baseURL string, page, limit int) *string {
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	url := fmt.Sprintf("%s%spage=%d&limit=%d", baseURL, sep, page, limit)
	return &url
}

// Params is the parsed page/limit pair plus the derived SQL offset.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// ParseParams reads page and limit from the query string. Absent,
// malformed, or non-positive values fall back to page 1 and the
// caller-supplied default limit.
func ParseParams(r *http.Request, defaultLimit int) Params {
	page := intQuery(r, "page", 1)
	limit := intQuery(r, "limit", defaultLimit)
	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

func intQuery(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}

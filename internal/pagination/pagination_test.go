package pagination

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name         string
		total        int
		currentTotal int
		page         int
		limit        int
		wantPages    int
		wantPrev     *string
		wantNext     *string
	}{
		{
			name:  "middle page has both links",
			total: 25, currentTotal: 10, page: 2, limit: 10,
			wantPages: 3,
			wantPrev:  ptr("/x?page=1&limit=10"),
			wantNext:  ptr("/x?page=3&limit=10"),
		},
		{
			name:  "first page has no prev",
			total: 25, currentTotal: 10, page: 1, limit: 10,
			wantPages: 3,
			wantNext:  ptr("/x?page=2&limit=10"),
		},
		{
			name:  "last page has no next",
			total: 25, currentTotal: 5, page: 3, limit: 10,
			wantPages: 3,
			wantPrev:  ptr("/x?page=2&limit=10"),
		},
		{
			name:  "empty collection is never out of range",
			total: 0, currentTotal: 0, page: 1, limit: 10,
			wantPages: 0,
		},
		{
			name:  "exact multiple of limit",
			total: 30, currentTotal: 10, page: 3, limit: 10,
			wantPages: 3,
			wantPrev:  ptr("/x?page=2&limit=10"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Paginate(tt.total, tt.currentTotal, tt.page, tt.limit, "/x")
			require.NoError(t, err)
			assert.Equal(t, tt.total, got.Total)
			assert.Equal(t, tt.currentTotal, got.CurrentTotal)
			assert.Equal(t, tt.wantPages, got.TotalPages)
			assert.Equal(t, tt.wantPrev, got.PrevPage)
			assert.Equal(t, tt.wantNext, got.NextPage)
		})
	}
}

func TestPaginateOutOfRange(t *testing.T) {
	_, err := Paginate(100, 10, 11, 10, "/x")
	require.Error(t, err)

	var oor *OutOfRangeError
	require.True(t, errors.As(err, &oor))
	assert.Equal(t, 11, oor.Page)
	assert.Equal(t, 10, oor.TotalPages)
}

func TestPaginateBaseURLWithQuery(t *testing.T) {
	got, err := Paginate(25, 10, 2, 10, "/posts/search?q=nepal")
	require.NoError(t, err)
	assert.Equal(t, "/posts/search?q=nepal&page=1&limit=10", *got.PrevPage)
	assert.Equal(t, "/posts/search?q=nepal&page=3&limit=10", *got.NextPage)
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/posts", 1, 10},
		{"explicit", "/posts?page=3&limit=5", 3, 5},
		{"non-numeric falls back", "/posts?page=abc&limit=xyz", 1, 10},
		{"zero falls back", "/posts?page=0&limit=0", 1, 10},
		{"negative falls back", "/posts?page=-2&limit=-1", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			p := ParseParams(r, 10)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, (tt.wantPage-1)*tt.wantLimit, p.Offset)
		})
	}
}

func ptr(s string) *string { return &s }

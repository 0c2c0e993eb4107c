package models

import (
	"net/url"
	"strconv"
	"strings"
)

type SortKey string

const (
	SortByVotes     SortKey = "vote_count"
	SortByCreated   SortKey = "created_at"
	SortByUpdated   SortKey = "updated_at"
	SortByAuthor    SortKey = "author"
	DefaultPageSize         = 12
	MaxPageSize             = 100
	allCategories           = "all"
)

type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ParseSortKey accepts the wire names of the sort keys.
func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByVotes, SortByCreated, SortByUpdated, SortByAuthor:
		return k, true
	}
	return "", false
}

// QuoteFilter selects a page of the quote list.
type QuoteFilter struct {
	Category  string
	Author    string
	Search    string
	UserName  string
	SortBy    SortKey
	SortOrder SortOrder
	Page      int
	Limit     int
}

// Normalize trims free-text fields, drops the "all" category, fills the
// default sort (most voted) and its natural order (ASC for author, DESC
// otherwise), and clamps page and limit.
func (f QuoteFilter) Normalize() QuoteFilter {
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	if f.Category == allCategories {
		f.Category = ""
	}
	f.Author = strings.TrimSpace(f.Author)
	f.Search = strings.TrimSpace(f.Search)
	f.UserName = strings.TrimSpace(f.UserName)

	if f.SortBy == "" {
		f.SortBy = SortByVotes
	}
	if f.SortOrder != SortAsc && f.SortOrder != SortDesc {
		if f.SortBy == SortByAuthor {
			f.SortOrder = SortAsc
		} else {
			f.SortOrder = SortDesc
		}
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	return f
}

// Query encodes the filter as the list endpoint's query string parameters.
// Empty fields are omitted.
func (f QuoteFilter) Query() url.Values {
	q := url.Values{}
	if f.Category != "" && f.Category != allCategories {
		q.Set("category", f.Category)
	}
	if v := strings.TrimSpace(f.Author); v != "" {
		q.Set("author", v)
	}
	if v := strings.TrimSpace(f.Search); v != "" {
		q.Set("search", v)
	}
	if v := strings.TrimSpace(f.UserName); v != "" {
		q.Set("user_name", v)
	}
	if f.SortBy != "" {
		q.Set("sortBy", string(f.SortBy))
	}
	if f.SortOrder != "" {
		q.Set("sortOrder", string(f.SortOrder))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// IsFiltered reports whether the filter differs from the default listing.
func (f QuoteFilter) IsFiltered() bool {
	n := f.Normalize()
	return n.Search != "" || n.Category != "" || n.Author != "" || n.UserName != "" || n.SortBy != SortByVotes
}

// Pagination is the list endpoint's paging block.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// TotalPages is ceil(total/limit), at least 1.
func (p Pagination) TotalPages() int {
	if p.Limit <= 0 || p.Total <= 0 {
		return 1
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// HasNext reports whether a page follows the current one.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages()
}

// Range returns the 1-based positions of the first and last items shown on
// the current page, or 0, 0 for an empty list.
func (p Pagination) Range() (from, to int) {
	if p.Total <= 0 || p.Limit <= 0 || p.Page <= 0 {
		return 0, 0
	}
	from = (p.Page-1)*p.Limit + 1
	to = min(p.Page*p.Limit, p.Total)
	if from > to {
		return 0, 0
	}
	return from, to
}

// QuotePage is one page of the quote list.
type QuotePage struct {
	Items      []Quote
	Pagination Pagination
}

package recordkit

import (
	"net/url"
	"strconv"
	"strings"
)

// Pagination defaults shared by every list endpoint.
const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// PageConfig declares per-resource pagination policy: bounds, defaults and
// the sortable-field whitelist. Zero values fall back to the package
// defaults, so `PageConfig{AllowedSortFields: ...}` is a complete config.
type PageConfig struct {
	MaxPerPage        int
	DefaultPerPage    int
	DefaultSortField  string
	DefaultSortOrder  string
	AllowedSortFields []string
	SearchParam       string
}

func (c PageConfig) normalized() PageConfig {
	if c.MaxPerPage <= 0 {
		c.MaxPerPage = MaxPerPage
	}
	if c.DefaultPerPage <= 0 {
		c.DefaultPerPage = DefaultPerPage
	}
	if c.DefaultSortOrder != "asc" && c.DefaultSortOrder != "desc" {
		c.DefaultSortOrder = "desc"
	}
	return c
}

func (c PageConfig) allowsSortField(field string) bool {
	for _, f := range c.AllowedSortFields {
		if f == field {
			return true
		}
	}
	return false
}

// PageRequest is a normalized, always-valid page request. Build one with
// PageRequestFromValues or NewPageRequest; every field is guaranteed to be
// inside the config's bounds, so consumers never re-validate.
type PageRequest struct {
	Page      int
	PerPage   int
	SortField string
	SortOrder string
	Search    string
	Filters   map[string]string
}

// NewPageRequest returns the default page request for a config: first page,
// default size, default sort, no search.
func NewPageRequest(cfg PageConfig) PageRequest {
	cfg = cfg.normalized()
	return PageRequest{
		Page:      1,
		PerPage:   cfg.DefaultPerPage,
		SortField: cfg.DefaultSortField,
		SortOrder: cfg.DefaultSortOrder,
	}
}

// PageRequestFromValues builds a PageRequest from raw query parameters.
// It never fails: out-of-range, malformed or unknown inputs fall back to
// the config's defaults field by field.
//
// Normalization rules:
//   - page: integer floor of the value, minimum 1
//   - per_page: clamped to cfg.MaxPerPage, minimum 1, absent → default
//   - sort_field: must be whitelisted in cfg.AllowedSortFields, else default
//   - sort_order: lowercased, must be asc|desc, else default
//   - search: read from cfg.SearchParam (default "search"), passed through;
//     empty means no search
//   - filter[key]=value params: collected verbatim into Filters, never
//     interpreted here
func PageRequestFromValues(values url.Values, cfg PageConfig) PageRequest {
	cfg = cfg.normalized()
	req := NewPageRequest(cfg)

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 1 {
		req.Page = page
	}

	if raw := values.Get("per_page"); raw != "" {
		if perPage, err := strconv.Atoi(raw); err == nil {
			if perPage > cfg.MaxPerPage {
				perPage = cfg.MaxPerPage
			}
			if perPage < 1 {
				perPage = 1
			}
			req.PerPage = perPage
		}
	}

	if field := values.Get("sort_field"); field != "" && cfg.allowsSortField(field) {
		req.SortField = field
	}

	if order := strings.ToLower(values.Get("sort_order")); order == "asc" || order == "desc" {
		req.SortOrder = order
	}

	searchParam := cfg.SearchParam
	if searchParam == "" {
		searchParam = "search"
	}
	req.Search = values.Get(searchParam)

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		if name, ok := filterKey(key); ok {
			if req.Filters == nil {
				req.Filters = make(map[string]string)
			}
			req.Filters[name] = vals[0]
		}
	}

	return req
}

func filterKey(key string) (string, bool) {
	if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
		return "", false
	}
	name := key[len("filter[") : len(key)-1]
	if name == "" {
		return "", false
	}
	return name, true
}

// HasSearch reports whether the request carries a search term. An empty
// string means no search, not a search for everything.
func (r PageRequest) HasSearch() bool {
	return r.Search != ""
}

// Filter returns the opaque filter value for key, with presence. The
// library never interprets filters; they exist for domain-specific
// consumers.
func (r PageRequest) Filter(key string) (string, bool) {
	v, ok := r.Filters[key]
	return v, ok
}

// Offset returns the row offset for the request.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PerPage
}

// WithPage returns a copy with the page number set (floored to 1).
func (r PageRequest) WithPage(page int) PageRequest {
	if page < 1 {
		page = 1
	}
	r.Page = page
	return r
}

// WithPerPage returns a copy with the page size set (floored to 1; callers
// building requests by hand own their upper bound).
func (r PageRequest) WithPerPage(perPage int) PageRequest {
	if perPage < 1 {
		perPage = 1
	}
	r.PerPage = perPage
	return r
}

// WithSort returns a copy with sort field and order set.
func (r PageRequest) WithSort(field, order string) PageRequest {
	r.SortField = field
	if order = strings.ToLower(order); order == "asc" || order == "desc" {
		r.SortOrder = order
	}
	return r
}

// WithSearch returns a copy with the search term set.
func (r PageRequest) WithSearch(search string) PageRequest {
	r.Search = search
	return r
}

// Pagination is the page metadata returned alongside items.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Page is one page of results plus its metadata.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

func newPagination(req PageRequest, total int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + req.PerPage - 1) / req.PerPage
	}
	return Pagination{
		Page:       req.Page,
		PerPage:    req.PerPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

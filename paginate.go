package recordkit

import (
	"context"
	"strings"

	"github.com/fernandezvara/dbkit"
	"github.com/uptrace/bun"
)

// qualifySort prefixes an unqualified sort field with a table alias, so
// ordering stays unambiguous once relations join in tables sharing column
// names (created_at and friends).
func qualifySort(req PageRequest, alias string) PageRequest {
	if req.SortField != "" && !strings.Contains(req.SortField, ".") {
		req.SortField = alias + "." + req.SortField
	}
	return req
}

// SearchFunc narrows a select query for a non-empty search term. The
// returned query must keep all constraints already on q.
type SearchFunc func(q *bun.SelectQuery, term string) *bun.SelectQuery

// Paginate executes q as one page of T. The query should already carry its
// domain constraints (model, joins, where); Paginate adds search, ordering
// and the window, then runs a combined scan+count.
//
// Search is a case-insensitive substring match (ILIKE) OR-combined across
// searchableFields and ANDed with the existing constraints. Ordering follows
// req; rows equal under the sort key come back in store order, which is not
// stable across calls. A page beyond the last yields empty items with true
// totals and no error.
func Paginate[T any](ctx context.Context, q *bun.SelectQuery, req PageRequest, searchableFields []string) (*Page[T], error) {
	search := func(q *bun.SelectQuery, term string) *bun.SelectQuery {
		return q.WhereGroup(" AND ", func(g *bun.SelectQuery) *bun.SelectQuery {
			for _, field := range searchableFields {
				g = g.WhereOr("? ILIKE ?", bun.Ident(field), "%"+term+"%")
			}
			return g
		})
	}
	return PaginateWith[T](ctx, q, req, search)
}

// PaginateWith is Paginate with a caller-supplied search strategy, for
// resources whose search spans joins or computed expressions.
func PaginateWith[T any](ctx context.Context, q *bun.SelectQuery, req PageRequest, search SearchFunc) (*Page[T], error) {
	if req.HasSearch() && search != nil {
		q = search(q, req.Search)
	}

	if req.SortField != "" {
		dir := bun.Safe("ASC")
		if req.SortOrder == "desc" {
			dir = bun.Safe("DESC")
		}
		q = q.OrderExpr("? ?", bun.Ident(req.SortField), dir)
	}

	q = q.Limit(req.PerPage).Offset(req.Offset())

	var items []T
	total, err := q.ScanAndCount(ctx, &items)
	if err := dbkit.WithErr1(err, "Paginate").Err(); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	return &Page[T]{
		Items:      items,
		Pagination: newPagination(req, total),
	}, nil
}

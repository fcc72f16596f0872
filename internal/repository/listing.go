package repository

import (
	"fmt"
	"strings"
)

// FilterOp is one of the supported comparison operators for list filters.
// Anything outside this set is rejected at parse time; there is no dynamic
// attribute dispatch.
type FilterOp string

const (
	FilterOpEq       FilterOp = "eq"
	FilterOpLe       FilterOp = "le"
	FilterOpGe       FilterOp = "ge"
	FilterOpContains FilterOp = "contains"
)

// Filter is a single parsed filter expression, e.g. "le:alice".
type Filter struct {
	Op    FilterOp
	Value string
}

// ParseFilter parses the "<op>:<value>" query syntax. A value without an
// operator prefix means substring match.
func ParseFilter(raw string) Filter {
	op, value, found := strings.Cut(raw, ":")
	if found {
		switch FilterOp(op) {
		case FilterOpEq, FilterOpLe, FilterOpGe:
			return Filter{Op: FilterOp(op), Value: value}
		}
	}
	return Filter{Op: FilterOpContains, Value: raw}
}

// condition renders the filter as a parameterized SQL condition against
// column, using argIndex as the placeholder number.
func (f Filter) condition(column string, argIndex int) (string, string) {
	switch f.Op {
	case FilterOpEq:
		return fmt.Sprintf("%s = $%d", column, argIndex), f.Value
	case FilterOpLe:
		return fmt.Sprintf("%s <= $%d", column, argIndex), f.Value
	case FilterOpGe:
		return fmt.Sprintf("%s >= $%d", column, argIndex), f.Value
	default:
		return fmt.Sprintf("%s ILIKE '%%' || $%d || '%%'", column, argIndex), f.Value
	}
}

// ListQuery carries the parsed filter/order/limit parameters of a list
// request.
type ListQuery struct {
	NameFilter *Filter
	OrderBy    string
	OrderDesc  bool
	Limit      int
}

// studentOrderColumns enumerates the columns a student listing may be
// ordered by, mapped to their SQL expressions.
var studentOrderColumns = map[string]string{
	"name":       "u.name",
	"balance":    "balance",
	"created_at": "s.created_at",
}

// ParseOrderBy parses "column" or "column desc" against the allowed column
// set. Unknown columns fall back to the default ordering.
func (q *ListQuery) ParseOrderBy(raw string) {
	column, rest, _ := strings.Cut(strings.TrimSpace(raw), " ")
	if _, ok := studentOrderColumns[column]; !ok {
		return
	}
	q.OrderBy = column
	q.OrderDesc = strings.EqualFold(strings.TrimSpace(rest), "desc")
}

// orderClause returns the ORDER BY expression for the query, defaulting to
// creation order.
func (q ListQuery) orderClause() string {
	expr, ok := studentOrderColumns[q.OrderBy]
	if !ok {
		expr = studentOrderColumns["created_at"]
	}
	if q.OrderDesc {
		return expr + " DESC"
	}
	return expr
}

// Package query turns request parameters into constrained, ordered gorm
// queries. Each resource declares a Definition: which fields free-text search
// touches, which fields may be sorted on, and an enumerated set of extra
// filter keys with typed handlers. Values outside an allow-list never error;
// they fall back to the resource defaults.
package query

import (
	"strings"

	"gorm.io/gorm"
)

const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"

	DefaultSortField = "created_at"
	DefaultDirection = DirectionDesc
)

// Params is the request-shaped string mapping the engine reads from. Both
// url.Values-backed requests and bulk-action filter payloads satisfy it.
type Params interface {
	Get(key string) string
}

// MapParams adapts a plain map to Params.
type MapParams map[string]string

func (m MapParams) Get(key string) string { return m[key] }

// FilterFunc applies one extra filter value to a query. Handlers are an
// explicit enumeration, keyed by parameter name.
type FilterFunc func(db *gorm.DB, value string) *gorm.DB

type Definition struct {
	Searchable       []string
	Sortable         []string
	DefaultSort      string
	DefaultDirection string
	Filters          map[string]FilterFunc
}

// State is the resolved filter state echoed back to the UI so controls and
// pagination links can reflect the active query.
type State struct {
	Search    string `json:"search"`
	Sort      string `json:"sort"`
	Direction string `json:"direction"`
}

// Apply constrains and orders db according to params. Sorting is always
// applied, even when no filter matched.
func (d Definition) Apply(db *gorm.DB, params Params) (*gorm.DB, State) {
	db, state := d.Constrain(db, params)

	state.Sort = d.resolveSort(params.Get("sort"))
	state.Direction = d.resolveDirection(params.Get("direction"))
	db = db.Order(state.Sort + " " + state.Direction)

	return db, state
}

// Constrain applies the search and extra-filter predicates without ordering.
// Bulk mutations use this directly; ORDER BY has no place in an UPDATE or
// DELETE statement.
func (d Definition) Constrain(db *gorm.DB, params Params) (*gorm.DB, State) {
	state := State{Search: strings.TrimSpace(params.Get("search"))}

	if state.Search != "" && len(d.Searchable) > 0 {
		db = db.Where(d.searchCondition(), d.searchArgs(state.Search)...)
	}

	for key, apply := range d.Filters {
		if value := params.Get(key); value != "" {
			db = apply(db, value)
		}
	}
	return db, state
}

// searchCondition builds a disjunction of case-insensitive substring matches
// over the searchable fields. Field names come from the static definition,
// never from the request.
func (d Definition) searchCondition() string {
	clauses := make([]string, len(d.Searchable))
	for i, field := range d.Searchable {
		clauses[i] = "LOWER(" + field + ") LIKE ?"
	}
	return strings.Join(clauses, " OR ")
}

func (d Definition) searchArgs(term string) []any {
	pattern := "%" + strings.ToLower(term) + "%"
	args := make([]any, len(d.Searchable))
	for i := range args {
		args[i] = pattern
	}
	return args
}

func (d Definition) resolveSort(requested string) string {
	for _, field := range d.Sortable {
		if field == requested {
			return requested
		}
	}
	if d.DefaultSort != "" {
		return d.DefaultSort
	}
	return DefaultSortField
}

func (d Definition) resolveDirection(requested string) string {
	if requested == DirectionAsc || requested == DirectionDesc {
		return requested
	}
	if d.DefaultDirection != "" {
		return d.DefaultDirection
	}
	return DefaultDirection
}

// BoolEquals returns a FilterFunc adding an equality predicate on column,
// coercing the request string with value == "true".
func BoolEquals(column string) FilterFunc {
	return func(db *gorm.DB, value string) *gorm.DB {
		return db.Where(column+" = ?", value == "true")
	}
}

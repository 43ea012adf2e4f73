package query

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Paging defaults.
const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// ErrInvalidPageable is returned for non-numeric paging values or unknown
// sort fields.
var ErrInvalidPageable = errors.New("query: invalid paging parameters")

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Order sorts by one column.
type Order struct {
	Column    string
	Direction Direction
}

// Pageable selects one page of a sorted result.
type Pageable struct {
	Page int
	Size int
	Sort []Order
}

// Sortable maps the field names clients may sort by to table columns.
type Sortable map[string]string

// DefaultPageable returns the first page with the default size, unsorted.
func DefaultPageable() Pageable {
	return Pageable{Page: 0, Size: DefaultPageSize}
}

// ParsePageable reads page, size and sort from request parameters.
//
// page is zero-based and clamped at 0, and rejected when its row offset
// would exceed math.MaxInt32; size defaults to DefaultPageSize and
// is clamped to [1, MaxPageSize]. Each sort value is "field[,field...][,asc|desc]"
// and may repeat; fields must appear in sortable.
func ParsePageable(values url.Values, sortable Sortable) (Pageable, error) {
	p := DefaultPageable()

	if v := values.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Pageable{}, fmt.Errorf("%w: page %q is not a number", ErrInvalidPageable, v)
		}
		p.Page = max(n, 0)
	}

	if v := values.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Pageable{}, fmt.Errorf("%w: size %q is not a number", ErrInvalidPageable, v)
		}
		if n < 1 {
			n = DefaultPageSize
		}
		p.Size = min(n, MaxPageSize)
	}

	// The row offset must stay representable.
	if p.Page > math.MaxInt32/p.Size {
		return Pageable{}, fmt.Errorf("%w: page %d is out of range", ErrInvalidPageable, p.Page)
	}

	for _, raw := range values["sort"] {
		orders, err := parseSort(raw, sortable)
		if err != nil {
			return Pageable{}, err
		}
		p.Sort = append(p.Sort, orders...)
	}

	return p, nil
}

func parseSort(raw string, sortable Sortable) ([]Order, error) {
	parts := strings.Split(raw, ",")
	dir := Asc
	if last := strings.ToUpper(strings.TrimSpace(parts[len(parts)-1])); last == string(Asc) || last == string(Desc) {
		dir = Direction(last)
		parts = parts[:len(parts)-1]
	}

	var orders []Order
	for _, field := range parts {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		column, ok := sortable[field]
		if !ok {
			return nil, fmt.Errorf("%w: cannot sort by %q", ErrInvalidPageable, field)
		}
		orders = append(orders, Order{Column: column, Direction: dir})
	}
	return orders, nil
}

// Offset is the number of rows before this page.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// OrderBy renders the sort as an ORDER BY clause. tiebreak is appended so
// rows with equal sort keys keep a stable order across pages.
func (p Pageable) OrderBy(tiebreak string) string {
	terms := make([]string, 0, len(p.Sort)+1)
	for _, o := range p.Sort {
		terms = append(terms, o.Column+" "+string(o.Direction))
	}
	terms = append(terms, tiebreak+" ASC")
	return "ORDER BY " + strings.Join(terms, ", ")
}

// Limit renders the LIMIT/OFFSET clause and its arguments.
func (p Pageable) Limit() (string, []any) {
	return "LIMIT ? OFFSET ?", []any{p.Size, p.Offset()}
}

// PageMeta describes where a page sits in the full result.
type PageMeta struct {
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// Page is one page of results.
type Page[T any] struct {
	Content []T      `json:"content"`
	Meta    PageMeta `json:"page"`
}

// NewPage wraps content fetched for p out of total matching rows.
func NewPage[T any](content []T, p Pageable, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if p.Size > 0 {
		totalPages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return Page[T]{
		Content: content,
		Meta: PageMeta{
			Size:          p.Size,
			Number:        p.Page,
			TotalElements: total,
			TotalPages:    totalPages,
		},
	}
}

// Map converts the content of a page, keeping its metadata.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(page.Content))
	for i, v := range page.Content {
		out[i] = fn(v)
	}
	return Page[U]{Content: out, Meta: page.Meta}
}

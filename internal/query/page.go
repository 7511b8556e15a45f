package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/simpleaccounting/backend/internal/apperr"
)

const (
	// DefaultLimit is the page size when the request has no "limit".
	DefaultLimit = 10
	// MaxLimit is the largest accepted "limit" unless configured otherwise.
	MaxLimit = 1000

	limitParam  = "limit"
	pageParam   = "page"
	sortByParam = "sortBy"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order sorts by one path.
type Order struct {
	Path      Path
	Direction Direction
}

// Sort is an ordered list of sort orders.
type Sort []Order

// PageRequest is the resolved paging, sorting and filtering of a listing.
type PageRequest struct {
	// PageNumber is zero-based.
	PageNumber int
	PageSize   int
	Sort       Sort
	Predicate  Predicate
}

// Offset is the number of rows to skip.
func (p PageRequest) Offset() int {
	return p.PageNumber * p.PageSize
}

// Page is one page of query results.
type Page[T any] struct {
	Items      []T
	TotalCount int64
	PageNumber int
	PageSize   int
}

// Resolver parses page requests from query parameters.
type Resolver struct {
	defaultLimit int
	maxLimit     int
}

// NewResolver returns a resolver using defaultLimit when no limit is given
// and rejecting limits above maxLimit.
func NewResolver(defaultLimit, maxLimit int) *Resolver {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	defaultLimit = min(defaultLimit, maxLimit)
	return &Resolver{defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// ResolvePageRequest resolves with the default limits.
func ResolvePageRequest(params url.Values, d *Descriptor) (PageRequest, error) {
	return NewResolver(DefaultLimit, MaxLimit).Resolve(params, d)
}

// Resolve validates limit, page, sortBy and then the filters, returning the
// first failure.
func (r *Resolver) Resolve(params url.Values, d *Descriptor) (PageRequest, error) {
	limit, err := singleIntParam(params, limitParam, r.defaultLimit, r.maxLimit)
	if err != nil {
		return PageRequest{}, err
	}

	// The offset (page-1)*limit must fit in an int.
	page, err := singleIntParam(params, pageParam, 1, math.MaxInt/limit+1)
	if err != nil {
		return PageRequest{}, err
	}

	sort, err := resolveSort(params, d)
	if err != nil {
		return PageRequest{}, err
	}

	predicate, err := d.BuildPredicate(params)
	if err != nil {
		return PageRequest{}, err
	}

	return PageRequest{
		PageNumber: page - 1,
		PageSize:   limit,
		Sort:       sort,
		Predicate:  predicate,
	}, nil
}

func singleIntParam(params url.Values, name string, defaultValue, maxValue int) (int, error) {
	values, ok := params[name]
	if !ok || len(values) == 0 {
		return defaultValue, nil
	}
	if len(values) > 1 {
		return 0, apperr.Validation("Only a single '%s' parameter is supported", name)
	}

	v, err := strconv.Atoi(values[0])
	if err != nil || v < 1 || v > maxValue {
		return 0, apperr.Validation("Invalid '%s' parameter value '%s'", name, values[0])
	}
	return v, nil
}

func resolveSort(params url.Values, d *Descriptor) (Sort, error) {
	values, ok := params[sortByParam]
	if !ok || len(values) == 0 {
		return d.DefaultSort(), nil
	}
	if len(values) > 1 {
		return nil, apperr.Validation("Only a single '%s' parameter is supported", sortByParam)
	}

	expression := values[0]
	parts := strings.Split(expression, " ")
	if len(parts) != 2 {
		return nil, apperr.Validation("'%s' is not a valid sorting expression", expression)
	}

	apiField, rawDirection := parts[0], parts[1]
	var direction Direction
	switch strings.ToLower(rawDirection) {
	case string(Asc):
		direction = Asc
	case string(Desc):
		direction = Desc
	default:
		return nil, apperr.Validation("'%s' is not a valid sorting direction", rawDirection)
	}

	path, ok := d.sortPath(apiField)
	if !ok {
		return nil, apperr.Validation("Sorting by '%s' is not supported", apiField)
	}

	return Sort{{Path: path, Direction: direction}}, nil
}

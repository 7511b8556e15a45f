package query

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/simpleaccounting/backend/internal/apperr"
)

// Operator is a filter operator as written in "field[op]" query keys.
type Operator string

const (
	Eq  Operator = "eq"
	Goe Operator = "goe"
	Loe Operator = "loe"
)

var operators = map[string]Operator{
	string(Eq):  Eq,
	string(Goe): Goe,
	string(Loe): Loe,
}

func (o Operator) symbol() string {
	switch o {
	case Goe:
		return ">="
	case Loe:
		return "<="
	default:
		return "="
	}
}

// DateLayout is the wire format of date filter values.
const DateLayout = "2006-01-02"

// Converter parses a raw query value into the field's type.
type Converter[T any] func(raw string) (T, error)

// StringValue accepts any value as is.
func StringValue(raw string) (string, error) {
	return raw, nil
}

// Int64Value parses a base-10 integer.
func Int64Value(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// DateValue parses a calendar date.
func DateValue(raw string) (time.Time, error) {
	return time.Parse(DateLayout, raw)
}

// EnumValue accepts exactly one of the allowed values.
func EnumValue[T ~string](allowed ...T) Converter[T] {
	return func(raw string) (T, error) {
		for _, v := range allowed {
			if string(v) == raw {
				return v, nil
			}
		}
		var zero T
		return zero, fmt.Errorf("unknown value %q", raw)
	}
}

type fieldFilter interface {
	supports(op Operator) bool
	build(op Operator, raw string) (Predicate, error)
}

// FieldFilter declares the operators one API field supports.
type FieldFilter[T any] struct {
	convert  Converter[T]
	builders map[Operator]func(value T) Predicate
}

// OnOperator registers the predicate produced for op.
func (f *FieldFilter[T]) OnOperator(op Operator, build func(value T) Predicate) *FieldFilter[T] {
	f.builders[op] = build
	return f
}

func (f *FieldFilter[T]) supports(op Operator) bool {
	_, ok := f.builders[op]
	return ok
}

func (f *FieldFilter[T]) build(op Operator, raw string) (Predicate, error) {
	value, err := f.convert(raw)
	if err != nil {
		return nil, apperr.Validation("'%s' is not a valid filter value", raw)
	}
	return f.builders[op](value), nil
}

// Descriptor is the per-entity whitelist of filterable and sortable API
// fields of a pageable listing.
type Descriptor struct {
	entity      string
	filters     map[string]fieldFilter
	sorts       map[string]Path
	defaultSort Sort
}

// NewDescriptor creates an empty descriptor for an entity alias.
func NewDescriptor(entity string) *Descriptor {
	return &Descriptor{
		entity:  entity,
		filters: make(map[string]fieldFilter),
		sorts:   make(map[string]Path),
	}
}

// Path builds a path on the descriptor's own entity.
func (d *Descriptor) Path(field, column string) Path {
	return NewPath(d.entity, field, column)
}

// ByAPIField starts declaring the operators of an API field.
func ByAPIField[T any](d *Descriptor, apiField string, convert Converter[T]) *FieldFilter[T] {
	f := &FieldFilter[T]{
		convert:  convert,
		builders: make(map[Operator]func(T) Predicate),
	}
	d.filters[apiField] = f
	return f
}

// MapAPIFieldToPath exposes a path directly with eq, goe and loe.
func MapAPIFieldToPath[T any](d *Descriptor, apiField string, convert Converter[T], path Path) {
	ByAPIField(d, apiField, convert).
		OnOperator(Eq, func(v T) Predicate { return path.Eq(v) }).
		OnOperator(Goe, func(v T) Predicate { return path.Goe(v) }).
		OnOperator(Loe, func(v T) Predicate { return path.Loe(v) })
}

// SortableBy allows sorting by apiField.
func (d *Descriptor) SortableBy(apiField string, path Path) *Descriptor {
	d.sorts[apiField] = path
	return d
}

// WithDefaultSort sets the sort used when the request has none.
func (d *Descriptor) WithDefaultSort(orders ...Order) *Descriptor {
	d.defaultSort = orders
	return d
}

// DefaultSort is the declared default, or id descending.
func (d *Descriptor) DefaultSort() Sort {
	if len(d.defaultSort) > 0 {
		return d.defaultSort
	}
	return Sort{{Path: d.Path("id", "id"), Direction: Desc}}
}

func (d *Descriptor) sortPath(apiField string) (Path, bool) {
	p, ok := d.sorts[apiField]
	return p, ok
}

var filterExpression = regexp.MustCompile(`^([^\[\]]+)\[([^\[\]]+)\]$`)

// BuildPredicate combines every "field[op]=value" parameter that targets a
// known API field into one predicate. Keys of unknown fields are ignored.
// Repeated values of one key are ANDed like distinct keys.
func (d *Descriptor) BuildPredicate(params url.Values) (Predicate, error) {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var predicates []Predicate
	for _, key := range keys {
		name := key
		if i := strings.Index(key, "["); i >= 0 {
			name = key[:i]
		}

		filter, ok := d.filters[name]
		if !ok {
			continue
		}

		m := filterExpression.FindStringSubmatch(key)
		if m == nil {
			return nil, apperr.Validation("'%s' is not a valid filter expression", key)
		}

		op, ok := operators[m[2]]
		if !ok {
			return nil, apperr.Validation("'%s' is not a valid filter operator", m[2])
		}

		if !filter.supports(op) {
			return nil, apperr.Validation("'%s' is not supported for '%s'", op, name)
		}

		for _, raw := range params[key] {
			p, err := filter.build(op, raw)
			if err != nil {
				return nil, err
			}
			predicates = append(predicates, p)
		}
	}

	return AllOf(predicates...), nil
}

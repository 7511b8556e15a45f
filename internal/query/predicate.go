// Package query turns the filtering, sorting and paging query parameters of
// listing endpoints into a predicate tree and a page request that a
// repository can translate into its own query form.
package query

import (
	"fmt"
	"strings"
	"time"
)

// Path addresses a field of a queried entity. Entity doubles as the table
// alias in generated SQL.
type Path struct {
	Entity string
	Field  string
	Column string
}

// NewPath builds a path to an entity field stored in the given column.
func NewPath(entity, field, column string) Path {
	return Path{Entity: entity, Field: field, Column: column}
}

func (p Path) String() string {
	return p.Entity + "." + p.Field
}

// Eq builds "path = value".
func (p Path) Eq(value any) Predicate {
	return Comparison{Path: p, Op: Eq, Value: value}
}

// Goe builds "path >= value".
func (p Path) Goe(value any) Predicate {
	return Comparison{Path: p, Op: Goe, Value: value}
}

// Loe builds "path <= value".
func (p Path) Loe(value any) Predicate {
	return Comparison{Path: p, Op: Loe, Value: value}
}

// ContainsIgnoreCase builds a case-insensitive substring match.
func (p Path) ContainsIgnoreCase(value string) Predicate {
	return ContainsIgnoreCase{Path: p, Value: value}
}

// IsNull builds "path is null".
func (p Path) IsNull() Predicate {
	return IsNull{Path: p}
}

// IsNotNull builds "path is not null".
func (p Path) IsNotNull() Predicate {
	return IsNotNull{Path: p}
}

// Predicate is a node of the filter tree. The set of nodes is closed.
type Predicate interface {
	fmt.Stringer
	writeSQL(b *sqlBuilder)
}

type alwaysTrue struct{}

// True matches everything. It is the predicate of an unfiltered request.
var True Predicate = alwaysTrue{}

func (alwaysTrue) String() string {
	return "true = true"
}

// Comparison compares a field with a single value.
type Comparison struct {
	Path  Path
	Op    Operator
	Value any
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Path, c.Op.symbol(), formatValue(c.Value))
}

// ContainsIgnoreCase matches a field containing Value regardless of case.
type ContainsIgnoreCase struct {
	Path  Path
	Value string
}

func (c ContainsIgnoreCase) String() string {
	return fmt.Sprintf("containsIc(%s,%s)", c.Path, c.Value)
}

// IsNull matches records where the field has no value.
type IsNull struct {
	Path Path
}

func (n IsNull) String() string {
	return n.Path.String() + " is null"
}

// IsNotNull matches records where the field has a value.
type IsNotNull struct {
	Path Path
}

func (n IsNotNull) String() string {
	return n.Path.String() + " is not null"
}

// And matches when all terms match.
type And struct {
	Terms []Predicate
}

func (a And) String() string {
	return joinTerms(a.Terms, " && ")
}

// Or matches when any term matches.
type Or struct {
	Terms []Predicate
}

func (o Or) String() string {
	return joinTerms(o.Terms, " || ")
}

// AllOf combines predicates with AND. True terms are dropped, nested ANDs
// are flattened and an empty list yields True.
func AllOf(predicates ...Predicate) Predicate {
	var terms []Predicate
	for _, p := range predicates {
		switch v := p.(type) {
		case nil, alwaysTrue:
		case And:
			terms = append(terms, v.Terms...)
		default:
			terms = append(terms, v)
		}
	}
	switch len(terms) {
	case 0:
		return True
	case 1:
		return terms[0]
	default:
		return And{Terms: terms}
	}
}

// AnyOf combines predicates with OR. A single predicate is returned as is.
func AnyOf(predicates ...Predicate) Predicate {
	var terms []Predicate
	for _, p := range predicates {
		switch v := p.(type) {
		case nil:
		case alwaysTrue:
			return True
		case Or:
			terms = append(terms, v.Terms...)
		default:
			terms = append(terms, v)
		}
	}
	switch len(terms) {
	case 0:
		return True
	case 1:
		return terms[0]
	default:
		return Or{Terms: terms}
	}
}

func joinTerms(terms []Predicate, sep string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		switch t.(type) {
		case And, Or:
			parts[i] = "(" + t.String() + ")"
		default:
			parts[i] = t.String()
		}
	}
	return strings.Join(parts, sep)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(DateLayout)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

package query

import (
	"reflect"
	"strconv"
	"strings"
)

type sqlBuilder struct {
	sb   strings.Builder
	args []any
	next int
}

func (b *sqlBuilder) placeholder(value any) string {
	b.args = append(b.args, driverValue(value))
	p := "$" + strconv.Itoa(b.next)
	b.next++
	return p
}

// ToSQL renders the predicate as a Postgres boolean expression. Placeholders
// are numbered from firstArg so the fragment can follow other bound args.
func ToSQL(p Predicate, firstArg int) (string, []any) {
	if p == nil {
		p = True
	}
	b := &sqlBuilder{next: firstArg}
	p.writeSQL(b)
	return b.sb.String(), b.args
}

// SQLColumn is the alias-qualified column of the path.
func (p Path) SQLColumn() string {
	return p.Entity + "." + p.Column
}

func (alwaysTrue) writeSQL(b *sqlBuilder) {
	b.sb.WriteString("TRUE")
}

func (c Comparison) writeSQL(b *sqlBuilder) {
	b.sb.WriteString(c.Path.SQLColumn())
	b.sb.WriteString(" ")
	b.sb.WriteString(c.Op.symbol())
	b.sb.WriteString(" ")
	b.sb.WriteString(b.placeholder(c.Value))
}

func (c ContainsIgnoreCase) writeSQL(b *sqlBuilder) {
	b.sb.WriteString(c.Path.SQLColumn())
	b.sb.WriteString(" ILIKE ")
	b.sb.WriteString(b.placeholder("%" + escapeLike(c.Value) + "%"))
}

func (n IsNull) writeSQL(b *sqlBuilder) {
	b.sb.WriteString(n.Path.SQLColumn())
	b.sb.WriteString(" IS NULL")
}

func (n IsNotNull) writeSQL(b *sqlBuilder) {
	b.sb.WriteString(n.Path.SQLColumn())
	b.sb.WriteString(" IS NOT NULL")
}

func (a And) writeSQL(b *sqlBuilder) {
	writeTermsSQL(b, a.Terms, " AND ")
}

func (o Or) writeSQL(b *sqlBuilder) {
	writeTermsSQL(b, o.Terms, " OR ")
}

func writeTermsSQL(b *sqlBuilder, terms []Predicate, sep string) {
	b.sb.WriteString("(")
	for i, t := range terms {
		if i > 0 {
			b.sb.WriteString(sep)
		}
		t.writeSQL(b)
	}
	b.sb.WriteString(")")
}

// OrderBy renders the sort as an ORDER BY clause.
func (s Sort) OrderBy() string {
	if len(s) == 0 {
		return ""
	}
	parts := make([]string, len(s))
	for i, o := range s {
		parts[i] = o.Path.SQLColumn() + " " + strings.ToUpper(string(o.Direction))
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// driverValue unwraps named string types such as enums.
func driverValue(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String && rv.Type() != reflect.TypeOf("") {
		return rv.String()
	}
	return v
}

package analysis

import (
	"strconv"
	"strings"

	"quackview/internal/domain"
)

// Compile renders a validated request into a single SQL statement. Clause
// order is fixed: SELECT, FROM, WHERE, GROUP BY, ORDER BY, LIMIT. The same
// validated request always renders byte-identical SQL, which is what makes
// previews, exports, and golden tests trustworthy.
func Compile(table string, v *ValidatedRequest) domain.CompiledQuery {
	var b strings.Builder

	b.WriteString("SELECT ")
	for i, op := range v.Operations {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(template(op.Operation).render(op.Column, op.SecondColumn, op.Alias))
	}

	b.WriteString(" FROM ")
	b.WriteString(quoteIdent(table))

	if len(v.Filters) > 0 {
		b.WriteString(" WHERE ")
		for i, f := range v.Filters {
			if i > 0 {
				b.WriteString(" AND ")
			}
			b.WriteString(renderFilter(f))
		}
	}

	if len(v.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(v.GroupBy, ", "))
	}

	switch {
	case len(v.OrderBy) > 0:
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(v.OrderBy, ", "))
	case v.defaultOrder != "":
		b.WriteString(" ORDER BY ")
		b.WriteString(v.defaultOrder)
	}

	switch {
	case v.Limit > 0:
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(v.Limit))
	case v.defaultLimit > 0:
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(v.defaultLimit))
	}

	return domain.CompiledQuery{SQL: b.String()}
}

func renderFilter(f domain.FilterCondition) string {
	col := quoteIdent(f.Column)
	if f.Operator == domain.FilterBetween {
		pair := f.Value.([]interface{})
		return col + " BETWEEN " + renderScalar(pair[0]) + " AND " + renderScalar(pair[1])
	}
	return col + " " + string(f.Operator) + " " + renderScalar(f.Value)
}

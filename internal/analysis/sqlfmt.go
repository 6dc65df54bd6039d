package analysis

import (
	"strconv"
	"strings"

	"quackview/internal/ddl"
)

// quoteIdent wraps an identifier in DuckDB double quotes, doubling any
// embedded quotes, so reserved words and spaces stay inert.
func quoteIdent(name string) string {
	return ddl.QuoteIdentifier(name)
}

// aliasIdent renders a generated or caller-supplied alias. Plain,
// non-reserved identifiers stay bare; anything else gets quoted so an alias
// like "order" still compiles.
func aliasIdent(alias string) string {
	if isPlainIdent(alias) && !sqlReserved[strings.ToLower(alias)] {
		return alias
	}
	return quoteIdent(alias)
}

// sqlReserved lists DuckDB's reserved keywords, which cannot appear bare in
// an alias position.
var sqlReserved = map[string]bool{
	"all": true, "analyse": true, "analyze": true, "and": true, "any": true,
	"array": true, "as": true, "asc": true, "asymmetric": true, "both": true,
	"case": true, "cast": true, "check": true, "collate": true, "column": true,
	"constraint": true, "create": true, "default": true, "deferrable": true,
	"desc": true, "describe": true, "distinct": true, "do": true, "else": true,
	"end": true, "except": true, "false": true, "fetch": true, "for": true,
	"foreign": true, "from": true, "grant": true, "group": true, "having": true,
	"in": true, "initially": true, "intersect": true, "into": true,
	"lateral": true, "leading": true, "limit": true, "localtime": true,
	"localtimestamp": true, "not": true, "null": true, "offset": true,
	"on": true, "only": true, "or": true, "order": true, "placing": true,
	"primary": true, "qualify": true, "references": true, "returning": true,
	"select": true, "show": true, "some": true, "symmetric": true,
	"table": true, "then": true, "to": true, "trailing": true, "true": true,
	"union": true, "unique": true, "using": true, "variadic": true,
	"when": true, "where": true, "window": true, "with": true,
}

func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// quoteString renders a SQL string literal, doubling embedded single quotes.
func quoteString(s string) string {
	return ddl.QuoteLiteral(s)
}

// renderScalar renders a validated filter literal. Only the types admitted
// by the validator reach here.
func renderScalar(v interface{}) string {
	switch x := v.(type) {
	case string:
		return quoteString(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	default:
		// Unreachable post-validation.
		panic("analysis: unsupported literal type")
	}
}

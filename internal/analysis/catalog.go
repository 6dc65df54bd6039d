package analysis

import (
	"fmt"
	"strings"

	"quackview/internal/domain"
)

// operations legal for every field type, in catalog order.
var commonOps = []domain.OperationKind{
	domain.OpSelect,
	domain.OpCount,
	domain.OpCountDistinct,
	domain.OpMissingValues,
	domain.OpDataQuality,
}

var typeOps = map[domain.FieldType][]domain.OperationKind{
	domain.FieldNumeric: {
		domain.OpSum, domain.OpAvg, domain.OpMax, domain.OpMin,
		domain.OpVarPop, domain.OpStddevPop, domain.OpMedian,
		domain.OpQuartiles, domain.OpPercentiles, domain.OpCorrelation,
	},
	domain.FieldText: {
		domain.OpTopK, domain.OpValueDistribution,
		domain.OpLengthAnalysis, domain.OpPatternAnalysis,
	},
	domain.FieldDate: {
		domain.OpDateRange, domain.OpYearAnalysis, domain.OpMonthAnalysis,
		domain.OpDayAnalysis, domain.OpHourAnalysis, domain.OpWeekdayAnalysis,
		domain.OpSeasonalAnalysis,
	},
	domain.FieldBoolean: {
		domain.OpValueDistribution,
	},
}

// LegalOperations returns the operations legal for a field type, in a fixed
// catalog order. Every field type has a non-empty set.
func LegalOperations(ft domain.FieldType) []domain.OperationKind {
	ops := make([]domain.OperationKind, 0, len(commonOps)+len(typeOps[ft]))
	ops = append(ops, commonOps...)
	ops = append(ops, typeOps[ft]...)
	return ops
}

// IsLegal reports whether op is legal for the field type.
func IsLegal(ft domain.FieldType, op domain.OperationKind) bool {
	for _, o := range LegalOperations(ft) {
		if o == op {
			return true
		}
	}
	return false
}

// DefaultOperation is the operation suggested for a column when the caller
// has not picked one: AVG for numeric columns, COUNT otherwise.
func DefaultOperation(ft domain.FieldType) domain.OperationKind {
	if ft == domain.FieldNumeric {
		return domain.OpAvg
	}
	return domain.OpCount
}

// DefaultAlias is the alias generated when a request supplies none:
// lower(operation) + "_" + column.
func DefaultAlias(op domain.OperationKind, column string) string {
	return strings.ToLower(string(op)) + "_" + column
}

// defaultTopK is the LIMIT applied to TOP_K when the request has no
// explicit limit.
const defaultTopK = 10

// fragmentSpec is the per-operation metadata the compiler renders from: the
// SELECT-list fragment, the implied grouping expression (empty when the
// operation does not group), and the default ordering/limit tail.
type fragmentSpec struct {
	// render returns the SELECT-list fragment. second is only consumed by
	// CORRELATION.
	render func(col, second, alias string) string
	// groupExpr is the expression the operation implicitly groups by;
	// nil for non-grouping operations.
	groupExpr func(col string) string
	// defaultOrder is the ORDER BY term applied when the request carries no
	// explicit sort_by (e.g. "count DESC").
	defaultOrder string
	// defaultLimit is applied when the request carries no explicit limit.
	defaultLimit int
	// outputs lists the result column names the fragment produces, used for
	// sort-field resolution and alias-collision checks.
	outputs func(col, alias string) []string
}

// aggFragment builds the spec for a plain single-value aggregate.
func aggFragment(fn string) fragmentSpec {
	return fragmentSpec{
		render: func(col, _, alias string) string {
			return fmt.Sprintf("%s(%s) AS %s", fn, quoteIdent(col), aliasIdent(alias))
		},
		outputs: singleOutput,
	}
}

// bucketFragment builds the spec for a grouping operation whose bucket is an
// arbitrary expression aliased to the operation alias, counting rows per
// bucket.
func bucketFragment(expr func(col string) string) fragmentSpec {
	return fragmentSpec{
		render: func(col, _, alias string) string {
			return fmt.Sprintf("%s AS %s, COUNT(*) AS count", expr(col), aliasIdent(alias))
		},
		groupExpr:    expr,
		defaultOrder: "count DESC",
		outputs: func(_, alias string) []string {
			return []string{alias, "count"}
		},
	}
}

func singleOutput(_, alias string) []string { return []string{alias} }

func extractExpr(part string) func(col string) string {
	return func(col string) string {
		return fmt.Sprintf("EXTRACT(%s FROM %s)", part, quoteIdent(col))
	}
}

func lengthExpr(col string) string {
	return fmt.Sprintf("LENGTH(%s)", quoteIdent(col))
}

func dayNameExpr(col string) string {
	return fmt.Sprintf("DAYNAME(%s)", quoteIdent(col))
}

// patternExpr buckets text values into coarse shape classes.
func patternExpr(col string) string {
	q := quoteIdent(col)
	return fmt.Sprintf(
		"CASE WHEN %s IS NULL OR %s = '' THEN 'empty'"+
			" WHEN regexp_matches(%s, '^[0-9]+$') THEN 'numeric'"+
			" WHEN regexp_matches(%s, '^[A-Za-z]+$') THEN 'alpha'"+
			" WHEN regexp_matches(%s, '^[A-Za-z0-9]+$') THEN 'alphanumeric'"+
			" ELSE 'mixed' END", q, q, q, q, q)
}

// seasonExpr buckets timestamps into meteorological seasons.
func seasonExpr(col string) string {
	m := fmt.Sprintf("EXTRACT(MONTH FROM %s)", quoteIdent(col))
	return fmt.Sprintf(
		"CASE WHEN %s IN (12, 1, 2) THEN 'winter'"+
			" WHEN %s IN (3, 4, 5) THEN 'spring'"+
			" WHEN %s IN (6, 7, 8) THEN 'summer'"+
			" ELSE 'autumn' END", m, m, m)
}

// template returns the fragment spec for an operation. Calling it with an
// operation missing from the catalog is a programming error: validation
// guarantees only cataloged operations reach the compiler.
func template(op domain.OperationKind) fragmentSpec {
	switch op {
	case domain.OpSelect:
		return fragmentSpec{
			render: func(col, _, alias string) string {
				if alias != "" && alias != col {
					return fmt.Sprintf("%s AS %s", quoteIdent(col), aliasIdent(alias))
				}
				return quoteIdent(col)
			},
			outputs: func(col, alias string) []string {
				if alias != "" && alias != col {
					return []string{alias}
				}
				return []string{col}
			},
		}
	case domain.OpSum:
		return aggFragment("SUM")
	case domain.OpAvg:
		return aggFragment("AVG")
	case domain.OpMax:
		return aggFragment("MAX")
	case domain.OpMin:
		return aggFragment("MIN")
	case domain.OpCount:
		return aggFragment("COUNT")
	case domain.OpVarPop:
		return aggFragment("VAR_POP")
	case domain.OpStddevPop:
		return aggFragment("STDDEV_POP")
	case domain.OpMedian:
		return aggFragment("MEDIAN")
	case domain.OpCountDistinct:
		return fragmentSpec{
			render: func(col, _, alias string) string {
				return fmt.Sprintf("COUNT(DISTINCT %s) AS %s", quoteIdent(col), aliasIdent(alias))
			},
			outputs: singleOutput,
		}
	case domain.OpQuartiles:
		return fragmentSpec{
			render: func(col, _, alias string) string {
				return fmt.Sprintf("QUANTILE_CONT(%s, [0.25, 0.5, 0.75]) AS %s", quoteIdent(col), aliasIdent(alias))
			},
			outputs: singleOutput,
		}
	case domain.OpPercentiles:
		return fragmentSpec{
			render: func(col, _, alias string) string {
				return fmt.Sprintf("QUANTILE_CONT(%s, [0.1, 0.25, 0.5, 0.75, 0.9]) AS %s", quoteIdent(col), aliasIdent(alias))
			},
			outputs: singleOutput,
		}
	case domain.OpCorrelation:
		return fragmentSpec{
			render: func(col, second, alias string) string {
				return fmt.Sprintf("CORR(%s, %s) AS %s", quoteIdent(col), quoteIdent(second), aliasIdent(alias))
			},
			outputs: singleOutput,
		}
	case domain.OpTopK:
		return fragmentSpec{
			render: func(col, _, _ string) string {
				return fmt.Sprintf("%s, COUNT(*) AS count", quoteIdent(col))
			},
			groupExpr:    func(col string) string { return quoteIdent(col) },
			defaultOrder: "count DESC",
			defaultLimit: defaultTopK,
			outputs: func(col, _ string) []string {
				return []string{col, "count"}
			},
		}
	case domain.OpValueDistribution:
		return fragmentSpec{
			render: func(col, _, _ string) string {
				return fmt.Sprintf("%s, COUNT(*) AS count", quoteIdent(col))
			},
			groupExpr:    func(col string) string { return quoteIdent(col) },
			defaultOrder: "count DESC",
			outputs: func(col, _ string) []string {
				return []string{col, "count"}
			},
		}
	case domain.OpLengthAnalysis:
		return bucketFragment(lengthExpr)
	case domain.OpPatternAnalysis:
		return bucketFragment(patternExpr)
	case domain.OpYearAnalysis:
		return bucketFragment(extractExpr("YEAR"))
	case domain.OpMonthAnalysis:
		return bucketFragment(extractExpr("MONTH"))
	case domain.OpDayAnalysis:
		return bucketFragment(extractExpr("DAY"))
	case domain.OpHourAnalysis:
		return bucketFragment(extractExpr("HOUR"))
	case domain.OpWeekdayAnalysis:
		return bucketFragment(dayNameExpr)
	case domain.OpSeasonalAnalysis:
		return bucketFragment(seasonExpr)
	case domain.OpDateRange:
		return fragmentSpec{
			render: func(col, _, _ string) string {
				q := quoteIdent(col)
				return fmt.Sprintf("MIN(%s) AS min_date, MAX(%s) AS max_date", q, q)
			},
			outputs: func(_, _ string) []string {
				return []string{"min_date", "max_date"}
			},
		}
	case domain.OpMissingValues:
		return fragmentSpec{
			render: func(col, _, alias string) string {
				return fmt.Sprintf("COUNT(*) - COUNT(%s) AS %s", quoteIdent(col), aliasIdent(alias))
			},
			outputs: singleOutput,
		}
	case domain.OpDataQuality:
		return fragmentSpec{
			render: func(col, _, _ string) string {
				q := quoteIdent(col)
				return fmt.Sprintf("COUNT(*) AS %s, COUNT(%s) AS %s, COUNT(DISTINCT %s) AS %s",
					aliasIdent("total_"+col), q, aliasIdent("non_null_"+col), q, aliasIdent("distinct_"+col))
			},
			outputs: func(col, _ string) []string {
				return []string{"total_" + col, "non_null_" + col, "distinct_" + col}
			},
		}
	default:
		panic(fmt.Sprintf("analysis: no template for operation %s", op))
	}
}

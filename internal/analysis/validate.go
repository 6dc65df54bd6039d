package analysis

import (
	"strings"

	"quackview/internal/domain"
)

// ValidatedOperation is an operation after normalization: the effective alias
// is always populated.
type ValidatedOperation struct {
	Column       string
	Operation    domain.OperationKind
	Alias        string
	SecondColumn string
}

// ValidatedRequest is the normalized form the compiler renders from. GroupBy
// and OrderBy hold rendered SQL terms, not raw column names, so the compiler
// never touches the schema again.
type ValidatedRequest struct {
	Operations []ValidatedOperation
	Filters    []domain.FilterCondition
	GroupBy    []string
	OrderBy    []string
	Limit      int

	// operation-implied fallbacks, applied only when the request carries no
	// explicit sort_by / limit.
	defaultOrder string
	defaultLimit int
}

// Validate checks an analysis request against the session schema and returns
// its normalized form. Checks run in a fixed order and stop at the first
// failure, so a request with several problems reports the earliest one.
func Validate(schema *domain.Schema, req *domain.AnalysisRequest) (*ValidatedRequest, error) {
	if len(req.Operations) == 0 {
		return nil, &domain.EmptyOperationsError{}
	}

	v := &ValidatedRequest{
		Operations: make([]ValidatedOperation, 0, len(req.Operations)),
		Filters:    req.Filters,
		Limit:      req.Limit,
	}

	outputs := map[string]bool{}
	for _, op := range req.Operations {
		col, ok := schema.Column(op.Column)
		if !ok {
			return nil, &domain.UnknownColumnError{Column: op.Column}
		}
		ft := Classify(col.Type)
		if !IsLegal(ft, op.Operation) {
			return nil, &domain.UnsupportedOperationError{
				Operation: op.Operation,
				Column:    op.Column,
				FieldType: ft,
			}
		}
		if op.Operation == domain.OpCorrelation {
			if op.SecondColumn == "" {
				return nil, domain.ErrValidation("CORRELATION on column %q requires second_column", op.Column)
			}
			second, ok := schema.Column(op.SecondColumn)
			if !ok {
				return nil, &domain.UnknownColumnError{Column: op.SecondColumn}
			}
			if Classify(second.Type) != domain.FieldNumeric {
				return nil, domain.ErrValidation("CORRELATION second_column %q must be numeric", op.SecondColumn)
			}
		}

		alias := op.Alias
		if alias == "" && op.Operation != domain.OpSelect {
			// plain SELECT keeps the bare column; everything else gets the
			// generated alias so outputs are addressable.
			alias = DefaultAlias(op.Operation, op.Column)
		}
		for _, out := range template(op.Operation).outputs(op.Column, alias) {
			if outputs[out] {
				return nil, domain.ErrValidation("duplicate output column %q; give the operation a distinct alias", out)
			}
			outputs[out] = true
		}

		v.Operations = append(v.Operations, ValidatedOperation{
			Column:       op.Column,
			Operation:    op.Operation,
			Alias:        alias,
			SecondColumn: op.SecondColumn,
		})
	}

	for _, f := range req.Filters {
		if err := validateFilter(schema, f); err != nil {
			return nil, err
		}
	}

	for _, col := range req.GroupBy {
		if _, ok := schema.Column(col); !ok {
			return nil, &domain.UnknownColumnError{Column: col}
		}
		v.appendGroup(quoteIdent(col))
	}
	for _, op := range v.Operations {
		spec := template(op.Operation)
		if spec.groupExpr != nil {
			v.appendGroup(spec.groupExpr(op.Column))
		}
		if v.defaultOrder == "" {
			v.defaultOrder = spec.defaultOrder
		}
		if v.defaultLimit == 0 {
			v.defaultLimit = spec.defaultLimit
		}
	}

	for _, s := range req.SortBy {
		term, err := renderSortTerm(schema, outputs, s)
		if err != nil {
			return nil, err
		}
		v.OrderBy = append(v.OrderBy, term)
	}

	if req.Limit < 0 {
		return nil, domain.ErrValidation("limit must be a positive integer, got %d", req.Limit)
	}

	return v, nil
}

// appendGroup adds a rendered group expression unless an identical one is
// already present, preserving first-seen order.
func (v *ValidatedRequest) appendGroup(expr string) {
	for _, g := range v.GroupBy {
		if g == expr {
			return
		}
	}
	v.GroupBy = append(v.GroupBy, expr)
}

func validateFilter(schema *domain.Schema, f domain.FilterCondition) error {
	if _, ok := schema.Column(f.Column); !ok {
		return &domain.InvalidFilterError{Column: f.Column, Reason: "unknown column"}
	}
	switch f.Operator {
	case domain.FilterEq, domain.FilterNeq, domain.FilterGt, domain.FilterLt,
		domain.FilterGte, domain.FilterLte, domain.FilterLike:
		if !isScalar(f.Value) {
			return &domain.InvalidFilterError{
				Column: f.Column,
				Reason: "operator " + string(f.Operator) + " requires a scalar value",
			}
		}
	case domain.FilterBetween:
		pair, ok := f.Value.([]interface{})
		if !ok || len(pair) != 2 {
			return &domain.InvalidFilterError{Column: f.Column, Reason: "BETWEEN requires exactly two values"}
		}
		if !isScalar(pair[0]) || !isScalar(pair[1]) {
			return &domain.InvalidFilterError{Column: f.Column, Reason: "BETWEEN bounds must be scalar"}
		}
	default:
		return &domain.InvalidFilterError{Column: f.Column, Reason: "unknown operator " + string(f.Operator)}
	}
	return nil
}

func isScalar(v interface{}) bool {
	switch v.(type) {
	case string, float64, float32, int, int64, bool:
		return true
	}
	return false
}

// renderSortTerm turns a sort field into a rendered ORDER BY term. A field
// naming one of the request's output columns sorts on that output; otherwise
// it must name a schema column.
func renderSortTerm(schema *domain.Schema, outputs map[string]bool, s domain.SortField) (string, error) {
	order := strings.ToUpper(string(s.Order))
	switch order {
	case "":
		order = string(domain.SortAsc)
	case string(domain.SortAsc), string(domain.SortDesc):
	default:
		return "", &domain.InvalidSortFieldError{Field: s.Field}
	}
	if outputs[s.Field] {
		return aliasIdent(s.Field) + " " + order, nil
	}
	if _, ok := schema.Column(s.Field); ok {
		return quoteIdent(s.Field) + " " + order, nil
	}
	return "", &domain.InvalidSortFieldError{Field: s.Field}
}

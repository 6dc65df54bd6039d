package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quackview/internal/domain"
)

func testSchema() *domain.Schema {
	return &domain.Schema{
		TableName: "tbl_sales",
		Columns: []domain.ColumnInfo{
			{Name: "Price", Type: "DOUBLE"},
			{Name: "Quantity", Type: "BIGINT"},
			{Name: "City", Type: "VARCHAR"},
			{Name: "OrderDate", Type: "TIMESTAMP"},
			{Name: "Returned", Type: "BOOLEAN"},
		},
	}
}

func op(column string, kind domain.OperationKind) domain.AnalysisOperation {
	return domain.AnalysisOperation{Column: column, Operation: kind}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.AnalysisRequest
		wantErr interface{}
	}{
		{
			name:    "empty_operations",
			req:     domain.AnalysisRequest{},
			wantErr: &domain.EmptyOperationsError{},
		},
		{
			name: "unknown_column",
			req: domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{op("Pricee", domain.OpSum)},
			},
			wantErr: &domain.UnknownColumnError{},
		},
		{
			name: "sum_on_text",
			req: domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{op("City", domain.OpSum)},
			},
			wantErr: &domain.UnsupportedOperationError{},
		},
		{
			name: "year_analysis_on_numeric",
			req: domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{op("Price", domain.OpYearAnalysis)},
			},
			wantErr: &domain.UnsupportedOperationError{},
		},
		{
			name: "correlation_missing_second_column",
			req: domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{op("Price", domain.OpCorrelation)},
			},
			wantErr: &domain.ValidationError{},
		},
		{
			name: "correlation_second_column_unknown",
			req: domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{{
					Column: "Price", Operation: domain.OpCorrelation, SecondColumn: "Qty",
				}},
			},
			wantErr: &domain.UnknownColumnError{},
		},
		{
			name: "correlation_second_column_not_numeric",
			req: domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{{
					Column: "Price", Operation: domain.OpCorrelation, SecondColumn: "City",
				}},
			},
			wantErr: &domain.ValidationError{},
		},
		{
			name: "duplicate_alias",
			req: domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{
					{Column: "Price", Operation: domain.OpSum, Alias: "x"},
					{Column: "Quantity", Operation: domain.OpAvg, Alias: "x"},
				},
			},
			wantErr: &domain.ValidationError{},
		},
		{
			name: "filter_unknown_column",
			req: domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{op("Price", domain.OpSum)},
				Filters: []domain.FilterCondition{
					{Column: "Nope", Operator: domain.FilterEq, Value: 1},
				},
			},
			wantErr: &domain.InvalidFilterError{},
		},
		{
			name: "between_needs_two_values",
			req: domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{op("Price", domain.OpSum)},
				Filters: []domain.FilterCondition{
					{Column: "Price", Operator: domain.FilterBetween, Value: []interface{}{50}},
				},
			},
			wantErr: &domain.InvalidFilterError{},
		},
		{
			name: "scalar_operator_rejects_list",
			req: domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{op("Price", domain.OpSum)},
				Filters: []domain.FilterCondition{
					{Column: "Price", Operator: domain.FilterGt, Value: []interface{}{1, 2}},
				},
			},
			wantErr: &domain.InvalidFilterError{},
		},
		{
			name: "unknown_filter_operator",
			req: domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{op("Price", domain.OpSum)},
				Filters: []domain.FilterCondition{
					{Column: "Price", Operator: "IN", Value: 1},
				},
			},
			wantErr: &domain.InvalidFilterError{},
		},
		{
			name: "group_by_unknown_column",
			req: domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{op("Price", domain.OpSum)},
				GroupBy:    []string{"Region"},
			},
			wantErr: &domain.UnknownColumnError{},
		},
		{
			name: "sort_by_unknown_field",
			req: domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{op("Price", domain.OpSum)},
				SortBy:     []domain.SortField{{Field: "nonsense", Order: domain.SortAsc}},
			},
			wantErr: &domain.InvalidSortFieldError{},
		},
		{
			name: "sort_by_bad_order",
			req: domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{op("Price", domain.OpSum)},
				SortBy:     []domain.SortField{{Field: "Price", Order: "SIDEWAYS"}},
			},
			wantErr: &domain.InvalidSortFieldError{},
		},
		{
			name: "negative_limit",
			req: domain.AnalysisRequest{
				Operations: []domain.AnalysisOperation{op("Price", domain.OpSum)},
				Limit:      -5,
			},
			wantErr: &domain.ValidationError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Validate(testSchema(), &tt.req)
			require.Error(t, err)
			assert.Nil(t, v)
			assert.IsType(t, tt.wantErr, err)
		})
	}
}

func TestValidateErrorNamesTheOperation(t *testing.T) {
	_, err := Validate(testSchema(), &domain.AnalysisRequest{
		Operations: []domain.AnalysisOperation{op("City", domain.OpVarPop)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VAR_POP")
	assert.Contains(t, err.Error(), "City")
}

func TestValidateFillsDefaultAliases(t *testing.T) {
	v, err := Validate(testSchema(), &domain.AnalysisRequest{
		Operations: []domain.AnalysisOperation{
			op("Price", domain.OpAvg),
			{Column: "Quantity", Operation: domain.OpSum, Alias: "total_qty"},
		},
	})
	require.NoError(t, err)
	require.Len(t, v.Operations, 2)
	assert.Equal(t, "avg_Price", v.Operations[0].Alias)
	assert.Equal(t, "total_qty", v.Operations[1].Alias)
}

func TestValidateMergesImpliedGrouping(t *testing.T) {
	v, err := Validate(testSchema(), &domain.AnalysisRequest{
		Operations: []domain.AnalysisOperation{op("City", domain.OpTopK)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`"City"`}, v.GroupBy)
	assert.Equal(t, "count DESC", v.defaultOrder)
	assert.Equal(t, 10, v.defaultLimit)
}

func TestValidateDedupesExplicitAndImpliedGrouping(t *testing.T) {
	v, err := Validate(testSchema(), &domain.AnalysisRequest{
		Operations: []domain.AnalysisOperation{op("City", domain.OpValueDistribution)},
		GroupBy:    []string{"City"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`"City"`}, v.GroupBy)
}

func TestValidatePreservesFirstSeenGroupOrder(t *testing.T) {
	v, err := Validate(testSchema(), &domain.AnalysisRequest{
		Operations: []domain.AnalysisOperation{
			{Column: "OrderDate", Operation: domain.OpMonthAnalysis, Alias: "month"},
		},
		GroupBy: []string{"City"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`"City"`, `EXTRACT(MONTH FROM "OrderDate")`}, v.GroupBy)
}

func TestValidateSortOnOutputAliasAndSchemaColumn(t *testing.T) {
	v, err := Validate(testSchema(), &domain.AnalysisRequest{
		Operations: []domain.AnalysisOperation{
			{Column: "Price", Operation: domain.OpSum, Alias: "total"},
			op("City", domain.OpSelect),
		},
		GroupBy: []string{"City"},
		SortBy: []domain.SortField{
			{Field: "total", Order: domain.SortDesc},
			{Field: "City"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`total DESC`, `City ASC`}, v.OrderBy)
}

func TestValidateAllowsBooleanValueDistribution(t *testing.T) {
	_, err := Validate(testSchema(), &domain.AnalysisRequest{
		Operations: []domain.AnalysisOperation{op("Returned", domain.OpValueDistribution)},
	})
	assert.NoError(t, err)
}

package domain

// FieldType is the semantic type derived from a column's physical storage
// type. It drives which operations are legal on the column.
type FieldType string

const (
	FieldNumeric FieldType = "NUMERIC"
	FieldText    FieldType = "TEXT"
	FieldDate    FieldType = "DATE"
	FieldBoolean FieldType = "BOOLEAN"
)

// OperationKind names an analytical computation legal for one or more
// field types.
type OperationKind string

const (
	// Passthrough
	OpSelect OperationKind = "SELECT"

	// Aggregates
	OpSum           OperationKind = "SUM"
	OpAvg           OperationKind = "AVG"
	OpMax           OperationKind = "MAX"
	OpMin           OperationKind = "MIN"
	OpCount         OperationKind = "COUNT"
	OpCountDistinct OperationKind = "COUNT_DISTINCT"
	OpVarPop        OperationKind = "VAR_POP"
	OpStddevPop     OperationKind = "STDDEV_POP"
	OpMedian        OperationKind = "MEDIAN"
	OpQuartiles     OperationKind = "QUARTILES"
	OpPercentiles   OperationKind = "PERCENTILES"
	OpCorrelation   OperationKind = "CORRELATION"

	// Grouping-producing
	OpTopK              OperationKind = "TOP_K"
	OpValueDistribution OperationKind = "VALUE_DISTRIBUTION"
	OpLengthAnalysis    OperationKind = "LENGTH_ANALYSIS"
	OpPatternAnalysis   OperationKind = "PATTERN_ANALYSIS"
	OpYearAnalysis      OperationKind = "YEAR_ANALYSIS"
	OpMonthAnalysis     OperationKind = "MONTH_ANALYSIS"
	OpDayAnalysis       OperationKind = "DAY_ANALYSIS"
	OpHourAnalysis      OperationKind = "HOUR_ANALYSIS"
	OpWeekdayAnalysis   OperationKind = "WEEKDAY_ANALYSIS"
	OpSeasonalAnalysis  OperationKind = "SEASONAL_ANALYSIS"

	// Scalar summaries
	OpDateRange     OperationKind = "DATE_RANGE"
	OpMissingValues OperationKind = "MISSING_VALUES"
	OpDataQuality   OperationKind = "DATA_QUALITY"
)

// ColumnInfo is one column of the session table as reported by the engine.
// Type is the raw physical storage type string (e.g. "DECIMAL(10,2)").
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Schema is the immutable per-session table description.
type Schema struct {
	TableName string       `json:"table_name"`
	Columns   []ColumnInfo `json:"columns"`
}

// Column returns the column with the given name, or false if absent.
func (s *Schema) Column(name string) (ColumnInfo, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

// AnalysisOperation is a single requested computation on a column.
// SecondColumn is consumed only by CORRELATION.
type AnalysisOperation struct {
	Column       string        `json:"column"`
	Operation    OperationKind `json:"operation"`
	Alias        string        `json:"alias,omitempty"`
	SecondColumn string        `json:"second_column,omitempty"`
}

// FilterOperator is one of the closed set of filter comparison operators.
type FilterOperator string

const (
	FilterEq      FilterOperator = "="
	FilterNeq     FilterOperator = "!="
	FilterGt      FilterOperator = ">"
	FilterLt      FilterOperator = "<"
	FilterGte     FilterOperator = ">="
	FilterLte     FilterOperator = "<="
	FilterLike    FilterOperator = "LIKE"
	FilterBetween FilterOperator = "BETWEEN"
)

// FilterCondition restricts the rows an analysis runs over. Value is a
// scalar (string, number, bool) for every operator except BETWEEN, which
// requires exactly a 2-element slice.
type FilterCondition struct {
	Column   string         `json:"column"`
	Operator FilterOperator `json:"operator"`
	Value    interface{}    `json:"value"`
}

// SortOrder is an ORDER BY direction.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// SortField is one explicit ORDER BY term.
type SortField struct {
	Field string    `json:"field"`
	Order SortOrder `json:"order"`
}

// AnalysisRequest is the structured description of desired operations,
// filters, grouping, sorting, and limit against the session table.
type AnalysisRequest struct {
	Operations []AnalysisOperation `json:"operations"`
	Filters    []FilterCondition   `json:"filters,omitempty"`
	GroupBy    []string            `json:"group_by,omitempty"`
	SortBy     []SortField         `json:"sort_by,omitempty"`
	Limit      int                 `json:"limit,omitempty"`
}

// CompiledQuery is the single rendered SQL statement for a validated
// request. Never mutated after construction.
type CompiledQuery struct {
	SQL string
}

// AnalysisResult is the stable response contract: result columns and rows
// plus the exact SQL text that was executed.
type AnalysisResult struct {
	Columns    []string        `json:"columns"`
	Rows       [][]interface{} `json:"rows"`
	SQLPreview string          `json:"sql_preview"`
}

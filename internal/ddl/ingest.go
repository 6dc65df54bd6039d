package ddl

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// TableNameFor derives the session table name from an uploaded filename:
// "tbl_" plus the file stem with anything outside [a-zA-Z0-9_] collapsed to
// underscores ("Q3 Sales.xlsx" becomes "tbl_Q3_Sales").
func TableNameFor(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	stem = unsafeChars.ReplaceAllString(stem, "_")
	return "tbl_" + stem
}

// readerFor picks the DuckDB table function matching the file extension.
func readerFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return fmt.Sprintf("read_xlsx(%s)", QuoteLiteral(path)), nil
	case ".csv":
		return fmt.Sprintf("read_csv_auto(%s)", QuoteLiteral(path)), nil
	default:
		return "", fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
}

// CreateTableFromFile renders the CTAS statement that materializes an
// uploaded spreadsheet as table.
func CreateTableFromFile(table, path string) (string, error) {
	reader, err := readerFor(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE TABLE %s AS SELECT * FROM %s", QuoteIdentifier(table), reader), nil
}

// Describe renders the DESCRIBE statement used to read a table's schema.
func Describe(table string) string {
	return "DESCRIBE " + QuoteIdentifier(table)
}

// CopyToXlsx renders the COPY statement that writes a query's result to an
// xlsx workbook at path.
func CopyToXlsx(query, path string) string {
	return fmt.Sprintf("COPY (%s) TO %s (FORMAT xlsx, HEADER true)", query, QuoteLiteral(path))
}

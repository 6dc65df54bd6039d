// Package analysis implements the analysis-request engine: semantic column
// classification, the operation catalog, request validation, and the
// deterministic SQL compiler.
package analysis

import (
	"strings"

	"quackview/internal/domain"
)

// DuckDB numeric type spellings (v1.3), lowercased, without parameters.
var numericTypes = map[string]struct{}{
	"bigint": {}, "dec": {}, "decimal": {}, "double": {}, "float": {},
	"float4": {}, "float8": {}, "hugeint": {}, "int": {}, "int1": {},
	"int128": {}, "int16": {}, "int2": {}, "int32": {}, "int4": {},
	"int64": {}, "int8": {}, "integer": {}, "integral": {}, "long": {},
	"numeric": {}, "real": {}, "short": {}, "signed": {}, "smallint": {},
	"tinyint": {}, "ubigint": {}, "uhugeint": {}, "uint128": {}, "uint16": {},
	"uint32": {}, "uint64": {}, "uint8": {}, "uinteger": {}, "usmallint": {},
	"utinyint": {}, "varint": {},
}

// DuckDB temporal type spellings.
var dateTypes = map[string]struct{}{
	"date": {}, "datetime": {}, "time": {}, "timestamp": {},
	"timestamp_ms": {}, "timestamp_ns": {}, "timestamp_s": {},
	"timestamp_us": {}, "timestamptz": {}, "timetz": {}, "interval": {},
	"timestamp with time zone": {}, "time with time zone": {},
}

// Classify maps a physical storage type string to its semantic field type.
// It is total: unrecognized types classify as Text. Parameterized types
// ("DECIMAL(10,2)") are matched on their base name; matching is
// case-insensitive.
func Classify(physicalType string) domain.FieldType {
	base := strings.ToLower(strings.TrimSpace(physicalType))
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}

	if _, ok := numericTypes[base]; ok {
		return domain.FieldNumeric
	}
	if _, ok := dateTypes[base]; ok {
		return domain.FieldDate
	}
	if strings.Contains(base, "bool") {
		return domain.FieldBoolean
	}
	return domain.FieldText
}

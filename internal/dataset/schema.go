package dataset

import (
	"strings"

	"github.com/papapumpkin/retrograde/internal/body"
	"github.com/papapumpkin/retrograde/internal/ephemeris"
)

// tableName is the SQL table holding one row per entry and one 0/1 column
// per body.
const tableName = "retrograde_table"

const timestampColumn = "timestamp_seconds_utc"

// createTableSQL returns the DDL shared by the SQL script and SQLite writers.
func createTableSQL() string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS " + tableName + " (\n")
	sb.WriteString("    " + timestampColumn + " INTEGER PRIMARY KEY")
	for _, b := range body.All() {
		sb.WriteString(",\n    " + b.String() + " INTEGER NOT NULL DEFAULT 0")
	}
	sb.WriteString("\n);\n")
	return sb.String()
}

// columnList returns the timestamp column followed by every body column.
func columnList() string {
	cols := []string{timestampColumn}
	for _, b := range body.All() {
		cols = append(cols, b.String())
	}
	return strings.Join(cols, ", ")
}

// rowValues expands an entry into its column values, in columnList order.
func rowValues(e ephemeris.Entry) []any {
	vals := make([]any, 0, body.Count+1)
	vals = append(vals, int64(e.Timestamp))
	for _, b := range body.All() {
		v := 0
		if e.Flags.Has(b) {
			v = 1
		}
		vals = append(vals, v)
	}
	return vals
}

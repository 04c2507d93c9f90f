package dataset

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/papapumpkin/retrograde/internal/ephemeris"
)

// WriteSQL writes tbl as a SQL script that creates retrograde_table and
// inserts one row per entry.
func WriteSQL(w io.Writer, tbl *ephemeris.Table) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(createTableSQL())
	bw.WriteString("\n")

	cols := columnList()
	for i, e := range tbl.Entries() {
		if e.Timestamp > math.MaxInt64 {
			return fmt.Errorf("dataset: entry %d: timestamp %d exceeds SQL INTEGER range", i, e.Timestamp)
		}
		vals := rowValues(e)
		parts := make([]string, len(vals))
		for j, v := range vals {
			parts[j] = fmt.Sprint(v)
		}
		fmt.Fprintf(bw, "INSERT INTO %s (%s) VALUES(%s);\n", tableName, cols, strings.Join(parts, ", "))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("dataset: write sql: %w", err)
	}
	return nil
}

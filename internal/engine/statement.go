package engine

import (
	"fmt"
	"strings"

	"github.com/vvka-141/dvload/pkg/dvload"
)

// QuoteIdentifier double-quotes an identifier for safe embedding in SQL.
// Embedded double quotes are doubled per the SQL standard.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// BuildInsertStatement renders the single INSERT ... SELECT statement for one
// load operation. The column list and the projection follow the mapping order,
// so the two are positionally aligned by construction. Columns bound to the
// load timestamp receive the run's literal, substituted once at build time:
// every row inserted by the operation carries the same value.
//
// The statement selects the full contents of the source delta table. The
// staging layer guarantees the delta holds exactly this run's rows; the
// engine neither filters nor deduplicates against the target.
func BuildInsertStatement(spec *dvload.TargetTableSpec, ts dvload.LoadTimestamp) string {
	columns := make([]string, len(spec.Mappings))
	projection := make([]string, len(spec.Mappings))

	for i, m := range spec.Mappings {
		columns[i] = QuoteIdentifier(m.Target)
		if m.LoadTimestamp {
			projection[i] = ts.Literal()
		} else {
			projection[i] = QuoteIdentifier(m.Source)
		}
	}

	return fmt.Sprintf("INSERT INTO %s.%s (%s)\nSELECT %s\nFROM %s.%s",
		QuoteIdentifier(spec.TargetSchema),
		QuoteIdentifier(spec.TargetTable),
		strings.Join(columns, ", "),
		strings.Join(projection, ", "),
		QuoteIdentifier(spec.SourceSchema),
		QuoteIdentifier(spec.SourceTable),
	)
}

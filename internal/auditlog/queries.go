package auditlog

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierPattern accepts plain PostgreSQL identifiers. Quoted or exotic
// names are rejected at construction rather than risking malformed SQL in the
// audit path.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_$]*$`)

// validateIdentifier rejects empty or non-plain identifiers.
func validateIdentifier(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name is empty", kind)
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%s name %q is not a plain identifier", kind, name)
	}
	return nil
}

// quoteIdentifier double-quotes an identifier for safe embedding in SQL.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// insertStatement builds the parameterized append statement for the audit
// table. Column order is the fixed thirteen-column contract.
func insertStatement(schema, table string) string {
	return fmt.Sprintf(`INSERT INTO %s.%s (
	log_timestamp,
	log_level,
	execution_unit,
	project_name,
	application_name,
	application_environment_name,
	load_timestamp,
	statement_name,
	task_name,
	target_database,
	target_schema,
	target_table,
	message
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		quoteIdentifier(schema), quoteIdentifier(table))
}

// CreateTableStatement returns the DDL for the audit table. Deployment
// provisioning and integration tests use it to create the log store.
func CreateTableStatement(schema, table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
	log_timestamp timestamp NOT NULL,
	log_level text NOT NULL,
	execution_unit uuid NOT NULL,
	project_name text NOT NULL,
	application_name text NOT NULL,
	application_environment_name text NOT NULL,
	load_timestamp timestamp,
	statement_name text NOT NULL,
	task_name text NOT NULL,
	target_database text NOT NULL,
	target_schema text NOT NULL,
	target_table text NOT NULL,
	message text NOT NULL
)`, quoteIdentifier(schema), quoteIdentifier(table))
}

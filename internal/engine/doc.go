// Package engine executes insert-only vault load operations.
//
// One parameterized loader covers all four target kinds (hub, link,
// satellite, PIT): the column mappings of a TargetTableSpec drive both the
// insert column list and the select projection, so the per-kind differences
// live entirely in configuration. Each operation is a single INSERT ... SELECT
// statement; statement atomicity comes from PostgreSQL, and there is no
// transaction spanning operations, so a failed run leaves earlier operations'
// rows committed.
package engine

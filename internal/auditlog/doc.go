// Package auditlog appends vault load audit entries to a durable, append-only
// PostgreSQL table and mirrors them to the console.
//
// Every load operation produces exactly one entry: INFO with serialized
// metrics on success, ERROR with the database error text on failure. The
// durable append is a required side effect of the run; if it fails the run
// fails, even when the load statement itself succeeded.
package auditlog

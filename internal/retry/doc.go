// Package retry implements retry with exponential backoff for transient
// failures.
//
// dvload retries two things only: establishing database connections and
// polling a managed job run for its terminal status. A failed vault load
// statement is never retried here; the load engine is insert-only and
// whether to re-run is the caller's decision.
package retry

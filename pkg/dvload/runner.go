package dvload

import "context"

// Runner is the main interface for executing a vault load run.
// Implementations bind the load timestamp once, execute every configured
// load operation in order against one connection, and return the aggregated
// per-operation metrics. Errors are never swallowed: the first failing
// operation aborts the run and its error propagates to the caller.
type Runner interface {
	// Run executes a load run using the provided configuration.
	Run(ctx context.Context, config RunConfig) (RunMetrics, error)
}

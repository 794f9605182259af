package dvload

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	metrics, err := runner.Run(ctx, config)
//	if errors.Is(err, dvload.ErrParameter) {
//	    // Malformed load timestamp, nothing was executed
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrParameter indicates the load timestamp parameter is malformed.
	// This aborts the run before any load operation executes.
	ErrParameter = errors.New("invalid load timestamp parameter")

	// ErrLoadStatement indicates an insert statement against a vault target failed.
	// Inserts from earlier operations in the same run remain committed.
	ErrLoadStatement = errors.New("load statement failed")

	// ErrLogging indicates the durable audit log append failed.
	// The audit trail is a required side effect, so this is fatal to the run.
	ErrLogging = errors.New("audit log append failed")

	// ErrModelNotFound indicates the required model.yaml file was not found.
	ErrModelNotFound = errors.New("model.yaml not found")

	// ErrApprovalDenied indicates the user denied approval for the operation.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrDeployFailed indicates the managed job run ended in a non-success terminal state.
	ErrDeployFailed = errors.New("deployment failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrParameter):
		return ExitParameterError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrLoadStatement):
		return ExitLoadFailed
	case errors.Is(err, ErrLogging):
		return ExitAuditLogFailed
	case errors.Is(err, ErrModelNotFound):
		return ExitModelMissing
	case errors.Is(err, ErrDeployFailed):
		return ExitDeployFailed
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	}

	// Check for common connection error patterns
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

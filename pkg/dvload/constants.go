package dvload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Run completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to connect to database
	ExitApprovalDenied  = 12 // User denied overwrite approval
	ExitLoadFailed      = 13 // Vault load statement failed
	ExitModelMissing    = 14 // model.yaml not found
	ExitParameterError  = 15 // Malformed load timestamp parameter
	ExitAuditLogFailed  = 16 // Durable audit log append failed
	ExitDeployFailed    = 17 // Managed job run ended unsuccessfully
)

// LoadTimestampLayout is the fixed format every non-empty load timestamp
// must match: YYYY-MM-DD HH:MM:SS.ffffff with exactly six fractional digits.
const LoadTimestampLayout = "2006-01-02 15:04:05.000000"

// OperationKeyPrefix prefixes every per-operation metrics key. The full key
// is inserttarget_<database>_<schema>_<table> and doubles as the operation's
// statement name in the audit log.
const OperationKeyPrefix = "inserttarget"

const (
	// DefaultRetryInitialDelay is the default initial delay before the first
	// connection retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between connection
	// retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of connection
	// retry attempts. Load statements are never retried.
	DefaultRetryMaxAttempts = 3

	// DefaultForceApprovalCountdown is the countdown duration before a forced
	// approval proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultAuditSchema is the schema holding the audit log table when the
	// project config does not override it.
	DefaultAuditSchema = "audit"

	// DefaultAuditTable is the audit log table name when the project config
	// does not override it.
	DefaultAuditTable = "vault_load_log"
)

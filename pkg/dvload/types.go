package dvload

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LoadTimestamp is the run-wide "as of" marker shared by every load
// operation in one run. It is distinct from wall-clock execution time:
// the caller chooses it, and all rows inserted by the run carry it.
//
// The zero value is the null marker: its SQL literal is a typed NULL,
// so satellite and PIT timestamp columns receive SQL NULL rather than
// an engine error.
type LoadTimestamp struct {
	// Valid is false for the null marker (empty caller input).
	Valid bool

	// Time is the parsed timestamp. Only meaningful when Valid is true.
	Time time.Time
}

// Literal returns the query-embeddable SQL literal for the timestamp.
// The literal is substituted into projections once at statement build time,
// so every row inserted by one operation carries the same value.
func (lt LoadTimestamp) Literal() string {
	if !lt.Valid {
		return "CAST(NULL AS timestamp)"
	}
	return "'" + lt.Time.Format(LoadTimestampLayout) + "'::timestamp"
}

// String returns the timestamp in the canonical layout, or "NULL" for the
// null marker. Used in audit messages, never in SQL.
func (lt LoadTimestamp) String() string {
	if !lt.Valid {
		return "NULL"
	}
	return lt.Time.Format(LoadTimestampLayout)
}

// TableKind tags a TargetTableSpec with the Data Vault structure it loads.
type TableKind int

const (
	KindHub TableKind = iota
	KindLink
	KindSatellite
	KindPIT
)

// String returns the lower-case kind name used in configuration and metrics labels.
func (k TableKind) String() string {
	switch k {
	case KindHub:
		return "hub"
	case KindLink:
		return "link"
	case KindSatellite:
		return "satellite"
	case KindPIT:
		return "pit"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ParseTableKind converts a configuration string into a TableKind.
func ParseTableKind(s string) (TableKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hub":
		return KindHub, nil
	case "link":
		return KindLink, nil
	case "satellite", "sat":
		return KindSatellite, nil
	case "pit", "point_in_time":
		return KindPIT, nil
	default:
		return 0, fmt.Errorf("unknown table kind %q: %w", s, ErrInvalidConfig)
	}
}

// ColumnMapping maps one target column to its source expression. Exactly one
// of Source and LoadTimestamp must be set: either the value is copied from a
// staged delta column, or the run's load timestamp literal is substituted.
// Satellites map their valid_from_timestamp column via LoadTimestamp too.
type ColumnMapping struct {
	// Target is the target column name.
	Target string

	// Source is the delta column to copy. Empty when LoadTimestamp is true.
	Source string

	// LoadTimestamp binds the run's load timestamp literal instead of a
	// source column.
	LoadTimestamp bool
}

// Validate checks a single column mapping.
func (m ColumnMapping) Validate() error {
	if m.Target == "" {
		return fmt.Errorf("column mapping target is required: %w", ErrInvalidConfig)
	}
	if m.LoadTimestamp && m.Source != "" {
		return fmt.Errorf("column %q maps both a source column and the load timestamp: %w", m.Target, ErrInvalidConfig)
	}
	if !m.LoadTimestamp && m.Source == "" {
		return fmt.Errorf("column %q has no source: %w", m.Target, ErrInvalidConfig)
	}
	return nil
}

// TargetTableSpec declares one insert-only batch transfer from a staged
// delta table into a vault target table. The mapping order defines both the
// insert column list and the select projection list; the two are positionally
// aligned by construction.
//
// All four kinds are insert-only. A corrected row is a new row with a later
// load timestamp, never a mutation of an existing row.
type TargetTableSpec struct {
	Kind TableKind

	// TargetDatabase identifies the database in metrics keys and audit
	// entries. The connection itself is already scoped to it.
	TargetDatabase string
	TargetSchema   string
	TargetTable    string

	// SourceSchema/SourceTable name the staged delta table. The engine
	// selects its full contents: the staging layer guarantees it holds
	// exactly the delta rows for this run.
	SourceSchema string
	SourceTable  string

	Mappings []ColumnMapping
}

// OperationKey returns the stable key identifying this operation in
// RunMetrics and as the statement name in audit entries:
// inserttarget_<database>_<schema>_<table>.
func (s *TargetTableSpec) OperationKey() string {
	return fmt.Sprintf("%s_%s_%s_%s", OperationKeyPrefix, s.TargetDatabase, s.TargetSchema, s.TargetTable)
}

// Validate checks the spec is complete enough to build an insert statement.
// It returns a multi-error if multiple validation failures occur.
func (s *TargetTableSpec) Validate() error {
	var errs []error

	if s.TargetDatabase == "" {
		errs = append(errs, fmt.Errorf("target database is required: %w", ErrInvalidConfig))
	}
	if s.TargetSchema == "" {
		errs = append(errs, fmt.Errorf("target schema is required: %w", ErrInvalidConfig))
	}
	if s.TargetTable == "" {
		errs = append(errs, fmt.Errorf("target table is required: %w", ErrInvalidConfig))
	}
	if s.SourceSchema == "" {
		errs = append(errs, fmt.Errorf("source delta schema is required: %w", ErrInvalidConfig))
	}
	if s.SourceTable == "" {
		errs = append(errs, fmt.Errorf("source delta table is required: %w", ErrInvalidConfig))
	}
	if len(s.Mappings) == 0 {
		errs = append(errs, fmt.Errorf("at least one column mapping is required: %w", ErrInvalidConfig))
	}
	for _, m := range s.Mappings {
		if err := m.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// LoadRun is the explicit run-scoped context passed into every load
// operation. It is created once by the run driver and immutable afterward;
// there is no ambient shared state.
type LoadRun struct {
	// ExecutionUnit identifies the run in every audit entry.
	ExecutionUnit uuid.UUID

	// LoadTimestamp is the single as-of marker for all operations.
	LoadTimestamp LoadTimestamp

	// Project, Application and Environment identify the deployment in audit
	// entries, resolved once from configuration at run start.
	Project     string
	Application string
	Environment string

	// TaskName is the invoking CLI command or job task.
	TaskName string
}

// RunConfig contains all parameters needed to execute one load run.
type RunConfig struct {
	// ConnectionString is the PostgreSQL connection string for the target
	// database (URI or keyword/value format).
	ConnectionString string

	// RawLoadTimestamp is the caller-supplied timestamp string. Empty means
	// the null marker, anything else must match LoadTimestampLayout.
	RawLoadTimestamp string

	// Project, Application and Environment are carried into every audit entry.
	Project     string
	Application string
	Environment string

	// TaskName is recorded as the audit task_name column.
	TaskName string

	// AuditSchema/AuditTable locate the append-only audit log table.
	AuditSchema string
	AuditTable  string

	// Specs are the load operations in execution order. Dependency order
	// (hubs before links/satellites, those before PITs) is a configuration
	// concern, not enforced here.
	Specs []TargetTableSpec

	// Timeout is the catastrophic failure protection timeout for the run.
	Timeout time.Duration

	// Verbose enables detailed console logging.
	Verbose bool

	// AuthMethod indicates the authentication mechanism to use.
	AuthMethod AuthMethod

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AWS IAM authentication.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name
	// (project:region:instance) for Google IAM authentication.
	GoogleInstance string
}

// Validate checks if the RunConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *RunConfig) Validate() error {
	var errs []error

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}
	if c.Project == "" {
		errs = append(errs, fmt.Errorf("Project is required: %w", ErrInvalidConfig))
	}
	if len(c.Specs) == 0 {
		errs = append(errs, fmt.Errorf("at least one load operation is required: %w", ErrInvalidConfig))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters. If all three are provided,
	// Service Principal authentication is used; otherwise the
	// DefaultAzureCredential chain applies.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AWS IAM authentication.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name
	// (project:region:instance) for Google IAM authentication.
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

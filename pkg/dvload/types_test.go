package dvload

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTimestamp_Literal(t *testing.T) {
	t.Run("null marker", func(t *testing.T) {
		lt := LoadTimestamp{}
		assert.Equal(t, "CAST(NULL AS timestamp)", lt.Literal())
		assert.Equal(t, "NULL", lt.String())
	})

	t.Run("bound value", func(t *testing.T) {
		ts, err := time.Parse(LoadTimestampLayout, "2024-01-01 00:00:00.000000")
		require.NoError(t, err)

		lt := LoadTimestamp{Valid: true, Time: ts}
		assert.Equal(t, "'2024-01-01 00:00:00.000000'::timestamp", lt.Literal())
		assert.Equal(t, "2024-01-01 00:00:00.000000", lt.String())
	})

	t.Run("microseconds preserved", func(t *testing.T) {
		ts, err := time.Parse(LoadTimestampLayout, "2024-06-30 23:59:59.123456")
		require.NoError(t, err)

		lt := LoadTimestamp{Valid: true, Time: ts}
		assert.Equal(t, "'2024-06-30 23:59:59.123456'::timestamp", lt.Literal())
	})
}

func TestTableKind_RoundTrip(t *testing.T) {
	kinds := []TableKind{KindHub, KindLink, KindSatellite, KindPIT}
	for _, k := range kinds {
		parsed, err := ParseTableKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
}

func TestParseTableKind_Aliases(t *testing.T) {
	tests := []struct {
		input string
		want  TableKind
	}{
		{"hub", KindHub},
		{"HUB", KindHub},
		{" link ", KindLink},
		{"sat", KindSatellite},
		{"satellite", KindSatellite},
		{"pit", KindPIT},
		{"point_in_time", KindPIT},
	}

	for _, tt := range tests {
		got, err := ParseTableKind(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestParseTableKind_Unknown(t *testing.T) {
	_, err := ParseTableKind("bridge")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func validSpec() TargetTableSpec {
	return TargetTableSpec{
		Kind:           KindHub,
		TargetDatabase: "dwh",
		TargetSchema:   "vault",
		TargetTable:    "hub_user",
		SourceSchema:   "delta",
		SourceTable:    "delta_user",
		Mappings: []ColumnMapping{
			{Target: "load_timestamp", LoadTimestamp: true},
			{Target: "hub_user_hk", Source: "hub_user_hk"},
			{Target: "record_source", Source: "record_source"},
		},
	}
}

func TestTargetTableSpec_OperationKey(t *testing.T) {
	spec := validSpec()
	assert.Equal(t, "inserttarget_dwh_vault_hub_user", spec.OperationKey())
}

func TestTargetTableSpec_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		spec := validSpec()
		assert.NoError(t, spec.Validate())
	})

	mutations := []struct {
		name   string
		mutate func(*TargetTableSpec)
	}{
		{"missing target database", func(s *TargetTableSpec) { s.TargetDatabase = "" }},
		{"missing target schema", func(s *TargetTableSpec) { s.TargetSchema = "" }},
		{"missing target table", func(s *TargetTableSpec) { s.TargetTable = "" }},
		{"missing source schema", func(s *TargetTableSpec) { s.SourceSchema = "" }},
		{"missing source table", func(s *TargetTableSpec) { s.SourceTable = "" }},
		{"no mappings", func(s *TargetTableSpec) { s.Mappings = nil }},
		{"mapping without target", func(s *TargetTableSpec) { s.Mappings[1].Target = "" }},
		{"mapping without source", func(s *TargetTableSpec) { s.Mappings[1].Source = "" }},
		{"mapping with both sources", func(s *TargetTableSpec) { s.Mappings[1].LoadTimestamp = true }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)
			err := spec.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestRunConfig_Validate(t *testing.T) {
	valid := RunConfig{
		ConnectionString: "postgresql://localhost/dwh",
		Project:          "crm",
		Specs:            []TargetTableSpec{validSpec()},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*RunConfig)
	}{
		{"missing connection string", func(c *RunConfig) { c.ConnectionString = "" }},
		{"missing project", func(c *RunConfig) { c.Project = "" }},
		{"no specs", func(c *RunConfig) { c.Specs = nil }},
		{"negative timeout", func(c *RunConfig) { c.Timeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestAuthMethod_String(t *testing.T) {
	assert.Equal(t, "Standard", AuthMethodStandard.String())
	assert.Equal(t, "AWS IAM", AuthMethodAWSIAM.String())
	assert.Equal(t, "Google IAM", AuthMethodGoogleIAM.String())
	assert.Equal(t, "Azure Entra ID", AuthMethodAzureEntraID.String())
	assert.Equal(t, "Unknown(99)", AuthMethod(99).String())
}

func TestAuthMethod_IsValid(t *testing.T) {
	assert.True(t, AuthMethodStandard.IsValid())
	assert.True(t, AuthMethodAzureEntraID.IsValid())
	assert.False(t, AuthMethod(-1).IsValid())
	assert.False(t, AuthMethod(99).IsValid())
}

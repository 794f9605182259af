package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/dvload/pkg/dvload"
)

// ModelFileName is the vault model definition file and the deployment entry
// point: a source directory without it is not a loadable model.
const ModelFileName = "model.yaml"

// ModelConfig declares the vault target tables of one model. Database,
// schema and table name fields may contain {placeholder} references resolved
// from the project params once at run start.
type ModelConfig struct {
	Database    string        `yaml:"database"`
	Schema      string        `yaml:"schema"`
	DeltaSchema string        `yaml:"delta_schema"`
	Tables      []TableConfig `yaml:"tables"`
}

// TableConfig declares one load operation.
type TableConfig struct {
	// Kind is the vault structure: hub, link, satellite or pit.
	Kind string `yaml:"kind"`

	// Name is the target table. Source defaults to the same name in the
	// delta schema.
	Name   string `yaml:"name"`
	Source string `yaml:"source,omitempty"`

	Columns []ColumnConfig `yaml:"columns"`
}

// ColumnConfig declares one column mapping. Exactly one of source and
// load_timestamp must be set.
type ColumnConfig struct {
	Target        string `yaml:"target"`
	Source        string `yaml:"source,omitempty"`
	LoadTimestamp bool   `yaml:"load_timestamp,omitempty"`
}

// LoadModel reads the model definition from sourcePath. A missing file wraps
// dvload.ErrModelNotFound.
func LoadModel(sourcePath string) (*ModelConfig, error) {
	modelPath := filepath.Join(sourcePath, ModelFileName)
	data, err := os.ReadFile(modelPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", dvload.ErrModelNotFound, modelPath)
		}
		return nil, err
	}

	var model ModelConfig
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("invalid model file %s: %w: %w", modelPath, dvload.ErrInvalidConfig, err)
	}
	return &model, nil
}

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// substitute resolves {placeholder} references from params. An unresolved
// placeholder is an error: substitution failures must surface before any
// statement executes.
func substitute(s string, params map[string]string) (string, error) {
	var missing []string
	out := placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := params[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("unresolved placeholder %q in %q: %w", missing[0], s, dvload.ErrInvalidConfig)
	}
	return out, nil
}

// Resolve turns the model into concrete load operations, substituting
// placeholders once and validating every resulting spec. The table order in
// the model is the execution order: dependency ordering (hubs before links
// and satellites, those before PITs) is the model author's responsibility.
func (m *ModelConfig) Resolve(params map[string]string) ([]dvload.TargetTableSpec, error) {
	database, err := substitute(m.Database, params)
	if err != nil {
		return nil, err
	}
	schema, err := substitute(m.Schema, params)
	if err != nil {
		return nil, err
	}
	deltaSchema, err := substitute(m.DeltaSchema, params)
	if err != nil {
		return nil, err
	}

	specs := make([]dvload.TargetTableSpec, 0, len(m.Tables))
	var errs []error

	for _, table := range m.Tables {
		kind, err := dvload.ParseTableKind(table.Kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("table %q: %w", table.Name, err))
			continue
		}

		name, err := substitute(table.Name, params)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		source := table.Source
		if source == "" {
			source = table.Name
		}
		source, err = substitute(source, params)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		mappings := make([]dvload.ColumnMapping, len(table.Columns))
		for i, col := range table.Columns {
			mappings[i] = dvload.ColumnMapping{
				Target:        col.Target,
				Source:        col.Source,
				LoadTimestamp: col.LoadTimestamp,
			}
		}

		spec := dvload.TargetTableSpec{
			Kind:           kind,
			TargetDatabase: database,
			TargetSchema:   schema,
			TargetTable:    name,
			SourceSchema:   deltaSchema,
			SourceTable:    source,
			Mappings:       mappings,
		}

		if err := spec.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("table %q: %w", table.Name, err))
			continue
		}

		specs = append(specs, spec)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("model declares no tables: %w", dvload.ErrInvalidConfig)
	}

	return specs, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/dvload/internal/metrics"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// AuditConfig locates the append-only audit log table.
type AuditConfig struct {
	Schema string `yaml:"schema,omitempty"`
	Table  string `yaml:"table,omitempty"`
}

// DeployConfig configures the deployment surface: the object store holding
// versioned load definitions and the job runner that executes them remotely.
type DeployConfig struct {
	Endpoint     string `yaml:"endpoint"`
	AccessKey    string `yaml:"access_key,omitempty"`
	SecretKey    string `yaml:"secret_key,omitempty"`
	UseSSL       bool   `yaml:"use_ssl,omitempty"`
	Bucket       string `yaml:"bucket"`
	JobRunnerURL string `yaml:"job_runner_url"`
	JobName      string `yaml:"job_name,omitempty"`
}

type ProjectConfig struct {
	Connection  ConnectionConfig  `yaml:"connection"`
	Project     string            `yaml:"project"`
	Application string            `yaml:"application"`
	Environment string            `yaml:"environment"`
	Audit       AuditConfig       `yaml:"audit,omitempty"`
	Metrics     metrics.Config    `yaml:"metrics,omitempty"`
	Params      map[string]string `yaml:"params,omitempty"`
	Timeout     string            `yaml:"timeout,omitempty"`
	Deploy      DeployConfig      `yaml:"deploy,omitempty"`
}

const ConfigFileName = "dvload.yaml"

func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TimeoutDuration parses the configured timeout. An empty value means no
// timeout.
func (c *ProjectConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/vvka-141/dvload/internal/config"
	"github.com/vvka-141/dvload/internal/db"
	"github.com/vvka-141/dvload/pkg/dvload"
)

// connectionStringFromEnv returns the first non-empty connection string from
// DVLOAD_CONNECTION_STRING or DATABASE_URL environment variables.
func connectionStringFromEnv() string {
	if s := os.Getenv("DVLOAD_CONNECTION_STRING"); s != "" {
		return s
	}
	return os.Getenv("DATABASE_URL")
}

// resolveConnectionString resolves the target connection with flag > env >
// project config precedence. The password never lives in dvload.yaml; it
// comes from the connection string or $PGPASSWORD.
func resolveConnectionString(flagValue string, cfg *config.ProjectConfig) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if s := connectionStringFromEnv(); s != "" {
		return s, nil
	}

	c := cfg.Connection
	if c.Host == "" || c.Database == "" {
		return "", fmt.Errorf("no connection configured: %w\n"+
			"Provide via:\n"+
			"  1. --connection flag\n"+
			"  2. Environment variable: export DVLOAD_CONNECTION_STRING=postgresql://user@host/db\n"+
			"  3. The connection section of %s", dvload.ErrInvalidConfig, config.ConfigFileName)
	}

	port := c.Port
	if port == 0 {
		port = 5432
	}

	connConfig := &dvload.ConnectionConfig{
		Host:     c.Host,
		Port:     port,
		Database: c.Database,
		Username: c.Username,
		Password: os.Getenv("PGPASSWORD"),
		SSLMode:  c.SSLMode,
	}
	return db.BuildConnectionString(connConfig), nil
}

// resolveAuthMethod maps the configured auth method name to its enum value.
func resolveAuthMethod(name string) (dvload.AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "standard":
		return dvload.AuthMethodStandard, nil
	case "aws-iam":
		return dvload.AuthMethodAWSIAM, nil
	case "google-iam":
		return dvload.AuthMethodGoogleIAM, nil
	case "azure", "azure-entra-id":
		return dvload.AuthMethodAzureEntraID, nil
	default:
		return 0, fmt.Errorf("unknown auth method %q: %w", name, dvload.ErrInvalidConfig)
	}
}

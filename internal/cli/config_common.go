package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vvka-141/dvload/internal/config"
	"github.com/vvka-141/dvload/internal/params"
	"github.com/vvka-141/dvload/pkg/dvload"
)

// loadProjectConfig loads dvload.yaml from the source path. A .env file next
// to the working directory is loaded first so config values can reference it.
func loadProjectConfig(sourcePath string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(sourcePath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%s not found in %s: %w", config.ConfigFileName, sourcePath, dvload.ErrInvalidConfig)
		}
		return nil, fmt.Errorf("failed to load %s: %w: %w", config.ConfigFileName, dvload.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// mergeParams layers parameter sources with later sources winning:
// dvload.yaml params, then the --params-file, then --param flags.
func mergeParams(cfg *config.ProjectConfig, paramsFile string, paramFlags []string) (map[string]string, error) {
	merged := make(map[string]string, len(cfg.Params))
	for k, v := range cfg.Params {
		merged[k] = v
	}

	if paramsFile != "" {
		content, err := os.ReadFile(paramsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read params file %s: %w: %w", paramsFile, dvload.ErrParameter, err)
		}
		fileParams, err := params.ParseEnvFile(content)
		if err != nil {
			return nil, fmt.Errorf("invalid params file %s: %w", paramsFile, err)
		}
		for k, v := range fileParams {
			merged[k] = v
		}
	}

	flagParams, err := params.ParseKeyValuePairs(paramFlags)
	if err != nil {
		return nil, err
	}
	for k, v := range flagParams {
		merged[k] = v
	}

	return merged, nil
}

// resolveSpecs loads model.yaml from the source path and resolves it into
// concrete load operations.
func resolveSpecs(sourcePath string, runParams map[string]string) ([]dvload.TargetTableSpec, error) {
	model, err := config.LoadModel(sourcePath)
	if err != nil {
		return nil, err
	}
	return model.Resolve(runParams)
}

// sourcePathFromArgs returns the positional source path argument, defaulting
// to the current directory.
func sourcePathFromArgs(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

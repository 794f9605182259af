package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/dvload/internal/engine"
	"github.com/vvka-141/dvload/internal/logging"
	"github.com/vvka-141/dvload/internal/metrics"
	"github.com/vvka-141/dvload/pkg/dvload"
)

var (
	runConnectionFlag string
	runTimestampFlag  string
	runParamFlags     []string
	runParamsFileFlag string
	runTimeoutFlag    time.Duration
	runTaskNameFlag   string
	runAuthMethodFlag string
)

var runCmd = &cobra.Command{
	Use:   "run [source-path]",
	Short: "Execute the incremental vault load",
	Long: `Run loads every target table declared in model.yaml, in declaration
order, as one insert-only batch transfer per table. All operations share a
single load timestamp; pass it with --load-timestamp or leave it empty to
record NULL in the load timestamp columns.

A mid-run failure stops the run after its audit entry is written. Rows
inserted by earlier operations stay committed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runConnectionFlag, "connection", "c", "", "PostgreSQL connection string (overrides env and dvload.yaml)")
	runCmd.Flags().StringVarP(&runTimestampFlag, "load-timestamp", "t", "", "Run-wide load timestamp (format: 2006-01-02 15:04:05.000000; empty records NULL)")
	runCmd.Flags().StringArrayVar(&runParamFlags, "param", nil, "Model parameter as key=value (repeatable)")
	runCmd.Flags().StringVar(&runParamsFileFlag, "params-file", "", "File with key=value parameters, one per line")
	runCmd.Flags().DurationVar(&runTimeoutFlag, "timeout", 0, "Run timeout (overrides dvload.yaml; 0 means no override)")
	runCmd.Flags().StringVar(&runTaskNameFlag, "task-name", "run", "Task name recorded in every audit entry")
	runCmd.Flags().StringVar(&runAuthMethodFlag, "auth-method", "", "Authentication method: standard, aws-iam, google-iam, azure-entra-id")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	sourcePath := sourcePathFromArgs(args)

	cfg, err := loadProjectConfig(sourcePath)
	if err != nil {
		return err
	}

	runParams, err := mergeParams(cfg, runParamsFileFlag, runParamFlags)
	if err != nil {
		return err
	}

	specs, err := resolveSpecs(sourcePath, runParams)
	if err != nil {
		return err
	}

	connStr, err := resolveConnectionString(runConnectionFlag, cfg)
	if err != nil {
		return err
	}

	authName := runAuthMethodFlag
	if authName == "" {
		authName = cfg.Connection.AuthMethod
	}
	authMethod, err := resolveAuthMethod(authName)
	if err != nil {
		return err
	}

	timeout := runTimeoutFlag
	if timeout == 0 {
		timeout, err = cfg.TimeoutDuration()
		if err != nil {
			return fmt.Errorf("%w: %w", dvload.ErrInvalidConfig, err)
		}
	}

	runConfig := dvload.RunConfig{
		ConnectionString:  connStr,
		RawLoadTimestamp:  runTimestampFlag,
		Project:           cfg.Project,
		Application:       cfg.Application,
		Environment:       cfg.Environment,
		TaskName:          runTaskNameFlag,
		AuditSchema:       cfg.Audit.Schema,
		AuditTable:        cfg.Audit.Table,
		Specs:             specs,
		Timeout:           timeout,
		Verbose:           verbose,
		AuthMethod:        authMethod,
		AzureTenantID:     cfg.Connection.AzureTenantID,
		AzureClientID:     cfg.Connection.AzureClientID,
		AzureClientSecret: os.Getenv("DVLOAD_AZURE_CLIENT_SECRET"),
		AWSRegion:         cfg.Connection.AWSRegion,
		GoogleInstance:    cfg.Connection.GoogleInstance,
	}

	console := logging.NewConsoleLogger(verbose)

	cfg.Metrics.ApplyDefaults()
	recorder := metrics.New(cfg.Metrics)
	if recorder.IsEnabled() {
		go func() {
			if serveErr := recorder.StartServer(cfg.Metrics.Address); serveErr != nil {
				console.Error("metrics server stopped: %v", serveErr)
			}
		}()
		console.Verbose("Metrics exposed on %s/metrics", cfg.Metrics.Address)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := engine.NewRunService(console, recorder)
	runMetrics, err := runner.Run(ctx, runConfig)
	if err != nil {
		return err
	}

	return printRunMetrics(runMetrics)
}

// printRunMetrics writes the per-operation metrics as JSON to stdout so
// orchestration pipelines can consume them.
func printRunMetrics(m dvload.RunMetrics) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize run metrics: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

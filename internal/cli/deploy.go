package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/dvload/internal/deploy"
	"github.com/vvka-141/dvload/internal/logging"
	"github.com/vvka-141/dvload/internal/retry"
	"github.com/vvka-141/dvload/internal/ui"
	"github.com/vvka-141/dvload/pkg/dvload"
)

var (
	deployVersionFlag string
	deployJobFlag     string
	deployForceFlag   bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy [source-path]",
	Short: "Upload versioned load definitions and trigger a managed run",
	Long: `Deploy uploads the model.yaml, dvload.yaml and any .env files from
the source directory to the configured object store under a versioned prefix,
then triggers the managed load job and waits for it to finish.

Re-uploading an existing version overwrites it and requires confirmation.
Use --force to approve the overwrite after a countdown instead of typing the
version name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().StringVar(&deployVersionFlag, "version", "", "Version name for the uploaded definition set (required)")
	deployCmd.Flags().StringVar(&deployJobFlag, "job", "", "Managed job to trigger (defaults to deploy.job_name in dvload.yaml)")
	deployCmd.Flags().BoolVar(&deployForceFlag, "force", false, "Overwrite an existing version after a countdown instead of interactive confirmation")
	_ = deployCmd.MarkFlagRequired("version")
	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	sourcePath := sourcePathFromArgs(args)

	cfg, err := loadProjectConfig(sourcePath)
	if err != nil {
		return err
	}

	if cfg.Deploy.Endpoint == "" || cfg.Deploy.Bucket == "" {
		return fmt.Errorf("deploy requires the deploy section of dvload.yaml (endpoint, bucket): %w", dvload.ErrInvalidConfig)
	}
	if cfg.Deploy.JobRunnerURL == "" {
		return fmt.Errorf("deploy requires deploy.job_runner_url in dvload.yaml: %w", dvload.ErrInvalidConfig)
	}

	jobName := deployJobFlag
	if jobName == "" {
		jobName = cfg.Deploy.JobName
	}
	if jobName == "" {
		return fmt.Errorf("no job name: pass --job or set deploy.job_name in dvload.yaml: %w", dvload.ErrInvalidConfig)
	}

	client, err := deploy.NewMinIOClient(cfg.Deploy)
	if err != nil {
		return err
	}
	uploader := deploy.NewMinIOUploader(client, cfg.Deploy.Bucket)
	runner := deploy.NewHTTPJobRunner(cfg.Deploy.JobRunnerURL)

	var approver dvload.Approver
	if deployForceFlag {
		approver = ui.NewForcedApprover(verbose)
	} else {
		approver = ui.NewInteractiveApprover(verbose)
	}

	console := logging.NewConsoleLogger(verbose)
	backoff := retry.NewExponentialBackoff(5,
		retry.WithInitialDelay(2*time.Second),
		retry.WithMaxDelay(30*time.Second),
	)

	service := deploy.NewDeployService(uploader, runner, approver, console, backoff)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := deploy.DeployRequest{
		SourcePath: sourcePath,
		Version:    deployVersionFlag,
		JobName:    jobName,
	}
	if err := service.Deploy(ctx, req); err != nil {
		return err
	}

	fmt.Printf("Deployed version %s and job %s finished successfully\n", deployVersionFlag, jobName)
	return nil
}

package deploy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vvka-141/dvload/internal/config"
	"github.com/vvka-141/dvload/pkg/dvload"
)

// DeployRequest describes one deployment.
type DeployRequest struct {
	// SourcePath is the directory holding the load definitions. It must
	// contain the model.yaml entry point.
	SourcePath string

	// Version names the definition set in the object store. Uploading an
	// existing version requires approval.
	Version string

	// JobName is the managed job to trigger after the upload.
	JobName string
}

// DeployService uploads load definitions and drives the remote run.
//
// Thread-Safety: NOT safe for concurrent Deploy() calls on the same instance.
// Create separate instances for concurrent deployments.
type DeployService struct {
	uploader ObjectUploader
	runner   JobRunner
	approver dvload.Approver
	logger   dvload.Logger
	backoff  dvload.BackoffStrategy
}

// NewDeployService creates a DeployService with all dependencies injected.
// Panics on nil dependencies: these are programmer errors that should fail
// loudly at startup.
func NewDeployService(uploader ObjectUploader, runner JobRunner, approver dvload.Approver, logger dvload.Logger, backoff dvload.BackoffStrategy) *DeployService {
	if uploader == nil {
		panic("uploader cannot be nil")
	}
	if runner == nil {
		panic("runner cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if backoff == nil {
		panic("backoff cannot be nil")
	}
	return &DeployService{
		uploader: uploader,
		runner:   runner,
		approver: approver,
		logger:   logger,
		backoff:  backoff,
	}
}

// Deploy uploads the definition files under a versioned prefix, triggers the
// managed job and polls until the run reaches a terminal status. A run ending
// FAILED or CANCELED wraps dvload.ErrDeployFailed.
func (s *DeployService) Deploy(ctx context.Context, req DeployRequest) error {
	if req.Version == "" {
		return fmt.Errorf("deployment version is required: %w", dvload.ErrInvalidConfig)
	}

	files, err := collectDefinitionFiles(req.SourcePath)
	if err != nil {
		return err
	}

	prefix := req.Version + "/"
	exists, err := s.uploader.Exists(ctx, prefix)
	if err != nil {
		return fmt.Errorf("failed to check version %q: %w", req.Version, err)
	}
	if exists {
		approved, err := s.approver.RequestApproval(ctx, req.Version)
		if err != nil {
			return err
		}
		if !approved {
			return fmt.Errorf("overwrite of version %q: %w", req.Version, dvload.ErrApprovalDenied)
		}
	}

	for _, relPath := range files {
		data, err := os.ReadFile(filepath.Join(req.SourcePath, relPath))
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", relPath, err)
		}

		objectName := prefix + filepath.ToSlash(relPath)
		if err := s.uploader.Upload(ctx, objectName, data, contentTypeFor(relPath)); err != nil {
			return err
		}
		s.logger.Verbose("uploaded %s", objectName)
	}
	s.logger.Info("uploaded %d definition files as version %s", len(files), req.Version)

	runID, err := s.runner.StartRun(ctx, req.JobName, req.Version)
	if err != nil {
		return fmt.Errorf("%w: %w", dvload.ErrDeployFailed, err)
	}
	s.logger.Info("started run %s for job %s", runID, req.JobName)

	return s.awaitRun(ctx, runID)
}

// awaitRun polls the run until it reaches a terminal status. Status query
// failures are tolerated up to the backoff's attempt budget; a reachable
// runner resets nothing, the budget only bounds consecutive failures.
func (s *DeployService) awaitRun(ctx context.Context, runID string) error {
	attempt := 0
	failures := 0

	for {
		status, err := s.runner.Status(ctx, runID)
		if err != nil {
			failures++
			if max := s.backoff.MaxAttempts(); max >= 0 && failures > max {
				return fmt.Errorf("%w: status of run %q unavailable: %w", dvload.ErrDeployFailed, runID, err)
			}
		} else {
			failures = 0
			s.logger.Verbose("run %s status: %s", runID, status)

			switch status {
			case StatusSuccess:
				s.logger.Info("run %s succeeded", runID)
				return nil
			case StatusFailed, StatusCanceled:
				return fmt.Errorf("run %q ended %s: %w", runID, status, dvload.ErrDeployFailed)
			}
		}

		delay := s.backoff.NextDelay(attempt)
		attempt++

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// collectDefinitionFiles returns the deployable files under sourcePath,
// relative to it. The model.yaml entry point is mandatory; everything else
// (dvload.yaml, parameter .env files, additional .yaml documents) rides along.
func collectDefinitionFiles(sourcePath string) ([]string, error) {
	if _, err := os.Stat(filepath.Join(sourcePath, config.ModelFileName)); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no %s in %s", dvload.ErrModelNotFound, config.ModelFileName, sourcePath)
		}
		return nil, err
	}

	var files []string
	err := filepath.WalkDir(sourcePath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != sourcePath {
				return filepath.SkipDir
			}
			return nil
		}

		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".yaml", ".yml", ".env":
		default:
			return nil
		}

		rel, err := filepath.Rel(sourcePath, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// contentTypeFor maps definition file extensions to MIME types.
func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "application/yaml"
	default:
		return "text/plain"
	}
}

package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// RunStatus is the job runner's reported state for a managed run.
type RunStatus string

const (
	StatusPending  RunStatus = "PENDING"
	StatusRunning  RunStatus = "RUNNING"
	StatusSuccess  RunStatus = "SUCCESS"
	StatusFailed   RunStatus = "FAILED"
	StatusCanceled RunStatus = "CANCELED"
)

// Terminal reports whether the status is final.
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// JobRunner abstracts the managed execution service that runs deployed load
// definitions in the target environment.
type JobRunner interface {
	// StartRun triggers a run of the named job against the given definition
	// version and returns the run identifier.
	StartRun(ctx context.Context, job, version string) (string, error)

	// Status reports the current status of a run.
	Status(ctx context.Context, runID string) (RunStatus, error)
}

// HTTPJobRunner implements JobRunner against the job runner's REST API.
type HTTPJobRunner struct {
	baseURL string
	client  *http.Client
}

// NewHTTPJobRunner creates a job runner client. baseURL is the API root,
// e.g. "https://jobs.example.com".
func NewHTTPJobRunner(baseURL string) *HTTPJobRunner {
	return &HTTPJobRunner{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// StartRun triggers a run via POST /api/jobs/{job}/runs.
func (r *HTTPJobRunner) StartRun(ctx context.Context, job, version string) (string, error) {
	body, err := json.Marshal(map[string]string{"version": version})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/api/jobs/%s/runs", r.baseURL, url.PathEscape(job))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to start run for job %q: %w", job, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("job runner rejected run for job %q: %s: %s", job, resp.Status, payload)
	}

	var result struct {
		RunID string `json:"run_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode run response: %w", err)
	}
	if result.RunID == "" {
		return "", fmt.Errorf("job runner returned no run id for job %q", job)
	}

	return result.RunID, nil
}

// Status reports a run's status via GET /api/runs/{id}.
func (r *HTTPJobRunner) Status(ctx context.Context, runID string) (RunStatus, error) {
	endpoint := fmt.Sprintf("%s/api/runs/%s", r.baseURL, url.PathEscape(runID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query run %q: %w", runID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("job runner status query for run %q failed: %s: %s", runID, resp.Status, payload)
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode status response: %w", err)
	}

	return RunStatus(result.Status), nil
}

// Verify HTTPJobRunner implements JobRunner at compile time
var _ JobRunner = (*HTTPJobRunner)(nil)

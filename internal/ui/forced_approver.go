package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vvka-141/dvload/pkg/dvload"
)

// ForcedApprover implements the Approver interface for forced (non-interactive)
// approval. It displays a countdown and automatically approves after the countdown,
// used when the --force flag is provided.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover creates a new ForcedApprover writing to stderr.
func NewForcedApprover(verbose bool) dvload.Approver {
	return &ForcedApprover{
		verbose: verbose,
		output:  os.Stderr,
		sleepFn: time.Sleep,
	}
}

// RequestApproval displays a countdown and automatically approves after the countdown.
func (a *ForcedApprover) RequestApproval(ctx context.Context, version string) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  DANGER: Version '%s' is already deployed and will be OVERWRITTEN (--force)\n", version)
	fmt.Fprintln(a.output, "Environments pinned to this version will pick up the new definitions!")

	countdownSeconds := int(dvload.DefaultForceApprovalCountdown.Seconds())
	for i := countdownSeconds; i > 0; i-- {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rOverwriting in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(1 * time.Second)
		}
	}

	fmt.Fprintf(a.output, "\r✓ Proceeding with version overwrite...                              \n")
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ dvload.Approver = (*ForcedApprover)(nil)

package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/dvload/pkg/dvload"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. It prompts the user to type the deployment
// version name to confirm overwriting it.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

// NewInteractiveApprover creates a new InteractiveApprover reading from
// stdin and prompting on stderr.
func NewInteractiveApprover(verbose bool) dvload.Approver {
	return &InteractiveApprover{
		verbose: verbose,
		input:   os.Stdin,
		output:  os.Stderr,
	}
}

// RequestApproval prompts the user to type the version name to confirm.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, version string) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  WARNING: Version '%s' is already deployed and will be OVERWRITTEN\n", version)
	fmt.Fprintln(a.output, "Environments pinned to this version will pick up the new definitions!")
	fmt.Fprintf(a.output, "\nTo confirm, type the version name '%s' and press Enter: ", version)

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		input, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == version {
			fmt.Fprintln(a.output, "✓ Confirmed. Proceeding with version overwrite...")
			return true, nil
		}
		fmt.Fprintf(a.output, "✗ Input '%s' does not match version '%s'. Operation cancelled.\n", input, version)
		return false, nil
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ dvload.Approver = (*InteractiveApprover)(nil)

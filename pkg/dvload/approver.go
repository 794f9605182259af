package dvload

import "context"

// Approver handles user interaction for approval workflows, particularly
// before overwriting an already-deployed definition version.
//
// Implementations:
//   - ForcedApprover: Shows countdown and automatically approves
//   - InteractiveApprover: Prompts user to type the version name for confirmation
type Approver interface {
	// RequestApproval prompts for confirmation before overwriting the named
	// deployment version. Returns true if approved.
	RequestApproval(ctx context.Context, version string) (bool, error)
}

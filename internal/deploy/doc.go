// Package deploy implements the operational deployment surface: it uploads a
// versioned set of load definitions to an object store, triggers a managed
// job run against the target environment, and polls the run until it reaches
// a terminal status.
//
// The deployment entry point is the model.yaml file; a source directory
// without one is not deployable. Overwriting an already-uploaded version
// requires explicit approval.
package deploy

// Package logging provides concrete implementations of the dvload.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted messages to stderr with thread-safe output
//   - NullLogger: Discards all messages (useful for testing)
//
// The console logger is the live mirror of the durable audit log: every audit
// entry is also echoed here, but console failures never fail a run.
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging

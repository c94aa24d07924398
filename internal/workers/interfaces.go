// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
// Run starts the worker's execution and returns immediately; the worker keeps
// going until ctx is cancelled or Stop is called.
type Worker interface {
	Run(ctx context.Context)
	Stop()
}

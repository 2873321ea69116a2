package core

import "context"

// Worker is a long-running background process stopped by its context or Shutdown.
type Worker interface {
	Run(ctx context.Context) error
	Shutdown() error
}

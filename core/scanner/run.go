package scanner

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
)

func (s *Scanner) Shutdown() error {
	return s.ShutdownWithContext(context.Background())
}

func (s *Scanner) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.ShutdownWithContext(ctx)
}

// ShutdownWithContext stops the scheduler and waits for a running pass.
func (s *Scanner) ShutdownWithContext(ctx context.Context) (err error) {
	s.quitOnce.Do(func() {
		close(s.quit)
		if !s.started.Load() {
			return
		}
		select {
		case <-s.done:
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "scanner shutdown context canceled")
		}
	})
	return
}

// Run triggers a pass at every scheduled minute until shutdown. Each pass
// runs in its own goroutine so that a window reached while a pass is still
// running is counted as missed.
func (s *Scanner) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errors.Wrap(errs.Busy, "scanner is already running")
	}
	defer close(s.done)
	defer s.wg.Wait()

	ctx = logger.WithContext(ctx, slog.String("package", "scanner"))
	passCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	if s.config.RunOnStart {
		s.trigger(passCtx)
	}

	for {
		next := NextRun(time.Now(), s.config.ScheduleMinutes)
		logger.DebugContext(ctx, "Waiting for next scan window", slogx.Time("next_run", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-s.quit:
			timer.Stop()
			logger.InfoContext(ctx, "Got quit signal, stopping scanner")
			return nil
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			s.trigger(passCtx)
		}
	}
}

func (s *Scanner) trigger(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.Scan(ctx); err != nil {
			if errors.Is(err, errs.Busy) {
				logger.WarnContext(ctx, "Scan window missed, previous pass still running",
					slogx.String("event", "scanner/window_missed"),
					slogx.Int("missed_windows", s.guard.Missed()),
				)
			}
		}
	}()
}

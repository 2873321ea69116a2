package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/core"
	"github.com/gaze-network/ledger-scanner/core/scanner"
	"github.com/gaze-network/ledger-scanner/internal/api/httphandler"
	"github.com/gaze-network/ledger-scanner/internal/config"
	"github.com/gaze-network/ledger-scanner/internal/snapshot"
	"github.com/gaze-network/ledger-scanner/modules/history/datagateway"
	"github.com/gaze-network/ledger-scanner/pkg/automaxprocs"
	"github.com/gaze-network/ledger-scanner/pkg/errorhandler"
	"github.com/gaze-network/ledger-scanner/pkg/logger"
	"github.com/gaze-network/ledger-scanner/pkg/logger/slogx"
	"github.com/gaze-network/ledger-scanner/pkg/middleware/requestcontext"
	"github.com/gaze-network/ledger-scanner/pkg/middleware/requestlogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func NewRunCommand() *cobra.Command {
	// Create command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the scheduled scanner and the snapshot API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := automaxprocs.Init(); err != nil {
				logger.Error("Failed to set GOMAXPROCS", slogx.Error(err))
			}
			return runHandler(cmd, args)
		},
	}

	// Add local flags
	flags := runCmd.Flags()
	flags.Bool("api-only", false, "Run only API server")
	flags.Bool("run-on-start", false, "Start a pass immediately instead of waiting for the first scheduled minute")

	// Bind flags to configuration
	config.BindPFlag("api_only", flags.Lookup("api-only"))
	config.BindPFlag("scanner.run_on_start", flags.Lookup("run-on-start"))

	return runCmd
}

const (
	shutdownTimeout = 60 * time.Second
)

func runHandler(cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	// Validate inputs and configurations
	if err := validateConfig(conf); err != nil {
		return errors.WithStack(err)
	}

	// Initialize application process context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, slogx.Stringer("network", conf.Network))

	injector := newInjector(ctx, conf)

	// Initialize HTTP server
	do.Provide(injector, func(i do.Injector) (*fiber.App, error) {
		store, err := do.Invoke[*snapshot.Store](i)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		history, err := do.Invoke[datagateway.HistoryDataGateway](i)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		s, err := do.Invoke[*scanner.Scanner](i)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		app := fiber.New(fiber.Config{
			AppName:      "Ledger Scanner",
			ErrorHandler: errorhandler.NewHTTPErrorHandler(),
		})
		app.
			Use(favicon.New()).
			Use(cors.New()).
			Use(requestid.New()).
			Use(requestcontext.New(
				requestcontext.WithRequestId(),
				requestcontext.WithClientIP(conf.HTTPServer.RequestIP),
			)).
			Use(requestlogger.New(conf.HTTPServer.Logger)).
			Use(fiberrecover.New(fiberrecover.Config{
				EnableStackTrace: true,
				StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
					buf := make([]byte, 1024) // bufLen = 1024
					buf = buf[:runtime.Stack(buf, false)]
					logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", slogx.Any("panic", e), slog.String("stacktrace", string(buf)))
				},
			})).
			Use(compress.New(compress.Config{
				Level: compress.LevelDefault,
			}))

		// Health check
		app.Get("/", func(c *fiber.Ctx) error {
			return errors.WithStack(c.SendStatus(http.StatusOK))
		})

		handler := httphandler.New(conf.Network, store, s, history)
		if err := handler.Mount(app); err != nil {
			return nil, errors.Wrap(err, "can't mount snapshot api")
		}
		return app, nil
	})

	// Initialize worker context to separate worker's lifecycle from main process
	ctxWorker, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	ctxWorker = logger.WithContext(ctxWorker, slogx.Stringer("network", conf.Network))

	// Run scanner
	if !conf.APIOnly {
		worker, err := do.Invoke[*scanner.Scanner](injector)
		if err != nil {
			return errors.Wrap(err, "can't init scanner")
		}
		go runWorker(ctxWorker, stop, worker)
	}

	// Run API server
	httpServer, err := do.Invoke[*fiber.App](injector)
	if err != nil {
		return errors.Wrap(err, "can't init http server")
	}
	go func() {
		// stop main process if API stopped
		defer stop()

		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.HTTPServer.Port))
		if err := httpServer.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)); err != nil {
			logger.PanicContext(ctx, "Something went wrong, error during running HTTP server", slogx.Error(err))
		}
	}()

	logger.InfoContext(ctx, "Ledger scanner started")

	// Wait for interrupt signal to gracefully stop the server
	<-ctx.Done()

	// Force shutdown if timeout exceeded or got signal again
	go func() {
		defer os.Exit(1)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.FatalContext(ctx, "Received exit signal again. Force shutdown...")
		case <-time.After(shutdownTimeout + 15*time.Second):
			logger.FatalContext(ctx, "Shutdown timeout exceeded. Force shutdown...")
		}
	}()

	if err := injector.Shutdown(); err != nil {
		logger.PanicContext(ctx, "Failed while gracefully shutting down", slogx.Error(err))
	}

	return nil
}

func runWorker(ctx context.Context, stop context.CancelFunc, worker core.Worker) {
	// stop main process if worker stopped
	defer stop()

	logger.InfoContext(ctx, "Starting scanner")
	if err := worker.Run(ctx); err != nil {
		logger.PanicContext(ctx, "Something went wrong, error during running scanner", slogx.Error(err))
	}
	logger.InfoContext(ctx, "Scanner is stopped. Stopping application...")
}

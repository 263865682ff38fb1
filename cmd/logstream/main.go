package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DeBrosOfficial/logstream/pkg/config"
	lserrors "github.com/DeBrosOfficial/logstream/pkg/errors"
	"github.com/DeBrosOfficial/logstream/pkg/gateway"
	"github.com/DeBrosOfficial/logstream/pkg/logging"
	"github.com/DeBrosOfficial/logstream/pkg/logsource"
)

func setupLogger(cfg *config.Config) (*logging.ColoredLogger, error) {
	opts := logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if cfg.Logging.OutputFile != "" {
		return logging.NewFileLogger(cfg.Logging.OutputFile, opts)
	}
	return logging.New(opts)
}

func main() {
	cfg, err := parseConfig(os.Args[1:], os.LookupEnv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "logstream: %v\n", err)
		os.Exit(2)
	}

	logger, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logstream: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.ComponentError(logging.ComponentGeneral, "Log server failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logging.ColoredLogger) error {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
	}
	return serve(ctx, ln, cfg, logger)
}

// serve runs the HTTP server on ln until ctx is cancelled, then shuts down.
// Open streams end with the context; no write timeout is set so they are
// never cut off while running.
// prepareLogFile creates the log file if it is missing. A file that cannot be
// created is not fatal: sessions retry and /health reports it as absent.
func prepareLogFile(src *logsource.Source, logger *logging.ColoredLogger) error {
	err := src.EnsureExists()
	if lserrors.IsSetup(err) {
		logger.ComponentWarn(logging.ComponentGeneral, "Log file not created, continuing",
			zap.String("path", src.Path()), zap.Error(err))
		return nil
	}
	return err
}

func serve(ctx context.Context, ln net.Listener, cfg *config.Config, logger *logging.ColoredLogger) error {
	g := gateway.New(cfg, logger)

	// Create the file up front so /health reports it before the first client.
	if err := prepareLogFile(g.Source(), logger); err != nil {
		return err
	}

	group, gctx := errgroup.WithContext(ctx)

	server := &http.Server{
		Handler:           g.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(net.Listener) context.Context { return gctx },
		ErrorLog:          log.New(logging.NewStandardLogger(logger, logging.ComponentGateway), "", 0),
	}

	group.Go(func() error {
		logger.ComponentInfo(logging.ComponentGeneral, "Starting log server",
			zap.String("addr", ln.Addr().String()),
			zap.String("log_file", cfg.LogFilePath),
		)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		logger.ComponentInfo(logging.ComponentGeneral, "Shutting down log server...")

		timeout := cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = config.DefaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	err := group.Wait()
	logger.ComponentInfo(logging.ComponentGeneral, "Log server shutdown complete")
	return err
}

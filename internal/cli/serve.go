package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"

	"github.com/cloud-ru/finsim-go/internal/calculations"
	"github.com/cloud-ru/finsim-go/internal/config"
	"github.com/cloud-ru/finsim-go/internal/countdown"
	"github.com/cloud-ru/finsim-go/internal/logger"
	"github.com/cloud-ru/finsim-go/internal/notify"
	"github.com/cloud-ru/finsim-go/internal/server"
	"github.com/cloud-ru/finsim-go/internal/tools"
	"github.com/cloud-ru/finsim-go/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

type serveCmd struct {
	port int
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "start the HTTP API" }
func (*serveCmd) Usage() string {
	return `finsim serve [-port <port>]

  Starts the HTTP API, the countdown ticker and tracing. Configuration is read
  from the environment and an optional .env file.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.port, "port", 0, "Port to listen on. Overrides PORT.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.port > 0 {
		cfg.Port = c.port
	}

	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.InitTracing(ctx, cfg.OTELServiceName, cfg.OTELEndpoint, log)
	if err != nil {
		log.Errorf("Failed to init tracing: %v", err)
		return subcommands.ExitFailure
	}

	target, _ := calculations.ParseTargetDate(cfg.CountdownTarget, cfg.Location())
	ticker := countdown.NewTicker(target, cfg.CountdownSchedule, nil, log)
	if err := ticker.Start(); err != nil {
		log.Errorf("Failed to start countdown: %v", err)
		return subcommands.ExitFailure
	}

	registry := tools.NewRegistry(cfg, tracing.Tracer, nil)
	mailer := notify.NewMailer(cfg, log)
	if !mailer.Enabled() {
		log.Warn("SMTP_HOST is not set, /api/loan/email is disabled")
	}
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set, /api is unauthenticated")
	}

	httpServer := server.New(cfg, log, registry, ticker, mailer).HTTPServer()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		<-ticker.Stop().Done()
		errs := []error{httpServer.Shutdown(shutdownCtx)}
		errs = append(errs, shutdownTracing(shutdownCtx))
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/folio/internal/cli"
	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/alexanderramin/folio/internal/config"
	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/httpapi"
	"github.com/alexanderramin/folio/internal/repository"
	"github.com/alexanderramin/folio/internal/service"
	"github.com/alexanderramin/folio/internal/telemetry"
	"github.com/alexanderramin/folio/internal/workflow"
	"github.com/gin-gonic/gin"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return err
	}

	shutdownTracing, err := telemetry.Setup(ctx, "folio", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracing_shutdown_failed", "error", err)
		}
	}()

	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return err
	}
	if cfg.AcceptTarget != "" {
		if policy, err = policy.WithAcceptTarget(cfg.AcceptTarget); err != nil {
			return err
		}
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)
	locker := db.NewKeyedLocker()
	opts := []service.Option{
		service.WithLogger(logger),
		service.WithObserver(service.NewLogUseCaseObserver(logger)),
		service.WithNotifierDecorator(service.LoggingNotifier(logger)),
	}

	users := service.NewUserService(repository.NewSQLiteUserRepo(database))
	submissions := service.NewSubmissionService(database, uow, locker, opts...)
	wf := service.NewWorkflowService(database, uow, locker, workflow.NewMachine(nil, policy.Settings()), opts...)
	tracker := service.NewTrackerService(database, uow, locker, policy.Table(), opts...)

	if !colorEnabled() {
		formatter.DisableColor()
	}

	app := &cli.App{
		Users:       users,
		Submissions: submissions,
		Workflow:    wf,
		Tracker:     tracker,
		Import:      service.NewImportService(database, uow, locker, opts...),
		Actor:       cfg.Actor,
		HTTPAddr:    cfg.HTTPAddr,
	}
	if interactive() {
		app.Prompt = cli.NewFormPrompter(os.Stdin, os.Stderr)
	}
	app.Serve = func(ctx context.Context, addr string) error {
		gin.SetMode(gin.ReleaseMode)
		srv := httpapi.New(httpapi.Services{
			Users:       users,
			Submissions: submissions,
			Workflow:    wf,
			Tracker:     tracker,
		}, logger)
		return serve(ctx, logger, &http.Server{
			Addr:              addr,
			Handler:           srv.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(os.Stdout.Fd())
}

// interactive reports whether prompts can be shown: input comes from a
// terminal and the form has a terminal to draw on.
func interactive() bool {
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stderr.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, logger *slog.Logger, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("http_shutdown", "addr", srv.Addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

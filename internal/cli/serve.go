package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	api "github.com/slametrics/sentinel/internal/api/v2"
	"github.com/slametrics/sentinel/internal/logger"
	"github.com/slametrics/sentinel/internal/monitor"
)

const shutdownTimeout = 10 * time.Second

// newServeCommand runs the live engine: the polling scheduler plus the
// HTTP API, until SIGINT or SIGTERM.
func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the evaluation cycle and the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.bootstrap(); err != nil {
				return err
			}
			defer a.close()
			return runServe(cmd.Context(), a)
		},
	}
}

func runServe(parent context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := monitor.NewScheduler(
		a.evaluator,
		a.readings,
		a.settings.Alerting.PollInterval.Std(),
		a.settings.Alerting.HistoryLimit,
		a.log,
	)
	scheduler.Start(ctx)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	api.NewController(e, a.alerts, a.readings, a.thresholds, a.settingsStore, a.evaluator, scheduler, a.log)

	serverErr := make(chan error, 1)
	go func() {
		if err := e.Start(a.settings.HTTP.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	a.log.Info("sentinel started",
		logger.String("listen", a.settings.HTTP.Listen),
		logger.Duration("poll_interval", a.settings.Alerting.PollInterval.Std()),
		logger.String("trend_detector", a.settings.Alerting.TrendDetector))

	select {
	case err := <-serverErr:
		stop()
		scheduler.Wait()
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	scheduler.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

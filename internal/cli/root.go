// Package cli wires the configuration, datastore and alerting engine into
// the sentinel commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/slametrics/sentinel/internal/conf"
	"github.com/slametrics/sentinel/internal/datastore"
	"github.com/slametrics/sentinel/internal/datastore/repository"
	"github.com/slametrics/sentinel/internal/logger"
	"github.com/slametrics/sentinel/internal/monitor"
	"github.com/slametrics/sentinel/internal/stats"
	"gorm.io/gorm"
)

// app carries the process-wide dependencies built once per command run.
type app struct {
	configFile string

	settings *conf.Settings
	log      logger.Logger
	db       *gorm.DB

	alerts     repository.AlertRepository
	readings   repository.ReadingRepository
	thresholds repository.ThresholdRepository

	settingsStore *monitor.SettingsStore
	evaluator     *monitor.Evaluator
}

// NewRootCommand builds the sentinel command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "sentinel",
		Short:         "SLA monitoring and alerting engine",
		Long:          "sentinel watches SLA compliance readings and raises limit, anomaly and trend alerts, with automatic resolution once readings recover.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "path to the config file (optional)")

	cmd.AddCommand(
		newServeCommand(a),
		newBackfillCommand(a),
	)
	return cmd
}

// bootstrap loads config, opens the database and constructs the engine.
func (a *app) bootstrap() error {
	settings, err := conf.Load(a.configFile)
	if err != nil {
		return err
	}
	a.settings = settings
	a.log = logger.NewSlogLogger(os.Stdout, logger.LogLevel(settings.LogLevel), nil)

	db, err := datastore.Open(settings.Database)
	if err != nil {
		return err
	}
	a.db = db

	a.alerts = repository.NewAlertRepository(db)
	a.readings = repository.NewReadingRepository(db)
	a.thresholds = repository.NewThresholdRepository(db)
	a.settingsStore = monitor.NewSettingsStore(
		repository.NewSettingsRepository(db),
		settings.Alerting.SettingsCacheTTL.Std(),
		a.log,
	)

	var onCreated monitor.AlertCreatedFunc
	if settings.Alerting.Notifications {
		dispatcher := monitor.NewDispatcher(&monitor.LogNotifier{Log: a.log}, a.log)
		onCreated = dispatcher.AlertCreated
	}
	persister := monitor.NewPersister(a.alerts, onCreated, a.log)

	a.evaluator = monitor.NewEvaluator(
		a.alerts,
		a.thresholds,
		a.settingsStore,
		persister,
		trendDetector(settings.Alerting.TrendDetector),
		a.log,
	)
	return nil
}

// trendDetector maps the config key to a strategy. Load already validated
// the value, so unknown strings cannot reach here; two-point is the
// conservative fallback regardless.
func trendDetector(name string) stats.TrendDetector {
	if name == conf.TrendDetectorConsecutiveDrop {
		return stats.ConsecutiveDropDetector{}
	}
	return stats.TwoPointDetector{}
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

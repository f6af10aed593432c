// driftfollow keeps a Slocum glider on station around a drifting buoy. It
// polls the latest surfacing report, extrapolates the drifter's track,
// sequences a patrol plan around the projected rendezvous, and delivers the
// resulting goto file to the dockserver, pilots, and archive.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/mousebrains/driftfollow/internal/config"
	"github.com/mousebrains/driftfollow/internal/database"
	"github.com/mousebrains/driftfollow/internal/delivery"
	"github.com/mousebrains/driftfollow/internal/history"
	"github.com/mousebrains/driftfollow/internal/influx"
	"github.com/mousebrains/driftfollow/internal/logging"
	"github.com/mousebrains/driftfollow/internal/pattern"
	"github.com/mousebrains/driftfollow/internal/update"
)

const appName = "driftfollow"

func main() {
	configDir := flag.String("config", ".", "directory holding driftfollow.cfg.json")
	once := flag.Bool("once", false, "run a single planning cycle and exit")
	flag.Parse()

	if err := run(*configDir, *once); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configDir string, once bool) error {
	sessionStart := time.Now().UTC()

	if err := config.Load(configDir); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, logFile, err := setupLogging(sessionStart)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	glider := config.GetString("glider")
	if glider == "" {
		return fmt.Errorf("no glider configured")
	}
	logger = logger.With().Str("glider", glider).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := database.NewManager(logger)
	if err := db.Connect(); err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	if err := db.Setup(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	defer func() {
		if db.ShouldSaveLocal {
			if err := db.DumpMemoryToDisk(); err != nil {
				logger.Error().Err(err).Msg("Failed to dump in-memory DB to disk")
			}
		}
		db.SqlDB.Close()
	}()

	store := history.NewStore(db.DB, logger)

	var metrics *influx.Manager
	if config.GetBool("influx.enabled") {
		logsDir := config.GetString("logsDir")
		backupPath := filepath.Join(logsDir, fmt.Sprintf("%s.influx_backup.%s.log.gz",
			appName, sessionStart.Format("20060102_150405")))
		metrics = influx.NewManager(logger, backupPath)
		if err := metrics.Connect(); err != nil {
			logger.Warn().Err(err).Msg("InfluxDB unavailable, planning metrics disabled")
			metrics = nil
		}
	}

	fanout := delivery.NewFanout(logger, buildSinks()...)
	cache := pattern.NewCache(config.GetString("pattern.file"))

	updater, err := update.New(updaterConfig(glider), cache, store, fanout, metrics, logger)
	if err != nil {
		return fmt.Errorf("creating updater: %w", err)
	}

	logger.Info().Time("sessionStart", sessionStart).Msg("Drifter follower starting")

	if once {
		snap, err := store.LatestSnapshot(glider)
		if err != nil {
			return fmt.Errorf("loading surfacing report: %w", err)
		}
		if snap == nil {
			return fmt.Errorf("no surfacing report for %s", glider)
		}
		return updater.Cycle(ctx, *snap)
	}

	err = updater.Run(ctx, config.GetDuration("update.interval"), store)
	if err == context.Canceled {
		logger.Info().Msg("Shutting down")
		return nil
	}
	return err
}

func setupLogging(sessionStart time.Time) (zerolog.Logger, *os.File, error) {
	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return zerolog.Logger{}, nil, err
	}
	logFile, err := os.Create(logging.LogFilePath(logsDir, appName, sessionStart))
	if err != nil {
		return zerolog.Logger{}, nil, err
	}

	var graylog io.Writer
	if config.GetBool("graylog.enabled") {
		graylog, err = logging.GraylogWriter(config.GetString("graylog.address"))
		if err != nil {
			logFile.Close()
			return zerolog.Logger{}, nil, err
		}
	}

	logger := logging.Setup(config.GetString("logLevel"), logFile, graylog)
	return logger, logFile, nil
}

func buildSinks() []delivery.Sink {
	var sinks []delivery.Sink
	if path := config.GetString("delivery.file"); path != "" {
		sinks = append(sinks, &delivery.Filer{Path: path})
	}
	if dir := config.GetString("delivery.archiveDir"); dir != "" {
		sinks = append(sinks, &delivery.Archiver{Dir: dir})
	}
	if to := config.GetStrings("delivery.mailTo"); len(to) > 0 {
		sinks = append(sinks, &delivery.Mailer{
			Addr: config.GetString("delivery.smtpAddr"),
			From: config.GetString("delivery.mailFrom"),
			To:   to,
		})
	}
	if url := config.GetString("delivery.api.serverUrl"); url != "" {
		sinks = append(sinks, delivery.NewClient(url, config.GetString("delivery.api.apiKey")))
	}
	return sinks
}

func updaterConfig(glider string) update.Config {
	return update.Config{
		Glider:             glider,
		NBack:              config.GetInt("drifter.nBack"),
		Tau:                config.GetFloat("drifter.tau"),
		SurfaceSeconds:     config.GetFloat("goto.surfaceSeconds"),
		ResumeRadius:       config.GetFloat("goto.resumeRadius"),
		MaxWaypoints:       config.GetInt("goto.maxWaypoints"),
		TargetDuration:     config.GetFloat("goto.targetDuration"),
		AbortOnSearchError: config.GetBool("goto.abortOnSearchError"),
		MatchRadius:        config.GetFloat("stability.matchRadius"),
		MinDuration:        config.GetFloat("stability.minDuration"),
	}
}

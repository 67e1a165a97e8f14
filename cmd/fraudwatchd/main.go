package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/amazon11335/fraudwatch/internal/analyzer"
	"github.com/amazon11335/fraudwatch/internal/audit"
	"github.com/amazon11335/fraudwatch/internal/config"
	"github.com/amazon11335/fraudwatch/internal/detector"
	"github.com/amazon11335/fraudwatch/internal/gateway"
	"github.com/amazon11335/fraudwatch/internal/monitor"
	"github.com/amazon11335/fraudwatch/internal/policy"
	"github.com/amazon11335/fraudwatch/internal/server"
	"github.com/amazon11335/fraudwatch/internal/store"
	"github.com/amazon11335/fraudwatch/internal/taxonomy"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	logger := newLogger(cfg.Logging)
	logger.Info("configuration loaded")

	// Local persistence
	st, err := store.NewFileStore(cfg.Storage.Directory)
	if err != nil {
		logger.WithError(err).Fatal("failed to open state directory")
	}

	// Fraud category taxonomy: built-in categories plus any overlays
	tax := taxonomy.New()
	if err := tax.LoadDir(cfg.Taxonomy.Directory, logger); err != nil {
		logger.WithError(err).Warn("failed to load category overlays")
	}

	det := detector.New(tax)
	adv := analyzer.NewAdvanced()

	// Remote classification gateway with daily quota and verdict cache
	client := gateway.NewClient(cfg.Remote.BaseURL, cfg.Remote.APIKey, cfg.Remote.Model, cfg.Remote.Timeout)
	quota := gateway.NewQuota(st, cfg.Quota.MaxRequestsPerDay)
	gw := gateway.New(client, quota, det, adv, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	online := gw.Probe(ctx)
	cancel()
	logger.WithField("online", online).Info("remote gateway probed")

	// Alert disposition policy engine
	engine, err := policy.NewEngine(cfg.Policies.Path, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize policy engine")
	}
	if cfg.Policies.WatchChanges && cfg.Policies.Path != "" {
		if err := engine.StartHotReload(); err != nil {
			logger.WithError(err).Warn("policy hot reload unavailable")
		}
		defer engine.StopHotReload()
	}

	// Continuous monitor
	mon := monitor.New(monitor.Config{
		PollInterval:    cfg.Monitor.PollInterval,
		DebounceWindow:  cfg.Monitor.DebounceWindow,
		MinInputLen:     cfg.Monitor.MinInputLen,
		MinInsertLen:    cfg.Monitor.MinInsertLen,
		HighThreshold:   cfg.Monitor.HighThreshold,
		MediumThreshold: cfg.Monitor.MediumThreshold,
		LogThreshold:    cfg.Monitor.LogThreshold,
	}, gw, engine, newLogNotifier(logger), st, logger)

	if dir := filepath.Dir(cfg.Logging.AuditPath); cfg.Logging.AuditPath != "" && dir != "." {
		os.MkdirAll(dir, 0755)
	}
	auditLog, err := audit.NewLogger(cfg.Logging.AuditPath)
	if err != nil {
		logger.WithError(err).Warn("alert audit trail unavailable")
	} else {
		mon.SetAuditLogger(auditLog)
		defer auditLog.Close()
	}

	mon.Start()
	defer mon.Stop()

	hc := &server.HandlerConfig{
		Detector: det,
		Advanced: adv,
		Gateway:  gw,
		Monitor:  mon,
		Engine:   engine,
		Taxonomy: tax,
		Logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"fraudwatch"}`))
	})
	mux.HandleFunc("/api/scan", server.ScanHandler(hc))
	mux.HandleFunc("/api/ingest", server.IngestHandler(hc))
	mux.HandleFunc("/api/input", server.InputHandler(hc))
	mux.HandleFunc("/api/url", server.URLHandler(hc))
	mux.HandleFunc("/api/alerts", server.AlertsHandler(hc))
	mux.HandleFunc("/api/activity", server.ActivityHandler(hc))
	mux.HandleFunc("/api/settings", server.SettingsHandler(hc))
	mux.HandleFunc("/api/categories", server.CategoriesHandler(hc))
	mux.HandleFunc("/api/status", server.StatusHandler(hc))
	mux.HandleFunc("/api/monitor", server.MonitorControlHandler(hc))

	// Metrics endpoint (Prometheus)
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Endpoint, promhttp.Handler())
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.WithFields(logrus.Fields{
		"addr":       addr,
		"categories": len(tax.Categories()),
		"policy":     engine.PolicyVersion(),
	}).Info("fraudwatch daemon starting")

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.WithError(err).Fatal("server failed")
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("shutdown incomplete")
		}
	}
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// logNotifier renders alerts to the log. A richer frontend would replace
// this with a real notification channel.
type logNotifier struct {
	logger *logrus.Logger
}

func newLogNotifier(logger *logrus.Logger) *logNotifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Show(alert monitor.Alert) {
	n.logger.WithFields(logrus.Fields{
		"id":      alert.ID,
		"level":   alert.Level,
		"source":  alert.Source,
		"score":   alert.Score,
		"snippet": alert.Snippet,
	}).Warn("risk alert")
}

func (n *logNotifier) Sound(level monitor.AlertLevel) {
	n.logger.WithField("level", level).Debug("alert tone")
}

func (n *logNotifier) Block(origin string) {
	n.logger.WithField("origin", origin).Warn("origin auto-blocked")
}

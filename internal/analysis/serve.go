package analysis

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/smartwaste/internal/classifier"
	"github.com/tphakala/smartwaste/internal/conf"
	"github.com/tphakala/smartwaste/internal/datastore"
	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/forum"
	"github.com/tphakala/smartwaste/internal/httpcontroller"
	"github.com/tphakala/smartwaste/internal/logger"
	"github.com/tphakala/smartwaste/internal/mqtt"
	"github.com/tphakala/smartwaste/internal/notification"
	"github.com/tphakala/smartwaste/internal/observability"
	"github.com/tphakala/smartwaste/internal/session"
	"github.com/tphakala/smartwaste/internal/telemetry"
	"github.com/tphakala/smartwaste/internal/translate"
)

const (
	pushQueueSize        = 32
	sessionCleanupPeriod = 10 * time.Minute
)

// Serve starts the web application and blocks until ctx is cancelled or the
// process receives SIGINT or SIGTERM.
func Serve(ctx context.Context, settings *conf.Settings) error {
	logCfg := loggingConfig(settings)
	central, err := logger.NewCentralLogger(&logCfg)
	if err != nil {
		return errors.New(err).
			Component("analysis").
			Category(errors.CategoryConfiguration).
			Context("operation", "init_logger").
			Build()
	}
	logger.SetGlobal(central)
	defer func() { _ = central.Close() }()

	log := GetLogger()
	log.Info("starting smartwaste",
		logger.String("version", settings.Version),
		logger.String("build_date", settings.BuildDate))

	if ok, err := telemetry.InitSentry(settings); err != nil {
		log.Warn("error telemetry disabled", logger.Error(err))
	} else if ok {
		defer telemetry.Flush()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.NewStore(settings.WebServer.SessionTTL, sessionCleanupPeriod)

	var metrics *observability.Metrics
	if settings.Metrics.Enabled {
		metrics, err = observability.NewMetrics(func() float64 { return float64(store.Len()) })
		if err != nil {
			return errors.New(err).
				Component("analysis").
				Category(errors.CategoryConfiguration).
				Context("operation", "init_metrics").
				Build()
		}
	}

	model, loadTime, err := LoadClassifier(ctx, settings, classifierRecorder(metrics))
	if err != nil {
		return err
	}
	defer func() { _ = model.Close() }()
	if metrics != nil {
		metrics.Classifier.RecordModelLoad(loadTime)
	}

	db, err := datastore.New(settings)
	if err != nil {
		return err
	}
	if metrics != nil {
		if rs, ok := db.(interface{ SetRecorder(datastore.Recorder) }); ok {
			rs.SetRecorder(metrics.Datastore)
		}
	}
	if err := db.Open(); err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close datastore", logger.Error(err))
		}
	}()

	translator := translate.New(&settings.Translation)
	if svc, ok := translator.(*translate.Service); ok && metrics != nil {
		svc.SetRecorder(metrics.App)
	}

	push := settings.Notification.Push
	provider := notification.NewShoutrrrProvider("shoutrrr", push.Enabled, push.URLs,
		[]notification.Type{notification.TypeIdea, notification.TypeError}, push.Timeout)
	dispatcher := notification.NewDispatcher([]notification.Provider{provider}, pushQueueSize, push.Timeout)
	if metrics != nil {
		dispatcher.SetRecorder(metrics.Notification)
	}

	publisher, mqttClient := connectMQTT(ctx, settings, metrics)
	if mqttClient != nil {
		defer mqttClient.Disconnect()
	}

	forumOpts := []forum.Option{forum.WithPush(dispatcher), forum.WithPublisher(publisher)}
	if metrics != nil {
		forumOpts = append(forumOpts, forum.WithRecorder(metrics.App))
	}

	server, err := httpcontroller.New(settings, httpcontroller.Deps{
		Sessions:   session.NewManager(store, settings.WebServer.SessionSecret, settings.WebServer.AutoTLS),
		Predictor:  model,
		Forum:      forum.NewService(db, forumOpts...),
		Translator: translator,
		Publisher:  publisher,
		Metrics:    metrics,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dispatcher.Run(gctx) })
	g.Go(func() error { return server.Start(gctx) })

	err = g.Wait()
	if metrics != nil {
		metrics.LogSummary()
	}
	log.Info("smartwaste stopped")
	return err
}

// loggingConfig returns the configured logging settings, lowered to debug
// everywhere when the global debug flag is set.
func loggingConfig(settings *conf.Settings) logger.LoggingConfig {
	cfg := settings.Logging
	if !settings.Debug {
		return cfg
	}
	cfg.DefaultLevel = string(logger.LogLevelDebug)
	if cfg.Console != nil {
		console := *cfg.Console
		console.Level = string(logger.LogLevelDebug)
		cfg.Console = &console
	}
	if cfg.FileOutput != nil {
		file := *cfg.FileOutput
		file.Level = string(logger.LogLevelDebug)
		cfg.FileOutput = &file
	}
	return cfg
}

// connectMQTT returns a publisher for the configured broker, or nil when MQTT
// is disabled or the client cannot be created. A failed first connect is
// logged and left to the client's reconnect logic.
func connectMQTT(ctx context.Context, settings *conf.Settings, metrics *observability.Metrics) (*mqtt.Publisher, mqtt.Client) {
	if !settings.MQTT.Enabled {
		return nil, nil
	}
	var rec mqtt.Recorder
	if metrics != nil {
		rec = metrics.MQTT
	}
	client, err := mqtt.NewClient(settings, rec)
	if err != nil {
		GetLogger().Warn("mqtt disabled", logger.Error(err))
		return nil, nil
	}
	if err := client.Connect(ctx); err != nil {
		GetLogger().Warn("mqtt connect failed", logger.String("broker", settings.MQTT.Broker), logger.Error(err))
	}
	return mqtt.NewPublisher(client, settings.MQTT.Topic), client
}

func classifierRecorder(metrics *observability.Metrics) classifier.Recorder {
	if metrics == nil {
		return nil
	}
	return metrics.Classifier
}

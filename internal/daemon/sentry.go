package daemon

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/yndnr/exitguard/internal/config"
	"github.com/yndnr/exitguard/internal/infra/buildinfo"
	"github.com/yndnr/exitguard/internal/telemetry/logger"
	"github.com/yndnr/exitguard/pkg/shutdown"
)

const sentryFlushTimeout = 2 * time.Second

// sentryObserver reports listener failures and panics to Sentry and flushes
// the queue once cleanup has finished, before the terminal action.
type sentryObserver struct {
	hub *sentry.Hub
	log logger.Logger
}

func newSentryObserver(cfg config.SentrySection, log logger.Logger) (*sentryObserver, error) {
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          buildinfo.Release(),
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	log.Info("sentry enabled", "dsn", cfg.DSN, "environment", cfg.Environment)
	return &sentryObserver{
		hub: sentry.NewHub(client, sentry.NewScope()),
		log: log,
	}, nil
}

func (s *sentryObserver) ListenersChanged(int) {}

func (s *sentryObserver) CleanupStarted(r *shutdown.Report) {
	if r.Trigger != shutdown.TriggerPanic {
		return
	}
	hub := s.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("run_id", r.ID)
		scope.SetLevel(sentry.LevelFatal)
	})
	hub.CaptureMessage("uncaught panic, running cleanup")
}

func (s *sentryObserver) ListenerFailed(t shutdown.Trigger, f shutdown.Failure) {
	// Failures arrive concurrently, so each gets its own hub.
	hub := s.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("trigger", string(t))
		scope.SetTag("failure", string(f.Kind))
		scope.SetContext("listener", sentry.Context{"index": f.Index})
	})
	hub.CaptureException(f)
}

func (s *sentryObserver) CleanupFinished(r *shutdown.Report) {
	if !s.hub.Flush(sentryFlushTimeout) {
		s.log.Error("sentry flush timed out", "run_id", r.ID)
	}
}

package observability

import (
	"context"
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/studyipl/tournament-api/internal/config"
	"github.com/studyipl/tournament-api/internal/platform/logging"
)

// InitUptrace configures the global OpenTelemetry providers for Uptrace and
// returns a shutdown func. Disabled or unconfigured, it returns a no-op
// shutdown and clears any installed log mirror.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	noop := func(context.Context) error { return nil }

	reason := ""
	switch {
	case !cfg.UptraceEnabled:
		reason = "UPTRACE_ENABLED=false"
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		reason = "UPTRACE_DSN empty"
	}
	if reason != "" {
		logging.SetMirror(nil)
		logger.Info("uptrace disabled", "reason", reason)
		return noop, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)

	logging.SetMirror(nil)
	if cfg.UptraceLogsEnabled {
		logging.SetMirror(newUptraceLogMirror(cfg.ServiceVersion))
	}

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
		"logs_enabled", cfg.UptraceLogsEnabled,
	)

	return func(ctx context.Context) error {
		logging.SetMirror(nil)
		return uptrace.Shutdown(ctx)
	}, nil
}

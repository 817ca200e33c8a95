// internal/infra/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"

	"daily_report_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// ServiceName is attached to every entry so bot logs can be told apart from
// the hosting platform's own lines.
const ServiceName = "daily_report_bot"

// Log is the global logger instance
var Log = logrus.New()

// Init initializes the global logger based on application configuration.
func Init(cfg *config.AppConfig) {
	configure(Log, cfg, os.Stdout)

	Log.Info("Logger initialized successfully.")
	Log.Debugf("Log level set to: %s", Log.GetLevel().String())
	Log.Debugf("Log format set for environment: %s", cfg.Environment)
}

func configure(l *logrus.Logger, cfg *config.AppConfig, out io.Writer) {
	l.SetOutput(out)
	l.ReplaceHooks(make(logrus.LevelHooks))
	l.AddHook(serviceHook{})

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		l.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if isHosted(cfg.Environment) {
		// Field names understood by the hosting platform's log viewer.
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "severity",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		})
	}
}

func isHosted(environment string) bool {
	switch strings.ToLower(environment) {
	case "production", "staging":
		return true
	}
	return false
}

type serviceHook struct{}

func (serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (serviceHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["service"]; !ok {
		e.Data["service"] = ServiceName
	}
	return nil
}

// Get returns the configured global logger.
func Get() *logrus.Logger {
	return Log
}

// Component returns an entry tagged with the component name, e.g.
// "report_service" or "discord".
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

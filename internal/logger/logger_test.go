package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewConfig_ProductionUsesJSON(t *testing.T) {
	config := newConfig("production")

	if config.Encoding != "json" {
		t.Errorf("expected json encoding, got %s", config.Encoding)
	}
	if config.Level.Level() != zapcore.InfoLevel {
		t.Errorf("expected info level, got %s", config.Level.Level())
	}
	if config.InitialFields["service"] != ServiceName {
		t.Errorf("expected service field %q, got %v", ServiceName, config.InitialFields["service"])
	}
}

func TestNewConfig_DevelopmentUsesConsole(t *testing.T) {
	config := newConfig("development")

	if config.Encoding != "console" {
		t.Errorf("expected console encoding, got %s", config.Encoding)
	}
	if !config.Development {
		t.Error("expected development mode")
	}
	if len(config.OutputPaths) != 1 || config.OutputPaths[0] != "stdout" {
		t.Errorf("expected stdout output, got %v", config.OutputPaths)
	}
}

func TestNew_BuildsBothEnvironments(t *testing.T) {
	for _, env := range []string{"production", "development", "staging"} {
		logger, err := New(env)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", env, err)
		}
		if logger == nil {
			t.Fatalf("New(%q) returned nil logger", env)
		}
	}
}

// Production encoder settings produce one JSON object per entry carrying
// the message and the service field.
func TestProperty_LogsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("log entries are JSON with level, message and service", prop.ForAll(
		func(message string, level string) bool {
			var buf bytes.Buffer

			config := newConfig("production")
			core := zapcore.NewCore(
				zapcore.NewJSONEncoder(config.EncoderConfig),
				zapcore.AddSync(&buf),
				zapcore.DebugLevel,
			)
			logger := zap.New(core).With(zap.String("service", ServiceName))

			switch level {
			case "debug":
				logger.Debug(message)
			case "warn":
				logger.Warn(message)
			case "error":
				logger.Error(message)
			default:
				logger.Info(message)
			}

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				return false
			}

			return entry["msg"] == message &&
				entry["level"] == level &&
				entry["service"] == ServiceName
		},
		gen.AnyString(),
		gen.OneConstOf("debug", "info", "warn", "error"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-di/framework/config"
	"github.com/km-arc/go-di/framework/logging"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"WARN", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, err := logging.New(config.ContainerConfig{LogLevel: tt.level})
			if err != nil {
				t.Fatal(err)
			}
			if l.GetLevel() != tt.want {
				t.Errorf("got %v, want %v", l.GetLevel(), tt.want)
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logging.New(config.ContainerConfig{LogLevel: "loud"})
	if err == nil || !strings.Contains(err.Error(), "DI_LOG_LEVEL") {
		t.Errorf("got %v, want an error naming DI_LOG_LEVEL", err)
	}
}

func TestNew_InvalidFormat(t *testing.T) {
	_, err := logging.New(config.ContainerConfig{LogLevel: "info", LogFormat: "xml"})
	if err == nil || !strings.Contains(err.Error(), "DI_LOG_FORMAT") {
		t.Errorf("got %v, want an error naming DI_LOG_FORMAT", err)
	}
}

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.NewWithOutput(config.ContainerConfig{LogLevel: "info", LogFormat: logging.FormatJSON}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.WithField("name", "Logger").Info("constructed")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %q", buf.String())
	}
	if line["msg"] != "constructed" || line["name"] != "Logger" {
		t.Errorf("got %v", line)
	}
}

func TestNewWithOutput_TextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.NewWithOutput(config.ContainerConfig{LogLevel: "warn"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("got %q", out)
	}
}

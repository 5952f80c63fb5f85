package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/kybers/play/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupLoggerWritesJSON(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "play.log")

	logger, err := SetupLogger(&config.LoggingConfig{File: logPath, Level: "DEBUG"})
	if err != nil {
		t.Fatalf("SetupLogger() error = %v", err)
	}

	logger.Info("hello", "answer", 42)

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if record["msg"] != "hello" || record["answer"] != float64(42) {
		t.Errorf("record = %v", record)
	}
}

func TestNullLoggerDiscards(t *testing.T) {
	// Must not panic and must accept any level
	logger := NullLogger()
	logger.Debug("a")
	logger.Error("b", "k", "v")
}

package tests

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/IvanChernomyrdin/go-showcase/internal/shared/logger"
)

func newFileLogger(t *testing.T) (*logger.Logger, string) {
	t.Helper()

	logPath := filepath.Join(t.TempDir(), "logs", "http.log")
	opts := logger.DefaultOptions()
	opts.File = logPath

	return logger.New(opts), logPath
}

func TestNew_CreatesLogFileAndWrites(t *testing.T) {
	l, logPath := newFileLogger(t)
	l.Info("test message")
	_ = l.Sync()

	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file to exist at %q, got error: %v", logPath, err)
	}

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	if !regexp.MustCompile(`\btest message\b`).MatchString(s) {
		t.Fatalf("expected log to contain message, got: %q", s)
	}

	// пример: 11:57:16 16.01.2026
	timeRe := regexp.MustCompile(`\b\d{2}:\d{2}:\d{2} \d{2}\.\d{2}\.\d{4}\b`)
	if !timeRe.MatchString(s) {
		t.Fatalf("expected custom time format (HH:MM:SS DD.MM.YYYY), got: %q", s)
	}
}

func TestLogger_LogRequest_WritesStructuredFields(t *testing.T) {
	l, logPath := newFileLogger(t)
	l.LogRequest("POST", "/login", 303, 0, 12.5)
	_ = l.Sync()

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	mustContain := []string{
		"HTTP request",
		"method", "POST",
		"uri", "/login",
		"status", "303",
		"response_size",
		"duration_ms",
	}
	for _, sub := range mustContain {
		if !regexp.MustCompile(regexp.QuoteMeta(sub)).MatchString(s) {
			t.Fatalf("expected log to contain %q, got: %q", sub, s)
		}
	}
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app.log")
	opts := logger.DefaultOptions()
	opts.File = logPath
	opts.Level = "warn"

	l := logger.New(opts)
	l.Info("quiet")
	l.Warn("loud")
	_ = l.Sync()

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if regexp.MustCompile(`quiet`).Match(b) {
		t.Fatalf("info message must be filtered at warn level: %q", string(b))
	}
	if !regexp.MustCompile(`loud`).Match(b) {
		t.Fatalf("warn message missing: %q", string(b))
	}
}

package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sibchat.log")
	closer, err := Init("debug", path)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { Log = zerolog.Nop() })

	log := Module("test")
	log.Debug().Str("id", "42").Msg("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	line := string(data)
	for _, want := range []string{`"module":"test"`, `"id":"42"`, `"message":"hello"`, `"level":"debug"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected log line to contain %s, got %s", want, line)
		}
	}
}

func TestInitFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sibchat.log")
	closer, err := Init("chatty", path)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() {
		Log = zerolog.Nop()
		closer.Close()
	})

	if Log.GetLevel().String() != "info" {
		t.Fatalf("expected info level, got %s", Log.GetLevel())
	}
}

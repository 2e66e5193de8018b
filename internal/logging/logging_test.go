package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New("debug", true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be enabled")
	}

	l, err = New("warn", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}

	if _, err := New("loud", false); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestBadgerAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	bl := Badger(zap.New(core))

	bl.Infof("Replaying file id: %d at offset: %d\n", 3, 42)
	bl.Warningf("value log %s", "discarded")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("unexpected entry count: got=%d want=2", len(entries))
	}
	if got := entries[0].Message; got != "Replaying file id: 3 at offset: 42" {
		t.Errorf("unexpected message: %q", got)
	}
	if entries[0].LoggerName != "badger" {
		t.Errorf("unexpected logger name: %q", entries[0].LoggerName)
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Errorf("unexpected level: %s", entries[1].Level)
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	l := zap.NewExample()
	if OrNop(l) != l {
		t.Error("OrNop should keep a non-nil logger")
	}
}

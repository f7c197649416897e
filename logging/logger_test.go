package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerLevelsAndMirror(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)

	l.Info("engine initialized")
	l.Warnf("device missing in %s", "RenderStart")
	l.Error("boom")
	l.System("shutdown")

	out := buf.String()
	for _, want := range []string{"INFO  ", "engine initialized", "WARN  ", "device missing in RenderStart", "ERROR ", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	msgs := l.Messages().Messages()
	if len(msgs) != 4 {
		t.Fatalf("mirrored %d messages, want 4", len(msgs))
	}
	wantTypes := []MessageType{MessageTypeNormal, MessageTypeAlert, MessageTypeError, MessageTypeSystem}
	for i, m := range msgs {
		if m.Type != wantTypes[i] {
			t.Errorf("message %d type = %v, want %v", i, m.Type, wantTypes[i])
		}
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.log")

	l, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("hello file")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Errorf("log file = %q", data)
	}
}

func TestNewFallsBackWhenFileUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "engine.log")

	l, err := New(path)
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
	if l == nil {
		t.Fatal("logger must still be usable")
	}
	l.Info("still logging")
	if l.Messages().Len() != 1 {
		t.Errorf("message log len = %d", l.Messages().Len())
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close without file: %v", err)
	}
}

func TestMessageLogBounded(t *testing.T) {
	ml := NewMessageLog(3)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		ml.Add(s)
	}

	msgs := ml.Messages()
	if len(msgs) != 3 || msgs[0].Text != "c" || msgs[2].Text != "e" {
		t.Errorf("messages = %+v", msgs)
	}

	recent := ml.RecentMessages(10)
	if len(recent) != 3 || recent[0].Text != "e" {
		t.Errorf("recent = %+v", recent)
	}

	ml.Clear()
	if ml.Len() != 0 {
		t.Errorf("len after clear = %d", ml.Len())
	}
}

func TestMessageColors(t *testing.T) {
	normal := ColoredMessage{Type: MessageTypeNormal}.GetColor()
	errc := ColoredMessage{Type: MessageTypeError}.GetColor()
	if normal == errc {
		t.Error("error and normal messages share a colour")
	}
}

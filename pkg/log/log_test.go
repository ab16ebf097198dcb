package log

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T, name string) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	SetOutput(buf)
	return ForService(name), buf
}

func TestLevelsCarryPrefix(t *testing.T) {
	SetGlobalDebug(false)

	tests := []struct {
		level string
		emit  func(*Logger)
	}{
		{LevelInfo, func(l *Logger) { l.Infof("loaded %d", 3) }},
		{LevelWarn, func(l *Logger) { l.Warnf("loaded %d", 3) }},
		{LevelError, func(l *Logger) { l.Errorf("loaded %d", 3) }},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			name := "levels_" + strings.ToLower(tt.level)
			l, buf := capture(t, name)
			tt.emit(l)
			out := buf.String()
			if !strings.Contains(out, tt.level+" ["+name+">] loaded 3") {
				t.Fatalf("unexpected output: %q", out)
			}
		})
	}
}

func TestWarnNoticeOnce(t *testing.T) {
	l, buf := capture(t, "warn_once")
	l.Warnf("first")
	l.Warnf("second")
	if n := strings.Count(buf.String(), "warnings active"); n != 1 {
		t.Fatalf("expected one notice, got %d in %q", n, buf.String())
	}
}

func TestDebugPerService(t *testing.T) {
	SetGlobalDebug(false)

	const name = "debug_dataset"
	DisableDebugFor(name)
	l, buf := capture(t, name)

	l.Debugf("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatal("debug line written while disabled")
	}

	EnableDebugFor(name)
	l.Debugf("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected debug line, got %q", buf.String())
	}
	DisableDebugFor(name)
}

func TestDebugGlobal(t *testing.T) {
	const name = "debug_global"
	DisableDebugFor(name)
	l, buf := capture(t, name)

	SetGlobalDebug(true)
	defer SetGlobalDebug(false)

	l.Debugf("everywhere")
	if !strings.Contains(buf.String(), "everywhere") {
		t.Fatalf("expected debug line, got %q", buf.String())
	}
}

func TestEnableDebugList(t *testing.T) {
	SetGlobalDebug(false)
	defer SetGlobalDebug(false)

	EnableDebugList(" search, session ,,")
	if !DebugEnabledFor("search") || !DebugEnabledFor("session") {
		t.Fatal("listed components should have debug enabled")
	}
	if DebugEnabledFor("web") {
		t.Fatal("unlisted component should not have debug enabled")
	}
	DisableDebugFor("search")
	DisableDebugFor("session")

	EnableDebugList("all")
	if !GlobalDebug() {
		t.Fatal("all should enable global debug")
	}
}

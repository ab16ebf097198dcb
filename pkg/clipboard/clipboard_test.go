package clipboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func notFound(string) (string, error) {
	return "", exec.ErrNotFound
}

func TestOSC52Fallback(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm-256color")

	var term bytes.Buffer
	c := &Clipboard{Commands: platformCommands("linux"), Terminal: &term, LookPath: notFound}

	method, err := c.Copy(context.Background(), "0141")
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if method != MethodOSC52 {
		t.Fatalf("method = %s", method)
	}
	encoded := base64.StdEncoding.EncodeToString([]byte("0141"))
	if !strings.Contains(term.String(), encoded) || !strings.HasPrefix(term.String(), "\x1b]52;") {
		t.Fatalf("unexpected sequence %q", term.String())
	}
}

func TestUnavailable(t *testing.T) {
	c := &Clipboard{Commands: platformCommands("linux"), LookPath: notFound}
	if _, err := c.Copy(context.Background(), "x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := c.Copy(context.Background(), ""); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("empty text should be refused, got %v", err)
	}
}

func TestCommandPreferred(t *testing.T) {
	cat, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not available")
	}
	var term bytes.Buffer
	c := &Clipboard{
		Commands: []Command{{Name: "cat"}},
		Terminal: &term,
		LookPath: func(string) (string, error) { return cat, nil },
	}
	method, err := c.Copy(context.Background(), "w_8_special")
	if err != nil || method != MethodCommand {
		t.Fatalf("Copy = %s, %v", method, err)
	}
	if term.Len() != 0 {
		t.Fatal("OSC52 should not be written when a command succeeds")
	}
}

func TestFailingCommandFallsBack(t *testing.T) {
	f, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false not available")
	}
	var term bytes.Buffer
	c := &Clipboard{
		Commands: []Command{{Name: "false"}},
		Terminal: &term,
		LookPath: func(string) (string, error) { return f, nil },
	}
	method, err := c.Copy(context.Background(), "x")
	if err != nil || method != MethodOSC52 {
		t.Fatalf("Copy = %s, %v", method, err)
	}
}

func TestPlatformCommands(t *testing.T) {
	if got := platformCommands("darwin"); got[0].Name != "pbcopy" {
		t.Errorf("darwin = %v", got)
	}
	if got := platformCommands("linux"); got[0].Name != "wl-copy" {
		t.Errorf("linux = %v", got)
	}
}

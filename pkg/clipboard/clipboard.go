// Package clipboard copies text for terminal front-ends. It tries the
// platform clipboard tool first and falls back to an OSC52 escape sequence,
// which most modern terminals (and tmux/screen with passthrough) honor.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/rubiojr/armory/pkg/log"
)

// ErrUnavailable means no clipboard mechanism could be used.
var ErrUnavailable = errors.New("clipboard unavailable")

// Method names reported by Copy.
const (
	MethodCommand = "command"
	MethodOSC52   = "osc52"
)

// Command is an external program that reads the text to copy on stdin.
type Command struct {
	Name string
	Args []string
}

// Clipboard copies text. The zero value is not usable; call New.
type Clipboard struct {
	// Commands are tried in order; the first one found in PATH is used.
	Commands []Command
	// Terminal receives the OSC52 sequence. Nil disables the fallback.
	Terminal io.Writer
	// LookPath is exec.LookPath, replaceable in tests.
	LookPath func(string) (string, error)
	Timeout  time.Duration
}

// New returns a clipboard using the usual tools for the current platform and
// stdout for the OSC52 fallback.
func New() *Clipboard {
	return &Clipboard{
		Commands: platformCommands(runtime.GOOS),
		Terminal: os.Stdout,
		LookPath: exec.LookPath,
		Timeout:  2 * time.Second,
	}
}

func platformCommands(goos string) []Command {
	switch goos {
	case "darwin":
		return []Command{{Name: "pbcopy"}}
	case "windows":
		return []Command{{Name: "clip.exe"}}
	}
	return []Command{
		{Name: "wl-copy"},
		{Name: "xclip", Args: []string{"-selection", "clipboard"}},
		{Name: "xsel", Args: []string{"--clipboard", "--input"}},
		// WSL
		{Name: "clip.exe"},
	}
}

// Copy places text on the clipboard and returns the method that worked.
func (c *Clipboard) Copy(ctx context.Context, text string) (string, error) {
	logger := log.ForService("clipboard")
	if text == "" {
		return "", fmt.Errorf("%w: nothing to copy", ErrUnavailable)
	}

	var cmdErr error
	for _, cmd := range c.Commands {
		path, err := c.LookPath(cmd.Name)
		if err != nil {
			continue
		}
		if cmdErr = c.run(ctx, path, cmd.Args, text); cmdErr == nil {
			return MethodCommand, nil
		}
		logger.Debugf("%s failed: %v", cmd.Name, cmdErr)
	}

	if c.Terminal != nil {
		seq := osc52.New(text)
		if os.Getenv("TMUX") != "" {
			seq = seq.Tmux()
		} else if strings.HasPrefix(os.Getenv("TERM"), "screen") {
			seq = seq.Screen()
		}
		if _, err := seq.WriteTo(c.Terminal); err != nil {
			return "", fmt.Errorf("%w: writing OSC52 sequence: %v", ErrUnavailable, err)
		}
		return MethodOSC52, nil
	}

	if cmdErr != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, cmdErr)
	}
	return "", ErrUnavailable
}

func (c *Clipboard) run(ctx context.Context, path string, args []string, text string) error {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", path, err, strings.TrimSpace(string(out)))
	}
	return nil
}

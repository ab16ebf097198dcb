package clipboard_test

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/rubiojr/armory/pkg/clipboard"
)

func TestCustomCommands(t *testing.T) {
	cat, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not available")
	}

	c := clipboard.New()
	c.Commands = []clipboard.Command{{Name: "cat"}}
	c.Terminal = nil
	c.LookPath = func(name string) (string, error) {
		if name != "cat" {
			t.Errorf("looked up %q", name)
		}
		return cat, nil
	}
	c.Timeout = 5 * time.Second

	method, err := c.Copy(context.Background(), "0141")
	if err != nil || method != clipboard.MethodCommand {
		t.Fatalf("Copy = %s, %v", method, err)
	}
}

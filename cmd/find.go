package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rubiojr/armory/pkg/clipboard"
	"github.com/rubiojr/armory/pkg/render"
	"github.com/rubiojr/armory/pkg/session"
	"github.com/urfave/cli/v3"
)

// FindCommand creates the interactive find command
func FindCommand() *cli.Command {
	return &cli.Command{
		Name:  "find",
		Usage: "Interactive search prompt",
		Description: `Type a query and press Enter to search the current tab.
Lines starting with ':' are commands:

   :tab ID          switch tab (clears the query)
   :tabs            list tabs
   :field +de -ja   enable or disable fields
   :all on|off      enable or disable every field
   :fields          show field toggles
   :copy N          copy the id (or key) of result N
   :clear           clear the query
   :quit            leave`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "tab",
				Aliases: []string{"t"},
				Usage:   "Initial tab",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			library, err := loadLibrary(c.String("config"))
			if err != nil {
				return err
			}
			if library.Config().Watch {
				go func() {
					if err := library.Watch(ctx); err != nil {
						fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
					}
				}()
			}
			r := newREPL(library, clipboard.New(), os.Stdout)
			defer r.close()
			return r.run(ctx, os.Stdin, c.String("tab"))
		},
	}
}

type copier interface {
	Copy(ctx context.Context, text string) (string, error)
}

// repl is the line-oriented search prompt. Each line is searched
// immediately; there is nothing to debounce.
type repl struct {
	library *session.Library
	sess    *session.Session
	clip    copier
	out     io.Writer

	mu   sync.Mutex
	last render.Page
}

func newREPL(library *session.Library, clip copier, out io.Writer) *repl {
	r := &repl{library: library, clip: clip, out: out}
	r.sess = session.New(library.Config(), library, r.update)
	return r
}

func (r *repl) close() {
	r.sess.Close()
}

// update receives tab loads and dataset reloads.
func (r *repl) update(u session.Update) {
	r.setLast(u.Page)
	if u.Page.Failed {
		fmt.Fprintln(r.out, formatPage(u.Page))
	}
}

func (r *repl) run(ctx context.Context, in io.Reader, tab string) error {
	if err := r.selectTab(ctx, tab); err != nil {
		return err
	}

	hubID, events := r.library.Hub().Register()
	defer r.library.Hub().Unregister(hubID)
	go func() {
		for ev := range events {
			r.sess.HandleEvent(ctx, ev)
		}
	}()

	scanner := bufio.NewScanner(in)
	r.prompt()
	for scanner.Scan() {
		if quit := r.handleLine(ctx, scanner.Text()); quit {
			return nil
		}
		r.prompt()
	}
	return scanner.Err()
}

func (r *repl) prompt() {
	id, info := r.sess.Tab()
	fmt.Fprint(r.out, labelStyle.UnsetWidth().Render(tabLabel(id, info.Label)), "> ")
}

// handleLine runs one line of input and reports whether to quit.
func (r *repl) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, ":") {
		r.show(r.sess.Search(line).Page)
		return false
	}

	fields := strings.Fields(strings.TrimPrefix(line, ":"))
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "q", "quit", "exit":
		return true
	case "tab":
		if len(args) != 1 {
			err = errors.New("usage: :tab ID")
			break
		}
		err = r.selectTab(ctx, args[0])
	case "tabs":
		r.listTabs()
	case "field":
		err = r.setFields(args)
	case "all":
		err = r.setAll(args)
	case "fields":
		r.showToggles()
	case "copy":
		err = r.copy(ctx, args)
	case "clear":
		r.sess.Clear()
		r.status("query cleared")
	default:
		err = fmt.Errorf("unknown command :%s", cmd)
	}
	if err != nil {
		fmt.Fprintln(r.out, errorStyle.Render(err.Error()))
	}
	return false
}

func (r *repl) selectTab(ctx context.Context, tab string) error {
	if err := r.sess.SelectTab(ctx, tab); err != nil {
		return err
	}
	id, info := r.sess.Tab()
	if !r.lastPage().Failed {
		r.status(fmt.Sprintf("tab %s (%s)", tabLabel(id, info.Label), info.Mode()))
	}
	return nil
}

func (r *repl) listTabs() {
	cfg := r.library.Config()
	current, _ := r.sess.Tab()
	for _, id := range cfg.TabIDs() {
		marker := "  "
		if id == current {
			marker = "* "
		}
		info := cfg.Tabs[id]
		fmt.Fprintf(r.out, "%s%-12s %-10s %s\n", marker, id, info.Mode(), info.Path)
	}
}

// setFields applies "+de" / "-de" / "de" arguments.
func (r *repl) setFields(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: :field +FIELD -FIELD ...")
	}
	for _, arg := range args {
		on := !strings.HasPrefix(arg, "-")
		name := strings.TrimLeft(arg, "+-")
		if err := r.sess.SetField(name, on); err != nil {
			return err
		}
	}
	r.sess.Flush()
	r.showToggles()
	return r.research()
}

func (r *repl) setAll(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: :all on|off")
	}
	var on bool
	switch strings.ToLower(args[0]) {
	case "on", "true", "1":
		on = true
	case "off", "false", "0":
	default:
		return errors.New("usage: :all on|off")
	}
	r.sess.SetAll(on)
	r.sess.Flush()
	r.showToggles()
	return r.research()
}

// research shows the current query against the changed toggles.
func (r *repl) research() error {
	if q := r.sess.Query(); strings.TrimSpace(q) != "" {
		r.show(r.sess.Search(q).Page)
	}
	return nil
}

func (r *repl) showToggles() {
	toggles, all := r.sess.Toggles()
	parts := make([]string, 0, len(toggles)+1)
	for _, t := range toggles {
		if t.On {
			parts = append(parts, toggleOnStyle.Render("+"+t.Field))
		} else {
			parts = append(parts, toggleOffStyle.Render("-"+t.Field))
		}
	}
	master := "all off"
	if all {
		master = "all on"
	}
	parts = append(parts, statusStyle.Render("("+master+")"))
	fmt.Fprintln(r.out, strings.Join(parts, " "))
}

func (r *repl) copy(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: :copy N")
	}
	rows := r.lastPage().Rows
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(rows) {
		return fmt.Errorf("no result %s", args[0])
	}
	value := rows[n-1].Copy
	if value == "" {
		return fmt.Errorf("result %d has nothing to copy", n)
	}
	if _, err := r.clip.Copy(ctx, value); err != nil {
		r.status("Copy failed")
		return err
	}
	r.status("Copied: " + value)
	return nil
}

func (r *repl) show(page render.Page) {
	r.setLast(page)
	fmt.Fprintln(r.out, formatPage(page))
}

func (r *repl) setLast(page render.Page) {
	r.mu.Lock()
	r.last = page
	r.mu.Unlock()
}

// lastPage is the page :copy numbers refer to.
func (r *repl) lastPage() render.Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *repl) status(msg string) {
	fmt.Fprintln(r.out, statusStyle.Render(msg))
}

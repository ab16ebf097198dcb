package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rubiojr/armory/pkg/dataset"
	"github.com/rubiojr/armory/pkg/index"
	"github.com/rubiojr/armory/pkg/render"
	"github.com/rubiojr/armory/pkg/search"
	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search a tab once and print the results",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "tab",
				Aliases: []string{"t"},
				Usage:   "Tab to search (default: the configured default tab)",
			},
			&cli.StringSliceFlag{
				Name:    "field",
				Aliases: []string{"f"},
				Usage:   "Enable a field (repeatable; default: the configured default fields)",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Search every field, Index included",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("missing query")
			}
			return searchOnce(ctx, c.String("config"), c.String("tab"), query, c.StringSlice("field"), c.Bool("all"))
		},
	}
}

// searchOnce runs one search and prints the rendered page
func searchOnce(ctx context.Context, configPath, tab, query string, fields []string, all bool) error {
	library, err := loadLibrary(configPath)
	if err != nil {
		return err
	}
	cfg := library.Config()

	id, info, err := cfg.GetTab(tab)
	if err != nil {
		return err
	}

	for _, f := range fields {
		if !index.IsToggle(f) {
			return fmt.Errorf("unknown field %q", f)
		}
	}
	opts := search.NewOptions(fieldsOrDefault(fields, cfg)...)
	if all {
		opts = search.AllFields()
	}

	engine, err := library.Engine(ctx, id)
	var page render.Page
	var le *dataset.LoadError
	switch {
	case errors.As(err, &le):
		page = render.Failure(query, info.Mode(), err)
	case err != nil:
		return err
	default:
		page = render.Render(engine.Search(query, opts), query, info.Mode())
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("%s: %q", tabLabel(id, info.Label), query)))
	fmt.Println(formatPage(page))
	if page.Failed {
		return fmt.Errorf("tab %s unavailable", id)
	}
	return nil
}

func tabLabel(id, label string) string {
	if label == "" {
		return id
	}
	return label
}

package cmd

import (
	"context"
	"fmt"

	"github.com/rubiojr/armory/pkg/config"
	"github.com/urfave/cli/v3"
)

// TabsCommand creates the tabs command
func TabsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tabs",
		Usage: "List configured tabs",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "load",
				Usage: "Load every tab and report its size",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return listTabs(ctx, c.String("config"), c.Bool("load"))
		},
	}
}

// listTabs prints the configured tabs, optionally loading each one
func listTabs(ctx context.Context, configPath string, load bool) error {
	library, err := loadLibrary(configPath)
	if err != nil {
		return err
	}
	cfg := library.Config()

	fmt.Println(titleStyle.Render(fmt.Sprintf("%d tabs", len(cfg.Tabs))))
	for _, id := range cfg.TabIDs() {
		info := cfg.Tabs[id]
		fmt.Println(formatTab(id, info, cfg.DefaultTab == id))

		if !load {
			continue
		}
		engine, err := library.Engine(ctx, id)
		if err != nil {
			fmt.Println("    " + errorStyle.Render(err.Error()))
			continue
		}
		fmt.Println("    " + statusStyle.Render(fmt.Sprintf("%d entries", engine.Len())))
	}
	return nil
}

func formatTab(id string, info config.Tab, isDefault bool) string {
	marker := "  "
	if isDefault {
		marker = copyStyle.Render("* ")
	}
	filters := "filters off"
	if info.Filters() {
		filters = "filters on"
	}
	return fmt.Sprintf("%s%s %s  %s  %s",
		marker, labelStyle.Width(12).Render(id), tabLabel(id, info.Label), info.Mode(),
		noDataStyle.Render(info.Path+", "+filters))
}

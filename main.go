package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rubiojr/armory/cmd"
	"github.com/rubiojr/armory/pkg/config"
	"github.com/rubiojr/armory/pkg/log"
	"github.com/urfave/cli/v3"
)

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	app := &cli.Command{
		Name:  "armory",
		Usage: "Incremental multilingual weapon name and dictionary search",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:    "debug-services",
				Usage:   "Comma separated services to debug (all for every service)",
				Sources: cli.EnvVars("ARMORY_DEBUG"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Configuration file path",
				Value:   getDefaultConfigPathOrExit(),
				Sources: cli.EnvVars("ARMORY_CONFIG"),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}
			if list := c.String("debug-services"); list != "" {
				log.EnableDebugList(list)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.TabsCommand(),
			cmd.SearchCommand(),
			cmd.FindCommand(),
			cmd.WebCommand(),
			cmd.IPCCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get default config path: %v\n", err)
		os.Exit(1)
	}
	return path
}

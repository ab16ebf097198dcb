package cmd

import (
	"context"
	"os"

	"github.com/rubiojr/armory/pkg/ipc"
	"github.com/rubiojr/armory/pkg/log"
	"github.com/urfave/cli/v3"
)

// IPCCommand creates the ipc command
func IPCCommand() *cli.Command {
	return &cli.Command{
		Name:  "ipc",
		Usage: "Serve incremental search as msgpack over stdin/stdout",
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

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			if library.Config().Watch {
				go func() {
					if err := library.Watch(ctx); err != nil {
						log.ForService("ipc").Warnf("watch: %v", err)
					}
				}()
			}

			return ipc.NewServer(library, os.Stdin, os.Stdout).Serve(ctx, c.String("tab"))
		},
	}
}

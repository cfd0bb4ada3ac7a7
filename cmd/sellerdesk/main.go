// SellerDesk CLI - admin tooling for the marketplace backend
//
// Usage:
//
//	sellerdesk serve
//	sellerdesk sellers [--watch 30s]
//	sellerdesk list KIND
//	sellerdesk get KIND ID
//	sellerdesk delete KIND ID
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/env"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	app := &cli.App{
		Name:    "sellerdesk",
		Usage:   "Admin console and gateway for the marketplace backend",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (trace, debug, info, warn, error), overrides LOG_LEVEL",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print JSON instead of a table",
			},
		},
		Before: func(c *cli.Context) error {
			env.SetupEnvFile()
			return nil
		},

		Commands: []*cli.Command{
			serveCommand(),
			sellersCommand(),
			listCommand(),
			getCommand(),
			deleteCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

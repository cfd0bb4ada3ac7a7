package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/urfave/cli/v2"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/apierror"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/cache"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/config"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/marketplace"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/router"
)

const shutdownTimeout = 10 * time.Second

// loadConfig reads the configuration and applies the log level.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	log.SetLevel(cfg.FiberLogLevel())
	return cfg, nil
}

func newClient(c *cli.Context) (*marketplace.Client, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return marketplace.New(cfg, nil), nil
}

func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

// =============================================================================
// SERVE COMMAND
// =============================================================================

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the admin gateway",
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cache.SetupCache(cfg)

	app := router.NewApplication(cfg, marketplace.New(cfg, nil))

	ctx, stop := signalContext(c)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("[Gateway] listening on %s", cfg.Address())
		errCh <- app.Listen(cfg.Address())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("[Gateway] shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}

// =============================================================================
// SELLERS COMMAND
// =============================================================================

func sellersCommand() *cli.Command {
	return &cli.Command{
		Name:  "sellers",
		Usage: "List sellers with their reconciled subscription",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Refresh the list at this interval until interrupted",
			},
		},
		Action: runSellers,
	}
}

func runSellers(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(c)
	defer stop()

	out := c.App.Writer
	asJSON := c.Bool("json")

	interval := c.Duration("watch")
	if interval <= 0 {
		res, err := client.ListSellers(ctx)
		if err != nil {
			return err
		}
		printWarning(c, res.Warning)
		if asJSON {
			return writeJSON(out, res)
		}
		return writeSellerTable(out, res.Items)
	}

	board := marketplace.NewSellerBoard(client)
	err = board.Watch(ctx, interval, func(s marketplace.BoardSnapshot) {
		printWarning(c, s.Warning)
		if asJSON {
			_ = writeJSON(out, s.Items)
			return
		}
		fmt.Fprintf(out, "\n%s (%d sellers)\n", s.RefreshedAt.Format(time.DateTime), len(s.Items))
		_ = writeSellerTable(out, s.Items)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// =============================================================================
// RECORD COMMANDS
// =============================================================================

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List the records of an entity kind",
		ArgsUsage: "KIND",
		Action:    runList,
	}
}

func runList(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit(fmt.Sprintf("usage: list KIND (kinds: %s)", kindList()), 2)
	}
	client, err := newClient(c)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(c)
	defer stop()

	res, err := client.ListEntity(ctx, c.Args().First())
	if err != nil {
		return describe(err)
	}
	printWarning(c, res.Warning)
	if c.Bool("json") {
		return writeJSON(c.App.Writer, res)
	}
	return writeRecordTable(c.App.Writer, res.Items)
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show a single record",
		ArgsUsage: "KIND ID",
		Action:    runGet,
	}
}

func runGet(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: get KIND ID", 2)
	}
	client, err := newClient(c)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(c)
	defer stop()

	res, err := client.GetEntity(ctx, c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return describe(err)
	}
	printWarning(c, res.Warning)
	return writeJSON(c.App.Writer, res.Item)
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a record",
		ArgsUsage: "KIND ID",
		Action:    runDelete,
	}
}

func runDelete(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: delete KIND ID", 2)
	}
	client, err := newClient(c)
	if err != nil {
		return err
	}
	ctx, stop := signalContext(c)
	defer stop()

	kind, id := c.Args().Get(0), c.Args().Get(1)
	if err := client.DeleteEntity(ctx, kind, id); err != nil {
		return describe(err)
	}
	fmt.Fprintf(c.App.Writer, "deleted %s %s\n", kind, id)
	return nil
}

// describe prefixes err with the message an admin would see in the UI.
func describe(err error) error {
	var unknown *marketplace.UnknownKindError
	if errors.As(err, &unknown) {
		return fmt.Errorf("%w (kinds: %s)", err, kindList())
	}
	return fmt.Errorf("%s: %w", apierror.UserMessage(err), err)
}

func printWarning(c *cli.Context, warning error) {
	if warning != nil {
		fmt.Fprintf(c.App.ErrWriter, "Warning: %s\n", apierror.UserMessage(warning))
	}
}

// main.go
package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"menucart/internal/auth"
	"menucart/internal/cart"
	"menucart/internal/catalog"
	"menucart/internal/checkout"
	"menucart/internal/config"
	"menucart/internal/logger"
	"menucart/internal/orders"
	"menucart/internal/store"
	"menucart/internal/ui"
)

func main() {
	app := &cli.App{
		Name:  "menucart",
		Usage: "terminal food ordering storefront",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "menu",
				Usage: "menu source: http(s) URL or local JSON file",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "directory for the local database",
			},
		},
		Before: setup,
		Action: runStorefront,
		Commands: []*cli.Command{
			{
				Name:   "orders",
				Usage:  "list recent simulated orders",
				Action: listOrders,
			},
			{
				Name:   "reset",
				Usage:  "drop the persisted cart",
				Action: resetCart,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup runs before every command: configuration first, then logging.
func setup(c *cli.Context) error {
	config.LoadEnv()
	config.SetMenuSource(c.String("menu"))
	config.SetDataDirectory(c.String("data-dir"))
	if err := config.ConfigurePaths(); err != nil {
		return err
	}

	if err := logger.SetupLogger(config.LoggerConfig()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	config.LogCurrentEnvironment()
	return nil
}

// runStorefront wires the components and hands control to the UI event
// loop. Everything after this point is driven by user events plus the
// one-shot catalog load.
func runStorefront(c *cli.Context) error {
	kv, err := store.Open(config.DatabaseFile())
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer kv.Close()

	repo, err := orders.NewRepository(kv.DB())
	if err != nil {
		return fmt.Errorf("failed to prepare order history: %w", err)
	}

	cartStore := cart.NewStore(kv)
	cartStore.OnChange(func() {
		logger.LogInfo("Cart changed: %d items, total %.2f",
			cartStore.TotalItems(), cartStore.TotalPrice())
	})

	authSvc := auth.NewService(kv)
	checkoutSvc := checkout.NewService(cartStore, repo)
	loader := catalog.NewLoader(config.MenuSource(), config.FetchTimeout())

	model := ui.NewModel(loader, cartStore, authSvc, checkoutSvc, repo, config.FetchTimeout())

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("storefront exited with error: %w", err)
	}

	logger.LogInfo("Storefront session ended")
	return nil
}

// listOrders prints the most recent simulated orders to stdout.
func listOrders(c *cli.Context) error {
	kv, err := store.Open(config.DatabaseFile())
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer kv.Close()

	repo, err := orders.NewRepository(kv.DB())
	if err != nil {
		return fmt.Errorf("failed to prepare order history: %w", err)
	}

	recent, err := repo.Recent(20)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}

	if len(recent) == 0 {
		fmt.Println("No orders yet.")
		return nil
	}

	for _, o := range recent {
		fmt.Printf("%s  %s  ₹%.2f\n", o.CreatedAt.Format("2006-01-02 15:04"), o.Receipt, o.Total)
		for _, item := range o.Items {
			fmt.Printf("    %s ×%d  ₹%.2f\n", item.Name, item.Quantity, item.Subtotal())
		}
	}

	return nil
}

// resetCart drops the persisted cart state.
func resetCart(c *cli.Context) error {
	kv, err := store.Open(config.DatabaseFile())
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer kv.Close()

	if err := kv.Delete(cart.StorageKey); err != nil {
		return err
	}

	fmt.Println("Cart cleared.")
	return nil
}

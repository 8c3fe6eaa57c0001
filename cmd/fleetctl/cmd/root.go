package cmd

import (
	"errors"
	"fmt"
	"os"

	"fleetdesk/internal/backend"
	"fleetdesk/internal/config"
	"fleetdesk/internal/fleet"

	"github.com/spf13/cobra"
)

var errOrgRequired = errors.New("--org is required")

var rootCmd = &cobra.Command{
	Use:   "fleetctl",
	Short: "fleetctl: operator CLI for the fleet back office",
	Long: `fleetctl: operator CLI for the fleet back office
Lists, pages and inspects auctions, vehicles, drivers, fuel entries and the
other masters straight from the logistics backend.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(entitiesCmd(), listCmd(), getCmd())
}

// newCatalog loads the environment and registers every entity against the
// configured backend. The CLI never mirrors.
func newCatalog() (config.Cfg, *fleet.Catalog) {
	cfg := config.Load()
	config.SetupLogging(cfg.App.LogLevel)
	cfg.Mirror.Driver = "none"
	cfg.MustValidate()

	client := backend.NewHTTPClient(cfg.Backend.BaseURL, cfg.Backend.Token, cfg.Backend.TimeoutSec)
	catalog := fleet.NewCatalog(fleet.Observers{})
	fleet.RegisterAll(catalog, client, nil)
	return cfg, catalog
}

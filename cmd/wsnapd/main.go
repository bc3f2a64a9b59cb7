package main

import (
	"fmt"
	"os"

	"wsnap-go/internal/app"
	"wsnap-go/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// wsnapd is the long-running variant of wsnap: a bare invocation starts the
// HTTP API and dashboard.
var rootCmd = &cobra.Command{
	Use:   "wsnapd",
	Short: "Workstation state snapshot server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("getting defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		a, err := app.NewWSnapApp(cfg, "Serve")
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		defer a.Close()

		return a.Serve(addr)
	},
}

func init() {
	rootCmd.Flags().String("addr", "", "Listen address (defaults to server.addr from config)")
}

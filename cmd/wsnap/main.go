package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"wsnap-go/internal/app"
	"wsnap-go/internal/config"
	"wsnap-go/internal/vault"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a WSnapApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Backup", "Restore").
func newApp(operation string) (*app.WSnapApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewWSnapApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "wsnap",
	Short: "Workstation state snapshot tool",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Generate a new host ID
		hostID := uuid.New().String()

		cfg := config.NewConfig(hostID, defaults["base_dir"], defaults["home"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Host ID: %s\n", hostID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Host ID:     %s\n", cfg.HostID)
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Workspace:   %s\n", cfg.Paths.WorkspaceRoot)
		fmt.Printf("Memory Dir:  %s\n", cfg.Paths.MemoryDir)
		fmt.Printf("Config File: %s\n", cfg.Paths.ConfigFile)
		fmt.Printf("Database:    %s\n", cfg.Database.DSN)
		fmt.Printf("Server Addr: %s\n", cfg.Server.Addr)
		if cfg.Vault.Type != "" {
			fmt.Printf("Vault:       %s (%s)\n", cfg.Vault.Name, cfg.Vault.Type)
		}
		return nil
	},
}

var configVaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage vault",
}

var configVaultCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify vault access",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		if cfg.Vault.Type == "" {
			fmt.Println("No vault configured.")
			return nil
		}

		v, err := vault.NewVaultFromConfig(cfg.Vault)
		if err != nil {
			return fmt.Errorf("creating vault: %w", err)
		}

		if err := v.ValidateSetup(); err != nil {
			return fmt.Errorf("vault check failed: %w", err)
		}

		fmt.Printf("Vault %s (%s) is reachable.\n", cfg.Vault.Name, cfg.Vault.Type)
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup [NAME]",
	Short: "Create a snapshot of the current workstation state",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Backup")
		if err != nil {
			return err
		}
		defer a.Close()

		name := ""
		if len(args) > 0 {
			name = args[0]
		}

		rec, err := a.Backup(name)
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}

		fmt.Printf("Created backup #%d: %s\n", rec.ID, rec.Name)
		fmt.Printf("  workspace %s  memory %s\n", rec.WorkspaceHash, rec.MemoryHash)
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "View recent backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("List")
		if err != nil {
			return err
		}
		defer a.Close()

		recs, err := a.List(limit)
		if err != nil {
			return err
		}

		if len(recs) == 0 {
			fmt.Println("No backups recorded.")
			return nil
		}

		for _, rec := range recs {
			fmt.Printf("#%-4d %-25s %s  ws:%-8s mem:%s\n",
				rec.ID,
				rec.Name,
				rec.CreatedAt.Format("2006-01-02 15:04:05"),
				rec.WorkspaceHash,
				rec.MemoryHash,
			)
		}
		return nil
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore ID",
	Short: "Restore a backup onto the filesystem",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid backup id %q", args[0])
		}

		if !yes {
			ok, err := confirmRestore(id)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}
		}

		a, err := newApp("Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Restore(id); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		fmt.Printf("Restored backup #%d\n", id)
		return nil
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		a, err := newApp("Serve")
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Serve(addr)
	},
}

// confirmRestore asks before overwriting files on disk. A non-interactive
// stdin cannot answer, so it requires --yes.
func confirmRestore(id int64) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("stdin is not a terminal; pass --yes to restore without confirmation")
	}

	fmt.Printf("Restore backup #%d? Files on disk will be overwritten. [y/N]: ", id)
	resp, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}

	switch strings.TrimSpace(strings.ToLower(resp)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configVaultCmd)
	configVaultCmd.AddCommand(configVaultCheckCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntP("limit", "n", 20, "Maximum number of backups to show")
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (defaults to server.addr from config)")
}

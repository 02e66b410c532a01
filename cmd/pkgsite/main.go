package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/app"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/config"
	"github.com/fel1x-developer/pkg.freebsd.org/internal/registry"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, or the built-in defaults when there is none.
func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}
	return app.LoadConfig(defaults)
}

// newApp reads the config and creates a CatalogApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "import", "search").
func newApp(ctx context.Context, operation string, args []string) (*app.CatalogApp, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewCatalogApp(ctx, cfg, operation, args...)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:          "pkgsite",
	Short:        "FreeBSD package catalog",
	SilenceUsage: true,
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

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		fmt.Printf("Database: %s\n", cfg.Database.URL)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Log Level:  %s\n", cfg.LogLevel)
		fmt.Printf("Database:   %s\n", cfg.Database.URL)
		fmt.Printf("Batch Size: %d\n", cfg.Import.BatchSize)
		fmt.Printf("Addr:       %s\n", cfg.Server.Addr)
		return nil
	},
}

// import command
var importCmd = &cobra.Command{
	Use:   "import LOCATION [ABI_VERSION ABI_ARCH REPOSITORY PERIOD] [BATCH_SIZE]",
	Short: "Import package descriptors",
	Long: `Import package descriptors from a local path, an http(s):// URL or an
s3://bucket/key location. Compressed files and pkg repository archives are
unpacked automatically.

Without a registry key each record must carry its own abi_version, abi_arch
(or abi), repository and period fields.`,
	Args: func(cmd *cobra.Command, args []string) error {
		switch len(args) {
		case 1, 2, 5, 6:
			return nil
		}
		return fmt.Errorf("accepts 1, 2, 5 or 6 args, received %d", len(args))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "import", args)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Import(ctx, args)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Printf("Found:    %d\n", result.Found)
		fmt.Printf("Imported: %d\n", result.Imported)
		fmt.Printf("Failed:   %d\n", result.Failed)
		for _, b := range result.FailedBatches() {
			fmt.Printf("  batch %d (%d rows): %v\n", b.Index, b.Rows, b.Err)
		}
		return nil
	},
}

// search command
var searchCmd = &cobra.Command{
	Use:   "search [QUERY]",
	Short: "Search packages",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repository, _ := cmd.Flags().GetString("repository")
		abiVersion, _ := cmd.Flags().GetString("abi-version")
		abiArch, _ := cmd.Flags().GetString("abi-arch")
		period, _ := cmd.Flags().GetString("period")
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")

		query := ""
		if len(args) > 0 {
			query = args[0]
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, "search", args)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Search(ctx, query, repository, abiVersion, abiArch, period, page, limit)
		if err != nil {
			return err
		}

		if len(result.Items) == 0 {
			fmt.Println("No packages found.")
		}
		for _, s := range result.Items {
			fmt.Printf("#%-8d %-30s %-12s %s/%s/%s/%s  %s\n",
				s.ID, s.Name, s.Version,
				s.AbiVersion, s.AbiArch, s.Repository, s.Period,
				s.Comment,
			)
		}
		fmt.Printf("\nPage %d of %d (%d packages)\n", result.CurrentPage, result.TotalPages, result.TotalCount)
		return nil
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show ID | show ABI_VERSION ABI_ARCH REPOSITORY PERIOD NAME",
	Short: "Show package details",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 5 {
			return fmt.Errorf("accepts 1 or 5 args, received %d", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "show", args)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Show(ctx, args)
		if err != nil {
			return err
		}
		return printJSON(p)
	},
}

// filters command
var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List the values each search filter accepts",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := registry.FilterOptions()
		fmt.Printf("abiVersion: %s\n", joinValues(opts.AbiVersions))
		fmt.Printf("abiArch:    %s\n", joinValues(opts.AbiArchs))
		fmt.Printf("repository: %s\n", joinValues(opts.Repositories))
		fmt.Printf("period:     %s\n", joinValues(opts.Periods))
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View import history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		ctx := cmd.Context()
		a, err := newApp(ctx, "history", nil)
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.GetHistory(ctx, limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No imports recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt.Valid {
				d := op.FinishedAt.Time.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %s  %-8s  found=%d imported=%d failed=%d  %s  %s\n",
				op.ID,
				op.StartedAt.Format("2006-01-02 15:04:05"),
				op.Status,
				op.Found, op.Imported, op.Failed,
				duration,
				op.Parameters,
			)
		}
		return nil
	},
}

// migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if status, _ := cmd.Flags().GetBool("status"); status {
			st, err := app.Status(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Printf("Database:      %s\n", st.Path)
			fmt.Printf("Schema:        %s\n", st.Schema)
			if st.LatestImportID > 0 {
				fmt.Printf("Latest import: #%d (see 'pkgsite history')\n", st.LatestImportID)
			} else {
				fmt.Println("Latest import: none")
			}
			return nil
		}
		if err := app.Migrate(cfg); err != nil {
			return err
		}
		fmt.Println("Database is up to date.")
		return nil
	},
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON query API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, "serve", nil)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Serve(ctx, addr)
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinValues[T ~string](values []T) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	searchCmd.Flags().String("repository", "", "Filter by repository")
	searchCmd.Flags().String("abi-version", "", "Filter by ABI version")
	searchCmd.Flags().String("abi-arch", "", "Filter by ABI architecture")
	searchCmd.Flags().String("period", "", "Filter by period")
	searchCmd.Flags().Int("page", 1, "Page number")
	searchCmd.Flags().Int("limit", 50, "Results per page (at most 500)")

	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of imports to show")
	serveCmd.Flags().String("addr", "", "Listen address (default from server.addr)")
	migrateCmd.Flags().Bool("status", false, "Report the schema version without migrating")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(filtersCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(serveCmd)
}

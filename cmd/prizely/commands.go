package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/prizely-backend/internal/app"
	"github.com/yungbote/prizely-backend/internal/data/seed"
	"github.com/yungbote/prizely-backend/internal/services"
)

const appName = "prizely"

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Grocery price comparison backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(serveCmd(), migrateCmd(), seedCmd(), reportCmd(), versionCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until SIGINT/SIGTERM",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Run(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalog schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			// app.New migrates while opening the database.
			a, err := app.New(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			a.Log.Info("Catalog schema up to date", "driver", a.Clients.DB.Driver())
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var (
		file  string
		reset bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog (or --file) into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ds := a.Services.Dataset
			if file != "" {
				if ds, err = seed.Load(file); err != nil {
					return err
				}
			}
			stats, err := a.Services.Seeder.Run(cmd.Context(), ds, reset)
			if err != nil {
				return err
			}
			a.Services.Comparison.CatalogChanged(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d items, %d markets, %d prices\n", stats.Items, stats.Markets, stats.Prices)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML dataset to load instead of the embedded demo catalog")
	cmd.Flags().BoolVar(&reset, "reset", false, "Delete every item, market and price first")
	return cmd
}

func reportCmd() *cobra.Command {
	var items, markets []string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a comparison report for items and markets given by name",
		Example: `  prizely report --items Sugar,Milk --markets Imtiaz,Carrefour,Metro
  prizely report   # default selection`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var sel services.Selection
			if len(items) == 0 && len(markets) == 0 {
				sel, err = a.Services.Comparison.Defaults(cmd.Context())
			} else {
				sel, err = a.Services.Comparison.ResolveNames(cmd.Context(), items, markets)
			}
			if err != nil {
				return err
			}
			text, err := a.Services.Comparison.Report(cmd.Context(), sel)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&items, "items", nil, "Item names, comma separated")
	cmd.Flags().StringSliceVar(&markets, "markets", nil, "Market names, comma separated")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, app.Version)
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/symptom-analyzer/internal/catalog"
	"github.com/symptom-analyzer/internal/config"
	"github.com/symptom-analyzer/internal/database"
	"github.com/symptom-analyzer/internal/domain"
)

func newCatalogCommand(rt *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate, export, import and migrate the symptom catalog",
	}
	cmd.AddCommand(
		newCatalogValidateCommand(rt),
		newCatalogExportCommand(rt),
		newCatalogImportCommand(rt),
		newCatalogMigrateCommand(rt),
	)
	return cmd
}

func newCatalogValidateCommand(rt *state) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [catalog.yaml]",
		Short: "Validate a catalog file, or the configured catalog source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				c   *catalog.Catalog
				err error
			)
			if len(args) == 1 {
				c, err = catalog.LoadFile(args[0])
			} else {
				c, err = catalog.Open(cmd.Context(), *rt.manager.GetCatalogConfig(), rt.logger)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), RenderCatalogSummary(c))
			return err
		},
	}
}

func newCatalogExportCommand(rt *state) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the configured catalog as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Open(cmd.Context(), *rt.manager.GetCatalogConfig(), rt.logger)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return catalog.EncodeYAML(cmd.OutOrStdout(), c)
			}
			if err := catalog.WriteFile(out, c); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "catalog %s written to %s\n", c.Version(), out)
			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newCatalogImportCommand(rt *state) *cobra.Command {
	var target domain.CatalogConfig

	cmd := &cobra.Command{
		Use:   "import <catalog.yaml>",
		Short: "Load a YAML catalog into the SQLite or PostgreSQL store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}

			cfg := *rt.manager.GetCatalogConfig()
			if target.Source != "" {
				cfg.Source = target.Source
			}
			if target.Path != "" {
				cfg.Path = target.Path
			}
			if target.DatabaseURL != "" {
				cfg.DatabaseURL = target.DatabaseURL
			}
			if cfg.Source == catalog.SourceSQLite && cfg.Path == "" {
				cfg.Path = config.DefaultCatalogDBPath()
			}

			store, err := catalog.OpenStore(cmd.Context(), cfg, rt.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Save(cmd.Context(), c); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "catalog %s imported into %s\n", c.Version(), cfg.Source)
			return err
		},
	}

	cmd.Flags().StringVar(&target.Source, "to", "", "target store: sqlite or postgres (default catalog.source)")
	cmd.Flags().StringVar(&target.Path, "path", "", "SQLite file (default catalog.path)")
	cmd.Flags().StringVar(&target.DatabaseURL, "database-url", "", "PostgreSQL URL (default catalog.database_url)")
	return cmd
}

func newCatalogMigrateCommand(rt *state) *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the PostgreSQL catalog schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				databaseURL = rt.manager.GetCatalogConfig().DatabaseURL
			}
			if databaseURL == "" {
				return fmt.Errorf("a database URL is required (--database-url or catalog.database_url)")
			}

			runner, err := database.NewMigrationRunner(databaseURL, rt.logger)
			if err != nil {
				return err
			}
			defer runner.Close()

			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			if direction == "down" {
				err = runner.Down(cmd.Context())
			} else {
				err = runner.Up(cmd.Context())
			}
			if err != nil {
				return err
			}

			version, dirty, err := runner.Version()
			if err != nil {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", version, dirty)
			return err
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (default catalog.database_url)")
	return cmd
}

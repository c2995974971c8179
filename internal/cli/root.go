// Package cli implements the symptomctl command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/symptom-analyzer/internal/app"
	"github.com/symptom-analyzer/internal/config"
	"github.com/symptom-analyzer/internal/logging"
)

// state holds what the root command builds before any subcommand runs.
type state struct {
	cfgFile  string
	logLevel string

	manager *config.Manager
	logger  *logrus.Logger
}

// NewRootCommand builds the symptomctl command tree.
func NewRootCommand() *cobra.Command {
	rt := &state{}

	root := &cobra.Command{
		Use:   "symptomctl",
		Short: "Symptom analysis from the command line",
		Long: `symptomctl turns free-text symptom descriptions into a likely condition,
an urgency tier, recommendations and consultation fees. It also serves the
HTTP API and the MCP tools, and manages the symptom catalog.

Results are informational only and are not a medical diagnosis.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&rt.cfgFile, "config", "", "config file (default searches ./config.yaml, ./config/, /etc/symptom-analyzer/)")
	root.PersistentFlags().StringVar(&rt.logLevel, "log-level", "", "log level override: debug, info, warn, error")

	root.AddCommand(
		newAnalyzeCommand(rt),
		newServeCommand(rt),
		newMCPCommand(rt),
		newCatalogCommand(rt),
		newSetupCommand(rt),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (rt *state) load(cmd *cobra.Command) error {
	m, err := config.NewManager(rt.cfgFile)
	if err != nil {
		return err
	}
	if flag := cmd.Flags().Lookup("log-level"); flag != nil && flag.Changed {
		if err := m.Viper().BindPFlag("logging.level", flag); err != nil {
			return fmt.Errorf("failed to bind log level: %w", err)
		}
		if err := m.Reload(); err != nil {
			return err
		}
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	logger, err := logging.NewLogger(m.GetConfig().Logging)
	if err != nil {
		return err
	}

	rt.manager = m
	rt.logger = logger
	return nil
}

func (rt *state) bootstrap(ctx context.Context) (*app.App, error) {
	return app.Bootstrap(ctx, rt.manager.GetConfig(), rt.logger)
}

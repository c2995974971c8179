package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/symptom-analyzer/internal/api"
	"github.com/symptom-analyzer/internal/mcp"
)

func newServeCommand(rt *state) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and chat websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			cfg := a.Config.Server
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			server, err := api.NewServer(cfg, rt.logger, a.Analyzer, a.Catalog)
			if err != nil {
				return err
			}

			rt.logger.WithFields(logrus.Fields{
				"host": cfg.Host,
				"port": cfg.Port,
			}).Info("Starting symptom analyzer HTTP server")

			if err := server.Start(cmd.Context()); err != nil {
				return err
			}
			rt.logger.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides server.port)")
	return cmd
}

func newMCPCommand(rt *state) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			server, err := mcp.NewServer(a.Config.MCP, rt.logger, a.Analyzer, a.Catalog)
			if err != nil {
				return err
			}
			return server.Start(cmd.Context())
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/symptom-analyzer/internal/setup"
)

func newSetupCommand(rt *state) *cobra.Command {
	var clientConfig, serverName string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the MCP server with a desktop MCP client",
	}
	cmd.PersistentFlags().StringVar(&clientConfig, "client-config", "", "client config file (default is the desktop client's platform path)")
	cmd.PersistentFlags().StringVar(&serverName, "name", setup.DefaultServerName, "server name in the client config")

	resolve := func() (string, error) {
		if clientConfig != "" {
			return clientConfig, nil
		}
		return setup.DesktopConfigPath()
	}

	var opts setup.Options
	install := &cobra.Command{
		Use:   "install",
		Short: "Add or update the server entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolve()
			if err != nil {
				return err
			}
			opts.ServerName = serverName
			if opts.ConfigFile == "" {
				opts.ConfigFile = rt.cfgFile
			}
			entry, err := setup.Install(path, opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "registered %s -> %s %v in %s\n", serverName, entry.Command, entry.Args, path)
			return err
		},
	}
	install.Flags().StringVar(&opts.BinaryPath, "binary", "", "path to symptomctl (default searches PATH)")
	install.Flags().StringVar(&opts.DataDir, "data-dir", "", "data directory passed to the server")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the registration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolve()
			if err != nil {
				return err
			}
			st, err := setup.GetStatus(path, serverName)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), RenderSetupStatus(st))
			return err
		},
	}

	remove := &cobra.Command{
		Use:   "remove",
		Short: "Remove the server entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolve()
			if err != nil {
				return err
			}
			removed, err := setup.Remove(path, serverName)
			if err != nil {
				return err
			}
			if !removed {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s was not registered\n", serverName)
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %s from %s\n", serverName, path)
			return err
		},
	}

	cmd.AddCommand(install, status, remove)
	return cmd
}

// Package main implements appfinder, an application finder exposed as a CLI
// and as an MCP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/taigrr/appfinder/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := fang.Execute(
		ctx,
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "appfinder",
		Short: "Find applications, shortcuts and folders on this machine",
		Long: `appfinder searches the Start Menu, the Desktop, the user's known
folders and the Program Files trees for entries whose name contains a
search term. Without a subcommand it serves the search over the Model
Context Protocol on stdio.`,
		Example: `appfinder search chrome
appfinder locations`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, configPath)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		fmt.Sprintf("config file (default %s)", config.DefaultPath()))

	cmd.AddCommand(
		newSearchCmd(&configPath),
		newLocationsCmd(&configPath),
	)
	return cmd
}

func runServer(cmd *cobra.Command, configPath string) error {
	a, err := newApp(configPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go a.cache.Run(ctx)

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "appfinder",
		Version: version,
	}, nil)

	a.registerTools(server)

	a.logger.Info("serving on stdio", "version", version)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("error running server: %w", err)
	}

	return nil
}

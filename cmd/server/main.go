package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "server",
		Short: "server hosts the interactive dataset explorer",
		Long: `server loads the built-in datasets (and optional PostgreSQL tables),
then serves the exploration session over HTTP.

Examples:
  server                  start the HTTP server
  server serve --env .env.local
  server inspect runs.zip`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().String("env", ".env", "dotenv file to load before reading the environment")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	inspect := &cobra.Command{
		Use:   "inspect <file.csv|file.zip>",
		Short: "Print how a file would be loaded as a dataset",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	inspect.Flags().Int64("max-size", 100<<20, "maximum file size in bytes")

	root.AddCommand(serve, inspect)
	return root
}

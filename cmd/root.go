// Package cmd wires the CLI surface. The default action starts the MCP
// server on stdio, so the binary works directly as an MCP server entry in a
// client configuration.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "risen",
	Short: "RISEN prompt template MCP server",
	Long: `risen manages RISEN prompt templates (Role, Instructions, Steps,
Expectations, Narrowing) and exposes them as MCP tools over stdio.

Running risen without arguments starts the MCP server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Package cmd wires the command-line interface. The serve command is the
// main entry point; the remaining commands are operator conveniences for
// inspecting the catalogue and probing the scripting gateway.
package cmd

import (
	"os"

	"resolvemcp/internal/app"

	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "resolvemcp",
	Short: "MCP bridge for the DaVinci Resolve scripting API",
	Long: `resolvemcp exposes the DaVinci Resolve scripting surface as MCP tools.

It connects to a running Resolve instance through its scripting gateway,
serializes all tool calls against the single shared application, and answers
every call with one stable response envelope.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called by main.main().
func Execute() {
	rootCmd.Version = app.Version
	rootCmd.SetVersionTemplate(`{{printf "resolvemcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"path to the configuration file (default ~/.config/resolvemcp/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"log level override: debug, info, warn or error")
}

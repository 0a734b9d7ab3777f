package cmd

import (
	"fmt"

	"resolvemcp/internal/config"
	"resolvemcp/internal/resolve/scriptbridge"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the Resolve scripting gateway",
	Long: `Dials the configured scripting gateway once and reports what it finds:
product name, version and the page currently open in the UI.

Useful for verifying the gateway address before wiring the server into an
MCP client.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := flagConfig
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		fmt.Printf("Probing %s ...\n", cfg.Resolve.GatewayURL)

		host, err := scriptbridge.Dial(cfg.Resolve.GatewayURL)
		if err != nil {
			fmt.Printf("%s gateway unreachable: %v\n", text.FgRed.Sprint("✗"), err)
			return fmt.Errorf("gateway unreachable")
		}
		defer host.Close()

		name, err := host.ProductName()
		if err != nil {
			return fmt.Errorf("gateway answered but product query failed: %w", err)
		}
		version, _ := host.Version()
		page, _ := host.CurrentPage()

		fmt.Printf("%s connected to %s %s\n", text.FgGreen.Sprint("✓"), name, version)
		if page != "" {
			fmt.Printf("  current page: %s\n", page)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

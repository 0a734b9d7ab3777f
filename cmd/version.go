package cmd

import (
	"fmt"

	"resolvemcp/internal/app"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the resolvemcp version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("resolvemcp version %s\n", app.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

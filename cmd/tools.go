package cmd

import (
	"fmt"
	"os"

	"resolvemcp/internal/mediator"
	"resolvemcp/internal/ops"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the operations exposed as MCP tools",
	Long: `Prints the full operation catalogue as a table: tool name, the Resolve
page the operation runs on (blank when the operation is page-independent),
and a short description.

The catalogue is static, so this command needs neither a configuration file
nor a running Resolve instance.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := mediator.NewRegistry()
		ops.RegisterAll(registry)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{
			text.FgHiCyan.Sprint("NAME"),
			text.FgHiCyan.Sprint("PAGE"),
			text.FgHiCyan.Sprint("DESCRIPTION"),
		})

		for _, op := range registry.Operations() {
			description := op.Description
			if len(description) > 80 {
				description = description[:77] + "..."
			}
			t.AppendRow(table.Row{op.Name, op.Page, description})
		}
		t.Render()

		fmt.Printf("\n%d operations\n", registry.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

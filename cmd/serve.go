package cmd

import (
	"resolvemcp/internal/app"

	"github.com/spf13/cobra"
)

var (
	serveTransport string
	servePort      int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Starts the MCP server on the configured transport.

The stdio transport speaks MCP over stdin/stdout and is what editor and
assistant integrations launch. The sse and streamable-http transports listen
on the configured host and port for network clients.

Resolve does not need to be running at startup: the scripting connection is
established lazily on the first dispatched call.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApplication(app.Options{
			ConfigPath: flagConfig,
			LogLevel:   flagLogLevel,
			Transport:  serveTransport,
			Port:       servePort,
		})
		if err != nil {
			return err
		}
		return a.Run(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "",
		"transport override: stdio, sse or streamable-http")
	serveCmd.Flags().IntVar(&servePort, "port", 0,
		"listen port override for the network transports")
	rootCmd.AddCommand(serveCmd)
}

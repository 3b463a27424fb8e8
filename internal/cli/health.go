package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mcoot/signalbot/internal/api"
)

func newHealthCmd() *cobra.Command {
	var (
		addr   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Query a running bot's health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result api.Health

			client := NewClient(addr)
			if err := client.Get("/health", &result, http.StatusOK, http.StatusServiceUnavailable); err != nil {
				return err
			}

			NewOutput(format, cmd.OutOrStdout()).Print(result)
			if !result.Connected {
				return fmt.Errorf("bot is %s", result.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "http://localhost:8080", "Health endpoint base URL")
	cmd.Flags().StringVarP(&format, "output", "o", "text", "Output format: text, json")
	return cmd
}

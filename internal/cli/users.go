package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mcoot/signalbot/internal/config"
	"github.com/mcoot/signalbot/internal/factory"
)

func newUsersCmd(v *viper.Viper, configFile *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List registered users from the configured storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(v, *configFile)
			if err != nil {
				return err
			}

			store, closeStore, err := factory.NewStorage(settings)
			if err != nil {
				return err
			}
			if closeStore != nil {
				defer func() { _ = closeStore() }()
			}

			users, err := store.LoadUsers(cmd.Context())
			if err != nil {
				return err
			}

			NewOutput(format, cmd.OutOrStdout()).Print(UserRows(users))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "text", "Output format: text, json")
	return cmd
}

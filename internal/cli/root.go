package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mcoot/signalbot/internal/config"
)

// flagKeys maps persistent flags onto config keys
var flagKeys = map[string]string{
	"transport":   "transport",
	"storage":     "storage.type",
	"data-dir":    "data_dir",
	"log-level":   "log_level",
	"health-addr": "health_addr",
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	v := config.New()
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "signalbot",
		Short: "Chat command bot for Signal",
		Long: `signalbot answers '!' commands sent to it over Signal (via signal-cli),
Telegram or the local console.

Configuration comes from SIGNALBOT_* environment variables, an optional .env
file, an optional config file and the flags below.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			return Run(cmd.Context(), settings, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
		SilenceUsage: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (yaml, json or toml)")
	flags.String("transport", "", "Transport: signal, telegram, console (env: SIGNALBOT_TRANSPORT)")
	flags.String("storage", "", "Storage backend: file, redis, memory (env: SIGNALBOT_STORAGE_TYPE)")
	flags.String("data-dir", "", "Data directory (env: SIGNALBOT_DATA_DIR)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (env: SIGNALBOT_LOG_LEVEL)")
	flags.String("health-addr", "", "Serve GET /health on this address (env: SIGNALBOT_HEALTH_ADDR)")
	bindFlags(v, flags)

	// Add subcommands
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newUsersCmd(v, &configFile))

	return rootCmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for name, key := range flagKeys {
		// Lookup cannot fail for flags registered above
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	logx "github.com/wayfarer-labs/itinerary-planner/pkg/logger"
)

var appCfg AppConfig

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Travel itinerary planner backed by Gemini",
	Long: `planner collects a destination city, a comma-separated list of interests
and free-form trip details, then asks the language model for a trip itinerary.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		// Load .env file
		envErr := godotenv.Load(envFile)

		if err := envconfig.Process("", &appCfg); err != nil {
			return fmt.Errorf("failed to process environment config: %w", err)
		}

		logx.Init(logx.LoggerOpts{
			Environment: appCfg.env(),
			Level:       appCfg.LogLevel,
		})
		if envErr != nil {
			logx.Debug().Err(envErr).Str("file", envFile).Msg("Could not load env file")
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to a dotenv file loaded before reading the environment")
}

// Package commands is the foodintel command line: the API server plus a few
// operator commands that run the same services from a terminal.
package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"foodintel/config"
	"foodintel/logger"
)

var (
	cfgFile  string
	envFile  string
	logLevel string
	noColor  bool

	cfg config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "foodintel",
	Short: "Beverage market intelligence dashboard backend",
	Long: `foodintel serves the market intelligence dashboard API: search trends and
shopping listings for a beverage category, the derived market metrics, generated
strategy reports and the product registry lookup.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(envFile, cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		cfg = loaded
		config.AppConfig = loaded

		if noColor {
			color.NoColor = true
		}
		log = logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
		logger.SetDefault(log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with credentials")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

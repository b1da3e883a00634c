package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"appicon/internal/config"
	"appicon/internal/logging"
)

var (
	configPath string
	logLevel   string

	appConfig *config.Config
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "appicon",
	Short: "appicon - turn one logo into platform icon sets",
	Long:  "appicon crops, scales and encodes a single logo into the icon sets iOS, Android, watchOS and the web expect.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		cfg.Log.Output = os.Stderr
		l, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		appConfig = cfg
		logger = l
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

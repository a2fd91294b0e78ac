// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"honeybee/attendance-engine/internal/config"
	"honeybee/attendance-engine/internal/container"
	"honeybee/attendance-engine/internal/logging"
)

var (
	// Log is the shared logger instance for commands
	Log = logging.NewLogrusAdapter("info", "text")

	// AppContainer is built by the root command before any subcommand runs.
	AppContainer *container.Container

	// ConfigFile overrides the config file search path.
	ConfigFile string
	// LogLevel and LogFormat override the Log section when set.
	LogLevel  string
	LogFormat string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "honeybee",
		Short: "Reconcile childcare attendance against subsidy agency payments.",
		Long: `honeybee joins a facility sign-in export with the subsidy agency's payment
records and writes an annotated workbook flagging every attended day as paid,
unpaid, self paid or an extra payment.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: bootstrap,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				_ = AppContainer.Close()
			}
		},
	}
)

// Init registers the persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default searches ./config.yaml and ~/.honeybee)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	Cmd.PersistentFlags().StringVar(&LogFormat, "log-format", "", "Log format: text or json")
}

func bootstrap(cmd *cobra.Command, args []string) error {
	config.LoadEnv()

	cfg, err := config.InitializeConfig(ConfigFile)
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg); err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

func applyOverrides(cfg *config.Config) error {
	if LogLevel != "" {
		if _, err := logrus.ParseLevel(LogLevel); err != nil {
			return fmt.Errorf("invalid log level: %s", LogLevel)
		}
		cfg.Log.Level = LogLevel
	}
	if LogFormat != "" {
		if LogFormat != "text" && LogFormat != "json" {
			return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", LogFormat)
		}
		cfg.Log.Format = LogFormat
	}
	return nil
}

// GetContainer returns the container built by the root command.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application container not initialized")
	}
	return AppContainer, nil
}

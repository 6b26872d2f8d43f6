package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/slotstore"
)

var (
	logLevel  string
	logFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "slotstore",
	Short: "slotstore - lock-free positional store tooling",
	Long: `slotstore is tooling around the lock-free, versioned positional store:
run concurrent stress workloads against a fresh store and inspect the
precomputed anchor table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	// Errors are printed by the printer package.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func newLogger() (*slotstore.Logger, error) {
	if logLevel == "" || logLevel == "off" {
		return slotstore.NoopLogger(), nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}

	switch logFormat {
	case "", "text":
		return slotstore.NewTextLogger(level), nil
	case "json":
		return slotstore.NewJSONLogger(level), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", logFormat)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "off", "Log level (off, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
}

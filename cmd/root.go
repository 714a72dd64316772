package cmd

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Global CLI flags
	logLevel string // Log verbosity level
	logFile  string // Optional rotating log file path
)

// logRotation tunes the rotating log file sink from the environment.
type logRotation struct {
	MaxSizeMB  int `env:"MIGSIM_LOG_MAX_SIZE" envDefault:"10"`
	MaxBackups int `env:"MIGSIM_LOG_MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int `env:"MIGSIM_LOG_MAX_AGE" envDefault:"30"`
}

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "migsim",
	Short: "Continuous-time Markov migration model engine",
	Long: "migsim builds and interrogates continuous-time Markov migration models " +
		"over a fixed set of demes: generator assembly, uniformization, cached " +
		"matrix powers, interval transition probabilities, lineage simulation " +
		"and a prior-sampling chain.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// setupLogging configures logrus from the global flags. When a log file is
// given, output goes to a lumberjack rotating writer tuned via
// MIGSIM_LOG_MAX_SIZE / MIGSIM_LOG_MAX_BACKUPS / MIGSIM_LOG_MAX_AGE.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)

	if logFile != "" {
		var rotation logRotation
		if err := env.Parse(&rotation); err != nil {
			logrus.Fatalf("Invalid log rotation environment: %v", err)
		}
		logrus.SetOutput(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    rotation.MaxSizeMB,
			MaxBackups: rotation.MaxBackups,
			MaxAge:     rotation.MaxAgeDays,
		})
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up global CLI flags
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this rotating file instead of stderr")
}

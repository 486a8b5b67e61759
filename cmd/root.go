package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"imdb-pump/internal/download"
	"imdb-pump/internal/engine"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitExists = 1 // target database already present, nothing written
	ExitFailed = 2
)

var (
	cfgFile string
	logger  = zerolog.Nop()
)

var RootCmd = &cobra.Command{
	Use:   "imdb-pump",
	Short: "Download the IMDb datasets and import them into a database",
	Long: `
  ___ __  __ ____  ____    ____  _   _ __  __ ____
 |_ _|  \/  |  _ \| __ )  |  _ \| | | |  \/  |  _ \
  | || |\/| | | | |  _ \  | |_) | | | | |\/| | |_) |
  | || |  | | |_| | |_) | |  __/| |_| | |  | |  __/
 |___|_|  |_|____/|____/  |_|    \___/|_|  |_|_|

IMDB PUMP - IMDb dataset downloader & bulk importer
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(viper.GetBool("settings.verbose"))
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug().Str("file", used).Msg("Using config file")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd)
	},
}

// Execute runs the root command and exits with the code matching its outcome.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, engine.ErrTargetExists) {
			logger.Error().Err(err).Msg("Import failed")
			if logger.GetLevel() == zerolog.Disabled {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		os.Exit(ExitCode(err))
	}
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, engine.ErrTargetExists):
		return ExitExists
	default:
		return ExitFailed
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./imdb-pump.yaml)")
	flags.String("db", "imdb.db", "target database (SQLite path or server DSN)")
	flags.String("driver", "sqlite", "database driver: sqlite, postgres, mysql, sqlserver, oracle")
	flags.String("cache-dir", "downloads", "directory holding the downloaded dataset files")
	flags.String("base-url", download.DefaultBaseURL, "dataset download location")
	flags.BoolP("verbose", "v", false, "debug logging")

	viper.BindPFlag("database.dsn", flags.Lookup("db"))
	viper.BindPFlag("database.driver", flags.Lookup("driver"))
	viper.BindPFlag("download.cache_dir", flags.Lookup("cache-dir"))
	viper.BindPFlag("download.base_url", flags.Lookup("base-url"))
	viper.BindPFlag("settings.verbose", flags.Lookup("verbose"))

	RootCmd.AddCommand(importCmd, verifyCmd, sampleCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("imdb-pump")
		viper.SetConfigType("yaml")
	}

	// IMDB_PUMP_DATABASE_DSN overrides database.dsn, and so on.
	viper.SetEnvPrefix("imdb_pump")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}

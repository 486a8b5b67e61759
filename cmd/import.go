package cmd

import (
	"fmt"
	"time"

	"imdb-pump/internal/download"
	"imdb-pump/internal/engine"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Download missing dataset files and import them into a new database",
	Long: `Downloads any dataset file missing from the cache directory, creates the
tables, imports every file in its own transaction and finally creates the
indices. An existing target database is never touched (exit code 1).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd)
	},
}

func runImport(cmd *cobra.Command) error {
	config, err := resolveDatabase(cmd)
	if err != nil {
		return err
	}
	cacheDir := viper.GetString("download.cache_dir")
	baseURL := viper.GetString("download.base_url")

	logger.Info().Str("name", config.Name).Str("driver", config.Driver).Msg("Target database")

	dl := download.New(baseURL, cacheDir,
		download.WithLogger(logger),
		download.WithProgress(downloadProgress(logger)))

	sum, err := engine.Run(cmd.Context(), engine.RunConfig{
		Driver:   config.Driver,
		DSN:      config.DSN,
		CacheDir: cacheDir,
		Fetch:    dl.Ensure,
		Progress: newBarProgress(logger),
		Log:      logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n📊 Summary Report (Import Order):")
	for i, r := range sum.Results {
		icon := "✓"
		if r.Expected >= 0 && r.Expected != r.Rows {
			icon = "!"
		}
		fmt.Fprintf(out, "[%s] [%02d/%02d] %-10s : %d rows (counted: %d) in %s\n",
			icon, i+1, len(sum.Results), r.Table, r.Rows, r.Expected, r.Elapsed.Round(time.Millisecond))
	}
	fmt.Fprintln(out, "--------------------------------------------------")
	fmt.Fprintf(out, "Total Rows: %d\n", sum.Rows())
	logger.Info().Dur("elapsed", sum.Elapsed).Msg("Import done")
	return nil
}

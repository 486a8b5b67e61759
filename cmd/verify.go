package cmd

import (
	"errors"
	"fmt"
	"strings"

	"imdb-pump/internal/dialect"
	"imdb-pump/internal/engine"
	"imdb-pump/internal/schema"
	"imdb-pump/internal/store"

	"github.com/spf13/cobra"
)

var errVerifyFailed = errors.New("database does not match the expected schema")

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check row counts and indices of an imported database",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := resolveDatabase(cmd)
		if err != nil {
			return err
		}
		d, err := dialect.GetDialect(config.Driver)
		if err != nil {
			return err
		}

		if d.Name() == "sqlite" {
			exists, err := engine.TargetExists(cmd.Context(), config.DSN, d, schema.TableNames())
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("database %s does not exist", config.DSN)
			}
		}

		st, err := store.Open(cmd.Context(), d.Name(), config.DSN, d, store.WithLogger(logger))
		if err != nil {
			return err
		}
		defer st.Close()

		reports, err := engine.Verify(cmd.Context(), st, d, schema.Registry())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "🔍 Verifying %s (%s)\n", config.Name, d.Name())
		ok := true
		var total int64
		for i, r := range reports {
			icon := "✓"
			if !r.OK() {
				icon = "!"
				ok = false
			}
			switch {
			case r.Missing:
				fmt.Fprintf(out, "[%s] [%02d/%02d] %-10s : MISSING TABLE\n", icon, i+1, len(reports), r.Table)
			default:
				fmt.Fprintf(out, "[%s] [%02d/%02d] %-10s : %d rows, %d indices\n", icon, i+1, len(reports), r.Table, r.Rows, len(r.Indexes))
			}
			if len(r.MissingIndexes) > 0 {
				fmt.Fprintf(out, "    └ Missing indices: %s\n", strings.Join(r.MissingIndexes, ", "))
			}
			total += r.Rows
		}
		fmt.Fprintln(out, "--------------------------------------------------")
		fmt.Fprintf(out, "Total Rows: %d\n", total)

		if !ok {
			return errVerifyFailed
		}
		return nil
	},
}

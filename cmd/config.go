package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type DBConfig struct {
	Name   string `mapstructure:"name"`
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Active bool   `mapstructure:"active"`
}

var errNoDatabases = errors.New("no databases configured")

// GetActiveDBConfig returns the active entry of the "databases" config list.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}
	if len(configs) == 0 {
		return nil, errNoDatabases
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}
	if activeConfig.Driver == "" || activeConfig.DSN == "" {
		return nil, fmt.Errorf("database %q needs both driver and dsn", activeConfig.Name)
	}

	return activeConfig, nil
}

// resolveDatabase picks the target database: explicit --db/--driver flags
// first, then the active "databases" entry, then database.driver/database.dsn.
func resolveDatabase(cmd *cobra.Command) (DBConfig, error) {
	flags := cmd.Flags()
	if !flags.Changed("db") && !flags.Changed("driver") {
		active, err := GetActiveDBConfig()
		if err == nil {
			return *active, nil
		}
		if !errors.Is(err, errNoDatabases) {
			return DBConfig{}, err
		}
	}

	config := DBConfig{
		Name:   "default",
		Driver: viper.GetString("database.driver"),
		DSN:    viper.GetString("database.dsn"),
		Active: true,
	}
	if config.DSN == "" {
		return DBConfig{}, fmt.Errorf("database.dsn is required (via --db, config or IMDB_PUMP_DATABASE_DSN)")
	}
	return config, nil
}

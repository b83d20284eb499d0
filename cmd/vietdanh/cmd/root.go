// CLAUDE:SUMMARY Root cobra command, viper config (file, env, flags), logger and registry helpers.

// Package cmd contains the vietdanh CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hazyhaar/vietdanh/pkg/dict"
)

// version is set at build time with -ldflags "-X .../cmd.version=...".
var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "vietdanh",
	Short: "Vietnamese name numerology (Tính cục) analyzer",
	Long: `vietdanh scores a Vietnamese full name by the stroke counts of its
syllables and derives six cục:

  - Tĩnh Cục (Bản Mệnh), Động Cục
  - Tiền Vận, Hậu Vận
  - Phúc Đức, Tứ Túc

Each cục is reduced into 1..81 and rated from the loaded lookup tables.
Tables live under the data directory, one subdirectory per table, and are
built with 'vietdanh import'.`,
	SilenceUsage: true,
	Version:      version,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")
	pf.String("data-dir", "data", "directory holding the table directories")
	pf.String("sources-db", "data/sources.db", "SQLite database of import sources")
	pf.String("log-level", "info", "log level: debug, info, warn, error")

	viper.BindPFlag("data_dir", pf.Lookup("data-dir"))
	viper.BindPFlag("sources_db", pf.Lookup("sources-db"))
	viper.BindPFlag("log_level", pf.Lookup("log-level"))

	viper.SetDefault("addr", ":8421")
	viper.SetDefault("source_check_interval", "0")
}

// initConfig reads the config file and VIETDANH_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("VIETDANH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config:", err)
			os.Exit(1)
		}
	}
}

// newLogger builds the stderr text logger at the configured level.
func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log_level"))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadRegistry loads the tables under data_dir.
func loadRegistry(logger *slog.Logger) (*dict.Registry, error) {
	dataDir := viper.GetString("data_dir")
	reg := dict.NewRegistry(dataDir)
	if err := reg.Load(); err != nil {
		return reg, fmt.Errorf("load tables from %s: %w", dataDir, err)
	}
	logger.Debug("tables loaded", "dir", dataDir, "syllables", reg.SyllableCount())
	return reg, nil
}

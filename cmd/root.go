package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/billbatista/acasinha-splits/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:           "acasinha",
	Short:         "Shared expense ledger",
	Long:          "Record shared expenses and see who is owed and who owes across the group.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log output format (text or json)")
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		printErrorAndExit("command failed", err)
	}
}

// loadConfig reads the config file and installs the default logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return config.Config{}, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch logFormat {
	case "json":
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
	case "text":
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
	default:
		return config.Config{}, fmt.Errorf("unknown log format %q", logFormat)
	}

	return cfg, nil
}

func printErrorAndExit(msg string, e error) {
	slog.Error(msg, "error", e)
	os.Exit(1)
}

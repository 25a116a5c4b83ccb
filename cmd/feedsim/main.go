// FILE: lixenwraith/tradelog/cmd/feedsim/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/tradelog"
)

var rootCmd = &cobra.Command{
	Use:           "feedsim",
	Short:         "Market-data feed simulator logging through tradelog",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "feedsim.toml", "TOML file with a [tradelog] table")
	rootCmd.PersistentFlags().StringSlice("set", nil, "Logger override key=value (can be repeated)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "feedsim: %v\n", err)
		os.Exit(1)
	}
}

// loadLoggerConfig reads the config file named by --config and applies --set overrides
func loadLoggerConfig(cmd *cobra.Command) (*tradelog.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	overrides, _ := cmd.Flags().GetStringSlice("set")

	cfg, err := tradelog.NewConfigFromFile(path)
	if err != nil {
		return nil, err
	}
	return tradelog.ApplyOverride(cfg, overrides...)
}

func contextWithSignal(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

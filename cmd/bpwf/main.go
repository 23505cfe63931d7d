// Command bpwf builds host scene scripts and renders them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/df07/go-bpwf/pkg/config"
	"github.com/df07/go-bpwf/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

type app struct {
	configPath string
	envFile    string
	logLevel   string
	cfg        *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "bpwf",
		Short:         "Build and render host scene scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultPath+")")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the environment")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		a.scriptCmd(),
		a.renderCmd(),
		a.peekCmd(),
		a.listCmd(),
		a.watchCmd(),
		a.serveCmd(),
		a.cameraCmd(),
		a.versionCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath, a.envFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := logger.Init(cfg.Log); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-dashboard-verification/internal/app"
	"go-dashboard-verification/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type flags struct {
	configPath string
	strict     bool
	headed     bool
	settle     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "verify",
		Short:         "Capture screenshots of the BI dashboard for visual review",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	root.PersistentFlags().StringVarP(&f.configPath, "config", "c", config.DefaultPath, "path to the YAML config")
	root.Flags().BoolVar(&f.strict, "strict", false, "fail when the chart title is missing after the tab switch")
	root.Flags().BoolVar(&f.headed, "headed", false, "show the browser window")
	root.Flags().StringVar(&f.settle, "settle", "", "settle mode: condition or fixed")

	root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			// secrets stay out of the terminal
			if cfg.TelegramToken != "" {
				cfg.TelegramToken = "***"
			}
			if cfg.DatabaseURL != "" {
				cfg.DatabaseURL = "***"
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	})

	return root
}

// loadConfig applies flags on top of file and environment values.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("strict") {
		cfg.StrictChecks = f.strict
	}
	if cmd.Flags().Changed("headed") {
		cfg.Browser.Headed = f.headed
	}
	if f.settle != "" {
		cfg.Settle.Mode = f.settle
	}
	return cfg, cfg.Validate()
}

func run(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("🔧 Config loaded. Target: %s, output: %s", cfg.TargetURL, cfg.OutputDir)

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = a.Service.Execute(ctx)
	return err
}

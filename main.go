package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/joho/godotenv"
	"github.com/rm-hull/inteliver/cmd"
	"github.com/rm-hull/inteliver/internal/configure"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var configFile string
	var level string
	var port int
	var debug bool

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	rootCmd := &cobra.Command{
		Use:           "inteliver",
		Long:          `On-the-fly image transformation service`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config.yaml", "Config file location")
	rootCmd.PersistentFlags().StringVar(&level, "level", "info", "Log level: debug, info, warn or error")

	loadConfig := func(c *cobra.Command) (*configure.Config, error) {
		cfg, err := configure.New(c.Flags())
		if err != nil {
			return nil, err
		}
		if err := configure.InitLogging(cfg.Level); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	apiServerCmd := &cobra.Command{
		Use:   "api-server [--config <file>] [--port <port>] [--debug]",
		Short: "Start HTTP API server",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return cmd.ApiServer(cfg)
		},
	}
	apiServerCmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")
	apiServerCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")

	renderCmd := &cobra.Command{
		Use:   "render <command> <in-file> <out-file>",
		Short: "Apply a command string to a local image",
		Args:  cobra.ExactArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt)
			defer stop()
			return cmd.Render(ctx, cfg, args[0], args[1], args[2])
		},
	}

	operationsCmd := &cobra.Command{
		Use:   "operations",
		Short: "List the supported image operations",
		RunE: func(c *cobra.Command, _ []string) error {
			return cmd.ListOperations(c.OutOrStdout())
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(c *cobra.Command, _ []string) {
			fmt.Fprintln(c.OutOrStdout(), versioninfo.Short())
		},
	}

	rootCmd.AddCommand(apiServerCmd, renderCmd, operationsCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		zap.S().Error(err)
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"os"

	"github.com/consuelo/flowbridge/pkg/config"
	"github.com/consuelo/flowbridge/pkg/eventbus"
	"github.com/consuelo/flowbridge/pkg/log"
	"github.com/consuelo/flowbridge/pkg/n8n"
	"github.com/consuelo/flowbridge/pkg/otelhelper"
	"github.com/consuelo/flowbridge/pkg/services"
	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9080

func main() {
	// Best-effort: local development keeps engine credentials in .env.
	_ = godotenv.Load()

	logger := log.WithModule("api")

	cmd := &cli.Command{
		Name:                  "flowbridge-api",
		Usage:                 "HTTP API bridging dashboard flows onto the workflow engine",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to the YAML configuration file",
				Value:   "flowbridge.yaml",
				Sources: cli.EnvVars("FLOWBRIDGE_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OTLP trace export",
				Sources: cli.EnvVars("FLOWBRIDGE_TRACING"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			cfg := config.LoadOrDefault(command.String("config"))
			if command.Int("port") != defaultPort {
				cfg.Port = command.Int("port")
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger.InfoContext(ctx, "Initializing flowbridge API",
				"engine", cfg.Engine.BaseURL, "port", cfg.Port)

			engine, err := n8n.NewClient(cfg.Engine, log.WithModule("n8n"))
			if err != nil {
				return err
			}

			bus := eventbus.NewInProcess(logger)
			defer func() {
				if err := bus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			automation := services.NewAutomation(engine, bus, log.WithModule("automation"))

			if command.Bool("tracing") || cfg.Tracing.Enabled {
				tracer, err := otelhelper.NewTracer(ctx, cfg.Tracing.ServiceName)
				if err != nil {
					logger.WarnContext(ctx, "Failed to initialize tracing", "error", err)
				} else {
					automation.UseTracer(tracer)
				}
			}

			subscribeAuditLog(ctx, bus, logger)

			api := NewAPI(logger, automation)

			return api.Start(cfg.Port)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger.Error("flowbridge-api exited", "error", err)
		os.Exit(1)
	}
}

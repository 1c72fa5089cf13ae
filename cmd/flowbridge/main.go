// Package main provides the flowbridge operational CLI.
package main

import (
	"context"
	"os"

	"github.com/consuelo/flowbridge/pkg/config"
	"github.com/consuelo/flowbridge/pkg/log"
	"github.com/consuelo/flowbridge/pkg/n8n"
	"github.com/consuelo/flowbridge/pkg/services"
	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"
)

func main() {
	_ = godotenv.Load()

	logger := log.WithModule("cli")

	cmd := &cli.Command{
		Name:                  "flowbridge",
		Usage:                 "Inspect and manage dashboard flows on the workflow engine",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to the YAML configuration file",
				Value:   "flowbridge.yaml",
				Sources: cli.EnvVars("FLOWBRIDGE_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			flowCommand(),
			folderCommand(),
			runCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger.Error("flowbridge exited", "error", err)
		os.Exit(1)
	}
}

// newAutomation builds the service from the CLI's configuration. The CLI
// publishes no events; it is a direct operator tool.
func newAutomation(command *cli.Command) (*services.Automation, error) {
	log.Setup(command.String("log-level"))

	cfg := config.LoadOrDefault(command.String("config"))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine, err := n8n.NewClient(cfg.Engine, log.WithModule("n8n"))
	if err != nil {
		return nil, err
	}

	return services.NewAutomation(engine, nil, log.WithModule("automation")), nil
}

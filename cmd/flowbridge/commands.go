package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/consuelo/flowbridge/pkg/services"
	cli "github.com/urfave/cli/v3"
)

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

func flowCommand() *cli.Command {
	return &cli.Command{
		Name:  "flow",
		Usage: "Manage flows",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List flows",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "active", Usage: "Only active flows"},
					&cli.StringFlag{Name: "name", Usage: "Filter by name"},
					&cli.StringFlag{Name: "cursor", Usage: "Pagination cursor"},
					&cli.IntFlag{Name: "limit", Usage: "Page size", Value: 100},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					automation, err := newAutomation(command)
					if err != nil {
						return err
					}

					params := services.ListFlowsParams{
						Name:   command.String("name"),
						Cursor: command.String("cursor"),
						Limit:  command.Int("limit"),
					}

					if command.IsSet("active") {
						active := command.Bool("active")
						params.Active = &active
					}

					page, err := automation.ListFlows(ctx, params)
					if err != nil {
						return err
					}

					return printJSON(page)
				},
			},
			{
				Name:      "get",
				Usage:     "Fetch one flow",
				ArgsUsage: "<flow-id>",
				Action: func(ctx context.Context, command *cli.Command) error {
					automation, err := newAutomation(command)
					if err != nil {
						return err
					}

					flow, err := automation.GetFlow(ctx, command.Args().First())
					if err != nil {
						return err
					}

					return printJSON(flow)
				},
			},
			{
				Name:      "create",
				Usage:     "Create a flow from a JSON definition file",
				ArgsUsage: "<definition.json>",
				Action: func(ctx context.Context, command *cli.Command) error {
					path := command.Args().First()
					if path == "" {
						return fmt.Errorf("definition file is required")
					}

					payload, err := os.ReadFile(path)
					if err != nil {
						return err
					}

					var data services.CreateFlowData
					if err := json.Unmarshal(payload, &data); err != nil {
						return fmt.Errorf("failed to parse definition: %w", err)
					}

					automation, err := newAutomation(command)
					if err != nil {
						return err
					}

					flow, err := automation.CreateFlow(ctx, data)
					if err != nil {
						return err
					}

					return printJSON(flow)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a flow",
				ArgsUsage: "<flow-id>",
				Action: func(ctx context.Context, command *cli.Command) error {
					automation, err := newAutomation(command)
					if err != nil {
						return err
					}

					return automation.DeleteFlow(ctx, command.Args().First())
				},
			},
			{
				Name:      "activate",
				Usage:     "Activate a flow",
				ArgsUsage: "<flow-id>",
				Action: func(ctx context.Context, command *cli.Command) error {
					automation, err := newAutomation(command)
					if err != nil {
						return err
					}

					flow, err := automation.ActivateFlow(ctx, command.Args().First())
					if err != nil {
						return err
					}

					return printJSON(flow)
				},
			},
			{
				Name:      "deactivate",
				Usage:     "Deactivate a flow",
				ArgsUsage: "<flow-id>",
				Action: func(ctx context.Context, command *cli.Command) error {
					automation, err := newAutomation(command)
					if err != nil {
						return err
					}

					flow, err := automation.DeactivateFlow(ctx, command.Args().First())
					if err != nil {
						return err
					}

					return printJSON(flow)
				},
			},
			{
				Name:      "webhook-url",
				Usage:     "Print the webhook URL of a flow",
				ArgsUsage: "<flow-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Usage: "Explicit webhook path"},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					automation, err := newAutomation(command)
					if err != nil {
						return err
					}

					fmt.Println(automation.WebhookURL(command.Args().First(), command.String("path")))

					return nil
				},
			},
		},
	}
}

func folderCommand() *cli.Command {
	return &cli.Command{
		Name:  "folder",
		Usage: "Manage folders",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List folders",
				Action: func(ctx context.Context, command *cli.Command) error {
					automation, err := newAutomation(command)
					if err != nil {
						return err
					}

					page, err := automation.ListFolders(ctx)
					if err != nil {
						return err
					}

					return printJSON(page)
				},
			},
			{
				Name:      "create",
				Usage:     "Create a folder",
				ArgsUsage: "<display-name>",
				Action: func(ctx context.Context, command *cli.Command) error {
					automation, err := newAutomation(command)
					if err != nil {
						return err
					}

					folder, err := automation.CreateFolder(ctx, command.Args().First())
					if err != nil {
						return err
					}

					return printJSON(folder)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a folder",
				ArgsUsage: "<folder-id>",
				Action: func(ctx context.Context, command *cli.Command) error {
					automation, err := newAutomation(command)
					if err != nil {
						return err
					}

					return automation.DeleteFolder(ctx, command.Args().First())
				},
			},
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Inspect flow runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List runs",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "flow-id", Usage: "Filter by flow"},
					&cli.StringFlag{Name: "status", Usage: "Filter by status"},
					&cli.StringFlag{Name: "cursor", Usage: "Pagination cursor"},
					&cli.IntFlag{Name: "limit", Usage: "Page size", Value: 100},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					automation, err := newAutomation(command)
					if err != nil {
						return err
					}

					page, err := automation.ListFlowRuns(ctx, services.ListFlowRunsParams{
						FlowID: command.String("flow-id"),
						Status: command.String("status"),
						Cursor: command.String("cursor"),
						Limit:  command.Int("limit"),
					})
					if err != nil {
						return err
					}

					return printJSON(page)
				},
			},
			{
				Name:      "get",
				Usage:     "Fetch one run",
				ArgsUsage: "<run-id>",
				Action: func(ctx context.Context, command *cli.Command) error {
					automation, err := newAutomation(command)
					if err != nil {
						return err
					}

					run, err := automation.GetFlowRun(ctx, command.Args().First())
					if err != nil {
						return err
					}

					return printJSON(run)
				},
			},
		},
	}
}

package commands

import (
	"context"
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/ticktock/pkg/commands/options"
	"tableflip.dev/ticktock/pkg/runner/add"
	"tableflip.dev/ticktock/pkg/store"
)

func addAdd(topLevel *cobra.Command) {
	to := &options.TaskOptions{}
	name := ""

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		Example: `
ticktock add write the quarterly report
ticktock add fix the build --project infra --tags ci,urgent
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a task name")
			}
			name = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			p, err := store.Load(cfg)
			if err != nil {
				return err
			}

			s := add.Add{
				Name:        name,
				ProjectID:   to.ProjectID,
				Tags:        to.Tags,
				UserID:      cfg.UserID(),
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddTaskArgs(cmd, to)
	base.AddOutputArg(cmd, oo)

	addAddProject(cmd)

	topLevel.AddCommand(cmd)
}

func addAddProject(topLevel *cobra.Command) {
	to := &options.TaskOptions{}
	name := ""

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Add a project",
		Example: `
ticktock add project infra
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a project name")
			}
			name = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			p, err := store.Load(cfg)
			if err != nil {
				return err
			}

			s := add.Add{
				Name:        name,
				Tags:        to.Tags,
				Project:     true,
				UserID:      cfg.UserID(),
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddTaskArgs(cmd, to)
	topLevel.AddCommand(cmd)
}

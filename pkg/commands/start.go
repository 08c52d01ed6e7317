package commands

import (
	"context"
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/ticktock/pkg/runner/start"
	"tableflip.dev/ticktock/pkg/store"
)

func addStart(topLevel *cobra.Command) {
	name := ""

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start timing a task",
		Long: base.Wrap80("Start timing a task by name or id. A running timer on " +
			"another task is stopped first; starting the task that is already " +
			"running stops it instead."),
		Example: `
ticktock start write the quarterly report
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a task name or id")
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

			s := start.Start{
				Task:        name,
				UserID:      cfg.UserID(),
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addResume(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Resume the most recent task",
		Example: `
ticktock resume
`,
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

			s := start.Start{
				Resume:      true,
				UserID:      cfg.UserID(),
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

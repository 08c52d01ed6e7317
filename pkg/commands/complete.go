package commands

import (
	"context"
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/ticktock/pkg/runner/taskstate"
	"tableflip.dev/ticktock/pkg/store"
)

func addComplete(topLevel *cobra.Command) {
	topLevel.AddCommand(transitionCommand(
		"complete", "Mark a task completed", taskstate.Complete,
		"ticktock complete write the quarterly report"))
}

func addUncomplete(topLevel *cobra.Command) {
	topLevel.AddCommand(transitionCommand(
		"uncomplete", "Return a completed task to active", taskstate.Uncomplete,
		"ticktock uncomplete write the quarterly report"))
}

func addArchive(topLevel *cobra.Command) {
	topLevel.AddCommand(transitionCommand(
		"archive", "Archive a task", taskstate.Archive,
		"ticktock archive old experiment"))
}

func transitionCommand(use, short string, tr taskstate.Transition, example string) *cobra.Command {
	name := ""

	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: "\n" + example + "\n",
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

			s := taskstate.TaskState{
				Task:        name,
				Transition:  tr,
				UserID:      cfg.UserID(),
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	base.AddOutputArg(cmd, oo)
	return cmd
}

package commands

import (
	"context"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/ticktock/pkg/commands/options"
	"tableflip.dev/ticktock/pkg/runner/list"
	"tableflip.dev/ticktock/pkg/store"
)

func addList(topLevel *cobra.Command) {
	to := &options.TaskOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "tasks"},
		Short:   "List tasks",
		Example: `
ticktock list
ticktock list --all --show-id
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

			s := list.List{
				All:         to.All,
				ShowID:      io.ShowID,
				UserID:      cfg.UserID(),
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddAllTasksArg(cmd, to)
	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

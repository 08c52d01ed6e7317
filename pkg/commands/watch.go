package commands

import (
	"context"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/ticktock/pkg/commands/options"
	"tableflip.dev/ticktock/pkg/runner/watch"
	"tableflip.dev/ticktock/pkg/store"
)

func addWatch(topLevel *cobra.Command) {
	po := &options.PomodoroOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard for the running timer",
		Long: base.Wrap80("Open a live dashboard showing the running timer, the " +
			"task list, and today's intervals. While the dashboard is open the " +
			"engine ticks, splits intervals at midnight, and fires idle and " +
			"pomodoro alerts."),
		Example: `
ticktock watch
ticktock watch --pomodoro --minutes 50
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

			s := watch.Watch{
				Pomodoro:    po.Pomodoro,
				Minutes:     po.Minutes,
				UserID:      cfg.UserID(),
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddPomodoroArgs(cmd, po)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

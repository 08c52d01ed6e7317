package commands

import (
	"context"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/ticktock/pkg/commands/options"
	"tableflip.dev/ticktock/pkg/runner/report"
	"tableflip.dev/ticktock/pkg/store"
)

func addReport(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report tracked time per task per day",
		Example: `
ticktock report
ticktock report --window 3d
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

			s := report.Report{
				Window:      wo.Window,
				UserID:      cfg.UserID(),
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddWindowArgs(cmd, wo)
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

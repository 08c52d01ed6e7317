package commands

import (
	"context"
	"errors"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/ticktock/pkg/runner/reorder"
	"tableflip.dev/ticktock/pkg/store"
)

func addReorder(topLevel *cobra.Command) {
	projects := false

	cmd := &cobra.Command{
		Use:   "reorder",
		Short: "Reorder tasks or projects",
		Long: base.Wrap80("Rewrite the display order of tasks (or projects with " +
			"--projects) to match the order given on the command line."),
		Example: `
ticktock reorder taskB taskA taskC
ticktock reorder --projects infra personal
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires at least one task name or id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			p, err := store.Load(cfg)
			if err != nil {
				return err
			}

			s := reorder.Reorder{
				IDs:         args,
				Projects:    projects,
				UserID:      cfg.UserID(),
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	cmd.Flags().BoolVar(&projects, "projects", false, "Reorder projects instead of tasks.")
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

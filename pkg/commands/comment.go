package commands

import (
	"context"
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/ticktock/pkg/runner/comment"
	"tableflip.dev/ticktock/pkg/store"
)

func addComment(topLevel *cobra.Command) {
	text := ""

	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Annotate the open interval",
		Example: `
ticktock comment chasing the flaky integration test
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires a comment")
			}
			text = strings.Join(args, " ")
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

			s := comment.Comment{
				Text:        text,
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

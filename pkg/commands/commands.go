package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

var (
	oo = &base.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "ticktock",
		Short: base.Wrap80("Task time tracking on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addAdd(topLevel)
	addStart(topLevel)
	addStop(topLevel)
	addResume(topLevel)
	addStatus(topLevel)
	addComment(topLevel)
	addList(topLevel)
	addReport(topLevel)
	addComplete(topLevel)
	addUncomplete(topLevel)
	addArchive(topLevel)
	addReorder(topLevel)
	addWatch(topLevel)
	addVersion(topLevel)
}

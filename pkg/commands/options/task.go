// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// TaskOptions captures task creation flags.
type TaskOptions struct {
	ProjectID string
	Tags      []string
	All       bool
}

// AddTaskArgs wires task-related flags on the provided command.
func AddTaskArgs(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().StringVarP(&o.ProjectID, "project", "p", "",
		"Specify the project id for the task.")
	cmd.Flags().StringSliceVarP(&o.Tags, "tags", "t", nil,
		"Specify tags for the task.")
}

// AddAllTasksArg registers the flag that includes completed and archived
// tasks.
func AddAllTasksArg(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().BoolVar(&o.All, "all", false,
		"Include completed and archived tasks.")
}

package options

import (
	"github.com/spf13/cobra"
)

// PomodoroOptions captures pomodoro flags for the watch command.
type PomodoroOptions struct {
	Pomodoro bool
	Minutes  int
}

// AddPomodoroArgs wires pomodoro flags on the provided command.
func AddPomodoroArgs(cmd *cobra.Command, o *PomodoroOptions) {
	cmd.Flags().BoolVar(&o.Pomodoro, "pomodoro", false,
		"Start with the pomodoro countdown enabled.")
	cmd.Flags().IntVar(&o.Minutes, "minutes", 25,
		"Pomodoro length in minutes.")
}

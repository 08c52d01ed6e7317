package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/ticktock/pkg/timeutil"
)

// WindowOptions captures the report window flag.
type WindowOptions struct {
	Window string
}

// AddWindowArgs wires the window flag on the provided command.
func AddWindowArgs(cmd *cobra.Command, o *WindowOptions) {
	cmd.Flags().StringVarP(&o.Window, "window", "w", timeutil.DefaultWindow,
		"How far back to report, for example 1w, 3d, or 1w2d6h.")
}

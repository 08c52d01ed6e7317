package clock

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Terminal returns a Notifier that rings the terminal bell and prints the
// alert to stderr.
func Terminal() Notifier {
	return terminalNotifier{}
}

type terminalNotifier struct{}

func (terminalNotifier) Alert(title, body string) {
	fmt.Fprint(os.Stderr, "\a")
	t := color.New(color.Bold, color.FgHiYellow)
	_, _ = t.Fprintf(os.Stderr, "%s: ", title)
	fmt.Fprintln(os.Stderr, body)
}

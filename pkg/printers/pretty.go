package printers

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/ticktock/pkg/engine"
	"tableflip.dev/ticktock/pkg/interval"
	"tableflip.dev/ticktock/pkg/timeutil"
)

type PrettyPrint struct {
	ShowID bool
}

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

// Status renders the engine state: the active task, the clock, and the
// comment and pomodoro lines when set.
func (pp *PrettyPrint) Status(s engine.Snapshot) {
	name := s.ActiveTaskName
	if name == "" {
		name = s.ActiveTaskID
	}

	if s.ActiveTaskID == "" {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Println(" no task started yet")
		return
	}

	label := color.New(color.Bold)
	clock := color.New(color.FgHiGreen)
	stopped := color.New(color.Faint)

	if s.Running {
		_, _ = label.Printf("%s ", name)
		_, _ = clock.Printf("%s\n", timeutil.FormatClock(s.Elapsed))
	} else {
		_, _ = label.Printf("%s ", name)
		_, _ = stopped.Println("stopped")
	}

	if s.Comment != "" {
		c := color.New(color.FgHiYellow, color.Italic)
		_, _ = c.Printf("  %s\n", s.Comment)
	}

	if s.PomodoroActive {
		p := color.New(color.FgHiMagenta)
		_, _ = p.Printf("  pomodoro %s remaining\n", timeutil.FormatClock(s.PomodoroRemaining))
	}
}

// Intervals renders closed and open intervals with id, day, span, and
// duration.
func (pp *PrettyPrint) Intervals(list ...*interval.Interval) {
	if len(list) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" none\n\n")
		return
	}

	t := color.New()
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	for _, iv := range list {
		if pp.ShowID {
			_, _ = y.Printf("%s  ", iv.ID)
		}
		if iv.Open() {
			_, _ = t.Printf("%s  %s  running\n", iv.Date, iv.Start.Local().Format("15:04"))
			continue
		}
		_, _ = t.Printf("%s  %s  %s\n", iv.Date, iv.Start.Local().Format("15:04"), timeutil.FormatShort(iv.Duration))
	}
	_, _ = t.Println("")
}

// ReportRow is one task/day aggregate for the report table.
type ReportRow struct {
	Date     string
	TaskName string
	Seconds  int
	Comment  string
}

// Report renders task/day totals as a table.
func (pp *PrettyPrint) Report(rows []ReportRow) {
	if len(rows) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" nothing tracked in this window\n\n")
		return
	}

	table := uitable.New()
	table.MaxColWidth = 50
	table.AddRow("DATE", "TASK", "TIME", "COMMENT")
	total := 0
	for _, r := range rows {
		table.AddRow(r.Date, r.TaskName, timeutil.FormatShort(r.Seconds), r.Comment)
		total += r.Seconds
	}
	table.AddRow("", "", "", "")
	table.AddRow("total", "", timeutil.FormatShort(total), "")
	fmt.Println(table)
}

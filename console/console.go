// Package console prints human-facing progress for a pipeline run. Logs go
// through logrus separately; this is the friendly layer on stdout.
package console

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/kyokomi/emoji"
)

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("202")).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("208")).
	Padding(0, 2)

// Console writes status lines, with a spinner for long steps when animate is set.
type Console struct {
	out     io.Writer
	animate bool
}

func New(out io.Writer, animate bool) *Console {
	return &Console{out: out, animate: animate}
}

// Banner prints a boxed title.
func (c *Console) Banner(title string) {
	fmt.Fprintln(c.out, bannerStyle.Render(title))
}

// Step announces a long-running step and returns the function that ends it.
func (c *Console) Step(message string) func(done string) {
	if !c.animate {
		emoji.Fprintln(c.out, message)
		return func(done string) {
			if done != "" {
				emoji.Fprintln(c.out, "   :ok: "+done)
			}
		}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(c.out))
	s.Suffix = " " + emoji.Sprint(message)
	_ = s.Color("magenta")
	s.Start()
	return func(done string) {
		s.Stop()
		emoji.Fprintln(c.out, message)
		if done != "" {
			emoji.Fprintln(c.out, "   :ok: "+done)
		}
	}
}

// Info prints a plain status line; emoji codes like :rocket: are expanded.
func (c *Console) Info(message string) {
	emoji.Fprintln(c.out, message)
}

// Warn prints a non-fatal problem.
func (c *Console) Warn(message string) {
	emoji.Fprintln(c.out, ":warning: "+message)
}

// Bytes formats a size for display.
func Bytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// Elapsed formats a duration the way the run summary shows it.
func Elapsed(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

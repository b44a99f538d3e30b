// SPDX-License-Identifier: EPL-2.0

// Package cli renders the styled terminal output of the audstream command.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ik5/audstream/audio"
)

var (
	accentColor  = lipgloss.Color("#5FAFFF")
	successColor = lipgloss.Color("#00AA00")
	errorColor   = lipgloss.Color("#D70000")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)
)

// Printer writes styled lines to Out and errors to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

func (p Printer) Error(err error) {
	fmt.Fprintf(p.Err, "%s %v\n", ErrorStyle.Render("Error:"), err)
}

func (p Printer) Success(message string) {
	fmt.Fprintf(p.Out, "%s %s\n", SuccessStyle.Render("✓"), message)
}

func (p Printer) Section(title string) {
	fmt.Fprintln(p.Out, HeaderStyle.Render(title))
}

func (p Printer) Info(key, value string) {
	fmt.Fprintf(p.Out, "  %s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

// Status prints a one-line playback position, overwriting the previous one.
func (p Printer) Status(pos, total time.Duration) {
	line := FormatDuration(pos)
	if total > 0 {
		line += " / " + FormatDuration(total)
	}
	fmt.Fprintf(p.Out, "\r%s %s", KeyStyle.Render("playing"), ValueStyle.Render(line))
}

// FileInfo is what the info command reports for one input.
type FileInfo struct {
	Path     string
	Kind     audio.Kind
	Format   audio.Format
	Duration time.Duration
	Err      error
}

func (p Printer) FileInfo(fi FileInfo) {
	if fi.Err != nil {
		fmt.Fprintf(p.Out, "%s %s\n  %v\n", ErrorStyle.Render("✗"), fi.Path, fi.Err)
		return
	}

	p.Section(fi.Path)
	p.Info("Format", fi.Kind.String())
	p.Info("Sample rate", fmt.Sprintf("%d Hz", fi.Format.SampleRate))
	p.Info("Channels", fmt.Sprint(fi.Format.Channels))
	p.Info("Bit depth", fmt.Sprintf("%d bit", fi.Format.BitsPerSample))
	p.Info("Streamed", fmt.Sprint(fi.Kind.Streamed()))

	duration := "unknown"
	if fi.Duration > 0 {
		duration = FormatDuration(fi.Duration)
	}
	p.Info("Duration", duration)
}

// FormatDuration renders d as m:ss.t, or milliseconds below a second.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	minutes := int(d / time.Minute)
	seconds := (d % time.Minute).Seconds()

	return fmt.Sprintf("%d:%04.1f", minutes, seconds)
}

// FormatBytes formats a byte count with a binary unit.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

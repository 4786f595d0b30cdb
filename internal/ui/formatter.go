package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/notexe/simfixtures/internal/fixtures"
	"github.com/notexe/simfixtures/internal/ios"
)

var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")). // Green
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")). // Yellow
			Bold(true)
)

type Formatter struct {
	colored bool
}

func NewFormatter(colored bool) *Formatter {
	return &Formatter{colored: colored}
}

func (f *Formatter) render(style lipgloss.Style, s string) string {
	if f.colored {
		return style.Render(s)
	}
	return s
}

func (f *Formatter) FormatError(err error) string {
	return f.render(ErrorStyle, "Error: ") + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	return f.render(InfoStyle, info)
}

// FormatResult renders a provisioning report.
func (f *Formatter) FormatResult(r fixtures.Result) string {
	var b strings.Builder

	b.WriteString(f.render(HeaderStyle, "Device "+r.DeviceID))
	b.WriteString("\n")

	if r.Container == "" {
		b.WriteString(f.render(WarningStyle, "  no app container found, nothing seeded"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(f.render(DimStyle, "  container: "+r.Container))
	b.WriteString("\n")

	for _, c := range r.Copied {
		fmt.Fprintf(&b, "  %s %s -> %s\n", f.render(SuccessStyle, "✓"), c.Source, c.Destination)
	}
	for _, m := range r.Missing {
		fmt.Fprintf(&b, "  %s %s (missing)\n", f.render(ErrorStyle, "✗"), m)
	}

	fmt.Fprintf(&b, "  %d copied, %d missing\n", len(r.Copied), len(r.Missing))
	return b.String()
}

// FormatDevices renders one line per simulator, booted devices highlighted.
func (f *Formatter) FormatDevices(devices []ios.Device) string {
	if len(devices) == 0 {
		return f.render(WarningStyle, "No simulators found") + "\n"
	}

	var b strings.Builder
	for _, d := range devices {
		state := d.State
		switch {
		case d.State == "Booted":
			state = f.render(SuccessStyle, state)
		case !d.IsAvailable:
			state = f.render(DimStyle, "Unavailable")
		}
		fmt.Fprintf(&b, "%-36s  %-24s  %-10s  %s\n", d.UDID, d.Name, d.RuntimeName, state)
	}
	return b.String()
}

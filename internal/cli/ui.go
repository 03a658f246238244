package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bdekoz/izzi/pkg/radial"
)

// Terminal palette, ANSI 256 codes.
var (
	colorAccent = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorAmber  = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleDim   = lipgloss.NewStyle().Foreground(colorDim)

	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)

	// Cache status and promoted table rows.
	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	stylePromoted = lipgloss.NewStyle().Foreground(colorAmber)
)

const (
	iconCached = "cached"
	iconFresh  = "fresh"
)

// statusKind selects the icon and colors of a status line.
type statusKind struct {
	icon string
	icn  lipgloss.Style
	msg  *lipgloss.Style
}

var (
	statusSuccess = statusKind{"✓", lipgloss.NewStyle().Foreground(colorGreen), nil}
	statusError   = statusKind{"✗", lipgloss.NewStyle().Foreground(colorRed), nil}
	statusWarning = statusKind{"!", lipgloss.NewStyle().Foreground(colorAmber), &stylePromoted}
	statusInfo    = statusKind{"›", lipgloss.NewStyle().Foreground(colorGray), nil}
)

func printStatus(k statusKind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if k.msg != nil {
		msg = k.msg.Render(msg)
	}
	fmt.Println(k.icn.Render(k.icon) + " " + msg)
}

func printSuccess(format string, args ...any) { printStatus(statusSuccess, format, args...) }
func printError(format string, args ...any)   { printStatus(statusError, format, args...) }
func printWarning(format string, args ...any) { printStatus(statusWarning, format, args...) }
func printInfo(format string, args ...any)    { printStatus(statusInfo, format, args...) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a path that was written.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleValue.Render(value))
}

// layoutSummary is the one-line summary printed after a layout.
type layoutSummary struct {
	IDs      int
	Promoted int
	Elided   int
	Cached   bool
}

// summarize builds the summary line for a layout computed from ids values.
func summarize(l radial.Layout, ids int, cached bool) layoutSummary {
	s := layoutSummary{IDs: ids, Elided: len(l.Elided), Cached: cached}
	for _, p := range l.Placements {
		if p.Promoted {
			s.Promoted++
		}
	}
	return s
}

// printStats prints layout statistics on a single line.
func printStats(s layoutSummary) {
	fmt.Println(formatStats(s))
}

func formatStats(s layoutSummary) string {
	parts := []string{fmt.Sprintf("%d ids", s.IDs)}
	if s.Promoted > 0 {
		parts = append(parts, fmt.Sprintf("%d promoted", s.Promoted))
	}
	if s.Elided > 0 {
		parts = append(parts, fmt.Sprintf("%d elided", s.Elided))
	}

	status := iconFresh
	statusStyle := styleComputed
	if s.Cached {
		status = iconCached
		statusStyle = styleCached
	}

	sep := StyleDim.Render(" · ")
	return "  " + StyleDim.Render(strings.Join(parts, " · ")) + sep + statusStyle.Render(status)
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }

// writePlacementTable renders one row per placement: identifier, value,
// angle, orbit, satellite radius and label width. Promoted rows are
// highlighted.
func writePlacementTable(w io.Writer, l radial.Layout) error {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(l.Placements))
	for _, p := range l.Placements {
		rows = append(rows, []string{
			p.ID,
			strconv.FormatFloat(p.Value, 'g', -1, 64),
			fmt.Sprintf("%.1f°", p.Angle),
			p.Orbit.String(),
			fmt.Sprintf("%.1f", p.SatelliteRadius),
			fmt.Sprintf("%.1f", p.LabelWidth),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Value", "Angle", "Orbit", "Radius", "Label").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= 0 && row < len(l.Placements) && l.Placements[row].Promoted {
				return cellStyle.Inherit(stylePromoted)
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

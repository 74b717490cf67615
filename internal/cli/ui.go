package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flamelink/pkg/flame"
	"github.com/matzehuels/flamelink/pkg/resolve"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // variation names, headings
	colorGreen  = lipgloss.Color("35")  // success, cache hits
	colorYellow = lipgloss.Color("220") // skipped variations, conflicts
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // suggested commands
	colorWhite  = lipgloss.Color("255") // paths and values
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)

	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// statusIcons maps a status kind to its icon and color.
var statusIcons = map[string]lipgloss.Style{
	"✓": lipgloss.NewStyle().Foreground(colorGreen),
	"✗": lipgloss.NewStyle().Foreground(colorRed),
	"!": lipgloss.NewStyle().Foreground(colorYellow),
	"›": lipgloss.NewStyle().Foreground(colorGray),
}

// statusOut receives every status line. Kernel source written to stdout
// never goes through it.
var statusOut io.Writer = os.Stdout

func status(icon, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if icon == "!" {
		msg = lipgloss.NewStyle().Foreground(colorYellow).Render(msg)
	}
	fmt.Fprintln(statusOut, statusIcons[icon].Render(icon)+" "+msg)
}

func printSuccess(format string, args ...any) { status("✓", format, args...) }
func printError(format string, args ...any)   { status("✗", format, args...) }
func printWarning(format string, args ...any) { status("!", format, args...) }
func printInfo(format string, args ...any)    { status("›", format, args...) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render("→")+" "+styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(statusOut, styleKey.Render(key)+" "+styleValue.Render(value))
}

// printStats prints counts on one line, ending with whether the kernel was
// served from the cache.
func printStats(parts []string, cached bool) {
	tag := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		tag = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	}
	sep := StyleDim.Render(" · ")
	dimmed := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		dimmed = append(dimmed, StyleDim.Render(p))
	}
	fmt.Fprintln(statusOut, "  "+strings.Join(append(dimmed, tag), sep))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Composition Diagnostics
// =============================================================================

// printFlameWarnings lists what the loader skipped, one line each.
func printFlameWarnings(warnings []flame.Warning) {
	for _, w := range warnings {
		printWarning("%s", w.String())
	}
}

// printConflicts lists library ordering conflicts the composer tolerated.
func printConflicts(conflicts []resolve.Conflict) {
	if len(conflicts) == 0 {
		return
	}
	printWarning("%d conflicting library orderings", len(conflicts))
	for _, c := range conflicts {
		printDetail("%s", c.String())
	}
}

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/matzehuels/lockgraph/pkg/deps"
	"github.com/matzehuels/lockgraph/pkg/lockfile"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleOptional = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
	iconPackage = "📦"
	treeBranch  = "├──"
	treeLast    = "└──"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// PrintError prints an error message; main uses it for the final error.
func PrintError(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+msg)
}

func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(20)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Sections
// =============================================================================

const ruleWidth = 27

// printSection prints a "=== TITLE ===" heading.
func printSection(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("=== "+title+" ==="))
}

func printRule(w io.Writer) {
	fmt.Fprintln(w, StyleDim.Render(strings.Repeat("=", ruleWidth)))
	fmt.Fprintln(w)
}

// printSetting prints one "key = value" configuration line.
func printSetting(w io.Writer, key, value string) {
	fmt.Fprintln(w, key+" = "+StyleValue.Render(value))
}

// printDependencies prints "- name: version" per dependency, or a note when
// there are none.
func printDependencies(w io.Writer, ds []deps.Dependency) {
	if len(ds) == 0 {
		fmt.Fprintln(w, StyleDim.Render("(no direct dependencies)"))
		return
	}
	for _, d := range ds {
		fmt.Fprintln(w, "- "+d.Name+": "+depLabel(d))
	}
}

func depLabel(d deps.Dependency) string {
	label := d.Version
	if label == "" {
		label = "*"
	}
	if d.Optional {
		label += " " + styleOptional.Render("(optional)")
	}
	return label
}

// =============================================================================
// Package Output
// =============================================================================

// printPackages prints lockfile entries as a table.
func printPackages(w io.Writer, entries []lockfile.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, StyleDim.Render("(no packages)"))
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Package", "Version", "Dependencies"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Name, e.Version, len(e.Dependencies)})
	}
	t.Render()
}

// printTree prints the package and the dependencies in keep as a one-level
// tree, followed by a total.
func printTree(w io.Writer, name, version string, ds []deps.Dependency, keep []string) {
	kept := make(map[string]bool, len(keep))
	for _, k := range keep {
		kept[k] = true
	}
	var shown []deps.Dependency
	for _, d := range ds {
		if kept[d.Name] {
			shown = append(shown, d)
			delete(kept, d.Name)
		}
	}

	fmt.Fprintln(w, iconPackage+" "+StyleTitle.Render(name)+" "+StyleDim.Render(version))
	for i, d := range shown {
		branch := treeBranch
		if i == len(shown)-1 {
			branch = treeLast
		}
		fmt.Fprintln(w, "    "+StyleDim.Render(branch)+" "+iconPackage+" "+d.Name+" "+depLabel(d))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("Total: %d direct dependencies", len(shown))))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints graph statistics on a single line.
func printStats(w io.Writer, nodeCount, edgeCount int, cached bool) {
	var parts []string
	if nodeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d nodes", nodeCount))
	}
	if edgeCount > 0 {
		parts = append(parts, fmt.Sprintf("%d edges", edgeCount))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	if len(parts) > 0 {
		line += StyleDim.Render(" · ")
	}
	fmt.Fprintln(w, line+statusStyle.Render(status))
}

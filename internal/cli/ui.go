package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
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

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

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

	styleKey    = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
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
)

// =============================================================================
// Console - status output
// =============================================================================

// console prints status lines to w. It is the pipeline's output.Reporter.
type console struct {
	w io.Writer
}

// Success prints a success notice.
func (c *console) Success(msg string) {
	fmt.Fprintln(c.w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// Warning prints a warning notice.
func (c *console) Warning(msg string) {
	fmt.Fprintln(c.w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// Failure prints a failure notice.
func (c *console) Failure(msg string) {
	fmt.Fprintln(c.w, styleIconError.Render(iconError)+" "+msg)
}

// info prints an info/status message.
func (c *console) info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// detail prints a detail line (indented).
func (c *console) detail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.w, "  "+StyleDim.Render(msg))
}

// file prints a file output line.
func (c *console) file(path string) {
	fmt.Fprintln(c.w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// keyValue prints a labeled value.
func (c *console) keyValue(key, value string) {
	fmt.Fprintln(c.w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// stats prints counts on a single line, skipping zeros.
func (c *console) stats(counts ...count) {
	var parts []string
	for _, n := range counts {
		if n.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n.n, n.label))
		}
	}
	if len(parts) == 0 {
		return
	}
	fmt.Fprintln(c.w, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}

type count struct {
	n     int
	label string
}

// newline prints an empty line.
func (c *console) newline() {
	fmt.Fprintln(c.w)
}

// =============================================================================
// Source Preview
// =============================================================================

// source prints generated code highlighted for the terminal. Unknown
// languages and highlighter failures fall back to the plain text.
func (c *console) source(code, language string) {
	var buf strings.Builder
	if err := quick.Highlight(&buf, code, language, "terminal256", "monokai"); err != nil {
		fmt.Fprint(c.w, code)
		return
	}
	fmt.Fprint(c.w, buf.String())
}

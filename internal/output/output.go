// Package output renders CLI results and status lines, colored when the
// destination is a terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	jsoniter "github.com/json-iterator/go"
	"github.com/mattn/go-isatty"
)

// Palette (256-color codes).
const (
	ColorLime     = "154"
	ColorLimeDim  = "106"
	ColorGray     = "245"
	ColorDarkGray = "238"
	ColorRed      = "196"
	ColorYellow   = "220"
)

// DefaultSnippetWidth bounds the rendered text of each hit.
const DefaultSnippetWidth = 96

// Styles holds the lipgloss styles used by Writer.
type Styles struct {
	Header  lipgloss.Style
	Score   lipgloss.Style
	Kind    lipgloss.Style
	Dim     lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles returns the colored styles.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Score:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime)),
		Kind:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLimeDim)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
	}
}

// NoColorStyles returns unstyled components for plain output.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Header: plain, Score: plain, Kind: plain, Dim: plain, Success: plain, Warning: plain, Error: plain}
}

// Hit is one rendered search result.
type Hit struct {
	Rank   int      `json:"rank"`
	Score  float64  `json:"score"`
	ID     string   `json:"id"`
	Kinds  []string `json:"kinds,omitempty"`
	Source string   `json:"source,omitempty"`
	Text   string   `json:"text"`
}

// Writer provides formatted output for the CLI.
type Writer struct {
	out    io.Writer
	styles Styles
	width  int
}

// New creates a Writer, colored only when out is a terminal and NO_COLOR is
// unset.
func New(out io.Writer) *Writer {
	styles := NoColorStyles()
	if IsTTY(out) && !DetectNoColor() {
		styles = DefaultStyles()
	}
	return NewWithStyles(out, styles)
}

// NewWithStyles creates a Writer with explicit styles.
func NewWithStyles(out io.Writer, styles Styles) *Writer {
	return &Writer{out: out, styles: styles, width: DefaultSnippetWidth}
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DetectNoColor checks if the NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// Status prints a message behind an icon. Write errors are ignored.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Success prints a success message.
func (w *Writer) Success(msg string) {
	w.Status(w.styles.Success.Render("ok"), msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status(w.styles.Warning.Render("!!"), msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status(w.styles.Error.Render("xx"), msg)
}

// Header prints a bold heading line.
func (w *Writer) Header(msg string) {
	_, _ = fmt.Fprintln(w.out, w.styles.Header.Render(msg))
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// Hits renders hits as a ranked list, or a notice when empty.
func (w *Writer) Hits(hits []Hit) {
	if len(hits) == 0 {
		_, _ = fmt.Fprintln(w.out, w.styles.Dim.Render("no matches"))
		return
	}

	for _, h := range hits {
		line := fmt.Sprintf("%3d. %s  %s",
			h.Rank,
			w.styles.Score.Render(fmt.Sprintf("%.4f", h.Score)),
			Truncate(oneLine(h.Text), w.width))
		_, _ = fmt.Fprintln(w.out, line)

		var meta []string
		if len(h.Kinds) > 0 {
			meta = append(meta, w.styles.Kind.Render(strings.Join(h.Kinds, " < ")))
		}
		if h.Source != "" {
			meta = append(meta, h.Source)
		}
		meta = append(meta, "id="+h.ID)
		_, _ = fmt.Fprintf(w.out, "     %s\n", w.styles.Dim.Render(strings.Join(meta, "  ")))
	}
}

// JSON writes v as indented JSON.
func (w *Writer) JSON(v any) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Truncate shortens s to at most width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-3]) + "..."
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/example/kita-dienstplan/internal/roster"
)

var (
	colorHeader = lipgloss.Color("#fe8019")
	colorDim    = lipgloss.Color("#928374")

	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleBold   = lipgloss.NewStyle().Bold(true)

	statusStyles = map[roster.Status]lipgloss.Style{
		roster.StatusNormal:   lipgloss.NewStyle().Foreground(lipgloss.Color("#8ec07c")),
		roster.StatusFree:     lipgloss.NewStyle().Foreground(colorDim),
		roster.StatusVacation: lipgloss.NewStyle().Foreground(lipgloss.Color("#83a598")),
		roster.StatusSick:     lipgloss.NewStyle().Foreground(lipgloss.Color("#fb4934")),
		roster.StatusTraining: lipgloss.NewStyle().Foreground(lipgloss.Color("#d3869b")),
	}
)

const columnGap = 2

// printer writes tables and highlights them when the output is a terminal.
type printer struct {
	w      io.Writer
	styled bool
}

func newPrinter(w io.Writer) printer {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return printer{w: w, styled: styled}
}

func (p printer) render(style lipgloss.Style, text string) string {
	if !p.styled || text == "" {
		return text
	}
	return style.Render(text)
}

func (p printer) status(status roster.Status, text string) string {
	style, ok := statusStyles[status]
	if !ok {
		return text
	}
	return p.render(style, text)
}

func (p printer) title(text string) {
	_, _ = io.WriteString(p.w, p.render(styleBold, text)+"\n\n")
}

// table writes an aligned table with a separator under the header. Widths are
// measured on visible characters so styled cells line up.
func (p printer) table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			visible := lipgloss.Width(cell)
			b.WriteString(style(cell))
			if i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-visible+columnGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return p.render(styleHeader, s) })
	separators := make([]string, len(widths))
	for i, w := range widths {
		separators[i] = strings.Repeat("─", w)
	}
	writeRow(separators, func(s string) string { return p.render(styleDim, s) })
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	_, _ = io.WriteString(p.w, b.String())
}

package programs

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/tuidesk/internal/pool"
	"github.com/Gaurav-Gosain/tuidesk/internal/shell"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
)

func textStyle(s shell.Style) lipgloss.Style {
	st := lipgloss.NewStyle()
	switch s {
	case shell.StylePrompt:
		return st.Foreground(theme.TextPrompt()).Bold(true)
	case shell.StyleDirectory:
		return st.Foreground(theme.TextDirectory()).Bold(true)
	case shell.StyleExecutable:
		return st.Foreground(theme.TextExecutable())
	case shell.StyleError:
		return st.Foreground(theme.TextError())
	case shell.StyleAccent:
		return st.Foreground(theme.TextAccent())
	case shell.StyleHeading:
		return st.Foreground(theme.TextHeading()).Bold(true)
	case shell.StyleLabel:
		return st.Foreground(theme.TextLabel()).Bold(true)
	case shell.StyleMuted:
		return st.Foreground(theme.TextMuted())
	default:
		return st.Foreground(theme.ContentFg())
	}
}

func renderLine(l shell.Line) string {
	sb := pool.GetStringBuilder()
	defer pool.PutStringBuilder(sb)
	for _, seg := range l {
		if seg.Text == "" {
			continue
		}
		sb.WriteString(textStyle(seg.Style).Render(seg.Text))
	}
	return sb.String()
}

// wrapRows wraps rendered lines to width and returns the visual rows.
func wrapRows(lines []string, width int) []string {
	if width < 1 {
		width = 1
	}
	rows := make([]string, 0, len(lines))
	for _, l := range lines {
		if l == "" {
			rows = append(rows, "")
			continue
		}
		rows = append(rows, strings.Split(ansi.Wrap(l, width, ""), "\n")...)
	}
	return rows
}

// frame fits rows into a width by height block, truncating and padding.
func frame(rows []string, width, height int) string {
	out := pool.GetRowSlice()
	defer pool.PutRowSlice(out)
	for i := range max(height, 0) {
		line := ""
		if i < len(rows) {
			line = ansi.Truncate(rows[i], width, "…")
		}
		*out = append(*out, pad(line, width))
	}
	return strings.Join(*out, "\n")
}

func pad(s string, width int) string {
	if n := ansi.StringWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// bottom returns the height rows ending scroll rows above the last one.
func bottom(rows []string, height, scroll int) []string {
	end := len(rows) - scroll
	end = max(min(end, len(rows)), 0)
	start := max(end-height, 0)
	return rows[start:end]
}

// clampScroll limits a top-anchored offset to the scrollable range.
func clampScroll(offset, total, height int) int {
	return max(min(offset, total-height), 0)
}

func muted(s string) string   { return textStyle(shell.StyleMuted).Render(s) }
func heading(s string) string { return textStyle(shell.StyleHeading).Render(s) }
func label(s string) string   { return textStyle(shell.StyleLabel).Render(s) }
func accent(s string) string  { return textStyle(shell.StyleAccent).Render(s) }
func errText(s string) string { return textStyle(shell.StyleError).Render(s) }

func success(s string) string {
	return lipgloss.NewStyle().Foreground(theme.NotificationSuccess()).Bold(true).Render(s)
}

// reverse highlights the selected element of a view.
func reverse(s string) string {
	return lipgloss.NewStyle().Reverse(true).Render(s)
}

// inputField renders an editable single line with a block cursor at pos.
func inputField(text []rune, pos, width int, focused bool) string {
	if !focused {
		return ansi.TruncateLeft(string(text), max(len(text)-width, 0), "")
	}
	pos = max(min(pos, len(text)), 0)
	before, at, after := string(text[:pos]), " ", ""
	if pos < len(text) {
		at, after = string(text[pos]), string(text[pos+1:])
	}
	cursor := lipgloss.NewStyle().Reverse(true).Foreground(theme.Cursor()).Render(at)
	line := before + cursor + after
	if w := ansi.StringWidth(before) + 1; w > width {
		line = ansi.TruncateLeft(line, w-width, "")
	}
	return line
}

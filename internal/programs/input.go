package programs

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/tuidesk/internal/program"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
)

// lineEditor is a single-line text input.
type lineEditor struct {
	text []rune
	pos  int
}

func (e *lineEditor) String() string { return string(e.text) }

func (e *lineEditor) Set(s string) {
	e.text = []rune(s)
	e.pos = len(e.text)
}

func (e *lineEditor) Reset() { e.Set("") }

func (e *lineEditor) Insert(s string) {
	r := []rune(s)
	e.text = append(e.text[:e.pos], append(r, e.text[e.pos:]...)...)
	e.pos += len(r)
}

// HandleKey applies cursor movement and editing keys. It reports whether
// k was consumed.
func (e *lineEditor) HandleKey(k program.Key) bool {
	switch k.Name {
	case "left", "ctrl+b":
		e.pos = max(e.pos-1, 0)
	case "right", "ctrl+f":
		e.pos = min(e.pos+1, len(e.text))
	case "home", "ctrl+a":
		e.pos = 0
	case "end", "ctrl+e":
		e.pos = len(e.text)
	case "backspace":
		if e.pos > 0 {
			e.text = append(e.text[:e.pos-1], e.text[e.pos:]...)
			e.pos--
		}
	case "delete", "ctrl+d":
		if e.pos < len(e.text) {
			e.text = append(e.text[:e.pos], e.text[e.pos+1:]...)
		}
	case "ctrl+u":
		e.text = e.text[e.pos:]
		e.pos = 0
	case "ctrl+k":
		e.text = e.text[:e.pos]
	default:
		if k.Text == "" || strings.ContainsAny(k.Text, "\r\n") {
			return false
		}
		e.Insert(k.Text)
	}
	return true
}

// View renders the input into width cells.
func (e *lineEditor) View(width int, focused bool) string {
	return inputField(e.text, e.pos, width, focused)
}

// textArea is a multi-line text input.
type textArea struct {
	lines [][]rune
	row   int
	col   int
	top   int
}

func newTextArea(s string) *textArea {
	t := &textArea{}
	t.Set(s)
	return t
}

func (t *textArea) Set(s string) {
	t.lines = t.lines[:0]
	for _, l := range strings.Split(s, "\n") {
		t.lines = append(t.lines, []rune(l))
	}
	t.row, t.col, t.top = 0, 0, 0
}

func (t *textArea) String() string {
	parts := make([]string, len(t.lines))
	for i, l := range t.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

// Empty reports whether the area only holds whitespace.
func (t *textArea) Empty() bool {
	return strings.TrimSpace(t.String()) == ""
}

func (t *textArea) insert(r []rune) {
	line := t.lines[t.row]
	t.lines[t.row] = append(line[:t.col], append(r, line[t.col:]...)...)
	t.col += len(r)
}

func (t *textArea) newline() {
	line := t.lines[t.row]
	head := append([]rune(nil), line[:t.col]...)
	tail := append([]rune(nil), line[t.col:]...)
	t.lines[t.row] = head
	t.lines = append(t.lines[:t.row+1], append([][]rune{tail}, t.lines[t.row+1:]...)...)
	t.row++
	t.col = 0
}

// HandleKey applies editing keys. It reports whether k was consumed.
func (t *textArea) HandleKey(k program.Key) bool {
	switch k.Name {
	case "enter":
		t.newline()
	case "left":
		if t.col > 0 {
			t.col--
		} else if t.row > 0 {
			t.row--
			t.col = len(t.lines[t.row])
		}
	case "right":
		if t.col < len(t.lines[t.row]) {
			t.col++
		} else if t.row < len(t.lines)-1 {
			t.row++
			t.col = 0
		}
	case "up":
		if t.row > 0 {
			t.row--
			t.col = min(t.col, len(t.lines[t.row]))
		}
	case "down":
		if t.row < len(t.lines)-1 {
			t.row++
			t.col = min(t.col, len(t.lines[t.row]))
		}
	case "home", "ctrl+a":
		t.col = 0
	case "end", "ctrl+e":
		t.col = len(t.lines[t.row])
	case "backspace":
		switch {
		case t.col > 0:
			line := t.lines[t.row]
			t.lines[t.row] = append(line[:t.col-1], line[t.col:]...)
			t.col--
		case t.row > 0:
			prev := t.lines[t.row-1]
			t.col = len(prev)
			t.lines[t.row-1] = append(prev, t.lines[t.row]...)
			t.lines = append(t.lines[:t.row], t.lines[t.row+1:]...)
			t.row--
		}
	case "delete":
		line := t.lines[t.row]
		switch {
		case t.col < len(line):
			t.lines[t.row] = append(line[:t.col], line[t.col+1:]...)
		case t.row < len(t.lines)-1:
			t.lines[t.row] = append(line, t.lines[t.row+1]...)
			t.lines = append(t.lines[:t.row+1], t.lines[t.row+2:]...)
		}
	case "tab":
		t.insert([]rune("    "))
	default:
		if k.Text == "" {
			return false
		}
		for i, part := range strings.Split(strings.ReplaceAll(k.Text, "\r\n", "\n"), "\n") {
			if i > 0 {
				t.newline()
			}
			t.insert([]rune(part))
		}
	}
	return true
}

// View renders the visible part of the area, scrolled to keep the cursor
// on screen.
func (t *textArea) View(width, height int, focused bool) []string {
	if height < 1 {
		return nil
	}
	if t.row < t.top {
		t.top = t.row
	}
	if t.row >= t.top+height {
		t.top = t.row - height + 1
	}
	fg := lipgloss.NewStyle().Foreground(theme.ContentFg())
	rows := make([]string, 0, height)
	for i := t.top; i < len(t.lines) && len(rows) < height; i++ {
		var line string
		if focused && i == t.row {
			line = inputField(t.lines[i], t.col, width, true)
		} else {
			line = fg.Render(ansi.Truncate(string(t.lines[i]), width, ""))
		}
		rows = append(rows, line)
	}
	return rows
}

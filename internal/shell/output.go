package shell

import (
	"strings"
	"sync"
)

// Style classifies a segment of output so the terminal can colour it.
type Style int

const (
	StylePlain Style = iota
	StylePrompt
	StyleDirectory
	StyleExecutable
	StyleFile
	StyleError
	StyleAccent
	StyleHeading
	StyleLabel
	StyleMuted
)

// Segment is a run of text in a single style.
type Segment struct {
	Text  string
	Style Style
}

// Line is one row of terminal output.
type Line []Segment

// String returns the line without styling.
func (l Line) String() string {
	var sb strings.Builder
	for _, s := range l {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Styled returns a single-segment line.
func Styled(text string, style Style) Line {
	return Line{{Text: text, Style: style}}
}

// Plain returns an unstyled line.
func Plain(text string) Line {
	return Styled(text, StylePlain)
}

// Output receives what the interpreter prints. Implementations must be safe
// for concurrent use; fetch writes from its own goroutine.
type Output interface {
	Append(lines ...Line)
	Clear()
	// ShowPrompt displays the input prompt with the given text.
	ShowPrompt(prompt string)
	// HidePrompt suspends input display until the next ShowPrompt.
	HidePrompt()
}

// Buffer is a bounded in-memory Output. When more than max lines are
// appended the oldest are dropped.
type Buffer struct {
	mu            sync.Mutex
	lines         []Line
	max           int
	prompt        string
	promptVisible bool
	version       uint64
}

// NewBuffer returns a buffer keeping at most max lines. max <= 0 means
// unbounded.
func NewBuffer(max int) *Buffer {
	return &Buffer{max: max}
}

func (b *Buffer) Append(lines ...Line) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, lines...)
	if b.max > 0 && len(b.lines) > b.max {
		drop := len(b.lines) - b.max
		b.lines = append(b.lines[:0:0], b.lines[drop:]...)
	}
	b.version++
}

func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
	b.version++
}

func (b *Buffer) ShowPrompt(prompt string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prompt = prompt
	b.promptVisible = true
	b.version++
}

func (b *Buffer) HidePrompt() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.promptVisible = false
	b.version++
}

// Lines returns a copy of the buffered lines.
func (b *Buffer) Lines() []Line {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Line, len(b.lines))
	copy(out, b.lines)
	return out
}

// Prompt returns the prompt text and whether it is shown.
func (b *Buffer) Prompt() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.prompt, b.promptVisible
}

// Version increases on every change.
func (b *Buffer) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// Text returns the buffer as plain text, one line per row.
func (b *Buffer) Text() string {
	lines := b.Lines()
	rows := make([]string, len(lines))
	for i, l := range lines {
		rows[i] = l.String()
	}
	return strings.Join(rows, "\n")
}

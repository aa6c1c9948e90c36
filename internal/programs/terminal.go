package programs

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/tuidesk/internal/program"
	"github.com/Gaurav-Gosain/tuidesk/internal/shell"
)

// Terminal is a window running a shell interpreter.
type Terminal struct {
	inst *program.Instance
	deps *Deps
	buf  *shell.Buffer
	sh   *shell.Interpreter

	mu     sync.Mutex
	input  lineEditor
	scroll int
}

func newTerminal(d *Deps) program.Factory {
	return func(ctx context.Context, inst *program.Instance, _ program.Options) (program.Content, error) {
		cfg := d.Config.Shell
		t := &Terminal{inst: inst, deps: d, buf: shell.NewBuffer(cfg.ScrollbackSize)}

		var fetcher shell.Fetcher
		if d.Web != nil {
			fetcher = d.Web
		}
		t.sh = shell.New(t.buf, shell.Options{
			User:          cfg.User,
			Home:          cfg.Home,
			TerminalID:    inst.ID(),
			SnippetLength: cfg.SnippetLength,
			FetchTimeout:  time.Duration(cfg.FetchTimeout) * time.Second,
			Host:          t,
			Fetcher:       fetcher,
			SysInfo:       d.SysInfo,
			Resolution:    d.Resolution,
			Logger:        d.Logger.WithPrefix("shell"),
		})
		if cfg.Banner {
			t.sh.Reset(ctx)
		} else {
			t.buf.ShowPrompt(t.sh.Prompt())
		}
		return t, nil
	}
}

// Shell returns the interpreter behind the window.
func (t *Terminal) Shell() *shell.Interpreter { return t.sh }

// Output returns the scrollback buffer.
func (t *Terminal) Output() *shell.Buffer { return t.buf }

// Input returns the line being edited.
func (t *Terminal) Input() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.input.String()
}

// Launch opens another program on behalf of the shell.
func (t *Terminal) Launch(ctx context.Context, baseType, url string) error {
	_, err := t.inst.Registry().Launch(ctx, baseType, program.Options{URL: url})
	return err
}

// Exit closes the window.
func (t *Terminal) Exit() {
	t.inst.Close()
}

// Destroy cancels outstanding fetches.
func (t *Terminal) Destroy() {
	t.sh.Close()
}

func (t *Terminal) HandleKey(ctx context.Context, k program.Key) bool {
	switch k.Name {
	case "ctrl+c":
		t.mu.Lock()
		t.input.Reset()
		t.scroll = 0
		t.mu.Unlock()
		if t.sh.Panicked() {
			t.sh.Reset(ctx)
		} else {
			prompt, _ := t.buf.Prompt()
			t.buf.Append(shell.Line{{Text: prompt, Style: shell.StylePrompt}, {Text: " ^C"}})
			t.buf.ShowPrompt(t.sh.Prompt())
		}
		return true
	}

	if t.sh.Panicked() {
		return true
	}

	t.mu.Lock()
	switch k.Name {
	case "enter":
		line := t.input.String()
		t.input.Reset()
		t.scroll = 0
		t.mu.Unlock()
		// A running fetch hides the prompt but does not block the shell.
		t.sh.Submit(ctx, line)
		return true
	case "up":
		if text, ok := t.sh.HistoryPrev(); ok {
			t.input.Set(text)
		}
	case "down":
		if text, ok := t.sh.HistoryNext(); ok {
			t.input.Set(text)
		}
	case "ctrl+l":
		t.mu.Unlock()
		t.clear()
		return true
	case "pgup":
		t.scroll += 5
	case "pgdown":
		t.scroll = max(t.scroll-5, 0)
	default:
		ok := t.input.HandleKey(k)
		if ok {
			t.scroll = 0
		}
		t.mu.Unlock()
		return ok
	}
	t.mu.Unlock()
	return true
}

func (t *Terminal) clear() {
	t.buf.Clear()
	if _, visible := t.buf.Prompt(); visible {
		t.buf.ShowPrompt(t.sh.Prompt())
	}
}

func (t *Terminal) View(width, height int) string {
	lines := t.buf.Lines()
	rendered := make([]string, 0, len(lines)+1)
	for _, l := range lines {
		rendered = append(rendered, renderLine(l))
	}

	t.mu.Lock()
	if prompt, visible := t.buf.Prompt(); visible {
		p := textStyle(shell.StylePrompt).Render(prompt) + " "
		rendered = append(rendered, p+t.input.View(max(width-ansi.StringWidth(prompt)-1, 1), true))
	} else if t.input.String() != "" {
		rendered = append(rendered, t.input.View(width, true))
	}
	rows := wrapRows(rendered, width)
	t.scroll = min(t.scroll, max(len(rows)-height, 0))
	scroll := t.scroll
	t.mu.Unlock()

	return frame(bottom(rows, height, scroll), width, height)
}

func (t *Terminal) Action(ctx context.Context, action string) error {
	switch action {
	case "new-terminal":
		_, err := t.inst.Registry().Launch(ctx, TypeTerminal, program.Options{})
		return err
	case "close-terminal":
		t.inst.Close()
	case "clear-terminal":
		t.clear()
	case "copy":
		t.deps.Clipboard.Copy(t.buf.Text())
		t.deps.Notifier.Notify("Terminal output copied")
	case "paste":
		t.mu.Lock()
		t.input.Insert(sanitizePaste(t.deps.Clipboard.Paste()))
		t.mu.Unlock()
	default:
		return unknownAction(action)
	}
	return nil
}

// sanitizePaste keeps the first line of pasted text.
func sanitizePaste(s string) string {
	for i, r := range s {
		if r == '\n' || r == '\r' {
			return s[:i]
		}
	}
	return s
}

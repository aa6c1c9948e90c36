package programs

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/Gaurav-Gosain/tuidesk/internal/program"
	"github.com/Gaurav-Gosain/tuidesk/internal/shell"
	"github.com/Gaurav-Gosain/tuidesk/internal/vfs"
)

// Documents bundled with the file viewer.
var builtinDocuments = []string{"resume.pdf", "commands.pdf"}

var resumeDocument = []string{
	"# Jane Smith",
	"jane.smith@example.com | (987) 654-3210 | San Francisco, CA",
	"",
	"## Education",
	"B.S. Computer Science, Placeholder University (2012 - 2016)",
	"",
	"## Experience",
	"Senior Software Engineer, Placeholder Corp (2019 - Present)",
	"  • Led the migration of core services to Go.",
	"  • Built the internal deployment tooling.",
	"Software Engineer, Example Inc (2016 - 2019)",
	"  • Worked on the data pipeline and its monitoring.",
	"",
	"## Skills",
	"Go, distributed systems, terminal user interfaces, SQL",
}

// PDFViewer displays simulated documents and plain text files.
type PDFViewer struct {
	inst *program.Instance
	deps *Deps

	mu      sync.Mutex
	file    string
	lines   []string
	scroll  int
	picking bool
	choices []string
	choice  int
}

func newPDFViewer(d *Deps) program.Factory {
	return func(_ context.Context, inst *program.Instance, opts program.Options) (program.Content, error) {
		v := &PDFViewer{inst: inst, deps: d, lines: []string{"PDF Viewer Ready. Open a file."}}
		if opts.File != "" {
			v.Open(opts.File)
		}
		return v, nil
	}
}

// Open displays the document at filePath.
func (v *PDFViewer) Open(filePath string) {
	name := path.Base(filePath)
	lines := v.render(name)
	v.mu.Lock()
	v.file = name
	v.lines = lines
	v.scroll = 0
	v.picking = false
	v.mu.Unlock()
	if v.inst != nil {
		v.inst.SetTitle(name)
	}
}

// File returns the name of the displayed document.
func (v *PDFViewer) File() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.file
}

// Lines returns the document text.
func (v *PDFViewer) Lines() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.lines)
}

func (v *PDFViewer) render(name string) []string {
	lower := strings.ToLower(name)
	switch {
	case name == "resume.pdf":
		return resumeDocument
	case name == "commands.pdf":
		lines := []string{"# Terminal Commands Reference", "", "Available commands:"}
		names := shell.CommandNames()
		slices.Sort(names)
		for _, cmd := range names {
			lines = append(lines, fmt.Sprintf("  • %s: %s", cmd, shell.Describe(cmd)))
		}
		return append(lines, "", "Tip: Use Arrow Keys for command history.")
	case strings.HasSuffix(lower, ".pdf"):
		return []string{"Simulated view of " + name}
	case strings.HasSuffix(lower, ".txt"):
		content, err := v.deps.Store.Read(name)
		if errors.Is(err, vfs.ErrNotFound) {
			return []string{"Placeholder for " + name}
		}
		if err != nil {
			return []string{"Could not read " + name + ": " + err.Error()}
		}
		return strings.Split(content, "\n")
	}
	return []string{"Cannot display file type: " + name}
}

// Pick opens the document chooser.
func (v *PDFViewer) Pick() error {
	names, err := v.deps.Store.List()
	if err != nil {
		return err
	}
	choices := slices.Clone(builtinDocuments)
	for _, n := range names {
		if strings.HasSuffix(strings.ToLower(n), ".pdf") || strings.HasSuffix(strings.ToLower(n), ".txt") {
			choices = append(choices, n)
		}
	}
	v.mu.Lock()
	v.picking = true
	v.choices = choices
	v.choice = 0
	v.mu.Unlock()
	return nil
}

func (v *PDFViewer) HandleKey(_ context.Context, k program.Key) bool {
	if k.Name == "ctrl+o" {
		return v.Pick() == nil
	}
	v.mu.Lock()
	if v.picking {
		switch k.Name {
		case "up", "k":
			v.choice = max(v.choice-1, 0)
		case "down", "j":
			v.choice = min(v.choice+1, len(v.choices)-1)
		case "esc":
			v.picking = false
		case "enter":
			name := v.choices[v.choice]
			v.mu.Unlock()
			v.Open(name)
			return true
		default:
			v.mu.Unlock()
			return false
		}
		v.mu.Unlock()
		return true
	}
	switch k.Name {
	case "up", "k":
		v.scroll = max(v.scroll-1, 0)
	case "down", "j":
		v.scroll++
	case "pgup":
		v.scroll = max(v.scroll-10, 0)
	case "pgdown", "space":
		v.scroll += 10
	default:
		v.mu.Unlock()
		return false
	}
	v.mu.Unlock()
	return true
}

func (v *PDFViewer) Action(_ context.Context, action string) error {
	if action == "open-pdf" {
		return v.Pick()
	}
	return unknownAction(action)
}

func (v *PDFViewer) View(width, height int) string {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.picking {
		rows := []string{heading("Open File"), ""}
		for i, c := range v.choices {
			row := "  " + c
			if i == v.choice {
				row = reverse(pad(row, width))
			}
			rows = append(rows, row)
		}
		rows = append(rows, "", muted("enter open · esc cancel"))
		return frame(rows, width, height)
	}

	styled := make([]string, len(v.lines))
	for i, l := range v.lines {
		switch {
		case strings.HasPrefix(l, "## "):
			styled[i] = label(strings.TrimPrefix(l, "## "))
		case strings.HasPrefix(l, "# "):
			styled[i] = heading(strings.TrimPrefix(l, "# "))
		default:
			styled[i] = l
		}
	}
	rows := wrapRows(styled, width)
	v.scroll = clampScroll(v.scroll, len(rows), height)
	return frame(rows[v.scroll:], width, height)
}

package programs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/go-cmp/cmp"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/menubar"
	"github.com/Gaurav-Gosain/tuidesk/internal/program"
	"github.com/Gaurav-Gosain/tuidesk/internal/surface"
	"github.com/Gaurav-Gosain/tuidesk/internal/sysinfo"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
	"github.com/Gaurav-Gosain/tuidesk/internal/vfs"
	"github.com/Gaurav-Gosain/tuidesk/internal/web"
)

type recorder struct {
	mu      sync.Mutex
	notes   []string
	alerts  []string
	configs []config.Config
}

func (r *recorder) Notify(msg string) {
	r.mu.Lock()
	r.notes = append(r.notes, msg)
	r.mu.Unlock()
}

func (r *recorder) Alert(title, msg string) {
	r.mu.Lock()
	r.alerts = append(r.alerts, title+": "+msg)
	r.mu.Unlock()
}

func (r *recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

func fixedSysInfo(context.Context) (sysinfo.Snapshot, error) {
	return sysinfo.Snapshot{
		Hostname: "testhost", Platform: "linux", Arch: "x86_64",
		CPUModel: "Test CPU", CPUCores: 4,
		MemTotal: 8 << 30, MemUsed: 2 << 30,
	}, nil
}

func testDeps(t *testing.T) (*Deps, *recorder) {
	t.Helper()
	rec := &recorder{}
	cfg := config.DefaultConfig()
	cfg.Shell.Banner = false
	d := &Deps{
		Config:     cfg,
		Store:      vfs.NewMemory(0),
		Notifier:   rec,
		SysInfo:    fixedSysInfo,
		Resolution: func() (int, int) { return 120, 40 },
		OnConfig: func(c config.Config) {
			rec.mu.Lock()
			rec.configs = append(rec.configs, c)
			rec.mu.Unlock()
		},
	}
	d.setDefaults()
	return d, rec
}

func setup(t *testing.T) (*program.Registry, *menubar.Controller, *Deps, *recorder) {
	t.Helper()
	d, rec := testDeps(t)
	reg, menu := register(t, d)
	return reg, menu, d, rec
}

// register builds a registry with the bundled programs using d.
func register(t *testing.T, d *Deps) (*program.Registry, *menubar.Controller) {
	t.Helper()
	reg := program.NewRegistry(surface.NewStack(surface.DefaultBounds()), nil)
	menu := menubar.New(reg, nil)
	reg.SetFocusListener(menu)
	Register(reg, menu, *d)
	t.Cleanup(reg.CloseAll)
	return reg, menu
}

func launch(t *testing.T, reg *program.Registry, baseType string, opts program.Options) *program.Instance {
	t.Helper()
	inst, err := reg.Launch(context.Background(), baseType, opts)
	if err != nil {
		t.Fatal(err)
	}
	if err := inst.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	return inst
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func typeText(ctx context.Context, h program.KeyHandler, s string) {
	for _, r := range s {
		name := string(r)
		if r == ' ' {
			name = "space"
		}
		h.HandleKey(ctx, program.Key{Name: name, Text: string(r)})
	}
}

func press(ctx context.Context, h program.KeyHandler, names ...string) {
	for _, n := range names {
		h.HandleKey(ctx, program.Key{Name: n})
	}
}

func TestTargetURL(t *testing.T) {
	const search = "https://www.google.com/search?q="
	tests := []struct {
		in, want string
	}{
		{"", HomeURL},
		{HomeURL, HomeURL},
		{"https://go.dev", "https://go.dev"},
		{"HTTP://Example.com", "HTTP://Example.com"},
		{"file:///tmp/x", "file:///tmp/x"},
		{"example.com", "https://example.com"},
		{"localhost:8080", "https://localhost:8080"},
		{"golang tutorial", search + "golang+tutorial"},
		{"  spaces.org  ", "https://spaces.org"},
	}
	for _, tt := range tests {
		if got := TargetURL(tt.in, search); got != tt.want {
			t.Errorf("TargetURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func pageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><head><title>Page %s</title></head><body><h1>Hello</h1><p>Path %s</p><a href="/next">next</a></body></html>`, r.URL.Path, r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBrowserHistory(t *testing.T) {
	d, _ := testDeps(t)
	d.Web = web.NewClient(web.DefaultConfig())
	srv := pageServer(t)
	b := NewBrowser(nil, d)
	t.Cleanup(b.Destroy)

	a, bb, c := srv.URL+"/a", srv.URL+"/b", srv.URL+"/c"
	b.NavigateTo(a)
	b.NavigateTo(bb)
	b.NavigateTo(bb)
	b.Wait()

	hist, idx := b.History()
	if diff := cmp.Diff([]string{HomeURL, a, bb}, hist); diff != "" || idx != 2 {
		t.Fatalf("history (-want +got):\n%s index %d", diff, idx)
	}

	if !b.Back() {
		t.Fatal("Back failed")
	}
	b.Wait()
	if got := b.CurrentURL(); got != a {
		t.Errorf("after back at %q, want %q", got, a)
	}
	page, err := b.Page()
	if err != nil || page == nil || page.Title != "Page /a" {
		t.Fatalf("page = %+v, %v", page, err)
	}

	b.NavigateTo(c)
	b.Wait()
	hist, idx = b.History()
	if diff := cmp.Diff([]string{HomeURL, a, c}, hist); diff != "" || idx != 2 {
		t.Errorf("forward history not truncated (-want +got):\n%s", diff)
	}
	if b.Forward() {
		t.Error("Forward succeeded at the newest entry")
	}

	b.Home()
	hist, _ = b.History()
	if hist[len(hist)-1] != HomeURL || b.CurrentURL() != HomeURL {
		t.Errorf("home: history %v current %q", hist, b.CurrentURL())
	}
	b.Reload()
	if b.Loading() {
		t.Error("reload on the home page started a load")
	}
}

func TestBrowserKeys(t *testing.T) {
	d, _ := testDeps(t)
	d.Web = web.NewClient(web.DefaultConfig())
	srv := pageServer(t)
	b := NewBrowser(nil, d)
	t.Cleanup(b.Destroy)
	ctx := context.Background()

	press(ctx, b, "ctrl+l")
	typeText(ctx, b, srv.URL+"/start")
	press(ctx, b, "enter")
	b.Wait()

	page, err := b.Page()
	if err != nil {
		t.Fatal(err)
	}
	if page.Title != "Page /start" {
		t.Errorf("title = %q", page.Title)
	}
	view := ansi.Strip(b.View(60, 20))
	if !strings.Contains(view, "Path /start") || !strings.Contains(view, "[1] next") {
		t.Errorf("view missing page content:\n%s", view)
	}

	press(ctx, b, "tab", "enter")
	b.Wait()
	if got := b.CurrentURL(); got != srv.URL+"/next" {
		t.Errorf("following the link went to %q", got)
	}

	press(ctx, b, "alt+left")
	b.Wait()
	if got := b.CurrentURL(); got != srv.URL+"/start" {
		t.Errorf("back went to %q", got)
	}
}

func TestBrowserLoadError(t *testing.T) {
	d, _ := testDeps(t)
	b := NewBrowser(nil, d)
	b.NavigateTo("example.com")
	b.Wait()
	if _, err := b.Page(); err == nil {
		t.Fatal("expected an error without a web client")
	}
	if view := ansi.Strip(b.View(80, 10)); !strings.Contains(view, "Navigation Error") {
		t.Errorf("view:\n%s", view)
	}
}

func TestTerminalSession(t *testing.T) {
	reg, _, _, _ := setup(t)
	ctx := context.Background()
	inst := launch(t, reg, TypeTerminal, program.Options{})
	term := inst.Content().(*Terminal)

	typeText(ctx, term, "cd Desktop")
	press(ctx, term, "enter")
	typeText(ctx, term, "pwd")
	press(ctx, term, "enter")

	out := term.Output().Text()
	if !strings.Contains(out, "/home/korze/Desktop") {
		t.Errorf("output missing pwd result:\n%s", out)
	}
	if diff := cmp.Diff([]string{"cd Desktop", "pwd"}, term.Shell().History()); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}

	press(ctx, term, "up", "up")
	if got := term.Input(); got != "cd Desktop" {
		t.Errorf("after up/up input = %q", got)
	}
	press(ctx, term, "down")
	if got := term.Input(); got != "pwd" {
		t.Errorf("after down input = %q", got)
	}

	press(ctx, term, "ctrl+l")
	if lines := term.Output().Lines(); len(lines) != 0 {
		t.Errorf("ctrl+l left %d lines", len(lines))
	}
	view := ansi.Strip(term.View(40, 5))
	if !strings.Contains(view, "/home/korze/Desktop $ pwd") {
		t.Errorf("prompt with pending input not rendered:\n%s", view)
	}
}

func TestTerminalAcceptsInputDuringFetch(t *testing.T) {
	d, _ := testDeps(t)
	d.Web = web.NewClient(web.DefaultConfig())
	reg, _ := register(t, d)

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		fmt.Fprint(w, "slow body")
	}))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	term := launch(t, reg, TypeTerminal, program.Options{}).Content().(*Terminal)

	typeText(ctx, term, "fetch "+srv.URL)
	press(ctx, term, "enter")
	if _, visible := term.Output().Prompt(); visible {
		t.Fatal("prompt visible while fetching")
	}

	typeText(ctx, term, "pwd")
	view := ansi.Strip(term.View(60, 10))
	if !strings.Contains(view, "pwd") {
		t.Errorf("input typed during fetch not rendered:\n%s", view)
	}
	press(ctx, term, "enter")
	if got := term.Input(); got != "" {
		t.Errorf("input after enter = %q", got)
	}

	close(release)
	term.Shell().Wait()

	if diff := cmp.Diff([]string{"fetch " + srv.URL, "pwd"}, term.Shell().History()); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
	out := term.Output().Text()
	for _, want := range []string{"$ pwd", "/home/korze\n", "slow body"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if _, visible := term.Output().Prompt(); !visible {
		t.Error("prompt not restored after fetch")
	}
}

func TestTerminalInputWidthWithWidePrompt(t *testing.T) {
	d, _ := testDeps(t)
	d.Config.Shell.Home = "/home/日本語"
	reg, _ := register(t, d)
	ctx := context.Background()
	term := launch(t, reg, TypeTerminal, program.Options{}).Content().(*Terminal)

	prompt := term.Shell().Prompt()
	if !strings.Contains(prompt, "日本語") {
		t.Fatalf("prompt = %q", prompt)
	}
	const width = 40
	typeText(ctx, term, strings.Repeat("x", width))
	rows := strings.Split(ansi.Strip(term.View(width, 3)), "\n")
	last := rows[len(rows)-1]
	if !strings.HasPrefix(last, prompt+" ") {
		t.Fatalf("prompt row = %q, want it to start with %q", last, prompt)
	}
	// The input fills the row after the prompt and a space, less the
	// cursor cell.
	want := width - ansi.StringWidth(prompt) - 2
	if got := strings.Count(last, "x"); got != want {
		t.Errorf("input shows %d cells in %q, want %d", got, last, want)
	}
}

func TestTerminalKernelPanic(t *testing.T) {
	reg, _, _, _ := setup(t)
	ctx := context.Background()
	term := launch(t, reg, TypeTerminal, program.Options{}).Content().(*Terminal)

	typeText(ctx, term, "sudo rm -rf /")
	press(ctx, term, "enter")
	if !term.Shell().Panicked() {
		t.Fatal("expected a simulated panic")
	}
	typeText(ctx, term, "ls")
	press(ctx, term, "enter")
	if got := term.Input(); got != "" {
		t.Errorf("input accepted while panicked: %q", got)
	}
	press(ctx, term, "ctrl+c")
	if term.Shell().Panicked() {
		t.Error("ctrl+c did not reset the terminal")
	}
}

func TestTerminalLaunchesAndExits(t *testing.T) {
	reg, _, _, _ := setup(t)
	ctx := context.Background()
	inst := launch(t, reg, TypeTerminal, program.Options{})
	term := inst.Content().(*Terminal)

	typeText(ctx, term, "mail")
	press(ctx, term, "enter")
	waitFor(t, "mail window", func() bool { return len(reg.InstancesByType(TypeMail)) == 1 })

	typeText(ctx, term, "exit")
	press(ctx, term, "enter")
	if reg.Instance(inst.ID()) != nil {
		t.Error("exit left the terminal registered")
	}
}

func TestTerminalActions(t *testing.T) {
	reg, menu, d, _ := setup(t)
	ctx := context.Background()
	if err := menu.Activate(ctx, "show-terminal"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "terminal focus", func() bool { return menu.Current() == TypeTerminal })
	term := reg.FocusedInstance().Content().(*Terminal)

	typeText(ctx, term, "whoami")
	press(ctx, term, "enter")
	if err := menu.Activate(ctx, "copy"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(d.Clipboard.Paste(), "korze") {
		t.Errorf("clipboard = %q", d.Clipboard.Paste())
	}

	d.Clipboard.Copy("echo one\necho two")
	if err := menu.Activate(ctx, "paste"); err != nil {
		t.Fatal(err)
	}
	if got := term.Input(); got != "echo one" {
		t.Errorf("pasted input = %q", got)
	}

	if err := menu.Activate(ctx, "new-terminal"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "second terminal", func() bool { return len(reg.InstancesByType(TypeTerminal)) == 2 })

	if err := menu.Activate(ctx, "bogus"); !errors.Is(err, menubar.ErrUnknownAction) {
		t.Errorf("bogus action = %v", err)
	}
}

func TestMailSend(t *testing.T) {
	d, rec := testDeps(t)
	m := NewMail(d)
	m.sendDelay, m.clearDelay = time.Millisecond, time.Millisecond
	t.Cleanup(m.Destroy)

	if err := m.Send(); !errors.Is(err, ErrIncompleteMail) {
		t.Fatalf("Send on empty draft = %v", err)
	}
	if len(rec.Alerts()) != 1 {
		t.Errorf("alerts = %v", rec.Alerts())
	}
	if m.Recipient() != "korze84@gmail.com" {
		t.Errorf("recipient = %q", m.Recipient())
	}

	ctx := context.Background()
	typeText(ctx, m, "Hello")
	press(ctx, m, "tab")
	typeText(ctx, m, "Body text")
	if subject, body := m.Draft(); subject != "Hello" || body != "Body text" {
		t.Fatalf("draft = %q, %q", subject, body)
	}

	press(ctx, m, "ctrl+s")
	waitFor(t, "mail sent and cleared", func() bool {
		subject, body := m.Draft()
		return subject == "" && body == "" && m.Status() == ""
	})
}

func TestMailDestroyStopsTimers(t *testing.T) {
	d, _ := testDeps(t)
	m := NewMail(d)
	m.sendDelay = 20 * time.Millisecond
	m.SetDraft("s", "b")
	if err := m.Send(); err != nil {
		t.Fatal(err)
	}
	if m.Status() != "Sending email..." {
		t.Errorf("status = %q", m.Status())
	}
	m.Destroy()
	time.Sleep(50 * time.Millisecond)
	if subject, _ := m.Draft(); subject != "s" {
		t.Error("timer fired after Destroy")
	}
}

func TestSettingsPersistsTheme(t *testing.T) {
	t.Cleanup(func() { theme.Set("") })
	d, rec := testDeps(t)
	d.ConfigPath = filepath.Join(t.TempDir(), "config.toml")
	s := NewSettings(d)

	if err := s.ApplyTheme("dracula"); err != nil {
		t.Fatal(err)
	}
	if !theme.IsEnabled() {
		t.Error("theme not applied")
	}
	saved, err := config.Load(d.ConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Appearance.Theme != theme.Name() {
		t.Errorf("saved theme %q, active %q", saved.Appearance.Theme, theme.Name())
	}

	items := s.items()
	clock := len(items) - 2
	if err := s.Toggle(clock); err != nil {
		t.Fatal(err)
	}
	if s.Config().Appearance.ShowClock {
		t.Error("show clock not toggled off")
	}
	rec.mu.Lock()
	n := len(rec.configs)
	rec.mu.Unlock()
	if n != 2 {
		t.Errorf("OnConfig called %d times, want 2", n)
	}
}

func TestSettingsKeys(t *testing.T) {
	t.Cleanup(func() { theme.Set("") })
	d, _ := testDeps(t)
	s := NewSettings(d)
	ctx := context.Background()

	press(ctx, s, "down", "enter")
	if got := s.Config().Appearance.Theme; got != theme.Available[0] {
		t.Errorf("theme = %q, want %q", got, theme.Available[0])
	}
	press(ctx, s, "up", "enter")
	if theme.IsEnabled() {
		t.Error("selecting terminal colors should disable theming")
	}
	if view := ansi.Strip(s.View(50, 40)); !strings.Contains(view, "(•) Terminal colors") {
		t.Errorf("view:\n%s", view)
	}
}

func TestEditor(t *testing.T) {
	reg, _, d, rec := setup(t)
	ctx := context.Background()
	if err := d.Store.Write("notes.txt", "first"); err != nil {
		t.Fatal(err)
	}

	inst := launch(t, reg, TypeEditor, program.Options{File: "notes.txt"})
	ed := inst.Content().(*Editor)
	if ed.Text() != "first" || inst.Title() != "notes.txt - Text Editor" {
		t.Fatalf("text %q title %q", ed.Text(), inst.Title())
	}

	press(ctx, ed, "end")
	typeText(ctx, ed, " line")
	if !ed.Modified() || inst.Title() != "notes.txt* - Text Editor" {
		t.Errorf("modified %v title %q", ed.Modified(), inst.Title())
	}
	press(ctx, ed, "ctrl+s")
	if got, _ := d.Store.Read("notes.txt"); got != "first line" {
		t.Errorf("stored %q", got)
	}

	typeText(ctx, ed, "!!")
	if err := ed.Revert(); err != nil {
		t.Fatal(err)
	}
	if ed.Text() != "first line" || ed.Modified() {
		t.Errorf("revert: %q modified=%v", ed.Text(), ed.Modified())
	}

	if err := ed.Delete(); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Store.Read("notes.txt"); !errors.Is(err, vfs.ErrNotFound) {
		t.Errorf("file still stored: %v", err)
	}
	if reg.Instance(inst.ID()) != nil {
		t.Error("delete left the window open")
	}
	if len(rec.Alerts()) != 0 {
		t.Errorf("unexpected alerts %v", rec.Alerts())
	}
}

func TestEditorSaveFailureAlerts(t *testing.T) {
	d, rec := testDeps(t)
	d.Store = vfs.NewMemory(16)
	ed := &Editor{deps: d, file: "big.txt", area: newTextArea(strings.Repeat("x", 64))}

	err := ed.Save()
	if !errors.Is(err, vfs.ErrQuotaExceeded) {
		t.Fatalf("Save = %v, want quota error", err)
	}
	alerts := rec.Alerts()
	if len(alerts) != 1 || !strings.HasPrefix(alerts[0], "Storage Error: ") {
		t.Errorf("alerts = %v", alerts)
	}
}

func TestNewFileFromDesktopMenu(t *testing.T) {
	reg, menu, d, _ := setup(t)
	ctx := context.Background()

	for i := range 2 {
		if err := menu.Activate(ctx, "new-file"); err != nil {
			t.Fatal(err)
		}
		waitFor(t, "editor focus", func() bool {
			return menu.Current() == TypeEditor && len(reg.InstancesByType(TypeEditor)) == i+1
		})
		reg.SetFocusedInstance("")
	}
	names, err := d.Store.List()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"untitled-2.txt", "untitled.txt"}, names); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}
}

func TestPDFViewer(t *testing.T) {
	reg, _, d, _ := setup(t)
	if err := d.Store.Write("todo.txt", "buy milk\ncall home"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		file string
		want string
	}{
		{"commands.pdf", "  • ls: List directory contents"},
		{"resume.pdf", "# Jane Smith"},
		{"other.pdf", "Simulated view of other.pdf"},
		{"todo.txt", "call home"},
		{"missing.txt", "Placeholder for missing.txt"},
		{"image.png", "Cannot display file type: image.png"},
	}
	for _, tt := range tests {
		inst := launch(t, reg, TypePDFViewer, program.Options{File: tt.file})
		v := inst.Content().(*PDFViewer)
		if !contains(v.Lines(), tt.want) {
			t.Errorf("%s: lines %q missing %q", tt.file, v.Lines(), tt.want)
		}
		if v.File() != tt.file || inst.Title() != tt.file {
			t.Errorf("%s: file %q title %q", tt.file, v.File(), inst.Title())
		}
	}
}

func TestOpenFileRoutesByExtension(t *testing.T) {
	reg, _, _, _ := setup(t)
	ctx := context.Background()
	for name, want := range map[string]string{
		"resume.pdf": TypePDFViewer,
		"SCAN.PDF":   TypePDFViewer,
		"notes.txt":  TypeEditor,
		"README":     TypeEditor,
	} {
		inst, err := OpenFile(ctx, reg, name)
		if err != nil {
			t.Fatal(err)
		}
		if inst.BaseType() != want {
			t.Errorf("OpenFile(%q) launched %s, want %s", name, inst.BaseType(), want)
		}
	}
}

func TestPDFViewerPicker(t *testing.T) {
	reg, _, _, _ := setup(t)
	ctx := context.Background()
	v := launch(t, reg, TypePDFViewer, program.Options{}).Content().(*PDFViewer)

	if err := v.Action(ctx, "open-pdf"); err != nil {
		t.Fatal(err)
	}
	press(ctx, v, "down", "enter")
	if v.File() != "commands.pdf" {
		t.Errorf("picked %q", v.File())
	}
}

func TestAbout(t *testing.T) {
	reg, _, _, _ := setup(t)
	launch(t, reg, TypeTerminal, program.Options{})
	about := launch(t, reg, TypeAbout, program.Options{}).Content().(*About)

	lines := about.Lines()
	for _, want := range []string{
		"  Total Memory    8.0GiB",
		"  Cores           4",
		"  Open Windows    2",
		"    terminal      1",
	} {
		if !contains(lines, want) {
			t.Errorf("missing %q in:\n%s", want, strings.Join(lines, "\n"))
		}
	}
}

func contains(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}

func TestLineEditor(t *testing.T) {
	var e lineEditor
	for _, k := range []program.Key{
		{Name: "a", Text: "a"}, {Name: "c", Text: "c"}, {Name: "left"},
		{Name: "b", Text: "b"}, {Name: "end"}, {Name: "backspace"},
		{Name: "home"}, {Name: "delete"}, {Name: "x", Text: "x"},
	} {
		e.HandleKey(k)
	}
	if got := e.String(); got != "xb" {
		t.Errorf("line = %q, want %q", got, "xb")
	}
	if e.HandleKey(program.Key{Name: "enter", Text: "\n"}) {
		t.Error("enter consumed by a line editor")
	}
}

func TestTextArea(t *testing.T) {
	ta := newTextArea("ab\ncd")
	for _, k := range []program.Key{
		{Name: "end"}, {Name: "enter"}, {Name: "x", Text: "x"},
		{Name: "down"}, {Name: "home"}, {Name: "backspace"},
	} {
		ta.HandleKey(k)
	}
	if got, want := ta.String(), "ab\nxcd"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
	ta.HandleKey(program.Key{Name: "paste", Text: "1\n2"})
	if got, want := ta.String(), "ab\nx1\n2cd"; got != want {
		t.Errorf("after paste = %q, want %q", got, want)
	}
}

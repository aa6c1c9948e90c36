package programs

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/Gaurav-Gosain/tuidesk/internal/program"
	"github.com/Gaurav-Gosain/tuidesk/internal/web"
)

// HomeURL is the history entry of the built-in start page.
const HomeURL = "about:home"

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// TargetURL turns address bar input into the location to load: full URLs
// are kept, host-like input gets https:// and anything else becomes a
// search.
func TargetURL(input, searchURL string) string {
	input = strings.TrimSpace(input)
	switch {
	case input == "" || input == HomeURL:
		return HomeURL
	case schemeRe.MatchString(input), strings.HasPrefix(input, "file://"):
		return input
	case strings.Contains(input, "."), strings.HasPrefix(input, "localhost"):
		return "https://" + input
	}
	return searchURL + url.QueryEscape(input)
}

type pageState int

const (
	pageHome pageState = iota
	pageLoading
	pageLoaded
	pageError
)

// Browser is a text-mode web browser window.
type Browser struct {
	inst *program.Instance
	deps *Deps

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	history  []string
	index    int
	current  string
	state    pageState
	page     *web.Page
	err      error
	gen      uint64
	editing  bool
	address  lineEditor
	selected int
	scroll   int
}

func newBrowser(d *Deps) program.Factory {
	return func(_ context.Context, inst *program.Instance, opts program.Options) (program.Content, error) {
		b := NewBrowser(inst, d)
		if opts.URL != "" {
			b.NavigateTo(opts.URL)
		}
		return b, nil
	}
}

// NewBrowser returns a browser showing the home page.
func NewBrowser(inst *program.Instance, d *Deps) *Browser {
	ctx, cancel := context.WithCancel(context.Background())
	return &Browser{
		inst:     inst,
		deps:     d,
		ctx:      ctx,
		cancel:   cancel,
		history:  []string{HomeURL},
		current:  HomeURL,
		selected: -1,
	}
}

// NavigateTo opens input as a new history entry, discarding any forward
// history. Navigating to the current entry again does not grow history.
func (b *Browser) NavigateTo(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		input = HomeURL
	}
	b.mu.Lock()
	if b.index < len(b.history)-1 {
		b.history = b.history[:b.index+1]
	}
	if b.history[b.index] != input {
		b.history = append(b.history, input)
		b.index = len(b.history) - 1
	}
	b.mu.Unlock()
	b.load(input)
}

// Back goes to the previous history entry.
func (b *Browser) Back() bool {
	return b.step(-1)
}

// Forward goes to the next history entry.
func (b *Browser) Forward() bool {
	return b.step(1)
}

func (b *Browser) step(delta int) bool {
	b.mu.Lock()
	i := b.index + delta
	if i < 0 || i >= len(b.history) {
		b.mu.Unlock()
		return false
	}
	b.index = i
	entry := b.history[i]
	b.mu.Unlock()
	b.load(entry)
	return true
}

// Home shows the start page.
func (b *Browser) Home() {
	b.NavigateTo(HomeURL)
}

// Reload fetches the current entry again. It does nothing on the home page.
func (b *Browser) Reload() {
	b.mu.Lock()
	entry := b.history[b.index]
	b.mu.Unlock()
	if entry == HomeURL {
		return
	}
	b.load(entry)
}

// History returns the history entries and the current index.
func (b *Browser) History() ([]string, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.history...), b.index
}

// CurrentURL returns the location being displayed.
func (b *Browser) CurrentURL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Page returns the loaded page, nil on the home page or while loading.
func (b *Browser) Page() (*web.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.page, b.err
}

// Loading reports whether a page load is in flight.
func (b *Browser) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == pageLoading
}

// Wait blocks until in-flight page loads finish.
func (b *Browser) Wait() { b.wg.Wait() }

func (b *Browser) load(entry string) {
	target := TargetURL(entry, b.deps.Config.Programs.SearchURL)

	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.current = target
	b.page, b.err = nil, nil
	b.selected, b.scroll = -1, 0
	b.editing = false
	if target == HomeURL {
		b.state = pageHome
		b.mu.Unlock()
		b.setTitle("Browser")
		return
	}
	b.state = pageLoading
	b.mu.Unlock()
	b.setTitle(target + " - Browser")

	if b.deps.Web == nil {
		b.finish(gen, nil, fmt.Errorf("networking is not available"))
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		page, err := b.deps.Web.Browse(b.ctx, target)
		b.finish(gen, page, err)
	}()
}

func (b *Browser) finish(gen uint64, page *web.Page, err error) {
	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		return
	}
	b.page, b.err = page, err
	title := ""
	if err != nil {
		b.state = pageError
		b.deps.Logger.Warn("page load failed", "url", b.current, "err", err)
	} else {
		b.state = pageLoaded
		b.current = page.URL
		title = page.Title
	}
	b.mu.Unlock()
	if title != "" {
		b.setTitle(title + " - Browser")
	}
}

func (b *Browser) setTitle(title string) {
	if b.inst != nil {
		b.inst.SetTitle(title)
	}
}

// Destroy cancels in-flight page loads.
func (b *Browser) Destroy() {
	b.cancel()
	b.wg.Wait()
}

func (b *Browser) bookmarks() []web.Link {
	return []web.Link{
		{Text: "korze.org", Href: b.deps.Config.Programs.BrowserHome},
		{Text: "The Go Programming Language", Href: "https://go.dev"},
		{Text: "Go Packages", Href: "https://pkg.go.dev"},
		{Text: "Hacker News", Href: "https://news.ycombinator.com"},
	}
}

// linksLocked returns the selectable links of the current view.
func (b *Browser) linksLocked() []web.Link {
	switch b.state {
	case pageHome:
		return b.bookmarks()
	case pageLoaded:
		return b.page.Links
	}
	return nil
}

func (b *Browser) HandleKey(_ context.Context, k program.Key) bool {
	b.mu.Lock()
	if b.editing {
		switch k.Name {
		case "enter":
			input := b.address.String()
			b.editing = false
			b.mu.Unlock()
			if strings.TrimSpace(input) != "" {
				b.NavigateTo(input)
			}
			return true
		case "esc":
			b.editing = false
			b.mu.Unlock()
			return true
		}
		ok := b.address.HandleKey(k)
		b.mu.Unlock()
		return ok
	}

	links := b.linksLocked()
	switch k.Name {
	case "ctrl+l", "/":
		b.editing = true
		if b.current == HomeURL {
			b.address.Reset()
		} else {
			b.address.Set(b.current)
		}
	case "tab", "shift+tab":
		if len(links) == 0 {
			break
		}
		if k.Name == "tab" {
			b.selected = (b.selected + 1) % len(links)
		} else {
			b.selected = (b.selected - 1 + len(links)) % len(links)
		}
	case "enter":
		if b.selected < 0 || b.selected >= len(links) {
			break
		}
		href := links[b.selected].Href
		b.mu.Unlock()
		b.NavigateTo(href)
		return true
	case "up", "k":
		b.scroll = max(b.scroll-1, 0)
	case "down", "j":
		b.scroll++
	case "pgup":
		b.scroll = max(b.scroll-10, 0)
	case "pgdown", "space":
		b.scroll += 10
	case "alt+left", "backspace":
		b.mu.Unlock()
		b.Back()
		return true
	case "alt+right":
		b.mu.Unlock()
		b.Forward()
		return true
	case "ctrl+r", "f5":
		b.mu.Unlock()
		b.Reload()
		return true
	default:
		b.mu.Unlock()
		return false
	}
	b.mu.Unlock()
	return true
}

func (b *Browser) Action(ctx context.Context, action string) error {
	switch action {
	case "new-tab":
		_, err := b.inst.Registry().Launch(ctx, TypeBrowser, program.Options{})
		return err
	case "reload-page":
		b.Reload()
	case "go-back":
		b.Back()
	case "go-forward":
		b.Forward()
	case "go-home":
		b.Home()
	default:
		return unknownAction(action)
	}
	return nil
}

func (b *Browser) View(width, height int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	back, fwd := "◀", "▶"
	if b.index == 0 {
		back = muted(back)
	}
	if b.index >= len(b.history)-1 {
		fwd = muted(fwd)
	}
	nav := back + " " + fwd + " ⟳ ⌂ "
	barWidth := max(width-6, 1)
	var addr string
	switch {
	case b.editing:
		addr = b.address.View(barWidth, true)
	case b.current == HomeURL:
		addr = muted("Search or enter address")
	default:
		addr = b.current
	}

	rows := []string{nav + addr, muted(strings.Repeat("─", width))}
	body := b.bodyLocked(width)
	visible := max(height-len(rows), 0)
	b.scroll = clampScroll(b.scroll, len(body), visible)
	rows = append(rows, body[b.scroll:]...)
	return frame(rows, width, height)
}

func (b *Browser) bodyLocked(width int) []string {
	var lines []string
	switch b.state {
	case pageHome:
		lines = append(lines, "", heading("korzeOS Browser"), "",
			"Press ctrl+l to enter an address or a search.", "", label("Bookmarks"))
		for i, l := range b.bookmarks() {
			lines = append(lines, b.linkRow(i, l))
		}
	case pageLoading:
		lines = append(lines, "", muted("Loading "+b.current+" ..."))
	case pageError:
		lines = append(lines, "", errText("Navigation Error"), "",
			fmt.Sprintf("Could not load %s: %v", b.current, b.err), "",
			muted("Press alt+left to go back, or use View > Home."))
	case pageLoaded:
		if b.page.StatusCode >= 400 {
			lines = append(lines, errText(fmt.Sprintf("HTTP %d", b.page.StatusCode)), "")
		}
		for _, l := range b.page.Lines {
			if strings.HasPrefix(l, "# ") {
				l = heading(l)
			}
			lines = append(lines, l)
		}
		if len(b.page.Links) > 0 {
			lines = append(lines, "", label("Links"))
			for i, l := range b.page.Links {
				lines = append(lines, b.linkRow(i, l))
			}
		}
	}
	return wrapRows(lines, width)
}

func (b *Browser) linkRow(i int, l web.Link) string {
	text := l.Text
	if text == "" {
		text = l.Href
	}
	row := fmt.Sprintf("[%d] %s", i+1, text)
	if i == b.selected {
		return reverse(row)
	}
	return accent(row)
}

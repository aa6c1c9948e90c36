// Package shell implements the simulated command line that runs inside
// terminal windows: a private virtual tree, a current directory, history
// and a fixed table of built-in commands.
package shell

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/sysinfo"
	"github.com/Gaurav-Gosain/tuidesk/internal/web"
)

const panicCommand = "sudo rm -rf /"

// Host is the window hosting the interpreter.
type Host interface {
	// Launch opens another program, optionally at url.
	Launch(ctx context.Context, baseType, url string) error
	// Exit closes the hosting window.
	Exit()
}

// Fetcher performs the GET behind the fetch command.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*web.Response, error)
}

// Options configures an Interpreter. Zero fields take defaults.
type Options struct {
	User          string
	Home          string
	TerminalID    string
	SnippetLength int
	FetchTimeout  time.Duration

	Host    Host
	Fetcher Fetcher
	SysInfo func(context.Context) (sysinfo.Snapshot, error)
	// Resolution reports the desktop size for neofetch.
	Resolution func() (width, height int)
	Logger     *log.Logger
}

// Interpreter is one shell session. Execute and Submit are meant to be
// called from a single goroutine; output may be produced concurrently by
// outstanding fetches.
type Interpreter struct {
	opts Options
	out  Output

	mu        sync.Mutex
	tree      *Node
	cwd       string
	history   []string
	cursor    int
	panicked  bool
	commands  map[string]command
	inflight  sync.WaitGroup
	pending   int
	baseCtx   context.Context
	cancelAll context.CancelFunc
}

// New returns an interpreter writing to out, starting in the home
// directory.
func New(out Output, opts Options) *Interpreter {
	if opts.User == "" {
		opts.User = "korze"
	}
	if opts.Home == "" {
		opts.Home = "/home/" + opts.User
	}
	opts.Home = Resolve("/", opts.Home)
	if opts.SnippetLength <= 0 {
		opts.SnippetLength = 500
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	if opts.SysInfo == nil {
		opts.SysInfo = sysinfo.Collect
	}
	opts.Logger = logging.OrDiscard(opts.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	i := &Interpreter{
		opts:      opts,
		out:       out,
		cwd:       opts.Home,
		commands:  builtins(),
		baseCtx:   ctx,
		cancelAll: cancel,
	}
	i.tree = DefaultTree(opts.User, opts.Home, CommandNames())
	return i
}

// Prompt returns the prompt text, e.g. "/home/korze $".
func (i *Interpreter) Prompt() string {
	return i.PrintWorkingDirectory() + " $"
}

// Reset clears the screen, prints the system banner and shows the prompt.
// It also recovers from a simulated kernel panic.
func (i *Interpreter) Reset(ctx context.Context) {
	i.mu.Lock()
	i.panicked = false
	i.mu.Unlock()

	i.out.Clear()
	i.out.Append(i.neofetch(ctx)...)
	i.out.Append(Line{})
	i.out.ShowPrompt(i.Prompt())
}

// Submit handles an entered line: it echoes it after the prompt, records
// it in history and executes it.
func (i *Interpreter) Submit(ctx context.Context, line string) {
	cmd := strings.TrimSpace(line)

	i.mu.Lock()
	if i.panicked {
		i.mu.Unlock()
		return
	}
	prompt := i.cwd + " $"
	if cmd != "" {
		i.history = append(i.history, cmd)
		i.cursor = len(i.history)
	}
	i.mu.Unlock()

	i.out.Append(Line{{Text: prompt, Style: StylePrompt}, {Text: " " + cmd}})
	if cmd == "" {
		i.out.ShowPrompt(prompt)
		return
	}
	i.Execute(ctx, cmd)
}

// Execute runs one command line. The prompt is shown again afterwards
// unless the command suspends it (fetch until it completes, exit, the
// kernel panic).
func (i *Interpreter) Execute(ctx context.Context, line string) {
	if strings.TrimSpace(line) == panicCommand {
		i.opts.Logger.Warn("simulated kernel panic", "terminal", i.opts.TerminalID)
		i.mu.Lock()
		i.panicked = true
		i.mu.Unlock()
		i.out.Clear()
		i.out.HidePrompt()
		i.out.Append(Styled("*** KERNEL PANIC (SIMULATED) ***", StyleError))
		return
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		i.out.ShowPrompt(i.Prompt())
		return
	}

	name, args := fields[0], fields[1:]
	cmd, ok := i.commands[name]
	if !ok {
		i.out.Append(Styled(name+": command not found", StyleError))
		i.out.ShowPrompt(i.Prompt())
		return
	}

	i.opts.Logger.Debug("execute", "terminal", i.opts.TerminalID, "cmd", name, "args", args)
	if suspended := cmd.run(ctx, i, args); !suspended {
		i.out.ShowPrompt(i.Prompt())
	}
}

// HistoryPrev moves the history cursor back. ok is false when the input
// should be left as is.
func (i *Interpreter) HistoryPrev() (text string, ok bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.cursor == 0 {
		return "", false
	}
	i.cursor--
	return i.history[i.cursor], true
}

// HistoryNext moves the history cursor forward, yielding an empty line
// once it passes the newest entry.
func (i *Interpreter) HistoryNext() (text string, ok bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	switch {
	case i.cursor < len(i.history)-1:
		i.cursor++
		return i.history[i.cursor], true
	case i.cursor == len(i.history)-1:
		i.cursor++
		return "", true
	}
	return "", false
}

// History returns a copy of the entered commands.
func (i *Interpreter) History() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.history...)
}

// Panicked reports whether the simulated kernel panic is on screen.
func (i *Interpreter) Panicked() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.panicked
}

// Busy reports whether an asynchronous command is still running.
func (i *Interpreter) Busy() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.pending > 0
}

// Wait blocks until outstanding asynchronous commands finish.
func (i *Interpreter) Wait() {
	i.inflight.Wait()
}

// Close cancels outstanding asynchronous commands and waits for them.
func (i *Interpreter) Close() {
	i.cancelAll()
	i.inflight.Wait()
}

// async runs fn in the background with a context cancelled by Close.
func (i *Interpreter) async(fn func(ctx context.Context)) {
	i.mu.Lock()
	i.pending++
	i.mu.Unlock()
	i.inflight.Add(1)
	go func() {
		defer func() {
			i.mu.Lock()
			i.pending--
			i.mu.Unlock()
			i.inflight.Done()
		}()
		ctx, cancel := context.WithTimeout(i.baseCtx, i.opts.FetchTimeout)
		defer cancel()
		fn(ctx)
	}()
}

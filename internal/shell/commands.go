package shell

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/tuidesk/internal/web"
)

// command is a built-in. run reports whether it suspended the prompt.
type command struct {
	desc string
	run  func(ctx context.Context, sh *Interpreter, args []string) (suspended bool)
}

var commandOrder = []string{
	"ls", "cd", "pwd", "cat", "clear", "whoami", "showcase", "ping",
	"more", "help", "browser", "mail", "exit", "fetch", "neofetch",
}

// CommandNames lists the built-ins in help order.
func CommandNames() []string {
	return slices.Clone(commandOrder)
}

// Describe returns the help text of a built-in command.
func Describe(name string) string {
	return builtins()[name].desc
}

func builtins() map[string]command {
	return map[string]command{
		"ls":       {"List directory contents", cmdLs},
		"cd":       {"Change directory", cmdCd},
		"pwd":      {"Print working directory", cmdPwd},
		"cat":      {"Concatenate and display file content", cmdCat},
		"clear":    {"Clear the terminal screen", cmdClear},
		"whoami":   {"Display user information", cmdWhoami},
		"showcase": {"Show component showcase (dev tool)", cmdShowcase},
		"ping":     {"Simulate network ping to a host", cmdPing},
		"more":     {"Display text content page by page", cmdMore},
		"help":     {"Show available commands and descriptions", cmdHelp},
		"browser":  {"Launch the web browser", cmdBrowser},
		"mail":     {"Launch the mail application", cmdMail},
		"exit":     {"Close the current terminal instance", cmdExit},
		"fetch":    {"Fetch content from a URL", cmdFetch},
		"neofetch": {"Display system information", cmdNeofetch},
	}
}

func arg(args []string, n int) string {
	if n < len(args) {
		return args[n]
	}
	return ""
}

func cmdLs(_ context.Context, sh *Interpreter, args []string) bool {
	target := arg(args, 0)
	if target == "" || target == "." {
		target = sh.PrintWorkingDirectory()
	}
	entries, err := sh.ListDirectory(target)
	if err != nil {
		sh.out.Append(Styled(fmt.Sprintf("ls: cannot access '%s': No such directory", target), StyleError))
		return false
	}
	if len(entries) == 0 {
		return false
	}
	var line Line
	for n, e := range entries {
		if n > 0 {
			line = append(line, Segment{Text: "  "})
		}
		switch e.Kind {
		case KindDirectory:
			line = append(line, Segment{Text: e.Name + "/", Style: StyleDirectory})
		case KindExecutable:
			line = append(line, Segment{Text: e.Name, Style: StyleExecutable})
		default:
			line = append(line, Segment{Text: e.Name, Style: StyleFile})
		}
	}
	sh.out.Append(line)
	return false
}

func cmdCd(_ context.Context, sh *Interpreter, args []string) bool {
	if err := sh.ChangeDirectory(arg(args, 0)); err != nil {
		p := arg(args, 0)
		if p == "" {
			p = sh.opts.Home
		}
		sh.out.Append(Styled("cd: no such directory: "+p, StyleError))
	}
	return false
}

func cmdPwd(_ context.Context, sh *Interpreter, _ []string) bool {
	sh.out.Append(Plain(sh.PrintWorkingDirectory()))
	return false
}

func cmdCat(_ context.Context, sh *Interpreter, args []string) bool {
	p := arg(args, 0)
	if p == "" {
		sh.out.Append(Styled("cat: missing operand", StyleError))
		return false
	}
	content, err := sh.ReadFile(p)
	if err != nil {
		msg := "No such file or directory"
		if errors.Is(err, ErrIsADirectory) {
			msg = "Is a directory"
		}
		sh.out.Append(Styled(fmt.Sprintf("cat: %s: %s", p, msg), StyleError))
		return false
	}
	for _, row := range strings.Split(sanitize(content), "\n") {
		sh.out.Append(Plain(row))
	}
	return false
}

func cmdClear(_ context.Context, sh *Interpreter, _ []string) bool {
	sh.out.Clear()
	return false
}

func cmdWhoami(_ context.Context, sh *Interpreter, _ []string) bool {
	sh.out.Append(whoamiText(sh.opts.User, sh.opts.Home)...)
	return false
}

func cmdShowcase(_ context.Context, sh *Interpreter, _ []string) bool {
	sh.out.Clear()
	sh.out.Append(showcaseText...)
	return false
}

func cmdPing(_ context.Context, sh *Interpreter, args []string) bool {
	host := arg(args, 0)
	if host == "" {
		sh.out.Clear()
		sh.out.Append(contactText(sh.opts.User)...)
		return false
	}
	sh.out.Append(pingReplies(host)...)
	return false
}

func cmdMore(_ context.Context, sh *Interpreter, _ []string) bool {
	sh.out.Clear()
	sh.out.Append(resumeText...)
	return false
}

func cmdHelp(_ context.Context, sh *Interpreter, _ []string) bool {
	sh.out.Clear()
	sh.out.Append(helpText(sh.commands)...)
	return false
}

func cmdBrowser(ctx context.Context, sh *Interpreter, args []string) bool {
	launch(ctx, sh, "browser", arg(args, 0))
	return false
}

func cmdMail(ctx context.Context, sh *Interpreter, _ []string) bool {
	launch(ctx, sh, "mail", "")
	return false
}

func launch(ctx context.Context, sh *Interpreter, baseType, url string) {
	if sh.opts.Host == nil {
		sh.out.Append(Styled(baseType+": no desktop available", StyleError))
		return
	}
	if err := sh.opts.Host.Launch(ctx, baseType, url); err != nil {
		sh.opts.Logger.Error("launch failed", "type", baseType, "err", err)
		sh.out.Append(Styled(fmt.Sprintf("%s: %v", baseType, err), StyleError))
	}
}

func cmdExit(_ context.Context, sh *Interpreter, _ []string) bool {
	if sh.opts.Host == nil {
		return false
	}
	sh.out.HidePrompt()
	sh.opts.Host.Exit()
	return true
}

func cmdFetch(_ context.Context, sh *Interpreter, args []string) bool {
	raw := arg(args, 0)
	if raw == "" {
		sh.out.Append(Plain("Usage: fetch <url>"))
		return false
	}
	if sh.opts.Fetcher == nil {
		sh.out.Append(Styled("fetch: networking unavailable", StyleError))
		return false
	}

	url := web.NormalizeURL(raw)
	sh.out.Append(Plain("Fetching " + url + "..."))
	sh.out.HidePrompt()
	sh.async(func(ctx context.Context) {
		defer func() { sh.out.ShowPrompt(sh.Prompt()) }()
		resp, err := sh.opts.Fetcher.Fetch(ctx, url)
		if err != nil {
			sh.opts.Logger.Debug("fetch failed", "url", url, "err", err)
			sh.out.Append(Styled(fmt.Sprintf("Error fetching %s: %v", url, err), StyleError))
			return
		}
		sh.out.Append(fetchReport(resp, sh.opts.SnippetLength)...)
	})
	return true
}

func fetchReport(resp *web.Response, snippetLen int) []Line {
	lines := []Line{
		Plain("Status: " + resp.Status),
		Styled("Headers:", StyleHeading),
	}
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		lines = append(lines, Line{
			{Text: "  " + strings.ToLower(name) + ":", Style: StyleLabel},
			{Text: " " + sanitize(strings.Join(resp.Header[name], ", "))},
		})
	}

	lines = append(lines, Styled("Body Snippet:", StyleHeading))
	body := []rune(resp.Body)
	snippet := body
	if len(body) > snippetLen {
		snippet = body[:snippetLen]
	}
	for _, row := range strings.Split(sanitize(string(snippet)), "\n") {
		lines = append(lines, Plain(row))
	}
	if len(body) > snippetLen {
		lines = append(lines, Styled("... (truncated)", StyleMuted))
	}
	return lines
}

func cmdNeofetch(ctx context.Context, sh *Interpreter, _ []string) bool {
	sh.out.Append(sh.neofetch(ctx)...)
	return false
}

// sanitize strips terminal escape sequences and carriage returns so that
// file and network content cannot drive the host terminal.
func sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\t", "    ")
}

func pingReplies(host string) []Line {
	h := fnv.New32a()
	h.Write([]byte(host))
	sum := h.Sum32()
	addr := fmt.Sprintf("10.%d.%d.%d", byte(sum>>16), byte(sum>>8), byte(sum)|1)

	lines := []Line{Plain(fmt.Sprintf("PING %s (%s): 56 data bytes", host, addr))}
	var total float64
	for seq := range 4 {
		ms := 8 + float64((int(sum>>uint(seq*3))&0x3f))/4
		total += ms
		lines = append(lines, Plain(fmt.Sprintf("64 bytes from %s: icmp_seq=%d ttl=64 time=%.2f ms", addr, seq, ms)))
	}
	lines = append(lines,
		Line{},
		Styled(fmt.Sprintf("--- %s ping statistics (simulated) ---", host), StyleMuted),
		Plain(fmt.Sprintf("4 packets transmitted, 4 packets received, 0.0%% packet loss, avg %.2f ms", total/4)),
	)
	return lines
}

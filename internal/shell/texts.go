package shell

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/Gaurav-Gosain/tuidesk/internal/sysinfo"
)

func heading(s string) Line { return Styled(s, StyleHeading) }
func item(s string) Line    { return Line{{Text: "  • ", Style: StyleAccent}, {Text: s}} }

func entry(title, desc string) []Line {
	return []Line{
		{{Text: "  • ", Style: StyleAccent}, {Text: title, Style: StyleLabel}},
		Styled("    "+desc, StyleMuted),
	}
}

func whoamiText(user, home string) []Line {
	return []Line{
		heading(user),
		Plain("Resident of korzeOS, the multi-instance desktop that fits in a terminal."),
		Plain("Builds small tools, plays with window managers and ships side projects."),
		Line{},
		Line{{Text: "Home:  ", Style: StyleLabel}, {Text: home}},
		Line{{Text: "Web:   ", Style: StyleLabel}, {Text: "https://korze.org"}},
		Line{},
		Styled("Type 'more' for the resume or 'ping' to get in touch.", StyleMuted),
	}
}

var showcaseText = func() []Line {
	lines := []Line{
		heading("Project Showcase"),
		Plain("Here are some of my example projects:"),
	}
	lines = append(lines, entry("Virtual Pet Simulator", "An engaging simulation where you can take care of a virtual pet.")...)
	lines = append(lines, entry("Weather Wizard", "A whimsical app that predicts the weather using magical algorithms.")...)
	lines = append(lines, entry("Space Explorer", "A fun game where you navigate through the galaxy collecting stars.")...)
	return append(lines, Line{}, Styled("Open the browser with 'browser <url>' to see them live.", StyleMuted))
}()

func contactText(user string) []Line {
	return []Line{
		heading("Contact Form"),
		Line{{Text: "Name:    ", Style: StyleLabel}, {Text: "John Doe", Style: StyleMuted}},
		Line{{Text: "Email:   ", Style: StyleLabel}, {Text: "john.doe@example.com", Style: StyleMuted}},
		Line{{Text: "Message: ", Style: StyleLabel}, {Text: "Enter your message here...", Style: StyleMuted}},
		Line{},
		Plain("Type 'mail' to open the mail composer and send a message to " + user + "."),
		Styled("Or 'ping <host>' to ping a host.", StyleMuted),
	}
}

var resumeText = []Line{
	heading("Resume"),
	Styled("Education", StyleLabel),
	Plain("Degree in Placeholder Studies"),
	Plain("Placeholder University - 2000-2004"),
	Line{},
	Styled("Skills", StyleLabel),
	item("Placeholder Skill 1"),
	item("Placeholder Skill 2"),
	item("Placeholder Skill 3"),
	item("Placeholder Skill 4"),
	item("Placeholder Skill 5"),
	Line{},
	Styled("Experience", StyleLabel),
	Line{{Text: "Placeholder Position", Style: StyleAccent}, {Text: " - Placeholder Company"}},
	Plain("2005 - Present"),
	Plain("Placeholder description of responsibilities and achievements"),
}

func helpText(commands map[string]command) []Line {
	lines := []Line{heading("Terminal Help"), Line{}}
	width := 0
	for _, name := range commandOrder {
		width = max(width, len(name))
	}
	for _, name := range commandOrder {
		lines = append(lines, Line{
			{Text: fmt.Sprintf("  %-*s  ", width, name), Style: StyleExecutable},
			{Text: commands[name].desc},
		})
	}
	lines = append(lines,
		Line{},
		heading("Interface Tips"),
		item("Use ↑↓ to navigate command history."),
		item("Press ctrl+c to reset the terminal, ctrl+l to clear it."),
		item("Drag a window by its title bar; double-click it to toggle fullscreen."),
		item("Drag the bottom corners to resize a window."),
		item("Window controls: × close, − minimize, □ maximize."),
	)
	return lines
}

var neofetchArt = []string{
	`        _,met$$$$$gg.`,
	`     ,g$$$$$$$$$$$$$$$P.`,
	`   ,g$$P""""Y$$""""""Y$$.`,
	`  ,$$P'    "$$"     "$b$.`,
	` ',$$P      Y$       "$P$.`,
	` ',$$P      Y$       "$P$.`,
	` ",$$"      "$}       "$L$,`,
	`   "$.       "$;        "$;`,
	`    "$.       "$$.     .$$P`,
	`      "$.       "Y$bggdP"`,
	`       "Y$.        """`,
	`          "Y$.`,
	`             "Y$.`,
	`                "YP.`,
}

const artWidth = 32

// neofetch renders the system information block beside the logo.
func (i *Interpreter) neofetch(ctx context.Context) []Line {
	snap, err := i.opts.SysInfo(ctx)
	if err != nil {
		i.opts.Logger.Debug("partial system info", "err", err)
	}

	id := i.opts.TerminalID
	short := id
	if len(short) > 8 {
		short = short[:8]
	}

	hostname := snap.Hostname
	if hostname == "" {
		hostname = "tuidesk"
	}
	kernel := snap.Kernel
	if kernel == "" {
		kernel = runtime.GOOS + "/" + runtime.GOARCH
	}
	resolution := "N/A"
	if i.opts.Resolution != nil {
		if w, h := i.opts.Resolution(); w > 0 && h > 0 {
			resolution = fmt.Sprintf("%dx%d", w, h)
		}
	}
	cpuText := "Virtual"
	if snap.CPUCores > 0 {
		cpuText = fmt.Sprintf("%d Cores", snap.CPUCores)
		if snap.CPUModel != "" {
			cpuText = fmt.Sprintf("%s (%d)", snap.CPUModel, snap.CPUCores)
		}
	}
	memText := "Simulated 8GiB"
	if snap.MemTotal > 0 {
		memText = sysinfo.FormatBytes(snap.MemUsed) + " / " + sysinfo.FormatBytes(snap.MemTotal)
	}

	info := []Line{
		{{Text: i.opts.User, Style: StyleAccent}, {Text: "@" + short}},
		Plain(strings.Repeat("-", 20)),
		field("OS", "korzeOS 1.0 MultiInstance"),
		field("Host", hostname),
		field("Kernel", kernel),
		field("Uptime", sysinfo.FormatUptime(snap.Uptime)),
		field("Packages", fmt.Sprintf("%d (simulated)", len(commandOrder))),
		field("Shell", "web-sh 1.0"),
		field("Resolution", resolution),
		field("Terminal", "WebTerm ("+id+")"),
		field("CPU", cpuText),
		field("GPU", "N/A"),
		field("Memory", memText),
	}

	rows := max(len(neofetchArt), len(info))
	out := make([]Line, rows)
	for n := range rows {
		art := ""
		if n < len(neofetchArt) {
			art = neofetchArt[n]
		}
		line := Line{{Text: fmt.Sprintf("%-*s", artWidth, art), Style: StyleAccent}}
		if n < len(info) {
			line = append(line, info[n]...)
		}
		out[n] = line
	}
	return out
}

func field(label, value string) Line {
	return Line{{Text: label + ": ", Style: StyleLabel}, {Text: value}}
}

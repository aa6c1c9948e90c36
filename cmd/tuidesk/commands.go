package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/sysinfo"
	"github.com/Gaurav-Gosain/tuidesk/internal/vfs"
)

const previewWidth = 40

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// errNotConfirmed is returned when a destructive command needs a
// confirmation that cannot be asked for.
var errNotConfirmed = errors.New("refusing to continue without confirmation (stdin is not a terminal, use --yes/--force)")

// styledWriter downsamples styled output to what out supports.
func styledWriter(out io.Writer) io.Writer {
	return colorprofile.NewWriter(out, os.Environ())
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// confirm asks a yes/no question on out and reads the answer from in. When
// in is a file that is not a terminal nobody can answer, so it fails.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return false, errNotConfirmed
	}
	fmt.Fprintf(out, "%s (yes/no): ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response := strings.ToLower(strings.TrimSpace(line))
	return response == "yes" || response == "y", nil
}

func resolveConfigPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("could not determine config path: %w", err)
	}
	return path, nil
}

// printConfigPath prints the config file path
func printConfigPath(out io.Writer) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, path)
	return nil
}

func showConfig(out io.Writer) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	cfg := config.DefaultConfig()
	if _, statErr := os.Stat(path); statErr == nil {
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// resetConfigToDefaults resets the configuration file to default settings
func resetConfigToDefaults(in io.Reader, out io.Writer, assumeYes bool) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !assumeYes {
		fmt.Fprintf(out, "Warning: This will overwrite your existing configuration at:\n  %s\n\n", path)
		ok, err := confirm(in, out, "Are you sure you want to reset to defaults?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Reset cancelled.")
			return nil
		}
	}

	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Configuration reset to defaults\n  Location: %s\n", path)
	return nil
}

// withStore opens the desktop file store for a single command.
func withStore(fn func(vfs.Store) error) error {
	cfg, _ := loadConfig(logging.New(os.Stderr, config.AppName))
	store, closer, err := openStore(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	return fn(store)
}

func listFiles(s vfs.Store, out io.Writer) error {
	names, err := s.List()
	if err != nil {
		return err
	}
	w := styledWriter(out)
	if len(names) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No desktop files."))
		return nil
	}

	t := newTable("Name", "Size", "Preview")
	for _, name := range names {
		content, err := s.Read(name)
		if err != nil {
			return err
		}
		t.Row(name, sysinfo.FormatBytes(uint64(len(content))), preview(content))
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

// preview returns the first non-empty line of content, shortened.
func preview(content string) string {
	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)
		if line != "" {
			return ansi.Truncate(ansi.Strip(line), previewWidth, "…")
		}
	}
	return ""
}

func catFile(s vfs.Store, out io.Writer, name string) error {
	content, err := s.Read(name)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, content)
	return err
}

func writeFile(s vfs.Store, in io.Reader, args []string) error {
	name := args[0]
	if err := vfs.ValidateName(name); err != nil {
		return err
	}
	var content string
	if len(args) > 1 {
		content = args[1]
	} else {
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
		content = string(data)
	}
	return s.Write(name, content)
}

func removeFile(s vfs.Store, in io.Reader, out io.Writer, name string, force bool) error {
	if _, err := s.Read(name); err != nil {
		return err
	}
	if !force {
		ok, err := confirm(in, out, fmt.Sprintf("Delete %q?", name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Nothing deleted.")
			return nil
		}
	}
	return s.Delete(name)
}

// listKeybindings prints all configured keybindings in a pretty table
func listKeybindings(out io.Writer) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	cfg := config.DefaultConfig()
	if _, statErr := os.Stat(path); statErr == nil {
		if cfg, err = config.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\nUsing default keybindings...\n", err)
			cfg = config.DefaultConfig()
		}
	}

	w := styledWriter(out)
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("tuidesk keybindings"))
	fmt.Fprintln(w)
	for _, section := range config.GetKeybindings(config.NewKeybindRegistry(cfg)) {
		if len(section.Bindings) == 0 {
			continue
		}
		t := newTable("Keys", "Action")
		for _, b := range section.Bindings {
			t.Row(b.Key, b.Description)
		}
		fmt.Fprintln(w, sectionStyle.Render(section.Title))
		fmt.Fprintln(w, t.Render())
		fmt.Fprintln(w)
	}
	return nil
}

// Package main implements tuidesk, a simulated desktop operating system
// that runs inside a terminal, locally or over SSH.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/tuidesk/internal/vfs"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode  bool
	themeName  string
	storePath  string
	ephemeral  bool
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tuidesk",
		Short: "A desktop in your terminal",
		Long: `tuidesk - a desktop in your terminal

Windows, a menu bar, a dock and a handful of bundled programs: a terminal
with a virtual shell, a browser, a mail composer, a text editor and more.
Desktop files are kept in a small database shared by every session.`,
		Example: `  # Run tuidesk
  tuidesk

  # Run with a theme and a throwaway file store
  tuidesk --theme dracula --ephemeral

  # Run as SSH server
  tuidesk ssh --port 2222

  # Serve to web browsers
  tuidesk web --port 7681

  # List desktop files
  tuidesk files list

  # List all keybindings
  tuidesk keys`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocal(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config.toml (defaults to the XDG config directory)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Path to the desktop file database")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep desktop files in memory only")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme (overrides the configured theme)")

	var sshPort, sshHost, sshKeyPath string

	sshCmd := &cobra.Command{
		Use:   "ssh",
		Short: "Run tuidesk as SSH server",
		Long: `Run tuidesk as an SSH server

Every connection gets its own desktop. All connections share the same
desktop files. A host key is generated automatically if none exists.`,
		Example: `  # Start SSH server on the configured port
  tuidesk ssh

  # Start on custom port
  tuidesk ssh --port 2222

  # Specify custom host key
  tuidesk ssh --key-path /path/to/host_key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSSHServer(cmd.Context(), sshHost, sshPort, sshKeyPath)
		},
	}

	sshCmd.Flags().StringVar(&sshPort, "port", "", "SSH server port (default from config)")
	sshCmd.Flags().StringVar(&sshHost, "host", "", "SSH server host (default from config)")
	sshCmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")

	var webPort, webHost string
	var webReadOnly bool
	var webMaxConnections int

	webCmd := &cobra.Command{
		Use:   "web",
		Short: "Serve tuidesk to web browsers",
		Long: `Serve tuidesk to web browsers

Every browser tab gets its own desktop. All tabs share the same desktop
files, and the files are shared with SSH sessions using the same store.`,
		Example: `  # Start web server on the configured port
  tuidesk web

  # Bind to all interfaces, view only
  tuidesk web --host 0.0.0.0 --read-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWebServer(cmd.Context(), webServerFlags{
				host:           webHost,
				port:           webPort,
				readOnly:       webReadOnly,
				maxConnections: webMaxConnections,
				setReadOnly:    cmd.Flags().Changed("read-only"),
				setMax:         cmd.Flags().Changed("max-connections"),
			})
		},
	}

	webCmd.Flags().StringVar(&webPort, "port", "", "Web server port (default from config)")
	webCmd.Flags().StringVar(&webHost, "host", "", "Web server host (default from config)")
	webCmd.Flags().BoolVar(&webReadOnly, "read-only", false, "Disable input from clients (view only)")
	webCmd.Flags().IntVar(&webMaxConnections, "max-connections", 0, "Maximum concurrent connections (0 = unlimited)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tuidesk configuration",
		Long:  `Manage the tuidesk configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printConfigPath(cmd.OutOrStdout())
		},
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration tuidesk would run with, after defaults
have been applied to the configuration file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.OutOrStdout())
		},
	}

	var assumeYes bool
	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the tuidesk configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigToDefaults(cmd.InOrStdin(), cmd.OutOrStdout(), assumeYes)
		},
	}
	configResetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	configCmd.AddCommand(configPathCmd, configShowCmd, configResetCmd)

	filesCmd := &cobra.Command{
		Use:     "files",
		Aliases: []string{"fs"},
		Short:   "Manage desktop files",
		Long: `Inspect and change the files shown on the desktop

These commands operate on the same database the desktop uses. Use --store
to point at a different database.`,
	}

	filesListCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List desktop files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s vfs.Store) error {
				return listFiles(s, cmd.OutOrStdout())
			})
		},
	}

	filesCatCmd := &cobra.Command{
		Use:   "cat <name>",
		Short: "Print a desktop file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s vfs.Store) error {
				return catFile(s, cmd.OutOrStdout(), args[0])
			})
		},
	}

	filesWriteCmd := &cobra.Command{
		Use:   "write <name> [content]",
		Short: "Create or replace a desktop file",
		Long: `Create or replace a desktop file

The content is taken from the second argument, or from standard input
when it is omitted.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s vfs.Store) error {
				return writeFile(s, cmd.InOrStdin(), args)
			})
		},
	}

	var forceRemove bool
	filesRmCmd := &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a desktop file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s vfs.Store) error {
				return removeFile(s, cmd.InOrStdin(), cmd.OutOrStdout(), args[0], forceRemove)
			})
		},
	}
	filesRmCmd.Flags().BoolVarP(&forceRemove, "force", "f", false, "Do not ask for confirmation")

	filesCmd.AddCommand(filesListCmd, filesCatCmd, filesWriteCmd, filesRmCmd)

	keysCmd := &cobra.Command{
		Use:     "keys",
		Aliases: []string{"keybinds", "kb"},
		Short:   "List keybindings",
		Long:    `Display the configured keybindings in a formatted table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listKeybindings(cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(sshCmd, webCmd, configCmd, filesCmd, keysCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

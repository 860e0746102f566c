package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/metoxid/metoxid-cli/cmd/commands"
	"github.com/metoxid/metoxid-cli/internal/cli"
	"github.com/metoxid/metoxid-cli/pkg/tui"
)

// version is set during build with -ldflags
var version = "dev"

var errInterrupted = errors.New("interrupted")

var (
	configPath string
	quiet      bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "metoxid [path]",
	Short: "Terminal file browser and image metadata editor",
	Long: `metoxid browses directories in the terminal and edits the metadata
embedded in image files: the file comment, EXIF, IPTC and XMP.

Run it without arguments to browse the working directory, with a
directory to browse that directory, or with a file to open it in the
metadata editor directly.`,
	Version:       version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cli.SetGlobalFlags(quiet, noColor)
	},
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	target, err := cli.ResolveTarget(args)
	if err != nil {
		return err
	}

	ctx, err := cli.NewCommandContext(configPath)
	if err != nil {
		return err
	}
	defer ctx.Close()

	opts := tui.Options{
		Settings: ctx.Settings,
		Logger:   ctx.Logger,
	}
	if target.IsDir {
		opts.Dir = target.Path
	} else {
		opts.OpenFile = target.Path
	}

	app, err := tui.NewApp(opts)
	if err != nil {
		return err
	}

	ctx.Logger.Info().Str("path", target.Path).Msg("Starting TUI")
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrInterrupted) {
			return errInterrupted
		}
		return fmt.Errorf("failed to start the terminal user interface: %w", err)
	}

	if err := app.Err(); err != nil {
		return err
	}
	if app.Interrupted() {
		return errInterrupted
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default $XDG_CONFIG_HOME/metoxid/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress success messages")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Plain text status prefixes")

	rootCmd.AddCommand(commands.NewDumpCommand())
	rootCmd.AddCommand(commands.NewSetCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInterrupted) {
			cli.PrintFatal(err)
		}
		os.Exit(1)
	}
}

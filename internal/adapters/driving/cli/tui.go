package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/daybook/internal/adapters/driving/tui"
	"github.com/custodia-labs/daybook/internal/logger"
)

// tuiLogFile receives log output while the TUI owns the terminal.
const tuiLogFile = "daybook.log"

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the journal in the terminal UI",
	Long: `Open today's entry in the interactive terminal UI.

The diary is saved as you type. Talk the day through with the assistant in
the conversation pane.

Controls:
  tab       Switch between diary and ask input
  enter     Send (ask input)
  ctrl+r    Reflect: send the diary text to the assistant
  ctrl+e    Edit and resend your last message
  ctrl+p/n  Previous / next day
  ctrl+t    Back to today
  pgup/pgdn Scroll the conversation
  ctrl+c    Save and quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	// Running daybook with no subcommand opens the TUI.
	rootCmd.RunE = runTUI
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in TUI: %v\n%s", r, debug.Stack())
		}
	}()

	if rt == nil {
		return errors.New("daybook is not configured")
	}

	app, err := newTUIApp(rt)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	restore := redirectLogs(rt.AppConfig.DataDir)
	defer restore()

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func newTUIApp(r *Runtime) (*tui.App, error) {
	return tui.NewApp(&tui.Ports{
		Journal:         r.Journal,
		Settings:        r.Settings,
		NewAutosave:     r.NewAutosave,
		NewConversation: r.NewConversation,
		Store:           r.Store,
		WaitReady:       r.WaitReady,
		WatchPrompts:    r.WatchPrompts,
	})
}

// redirectLogs sends log output to a file in dir so it does not corrupt the
// screen. The returned function restores stderr.
func redirectLogs(dir string) func() {
	var out io.Writer = io.Discard
	var f *os.File
	if dir != "" {
		var err error
		f, err = os.OpenFile(filepath.Join(dir, tuiLogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err == nil {
			out = f
		}
	}
	logger.SetOutput(out)
	logger.SetTimestamps(true)

	return func() {
		logger.SetOutput(os.Stderr)
		logger.SetTimestamps(false)
		if f != nil {
			_ = f.Close()
		}
	}
}

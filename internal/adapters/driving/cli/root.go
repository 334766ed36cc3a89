// Package cli provides the daybook command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
	"github.com/custodia-labs/daybook/internal/logger"
)

// version is set at build time.
var version = "dev"

// Options holds the global flags the composition root needs.
type Options struct {
	// ConfigDir overrides ~/.daybook.
	ConfigDir string

	// Verbose enables debug logging.
	Verbose bool
}

// Runtime is the set of services commands run against.
type Runtime struct {
	Store     driving.DocumentStore
	Journal   driving.JournalService
	Settings  driving.SettingsService
	AppConfig domain.AppConfig

	// NewAutosave binds a diary field to date.
	NewAutosave func(date domain.DateKey) driving.Autosave

	// NewConversation creates a conversation saved into the entry named by its
	// key. date supplies the day the assistant is told about. The returned
	// function unbinds it from the store.
	NewConversation func(date func() domain.DateKey) (driving.Conversation, func())

	// WatchPrompts reports prompt file edits. Optional.
	WatchPrompts func(ctx context.Context, onChange func(name string)) error

	// WaitReady blocks until the journal document has loaded.
	WaitReady func(ctx context.Context) error

	// Close flushes and releases everything.
	Close func() error
}

// Bootstrap builds the Runtime once flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Runtime, error)

var (
	bootstrap Bootstrap
	rt        *Runtime
	opts      Options
)

// skipRuntime marks commands that run without services.
const skipRuntime = "skip-runtime"

var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "A local-first diary with a thoughtful assistant",
	Long: `Daybook keeps one journal entry per day on this device.

Write the day's diary text, then talk it through with an AI assistant.
Everything is stored locally in ~/.daybook.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupRuntime,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeRuntime()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "", "Configuration directory (default ~/.daybook)")
}

// SetBootstrap sets the function that builds services for commands.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setupRuntime(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)
	if cmd.Annotations[skipRuntime] == "true" || rt != nil {
		return nil
	}
	if bootstrap == nil {
		return errors.New("daybook is not configured")
	}

	r, err := bootstrap(commandContext(cmd), opts)
	if err != nil {
		return err
	}
	rt = r
	return nil
}

func closeRuntime() error {
	if rt == nil {
		return nil
	}
	r := rt
	rt = nil
	if r.Close == nil {
		return nil
	}
	return r.Close()
}

// loadedRuntime returns the runtime once the journal has loaded.
func loadedRuntime(cmd *cobra.Command) (*Runtime, error) {
	if rt == nil {
		return nil, errors.New("daybook is not configured")
	}
	if rt.WaitReady != nil {
		if err := rt.WaitReady(commandContext(cmd)); err != nil {
			return nil, fmt.Errorf("load journal: %w", err)
		}
	}
	return rt, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// parseDateArg parses a YYYY-MM-DD argument, or the words today and yesterday.
func parseDateArg(journal driving.JournalService, arg string) (domain.DateKey, error) {
	switch arg {
	case "", "today":
		return journal.Today(), nil
	case "yesterday":
		return journal.Today().AddDays(-1), nil
	}
	return domain.ParseDateKey(arg)
}

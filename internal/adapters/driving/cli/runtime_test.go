package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/daybook/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
	"github.com/custodia-labs/daybook/internal/core/services"
)

// testEnv wires real services over an in-memory journal.
type testEnv struct {
	rt        *Runtime
	store     *services.DocumentStore
	assistant driven.Assistant
	prompts   []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := services.NewDocumentStore(memory.NewPersister(nil))
	store.Open(context.Background())
	t.Cleanup(func() { _ = store.Close() })

	env := &testEnv{store: store}
	env.assistant = driven.AssistantFunc(
		func(_ context.Context, _ []domain.Message, text string) domain.AssistantReply {
			env.prompts = append(env.prompts, text)
			return domain.AssistantReply{Success: true, Content: "Tell me more about: " + text}
		},
	)

	reconciler := services.NewEntryReconciler(store, nil, nil)
	env.rt = &Runtime{
		Store:     store,
		Journal:   services.NewJournalService(store, nil, nil),
		Settings:  services.NewSettingsService(store, nil),
		AppConfig: domain.DefaultAppConfig(),
		NewAutosave: func(date domain.DateKey) driving.Autosave {
			return services.NewAutosave(store, nil, date, services.AutosaveOptions{})
		},
		NewConversation: func(func() domain.DateKey) (driving.Conversation, func()) {
			conv := services.NewConversation(env.assistant, "", nil, services.ConversationOptions{})
			return conv, reconciler.Bind(conv)
		},
		WaitReady: store.WaitReady,
	}
	return env
}

// run executes the root command with args against the environment.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	SetBootstrap(func(context.Context, Options) (*Runtime, error) {
		return e.rt, nil
	})
	t.Cleanup(func() {
		SetBootstrap(nil)
		rt = nil
	})

	buf := new(bytes.Buffer)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// mustRun is run that fails the test on error.
func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, "", args...)
	require.NoError(t, err, out)
	return out
}

// resetFlags restores every flag to its default between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

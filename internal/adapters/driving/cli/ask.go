package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
	"github.com/custodia-labs/daybook/internal/markdown"
)

var askCmd = &cobra.Command{
	Use:   "ask [date] [question...]",
	Short: "Talk a day's entry through with the assistant",
	Long: `Ask sends a message to the assistant about a day's entry (today by default).

With no question, ask starts an interactive session: each line you type is
sent as a message, and an empty line or end of input ends the session. The
conversation is saved with the entry after every reply.

When the day has diary text but no conversation yet, the diary text is sent
as the first message.`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	r, err := loadedRuntime(cmd)
	if err != nil {
		return err
	}

	date := r.Journal.Today()
	if len(args) > 0 {
		if d, err := parseDateArg(r.Journal, args[0]); err == nil {
			date = d
			args = args[1:]
		}
	}

	view, err := r.Journal.View(date)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	conv, unbind := r.NewConversation(func() domain.DateKey { return date })
	defer unbind()
	conv.Load(date.String(), view.Conversation)

	ctx := commandContext(cmd)
	send := func(text string) error {
		if err := conv.Send(ctx, text); err != nil {
			return err
		}
		msgs := conv.Snapshot().Messages
		cmd.Printf("\nAssistant: %s\n\n", markdown.Plain(msgs[len(msgs)-1].Content))
		return nil
	}

	// A fresh conversation opens with the diary text.
	if len(view.Conversation) == 0 && !domain.IsBlank(view.DiaryText) {
		cmd.Printf("You: %s\n", view.DiaryText)
		if err := send(view.DiaryText); err != nil {
			return askError(err)
		}
	}

	if len(args) > 0 {
		if err := send(strings.Join(args, " ")); err != nil {
			return askError(err)
		}
		return nil
	}

	return askInteractive(cmd, conv, send)
}

func askInteractive(cmd *cobra.Command, conv driving.Conversation, send func(string) error) error {
	if len(conv.Snapshot().Messages) == 0 {
		cmd.Println("What's on your mind? (empty line to finish)")
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("You: ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return nil
		}
		if err := send(line); err != nil {
			if errors.Is(err, domain.ErrLLMUnavailable) {
				return askError(err)
			}
			cmd.Printf("Error: %v\n", err)
		}
	}
}

func askError(err error) error {
	if errors.Is(err, domain.ErrLLMUnavailable) {
		return fmt.Errorf("%w. Run 'daybook settings provider' and 'daybook settings key' to configure the assistant", err)
	}
	return err
}

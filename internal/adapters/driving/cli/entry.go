package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/markdown"
)

var writeCmd = &cobra.Command{
	Use:   "write [date] <text>",
	Short: "Write the diary text for a day",
	Long: `Write replaces the diary text for a day (today by default).

Use "-" as the text to read it from standard input, and --append to add
to the existing text instead of replacing it. Dates are YYYY-MM-DD, or
"today" and "yesterday".`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runWrite,
}

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the entry for a day",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List days that have entries",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var locateCmd = &cobra.Command{
	Use:   "locate <date> <latitude> <longitude>",
	Short: "Attach a location to a day",
	Args:  cobra.ExactArgs(3),
	RunE:  runLocate,
}

var (
	writeAppend    bool
	listLimit      int
	locatePlace    string
	locateAccuracy float64
)

func init() {
	writeCmd.Flags().BoolVarP(&writeAppend, "append", "a", false, "Append to the existing diary text")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Show only the most recent N days")
	locateCmd.Flags().StringVar(&locatePlace, "place", "", "Human-readable place name")
	locateCmd.Flags().Float64Var(&locateAccuracy, "accuracy", 0, "Accuracy radius in metres")

	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(locateCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	r, err := loadedRuntime(cmd)
	if err != nil {
		return err
	}

	dateArg, text := "", args[0]
	if len(args) == 2 {
		dateArg, text = args[0], args[1]
	}
	date, err := parseDateArg(r.Journal, dateArg)
	if err != nil {
		return err
	}

	if text == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimRight(string(data), "\n")
	}

	field := r.NewAutosave(date)
	defer field.Close()

	if writeAppend && field.Content() != "" {
		text = field.Content() + "\n" + text
	}
	field.Change(text)
	if err := field.Flush(); err != nil {
		return fmt.Errorf("failed to save %s: %w", date, err)
	}

	cmd.Printf("Saved %s (%d characters)\n", date, len([]rune(text)))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	r, err := loadedRuntime(cmd)
	if err != nil {
		return err
	}

	var dateArg string
	if len(args) == 1 {
		dateArg = args[0]
	}
	date, err := parseDateArg(r.Journal, dateArg)
	if err != nil {
		return err
	}

	entry, err := r.Journal.Entry(date)
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Printf("No entry for %s\n", date)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	cmd.Printf("%s, %s\n", date.Time().Weekday(), date)
	if entry.Position != nil {
		place := entry.Position.Place
		if place == "" {
			place = fmt.Sprintf("%.4f, %.4f", entry.Position.Latitude, entry.Position.Longitude)
		}
		cmd.Printf("Location: %s\n", place)
	}
	cmd.Println()

	view, err := r.Journal.View(date)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}
	if view.DiaryText != "" {
		cmd.Println(view.DiaryText)
	} else {
		cmd.Println("(no diary text)")
	}

	if len(view.Conversation) > 0 {
		cmd.Println()
		cmd.Println("Conversation")
		cmd.Println("------------")
		for _, msg := range view.Conversation {
			content := msg.Content
			if msg.Role == domain.RoleAssistant {
				content = markdown.Plain(content)
			}
			cmd.Printf("%s: %s\n", speaker(msg.Role), content)
		}
	}
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	r, err := loadedRuntime(cmd)
	if err != nil {
		return err
	}

	dates, err := r.Journal.Dates()
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	if len(dates) == 0 {
		cmd.Println("No entries yet. Start with: daybook write \"...\"")
		return nil
	}
	if listLimit > 0 && len(dates) > listLimit {
		dates = dates[len(dates)-listLimit:]
	}

	for _, date := range dates {
		view, err := r.Journal.View(date)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", date, err)
		}
		marker := " "
		if view.HasConversation {
			marker = "*"
		}
		cmd.Printf("%s %s %s\n", date, marker, firstLine(view.DiaryText, 60))
	}

	cmd.Printf("\nTotal: %d entries (* has a conversation)\n", len(dates))
	return nil
}

func runLocate(cmd *cobra.Command, args []string) error {
	r, err := loadedRuntime(cmd)
	if err != nil {
		return err
	}

	date, err := parseDateArg(r.Journal, args[0])
	if err != nil {
		return err
	}
	lat, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("%w: latitude %q", domain.ErrInvalidInput, args[1])
	}
	lon, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("%w: longitude %q", domain.ErrInvalidInput, args[2])
	}

	pos := domain.Position{Latitude: lat, Longitude: lon, Accuracy: locateAccuracy, Place: locatePlace}
	if err := r.Journal.RecordPosition(date, pos); err != nil {
		return fmt.Errorf("failed to record location: %w", err)
	}

	cmd.Printf("Location recorded for %s\n", date)
	return nil
}

func speaker(role domain.Role) string {
	if role == domain.RoleAssistant {
		return "Assistant"
	}
	return "You"
}

// firstLine returns the first line of text truncated to maxRunes.
func firstLine(text string, maxRunes int) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	runes := []rune(text)
	if len(runes) > maxRunes {
		return string(runes[:maxRunes-3]) + "..."
	}
	return text
}

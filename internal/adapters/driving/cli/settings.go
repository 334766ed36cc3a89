package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/daybook/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure your profile and the assistant's provider.

Settings are stored in the journal on this device.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsProviderCmd = &cobra.Command{
	Use:   "provider <claude|openai|ollama>",
	Short: "Select the assistant provider",
	Long: `Select the LLM provider the assistant uses.

Available providers:
  claude - Anthropic cloud API (requires an API key)
  openai - OpenAI cloud API (requires an API key)
  ollama - Local Ollama server`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsProvider,
}

var settingsKeyCmd = &cobra.Command{
	Use:   "key [provider]",
	Short: "Set the API key for a provider",
	Long: `Set the API key for a cloud provider (the selected provider by default).

The key is read without echo. Enter an empty key to remove it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsKey,
}

var settingsProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update your profile",
	Long: `Update the details the assistant knows about you.

Only the flags you pass are changed.`,
	RunE: runSettingsProfile,
}

var (
	providerModel        string
	providerBaseURL      string
	providerSkipValidate bool
)

func init() {
	settingsProviderCmd.Flags().StringVar(&providerModel, "model", "", "Model override (default depends on provider)")
	settingsProviderCmd.Flags().StringVar(&providerBaseURL, "base-url", "", "Endpoint override, e.g. a remote Ollama server")
	settingsProviderCmd.Flags().BoolVar(&providerSkipValidate, "skip-validate", false, "Do not contact the provider")

	settingsProfileCmd.Flags().String("name", "", "How the assistant addresses you")
	settingsProfileCmd.Flags().String("timezone", "", "IANA timezone used for \"today\", e.g. Europe/Lisbon")
	settingsProfileCmd.Flags().String("theme", "", "Colour scheme: system, light or dark")
	settingsProfileCmd.Flags().String("bio", "", "A few words about you")
	settingsProfileCmd.Flags().String("instructions", "", "Extra instructions for the assistant")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsProviderCmd)
	settingsCmd.AddCommand(settingsKeyCmd)
	settingsCmd.AddCommand(settingsProfileCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	r, err := loadedRuntime(cmd)
	if err != nil {
		return err
	}

	settings, err := r.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Profile]")
	cmd.Printf("  Name: %s\n", orNotSet(settings.DisplayName))
	cmd.Printf("  Timezone: %s\n", orDefault(settings.Timezone, "local"))
	cmd.Printf("  Theme: %s\n", settings.Theme)
	cmd.Printf("  Bio: %s\n", orNotSet(settings.Bio))
	cmd.Printf("  Instructions: %s\n", orNotSet(settings.Instructions))
	cmd.Println()

	cmd.Println("[Assistant]")
	cmd.Printf("  Provider: %s\n", settings.Provider.Description())
	cmd.Printf("  Model: %s\n", orDefault(settings.Model, domain.DefaultModels()[settings.Provider]))
	if settings.BaseURL != "" || settings.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", orDefault(settings.BaseURL, "default"))
	}
	if settings.Provider.RequiresAPIKey() {
		if key := settings.APIKey(); key != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(key))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.IsAssistantConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	if err := r.Settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'daybook settings profile' or 'daybook settings provider' to fix.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsProvider(cmd *cobra.Command, args []string) error {
	r, err := loadedRuntime(cmd)
	if err != nil {
		return err
	}

	provider := domain.AIProvider(strings.ToLower(args[0]))
	if err := r.Settings.SetProvider(provider, providerModel, providerBaseURL); err != nil {
		return fmt.Errorf("failed to set provider: %w", err)
	}
	cmd.Printf("Assistant provider set to: %s\n", provider.Description())

	settings, err := r.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if provider.RequiresAPIKey() && settings.APIKey() == "" {
		cmd.Printf("Note: %s needs an API key. Run 'daybook settings key'.\n", provider)
		return nil
	}
	if providerSkipValidate {
		return nil
	}

	cmd.Print("Validating configuration... ")
	if err := r.Settings.ValidateAssistant(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("assistant configuration validation failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

func runSettingsKey(cmd *cobra.Command, args []string) error {
	r, err := loadedRuntime(cmd)
	if err != nil {
		return err
	}

	settings, err := r.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	provider := settings.Provider
	if len(args) == 1 {
		provider = domain.AIProvider(strings.ToLower(args[0]))
	}
	if !provider.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, provider)
	}
	if !provider.RequiresAPIKey() {
		cmd.Printf("%s does not use an API key.\n", provider.Description())
		return nil
	}

	cmd.Printf("Enter API key for %s: ", provider.Description())
	apiKey := readPassword(cmd.InOrStdin())
	cmd.Println()

	if err := r.Settings.SetAPIKey(provider, apiKey); err != nil {
		return fmt.Errorf("failed to set API key: %w", err)
	}
	if apiKey == "" {
		cmd.Printf("API key for %s removed.\n", provider)
		return nil
	}
	cmd.Printf("API key for %s saved (%s).\n", provider, maskAPIKey(apiKey))
	return nil
}

func runSettingsProfile(cmd *cobra.Command, _ []string) error {
	r, err := loadedRuntime(cmd)
	if err != nil {
		return err
	}

	var profile domain.Profile
	flags := cmd.Flags()
	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name) //nolint:errcheck // flag is registered above
		return &v
	}
	profile.DisplayName = stringFlag("name")
	profile.Timezone = stringFlag("timezone")
	profile.Bio = stringFlag("bio")
	profile.Instructions = stringFlag("instructions")
	if theme := stringFlag("theme"); theme != nil {
		t := domain.Theme(strings.ToLower(*theme))
		profile.Theme = &t
	}

	if profile == (domain.Profile{}) {
		return cmd.Help()
	}

	if err := r.Settings.SetProfile(profile); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	cmd.Println("Profile updated.")
	return nil
}

// Helper functions.

// readPassword reads a line without echo when in is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orNotSet(s string) string {
	return orDefault(s, "(not set)")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

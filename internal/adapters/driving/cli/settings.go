package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/askdoc/internal/core/domain"
	"github.com/custodia-labs/askdoc/internal/core/services"
)

const keyOpenAIKey = "openai.api_key"

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in ~/.askdoc/config.toml.

Environment variables such as OPENAI_API_KEY override stored values and are
never written back.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting by its dot-notation key.

Run 'askdoc settings keys' for the list of keys. Setting openai.api_key
without a value prompts for it without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, k := range services.SettingKeys() {
			cmd.Println(k)
		}
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[OpenAI]")
	if settings.OpenAI.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.OpenAI.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	if settings.OpenAI.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.OpenAI.BaseURL)
	}
	cmd.Printf("  Embedding model: %s\n", settings.Embedding.Model)
	cmd.Printf("  Chat model: %s (max %d tokens)\n", settings.LLM.Model, settings.LLM.MaxTokens)
	cmd.Printf("  Temperature: %.2f (legacy %.2f)\n", settings.LLM.Temperature, settings.LLM.LegacyTemperature)
	cmd.Println()

	cmd.Println("[Retry]")
	cmd.Printf("  Attempts: %d\n", settings.Retry.MaxAttempts)
	cmd.Printf("  Backoff: %s to %s\n", settings.Retry.BaseDelay, settings.Retry.MaxDelay)
	if settings.Retry.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %.2f requests/s\n", settings.Retry.RequestsPerSecond)
	}
	cmd.Println()

	cmd.Println("[Vector]")
	cmd.Printf("  Backend: %s\n", settings.Vector.Backend)
	if settings.Vector.Backend == domain.VectorBackendPostgres {
		dsn := "(not set)"
		if settings.Vector.DSN != "" {
			dsn = maskAPIKey(settings.Vector.DSN)
		}
		cmd.Printf("  DSN: %s\n", dsn)
	}
	cmd.Printf("  Top K: %d\n", settings.Vector.TopK)
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Backend: %s\n", settings.Cache.Backend)
	if settings.Cache.Backend == domain.CacheBackendRedis {
		cmd.Printf("  Redis: %s (db %d)\n", settings.Cache.RedisAddr, settings.Cache.RedisDB)
	}
	cmd.Println()

	cmd.Println("[Chunker]")
	cmd.Printf("  Max length: %d\n", settings.Chunker.MaxLength)
	cmd.Printf("  Keyword max length: %d\n", settings.Chunker.KeywordMaxLength)
	cmd.Println()

	cmd.Println("[Tiers]")
	enabled := make([]string, 0, len(settings.QA.Tiers))
	for _, t := range settings.QA.Tiers {
		enabled = append(enabled, t.String())
	}
	available := make([]string, 0, 3)
	for _, t := range settingsService.AvailableTiers() {
		available = append(available, t.String())
	}
	cmd.Printf("  Enabled: %s\n", strings.Join(enabled, ", "))
	cmd.Printf("  Available: %s\n", strings.Join(available, ", "))
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'askdoc settings set <key> <value>' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case key == keyOpenAIKey:
		cmd.Print("Enter API key: ")
		value = readPassword()
		cmd.Println()
		if value == "" {
			return fmt.Errorf("API key is required")
		}
	default:
		cmd.Printf("Enter value for %s: ", key)
		value = readLine(bufio.NewReader(cmd.InOrStdin()))
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if key == keyOpenAIKey {
		shown = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, shown)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

package driving

import "github.com/custodia-labs/askdoc/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set validates and stores a single dot-notation key.
	Set(key, value string) error

	// Validate checks the settings for inconsistent values.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// AvailableTiers returns the tiers that the current settings can construct.
	AvailableTiers() []domain.Tier
}

package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Granola   GranolaConfig     `yaml:"granola"`
	Vault     VaultConfig       `yaml:"vault"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	Anthropic AnthropicConfig   `yaml:"anthropic"`
	Auth      AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Granola.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Anthropic.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// GranolaConfig holds the path to Granola's local cache snapshot.
type GranolaConfig struct {
	CachePath string `yaml:"cache_path"`
}

// Validate validates the Granola configuration.
func (c *GranolaConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.CachePath, validation.Required),
	)
}

// VaultConfig holds the vault directory and the vault-relative layout of
// the folders the sync writes into.
type VaultConfig struct {
	Path              string `yaml:"path"`
	TranscriptsFolder string `yaml:"transcripts_folder"`
	DailyFolder       string `yaml:"daily_folder"`
	ProjectsIndex     string `yaml:"projects_index"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.TranscriptsFolder, validation.Required),
		validation.Field(&c.DailyFolder, validation.Required),
	)
}

// SQLiteConfig holds SQLite catalog configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AnthropicConfig holds the API settings used for transcript analysis.
// APIKey may be empty; processing commands then refuse to run while sync
// and the read-only surfaces keep working.
type AnthropicConfig struct {
	APIKey                string `yaml:"api_key"`
	Model                 string `yaml:"model"`
	AutoProcessAfterHours int    `yaml:"auto_process_after_hours"`
}

// Validate validates the Anthropic configuration.
func (c *AnthropicConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Model, validation.Required),
		validation.Field(&c.AutoProcessAfterHours, validation.Min(0)),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Granola: GranolaConfig{
			CachePath: filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Granola", "cache-v3.json"),
		},
		Vault: VaultConfig{
			Path:              "./vault",
			TranscriptsFolder: "transcripts",
			DailyFolder:       "daily",
			ProjectsIndex:     "projects/index.md",
		},
		SQLite: SQLiteConfig{
			Path: "./ansuz.db",
		},
		Anthropic: AnthropicConfig{
			Model:                 "claude-3-5-haiku-latest",
			AutoProcessAfterHours: 48,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}

package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Chain   ChainConfig       `yaml:"chain"`
	Pricing PricingConfig     `yaml:"pricing"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Chain.Validate(); err != nil {
		return err
	}
	if err := c.Pricing.Validate(); err != nil {
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

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ChainConfig holds contextual chain engine configuration.
//
// MaxDepth bounds the lathering depth of any registered node.
// CycleCheck toggles the defensive circular-dependency validation on
// registration; self-references and closed cycles are only rejected
// while it is on.
type ChainConfig struct {
	MaxDepth   int   `yaml:"max_depth"`
	CycleCheck *bool `yaml:"cycle_check"`
}

// Validate validates the chain configuration.
func (c *ChainConfig) Validate() error {
	// Unset cycle_check means enabled.
	if c.CycleCheck == nil {
		enabled := true
		c.CycleCheck = &enabled
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxDepth, validation.Required, validation.Min(1)),
	)
}

// CycleCheckEnabled reports whether the registration cycle check runs.
func (c *ChainConfig) CycleCheckEnabled() bool {
	return c.CycleCheck == nil || *c.CycleCheck
}

// PricingConfig holds the bid markup and margin rates.
type PricingConfig struct {
	MaterialMarkup        float64 `yaml:"material_markup"`
	OverheadRate          float64 `yaml:"overhead_rate"`
	ExcavationContingency float64 `yaml:"excavation_contingency"`
	ProfitMargin          float64 `yaml:"profit_margin"`
	ROIHorizonYears       int     `yaml:"roi_horizon_years"`
}

// Validate validates the pricing configuration.
func (c *PricingConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaterialMarkup, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.OverheadRate, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.ExcavationContingency, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.ProfitMargin, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.ROIHorizonYears, validation.Required, validation.Min(1)),
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
		SQLite: SQLiteConfig{
			Path: "./voltbid.db",
		},
		Chain: ChainConfig{
			MaxDepth: 50,
		},
		Pricing: PricingConfig{
			MaterialMarkup:        0.10,
			OverheadRate:          0.18,
			ExcavationContingency: 0.15,
			ProfitMargin:          0.27,
			ROIHorizonYears:       10,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}

// Package config loads explorer settings from YAML or JSON files and
// ATLAS_* environment variables. Every field is optional; the Get* methods
// fall back to defaults for anything left unset.
package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/banshee-data/buyer.atlas/internal/geo"
	"github.com/banshee-data/buyer.atlas/internal/monitoring"
	"github.com/banshee-data/buyer.atlas/internal/summary"
	"github.com/banshee-data/buyer.atlas/internal/survey"
	"github.com/banshee-data/buyer.atlas/internal/view"
)

// envPrefix is the environment variable prefix for every setting.
const envPrefix = "ATLAS"

// maxFileSize caps config files at 1MB.
const maxFileSize = 1 * 1024 * 1024

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// DefaultFrameInterval paces the frame loop at roughly 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// ExplorerConfig is the root configuration.
type ExplorerConfig struct {
	Palette           []string `mapstructure:"palette" json:"palette,omitempty"`
	DomainPadding     *float64 `mapstructure:"domain_padding" json:"domain_padding,omitempty"`
	AnimationDuration *string  `mapstructure:"animation_duration" json:"animation_duration,omitempty"` // duration string like "400ms"
	FrameInterval     *string  `mapstructure:"frame_interval" json:"frame_interval,omitempty"`

	Price     PriceConfig     `mapstructure:"price" json:"price"`
	Agreement AgreementConfig `mapstructure:"agreement" json:"agreement"`

	StateFields       []string `mapstructure:"state_fields" json:"state_fields,omitempty"`
	ModelFields       []string `mapstructure:"model_fields" json:"model_fields,omitempty"`
	CategoricalFields []string `mapstructure:"categorical_fields" json:"categorical_fields,omitempty"`
	NumericFields     []string `mapstructure:"numeric_fields" json:"numeric_fields,omitempty"`
	CodeTable         *string  `mapstructure:"code_table" json:"code_table,omitempty"`

	Log monitoring.LogConfig `mapstructure:"log" json:"log"`
}

// PriceConfig overrides the price histogram buckets.
type PriceConfig struct {
	Field   *string  `mapstructure:"field" json:"field,omitempty"`
	Floor   *float64 `mapstructure:"floor" json:"floor,omitempty"`
	Step    *float64 `mapstructure:"step" json:"step,omitempty"`
	Ceiling *float64 `mapstructure:"ceiling" json:"ceiling,omitempty"`
}

// AgreementConfig overrides the agreement policy.
type AgreementConfig struct {
	IncludeMissing  *bool    `mapstructure:"include_missing" json:"include_missing,omitempty"`
	LoyaltyVariable *string  `mapstructure:"loyalty_variable" json:"loyalty_variable,omitempty"`
	LoyaltyLabels   []string `mapstructure:"loyalty_labels" json:"loyalty_labels,omitempty"`
	TopTwoPatterns  []string `mapstructure:"top_two_patterns" json:"top_two_patterns,omitempty"`
	LikertPoints    *int     `mapstructure:"likert_points" json:"likert_points,omitempty"`
}

// keys lists every setting so environment variables bind without a file.
var keys = []string{
	"palette", "domain_padding", "animation_duration", "frame_interval",
	"price.field", "price.floor", "price.step", "price.ceiling",
	"agreement.include_missing", "agreement.loyalty_variable", "agreement.loyalty_labels",
	"agreement.top_two_patterns", "agreement.likert_points",
	"state_fields", "model_fields", "categorical_fields", "numeric_fields", "code_table",
	"log.level", "log.format",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	return v
}

// Empty returns a config with every field unset.
func Empty() *ExplorerConfig {
	return &ExplorerConfig{}
}

// Load reads the config at path (YAML or JSON), applies ATLAS_* overrides
// and validates the result. An empty path reads the environment only.
func Load(configPath string) (*ExplorerConfig, error) {
	v := newViper()
	if configPath != "" {
		cleanPath := filepath.Clean(configPath)
		switch ext := strings.ToLower(filepath.Ext(cleanPath)); ext {
		case ".yaml", ".yml":
			v.SetConfigType("yaml")
		case ".json":
			v.SetConfigType("json")
		default:
			return nil, fmt.Errorf("config file must be .yaml, .yml or .json, got %q", ext)
		}

		fileInfo, err := os.Stat(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		if fileInfo.Size() > maxFileSize {
			return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
		}
		v.SetConfigFile(cleanPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", cleanPath, err)
		}
	}

	cfg := Empty()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks every set field.
func (c *ExplorerConfig) Validate() error {
	for _, hex := range c.Palette {
		if _, err := view.ParseHex(hex); err != nil {
			return invalid("palette: %v", err)
		}
	}
	if c.DomainPadding != nil && (*c.DomainPadding < 0 || *c.DomainPadding > 1) {
		return invalid("domain_padding must be between 0 and 1, got %f", *c.DomainPadding)
	}
	if err := validDuration("animation_duration", c.AnimationDuration); err != nil {
		return err
	}
	if err := validDuration("frame_interval", c.FrameInterval); err != nil {
		return err
	}
	if err := c.PriceScheme().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Agreement.LikertPoints != nil && *c.Agreement.LikertPoints < 2 {
		return invalid("agreement.likert_points must be at least 2, got %d", *c.Agreement.LikertPoints)
	}
	for _, pat := range c.Agreement.TopTwoPatterns {
		if _, err := path.Match(pat, ""); err != nil {
			return invalid("agreement.top_two_patterns: bad pattern %q", pat)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return invalid("log.format must be console or json, got %q", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return invalid("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

func validDuration(name string, s *string) error {
	if s == nil || *s == "" {
		return nil
	}
	d, err := time.ParseDuration(*s)
	if err != nil {
		return fmt.Errorf("%w: invalid %s '%s': %v", ErrInvalid, name, *s, err)
	}
	if d <= 0 {
		return invalid("%s must be positive, got %s", name, *s)
	}
	return nil
}

func parseDuration(s *string, def time.Duration) time.Duration {
	if s == nil || *s == "" {
		return def
	}
	d, err := time.ParseDuration(*s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// GetPalette returns the configured palette or Tableau 10.
func (c *ExplorerConfig) GetPalette() view.Palette {
	if len(c.Palette) == 0 {
		return view.DefaultPalette
	}
	return view.Palette(c.Palette)
}

// GetDomainPadding returns the domain_padding value or the default.
func (c *ExplorerConfig) GetDomainPadding() float64 {
	if c.DomainPadding == nil {
		return view.DefaultPadding
	}
	return *c.DomainPadding
}

// GetAnimationDuration parses and returns the AnimationDuration as a time.Duration.
func (c *ExplorerConfig) GetAnimationDuration() time.Duration {
	return parseDuration(c.AnimationDuration, view.DefaultAnimationDuration)
}

// GetFrameInterval parses and returns the FrameInterval as a time.Duration.
func (c *ExplorerConfig) GetFrameInterval() time.Duration {
	return parseDuration(c.FrameInterval, DefaultFrameInterval)
}

// PriceScheme merges the price overrides onto the default scheme.
func (c *ExplorerConfig) PriceScheme() summary.PriceScheme {
	s := summary.DefaultPriceScheme()
	if p := c.Price.Field; p != nil && *p != "" {
		s.Field = *p
	}
	if p := c.Price.Floor; p != nil {
		s.Floor = *p
	}
	if p := c.Price.Step; p != nil {
		s.Step = *p
	}
	if p := c.Price.Ceiling; p != nil {
		s.Ceiling = *p
	}
	return s
}

// AgreementPolicy merges the agreement overrides onto the default policy.
// codes labels coded attitude variables.
func (c *ExplorerConfig) AgreementPolicy(codes *survey.CodeTable) summary.AgreementPolicy {
	p := summary.DefaultAgreementPolicy()
	a := c.Agreement
	if a.IncludeMissing != nil {
		p.IncludeMissing = *a.IncludeMissing
	}
	if a.LoyaltyVariable != nil {
		p.LoyaltyVariable = *a.LoyaltyVariable
	}
	if len(a.LoyaltyLabels) > 0 {
		p.LoyaltyAgreeLabels = append([]string(nil), a.LoyaltyLabels...)
	}
	if len(a.TopTwoPatterns) > 0 {
		p.TopTwoPatterns = append([]string(nil), a.TopTwoPatterns...)
	}
	if a.LikertPoints != nil {
		p.LikertPoints = *a.LikertPoints
	}
	p.Codes = codes
	return p
}

// GetStateFields returns the state candidate fields or the defaults.
func (c *ExplorerConfig) GetStateFields() []string {
	if len(c.StateFields) == 0 {
		return geo.DefaultFields
	}
	return c.StateFields
}

// NormalizeOptions returns the record normalizer settings.
func (c *ExplorerConfig) NormalizeOptions() survey.NormalizeOptions {
	return survey.NormalizeOptions{ModelFields: c.ModelFields}
}

// GetCodeTable returns the code table path, or "" when unset.
func (c *ExplorerConfig) GetCodeTable() string {
	if c.CodeTable == nil {
		return ""
	}
	return *c.CodeTable
}

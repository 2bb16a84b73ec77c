package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/banshee-data/buyer.atlas/internal/geo"
	"github.com/banshee-data/buyer.atlas/internal/summary"
	"github.com/banshee-data/buyer.atlas/internal/view"
)

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrBool(v bool) *bool          { return &v }

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return p
}

func TestEmptyConfigDefaults(t *testing.T) {
	cfg := Empty()

	if got := cfg.GetDomainPadding(); got != view.DefaultPadding {
		t.Errorf("GetDomainPadding() = %f, want %f", got, view.DefaultPadding)
	}
	if got := cfg.GetAnimationDuration(); got != 400*time.Millisecond {
		t.Errorf("GetAnimationDuration() = %v, want 400ms", got)
	}
	if got := cfg.GetFrameInterval(); got != 16*time.Millisecond {
		t.Errorf("GetFrameInterval() = %v, want 16ms", got)
	}
	if got := cfg.GetPalette(); len(got) != len(view.DefaultPalette) || got[0] != view.DefaultPalette[0] {
		t.Errorf("GetPalette() = %v, want default palette", got)
	}
	if got := cfg.PriceScheme(); got != summary.DefaultPriceScheme() {
		t.Errorf("PriceScheme() = %+v, want defaults", got)
	}
	p := cfg.AgreementPolicy(nil)
	if !p.IncludeMissing {
		t.Error("IncludeMissing should default to true")
	}
	if p.LoyaltyVariable != summary.DefaultLoyaltyVariable {
		t.Errorf("LoyaltyVariable = %q", p.LoyaltyVariable)
	}
	if got := cfg.GetStateFields(); len(got) != len(geo.DefaultFields) {
		t.Errorf("GetStateFields() = %v", got)
	}
	if cfg.GetCodeTable() != "" {
		t.Errorf("GetCodeTable() = %q, want empty", cfg.GetCodeTable())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty config should validate: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "atlas.yaml", `
palette: ["#000000", "#ffffff"]
domain_padding: 0.1
animation_duration: 250ms
price:
  step: 10000
agreement:
  include_missing: false
  top_two_patterns: ["STATE_*", "BRAND_*"]
  likert_points: 5
numeric_fields: [LOAN_AMT]
code_table: codes.yaml
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.DomainPadding == nil || *cfg.DomainPadding != 0.1 {
		t.Errorf("Expected DomainPadding 0.1, got %v", cfg.DomainPadding)
	}
	if got := cfg.GetAnimationDuration(); got != 250*time.Millisecond {
		t.Errorf("GetAnimationDuration() = %v, want 250ms", got)
	}
	if got := cfg.GetPalette(); len(got) != 2 || got[1] != "#ffffff" {
		t.Errorf("GetPalette() = %v", got)
	}

	scheme := cfg.PriceScheme()
	if scheme.Step != 10000 || scheme.Floor != summary.DefaultPriceFloor || scheme.Field != "PRICE" {
		t.Errorf("PriceScheme() = %+v, want step override only", scheme)
	}

	p := cfg.AgreementPolicy(nil)
	if p.IncludeMissing {
		t.Error("Expected IncludeMissing false")
	}
	if p.RuleFor("BRAND_TRUST") != summary.RuleTopTwo {
		t.Errorf("BRAND_* should be top-2")
	}
	if p.LikertPoints != 5 {
		t.Errorf("LikertPoints = %d, want 5", p.LikertPoints)
	}
	if len(cfg.NumericFields) != 1 || cfg.NumericFields[0] != "LOAN_AMT" {
		t.Errorf("NumericFields = %v", cfg.NumericFields)
	}
	if cfg.GetCodeTable() != "codes.yaml" {
		t.Errorf("GetCodeTable() = %q", cfg.GetCodeTable())
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "atlas.json", `{"price": {"field": "MSRP", "floor": 20000}, "state_fields": ["HOME_STATE"]}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if got := cfg.PriceScheme(); got.Field != "MSRP" || got.Floor != 20000 {
		t.Errorf("PriceScheme() = %+v", got)
	}
	if got := cfg.GetStateFields(); len(got) != 1 || got[0] != "HOME_STATE" {
		t.Errorf("GetStateFields() = %v", got)
	}
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "atlas.example.yaml"))
	if err != nil {
		t.Fatalf("example config should load: %v", err)
	}
	if got := cfg.PriceScheme(); got != summary.DefaultPriceScheme() {
		t.Errorf("example price scheme %+v differs from defaults", got)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ATLAS_DOMAIN_PADDING", "0.2")
	t.Setenv("ATLAS_PRICE_CEILING", "150000")
	t.Setenv("ATLAS_LOG_LEVEL", "warn")

	path := writeConfig(t, "atlas.yaml", "domain_padding: 0.1\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if got := cfg.GetDomainPadding(); got != 0.2 {
		t.Errorf("env should override file: GetDomainPadding() = %f", got)
	}
	if got := cfg.PriceScheme().Ceiling; got != 150000 {
		t.Errorf("PriceScheme().Ceiling = %f, want 150000", got)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}

	envOnly, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if got := envOnly.GetDomainPadding(); got != 0.2 {
		t.Errorf("env-only GetDomainPadding() = %f, want 0.2", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		invalid bool
	}{
		{"bad extension", "atlas.toml", "x = 1", false},
		{"malformed yaml", "atlas.yaml", "palette: [", false},
		{"bad padding", "atlas.yaml", "domain_padding: 2", true},
		{"bad duration", "atlas.yaml", "animation_duration: soon", true},
		{"negative duration", "atlas.yaml", "frame_interval: -1s", true},
		{"bad palette", "atlas.yaml", "palette: [\"#12\"]", true},
		{"bad price", "atlas.yaml", "price:\n  step: 0", true},
		{"inverted price", "atlas.yaml", "price:\n  floor: 50000\n  ceiling: 40000", true},
		{"bad likert", "atlas.yaml", "agreement:\n  likert_points: 1", true},
		{"bad glob", "atlas.yaml", "agreement:\n  top_two_patterns: [\"[\"]", true},
		{"bad log format", "atlas.yaml", "log:\n  format: xml", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrInvalid); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalid) = %v, want %v (%v)", got, tt.invalid, err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateDirect(t *testing.T) {
	cfg := &ExplorerConfig{
		DomainPadding: ptrFloat64(0),
		Price:         PriceConfig{Field: ptrString("MSRP")},
		Agreement:     AgreementConfig{LikertPoints: ptrInt(7), IncludeMissing: ptrBool(true)},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	cfg.DomainPadding = ptrFloat64(-0.01)
	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("negative padding should be invalid, got %v", err)
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/epeers/crisisboard/internal/models"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration loaded from environment variables
// and the optional engine file
type Config struct {
	Port             string
	PGURL            string
	LogLevel         string
	RefreshInterval  time.Duration
	StaleAfter       time.Duration
	ThresholdProfile string
	Engine           EngineConfig
}

// FeedURLs locates every external feed
type FeedURLs struct {
	Seismic   string `yaml:"seismic"`
	Storm     string `yaml:"storm"`
	WorldBank string `yaml:"worldbank"`
	Prices    string `yaml:"prices"`
	Rates     string `yaml:"rates"`
}

// EngineConfig is the immutable analytics configuration: feeds, profiles,
// watchlists and cycle constants
type EngineConfig struct {
	Feeds                 FeedURLs                  `yaml:"feeds"`
	HTTPTimeout           time.Duration             `yaml:"http_timeout"`
	QuoteCurrency         string                    `yaml:"quote_currency"`
	MacroCountry          string                    `yaml:"macro_country"`
	MinMagnitude          float64                   `yaml:"min_magnitude"`
	StormKeywords         []string                  `yaml:"storm_keywords"`
	Profiles              []models.ThresholdProfile `yaml:"profiles"`
	GeopoliticalWatchlist []models.WatchlistEntry   `yaml:"geopolitical_watchlist"`
	FinancialWatchlist    []models.WatchlistEntry   `yaml:"financial_watchlist"`
	Cycle                 models.CycleParams        `yaml:"cycle"`
}

// DefaultEngineConfig returns the built-in engine configuration
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Feeds: FeedURLs{
			Seismic:   "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/4.5_day.geojson",
			Storm:     "https://api.weather.gov/alerts/active?status=actual",
			WorldBank: "https://api.worldbank.org/v2",
			Prices:    "https://data-asg.goldprice.org/dbXRates/USD",
			Rates:     "https://api.frankfurter.app/latest",
		},
		HTTPTimeout:   20 * time.Second,
		QuoteCurrency: "USD",
		MacroCountry:  "US",
		MinMagnitude:  4.5,
		StormKeywords: []string{"storm", "hurricane", "typhoon", "cyclone", "tornado", "blizzard", "wind"},
		Profiles: []models.ThresholdProfile{
			models.DefaultThresholdProfile,
			{Name: "sensitive", HighRiskSeverityScore: 4.0, PoliticalInstabilityCutoff: -0.5, RecessionGrowthCutoff: 1.0},
			{Name: "conservative", HighRiskSeverityScore: 6.0, PoliticalInstabilityCutoff: -1.5, RecessionGrowthCutoff: -1.0},
		},
		GeopoliticalWatchlist: []models.WatchlistEntry{
			{Region: "Ukraine", CountryCode: "UA"},
			{Region: "Russia", CountryCode: "RU"},
			{Region: "Israel", CountryCode: "IL"},
			{Region: "Iran", CountryCode: "IR"},
			{Region: "Venezuela", CountryCode: "VE"},
			{Region: "Nigeria", CountryCode: "NG"},
			{Region: "Pakistan", CountryCode: "PK"},
		},
		FinancialWatchlist: []models.WatchlistEntry{
			{Region: "United States", CountryCode: "US"},
			{Region: "Germany", CountryCode: "DE"},
			{Region: "United Kingdom", CountryCode: "GB"},
			{Region: "Japan", CountryCode: "JP"},
			{Region: "China", CountryCode: "CN"},
			{Region: "Italy", CountryCode: "IT"},
			{Region: "Argentina", CountryCode: "AR"},
			{Region: "Turkey", CountryCode: "TR"},
		},
		Cycle: models.CycleParams{
			StartPanicYear: 1927,
			Intervals:      []int{18, 20, 16},
			Range:          models.YearRange{Start: 1927, End: 2100},
			GoodSpan:       7,
			HardSpan:       11,
		},
	}
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first; variables already set in the shell win.
func Load() (*Config, error) {
	// missing .env is fine
	_ = godotenv.Load()

	refresh, err := durationEnv("REFRESH_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	stale, err := durationEnv("STALE_AFTER", time.Hour)
	if err != nil {
		return nil, err
	}

	engine, err := LoadEngineConfig(os.Getenv("ENGINE_CONFIG"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:             envOr("PORT", "8080"),
		PGURL:            os.Getenv("PG_URL"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		RefreshInterval:  refresh,
		StaleAfter:       stale,
		ThresholdProfile: envOr("THRESHOLD_PROFILE", models.DefaultThresholdProfile.Name),
		Engine:           engine,
	}

	if _, err := cfg.Engine.Profile(cfg.ThresholdProfile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEngineConfig reads the YAML engine file at path over the defaults. An
// empty path returns the defaults.
func LoadEngineConfig(path string) (EngineConfig, error) {
	engine := DefaultEngineConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return EngineConfig{}, fmt.Errorf("failed to read engine config: %w", err)
		}
		if err := yaml.Unmarshal(b, &engine); err != nil {
			return EngineConfig{}, fmt.Errorf("failed to parse engine config: %w", err)
		}
	}
	if err := engine.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return engine, nil
}

// Validate checks the invariants of the engine configuration
func (e EngineConfig) Validate() error {
	if len(e.Profiles) == 0 {
		return errors.New("at least one threshold profile is required")
	}
	names := make(map[string]bool, len(e.Profiles))
	for _, p := range e.Profiles {
		if p.Name == "" {
			return errors.New("threshold profile without a name")
		}
		if names[p.Name] {
			return fmt.Errorf("duplicate threshold profile %q", p.Name)
		}
		names[p.Name] = true
	}
	if err := validateWatchlist("geopolitical_watchlist", e.GeopoliticalWatchlist); err != nil {
		return err
	}
	if err := validateWatchlist("financial_watchlist", e.FinancialWatchlist); err != nil {
		return err
	}
	if e.QuoteCurrency == "" {
		return errors.New("quote_currency is required")
	}
	return nil
}

// Profile returns the profile called name
func (e EngineConfig) Profile(name string) (models.ThresholdProfile, error) {
	for _, p := range e.Profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return models.ThresholdProfile{}, fmt.Errorf("unknown threshold profile %q", name)
}

func validateWatchlist(name string, entries []models.WatchlistEntry) error {
	seen := make(map[string]bool, len(entries))
	for _, w := range entries {
		code := strings.ToUpper(strings.TrimSpace(w.CountryCode))
		if code == "" {
			return fmt.Errorf("%s: entry %q has no country code", name, w.Region)
		}
		if seen[code] {
			return fmt.Errorf("%s: duplicate country code %s", name, code)
		}
		seen[code] = true
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

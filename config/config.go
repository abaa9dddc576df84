package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Database configuration
	Database DatabaseConfig `json:"database"`

	// Game configuration
	Game GameConfig `json:"game"`

	// Server configuration
	Server ServerConfig `json:"server"`
}

// DatabaseConfig holds session store configuration
type DatabaseConfig struct {
	// Store driver (memory, file, sqlite3, redis)
	Driver string `json:"driver"`

	// Connection string: directory for file, path for sqlite3, address for redis
	DSN string `json:"dsn"`

	// Redis password, if any
	Password string `json:"password,omitempty"`

	// Redis logical database
	DB int `json:"db,omitempty"`

	// How long a life lives in redis after its last write, in hours (0 = forever)
	TTLHours int `json:"ttl_hours,omitempty"`
}

// TTL returns the configured expiry as a duration
func (d DatabaseConfig) TTL() time.Duration {
	return time.Duration(d.TTLHours) * time.Hour
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level"`

	// Directory holding items/events/vendors/locations data files
	DataDir string `json:"data_dir"`
}

// GameConfig holds every game-balance constant the engines consult
type GameConfig struct {
	Person  PersonConfig  `json:"person"`
	Market  MarketConfig  `json:"market"`
	Events  EventsConfig  `json:"events"`
	Police  PoliceConfig  `json:"police"`
	Vendors VendorsConfig `json:"vendors"`
	Airport AirportConfig `json:"airport"`
}

// Band is an inclusive [min,max] range used for random draws
type Band struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PersonConfig seeds a new life
type PersonConfig struct {
	StartingCash    int64   `json:"starting_cash"`
	StartingDebt    int64   `json:"starting_debt"`
	StartingSavings int64   `json:"starting_savings"`
	DebtInterest    float64 `json:"debt_interest"`
	SavingsInterest float64 `json:"savings_interest"`
	StartingHP      int     `json:"starting_hp"`
	MaxHP           int     `json:"max_hp"`
	StartingStorage int     `json:"starting_storage"`
	RestHeal        int     `json:"rest_heal"`
	BaseDamage      int     `json:"base_damage"`
}

// MarketConfig drives listing generation
type MarketConfig struct {
	SizeAffect       float64 `json:"size_affect"`
	SizeMax          float64 `json:"size_max"`
	PriceVariance    Band    `json:"price_variance"`
	UnitVariance     Band    `json:"unit_variance"`
	BasePrice        float64 `json:"base_price"`
	BaseUnits        float64 `json:"base_units"`
	StartingDiscount float64 `json:"starting_discount"`
}

// EventsConfig drives the per-turn event roll
type EventsConfig struct {
	// Probability (0-1) that a turn produces an event
	EventRate float64 `json:"event_rate"`

	// Added to the streak modifier on every turn advance
	MetaStep float64 `json:"meta_step"`
}

// PoliceConfig drives heat and encounters
type PoliceConfig struct {
	HeatRate         int     `json:"heat_rate"`
	HeatCap          int     `json:"heat_cap"`
	MaxEncounterRate float64 `json:"max_encounter_rate"`
	BaseDamage       int     `json:"base_damage"`
	LuckRate         float64 `json:"luck_rate"`
	BribeMinCash     int64   `json:"bribe_min_cash"`
	BribePerHeat     int64   `json:"bribe_per_heat"`
	DetainedFine     int64   `json:"detained_fine"`
}

// VendorPricing is the geometric price ladder of one vendor
type VendorPricing struct {
	TimesBase    float64 `json:"times_base"`
	IncreaseRate float64 `json:"increase_rate"`
}

// VendorConfig holds the constants of one vendor
type VendorConfig struct {
	Pricing VendorPricing `json:"pricing"`
	Stock   int           `json:"stock"`
	Units   int           `json:"units"`
}

// VendorsConfig holds all vendor constants
type VendorsConfig struct {
	BasePrice float64      `json:"base_price"`
	OpenRate  float64      `json:"open_rate"`
	Storage   VendorConfig `json:"storage"`
	Weapons   VendorConfig `json:"weapons"`
}

// AirportConfig prices flights
type AirportConfig struct {
	BasePrice     float64 `json:"base_price"`
	PriceVariance Band    `json:"price_variance"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "./lifesim.db",
		},
		Game: DefaultGameConfig(),
		Server: ServerConfig{
			Port:     "8080",
			LogLevel: "info",
			DataDir:  "./assets/data",
		},
	}
}

// DefaultGameConfig returns the default game balance
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Person: PersonConfig{
			StartingCash:    2000,
			StartingDebt:    2000,
			StartingSavings: 0,
			DebtInterest:    0.05,
			SavingsInterest: 0.01,
			StartingHP:      100,
			MaxHP:           100,
			StartingStorage: 100,
			RestHeal:        10,
			BaseDamage:      5,
		},
		Market: MarketConfig{
			SizeAffect:       0.5,
			SizeMax:          10,
			PriceVariance:    Band{Min: 0.1, Max: 0.8},
			UnitVariance:     Band{Min: 0.1, Max: 0.8},
			BasePrice:        100,
			BaseUnits:        100,
			StartingDiscount: 0.1,
		},
		Events: EventsConfig{
			EventRate: 0.25,
			MetaStep:  0.05,
		},
		Police: PoliceConfig{
			HeatRate:         5,
			HeatCap:          100,
			MaxEncounterRate: 0.5,
			BaseDamage:       10,
			LuckRate:         0.5,
			BribeMinCash:     100,
			BribePerHeat:     10,
			DetainedFine:     500,
		},
		Vendors: VendorsConfig{
			BasePrice: 100,
			OpenRate:  0.75,
			Storage: VendorConfig{
				Pricing: VendorPricing{TimesBase: 5, IncreaseRate: 1.5},
				Stock:   5,
				Units:   50,
			},
			Weapons: VendorConfig{
				Pricing: VendorPricing{TimesBase: 10, IncreaseRate: 2},
				Stock:   4,
				Units:   1,
			},
		},
		Airport: AirportConfig{
			BasePrice:     150,
			PriceVariance: Band{Min: 0.8, Max: 1.2},
		},
	}
}

// Validate rejects balance configuration the engines cannot run with
func (g GameConfig) Validate() error {
	var errs []error
	if g.Person.MaxHP <= 0 || g.Person.StartingHP <= 0 || g.Person.StartingHP > g.Person.MaxHP {
		errs = append(errs, errors.New("person: starting_hp must be in (0, max_hp]"))
	}
	if g.Person.StartingCash < 0 || g.Person.StartingDebt < 0 || g.Person.StartingSavings < 0 {
		errs = append(errs, errors.New("person: starting finance must be non-negative"))
	}
	if g.Person.StartingStorage < 0 {
		errs = append(errs, errors.New("person: starting_storage must be non-negative"))
	}
	if g.Market.SizeMax <= 0 {
		errs = append(errs, errors.New("market: size_max must be positive"))
	}
	if g.Market.PriceVariance.Min > g.Market.PriceVariance.Max || g.Market.UnitVariance.Min > g.Market.UnitVariance.Max {
		errs = append(errs, errors.New("market: variance bands must have min <= max"))
	}
	if g.Events.EventRate < 0 || g.Events.EventRate > 1 {
		errs = append(errs, errors.New("events: event_rate must be in [0, 1]"))
	}
	if g.Police.HeatCap <= 0 {
		errs = append(errs, errors.New("police: heat_cap must be positive"))
	}
	if g.Police.MaxEncounterRate < 0 || g.Police.MaxEncounterRate > 1 {
		errs = append(errs, errors.New("police: max_encounter_rate must be in [0, 1]"))
	}
	if g.Police.HeatRate < 0 {
		errs = append(errs, errors.New("police: heat_rate must be non-negative"))
	}
	for name, v := range map[string]VendorConfig{"storage": g.Vendors.Storage, "weapons": g.Vendors.Weapons} {
		if v.Stock < 0 || v.Pricing.IncreaseRate <= 0 {
			errs = append(errs, fmt.Errorf("vendors.%s: stock must be non-negative and increase_rate positive", name))
		}
	}
	return errors.Join(errs...)
}

// LoadConfig loads configuration from a file
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create default config file
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
		return config, nil
	}

	// Read config file
	file, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, err
	}

	if err := config.Game.Validate(); err != nil {
		return config, fmt.Errorf("invalid game config: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Write config to file
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return err
	}

	return nil
}

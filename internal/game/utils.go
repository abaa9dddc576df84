package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/user/lifesim/internal/types"
	"gopkg.in/yaml.v3"
)

// DataLoader handles loading game data from files
type DataLoader struct {
	basePath string
}

// NewDataLoader creates a new data loader
func NewDataLoader(basePath string) *DataLoader {
	return &DataLoader{
		basePath: basePath,
	}
}

// readTable decodes <name>.json, falling back to <name>.yaml
func (dl *DataLoader) readTable(name string, out any) error {
	path := filepath.Join(dl.basePath, name+".json")
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse %s data: %w", name, err)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read %s file: %w", name, err)
	}

	path = filepath.Join(dl.basePath, name+".yaml")
	data, err = os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s file: %w", name, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", name, err)
	}
	return nil
}

// LoadItems loads item definitions from file
func (dl *DataLoader) LoadItems() ([]types.Item, error) {
	var items []types.Item
	if err := dl.readTable("items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// LoadEvents loads event definitions from file
func (dl *DataLoader) LoadEvents() ([]types.EventDef, error) {
	var events []types.EventDef
	if err := dl.readTable("events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// LoadVendors loads vendor definitions from file
func (dl *DataLoader) LoadVendors() (map[string]types.VendorDef, error) {
	var vendors map[string]types.VendorDef
	if err := dl.readTable("vendors", &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

// LoadLocations loads location definitions from file
func (dl *DataLoader) LoadLocations() ([]types.LocationDef, error) {
	var locations []types.LocationDef
	if err := dl.readTable("locations", &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// LoadCatalog loads every table and checks it is usable
func (dl *DataLoader) LoadCatalog() (*types.Catalog, error) {
	items, err := dl.LoadItems()
	if err != nil {
		return nil, err
	}
	events, err := dl.LoadEvents()
	if err != nil {
		return nil, err
	}
	vendors, err := dl.LoadVendors()
	if err != nil {
		return nil, err
	}
	locations, err := dl.LoadLocations()
	if err != nil {
		return nil, err
	}
	catalog := &types.Catalog{Items: items, Events: events, Vendors: vendors, Locations: locations}
	if err := ValidateCatalog(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// ValidateCatalog rejects data tables the engines cannot run with
func ValidateCatalog(c *types.Catalog) error {
	if c == nil {
		return fmt.Errorf("%w: catalog is nil", ErrIntegrity)
	}
	seen := make(map[string]bool, len(c.Items))
	for _, item := range c.Items {
		if item.ID == "" || seen[item.ID] {
			return fmt.Errorf("%w: item ids must be unique and non-empty (%q)", ErrIntegrity, item.ID)
		}
		if item.Rarity < 0 || item.Rarity > 100 {
			return fmt.Errorf("%w: item %s rarity must be in [0, 100]", ErrIntegrity, item.ID)
		}
		seen[item.ID] = true
	}
	for _, event := range c.Events {
		if len(event.Descriptions) == 0 {
			return fmt.Errorf("%w: event %s has no descriptions", ErrIntegrity, event.ID)
		}
		p := event.Parameters
		switch event.Type {
		case types.EventAdjustMarket:
			if p.Price == nil || p.Units == nil {
				return fmt.Errorf("%w: event %s needs price and units bands", ErrIntegrity, event.ID)
			}
		case types.EventAdjustInventory:
			if p.Units == nil {
				return fmt.Errorf("%w: event %s needs a units band", ErrIntegrity, event.ID)
			}
		case types.EventAdjustCash:
			if p.Amount == nil {
				return fmt.Errorf("%w: event %s needs an amount band", ErrIntegrity, event.ID)
			}
		default:
			return fmt.Errorf("%w: event %s has unknown type %q", ErrIntegrity, event.ID, event.Type)
		}
	}
	for _, kind := range VendorKinds() {
		if _, ok := c.Vendors[string(kind)]; !ok {
			return fmt.Errorf("%w: vendor %s is not defined", ErrIntegrity, kind)
		}
	}
	if len(c.Locations) == 0 {
		return fmt.Errorf("%w: at least one location is required", ErrIntegrity)
	}
	return nil
}

// RNG is the randomness source every engine draws from
type RNG interface {
	Intn(n int) int
	Float64() float64
}

// DiceRoller handles dice rolling for the game
type DiceRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDiceRoller creates a new dice roller with a seeded random number generator
func NewDiceRoller() *DiceRoller {
	return NewSeededDiceRoller(time.Now().UnixNano())
}

// NewSeededDiceRoller creates a dice roller that replays the same sequence for a seed
func NewSeededDiceRoller(seed int64) *DiceRoller {
	return &DiceRoller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a value in [0, n)
func (dr *DiceRoller) Intn(n int) int {
	dr.mu.Lock()
	defer dr.mu.Unlock()
	return dr.rng.Intn(n)
}

// Float64 returns a value in [0, 1)
func (dr *DiceRoller) Float64() float64 {
	dr.mu.Lock()
	defer dr.mu.Unlock()
	return dr.rng.Float64()
}

// Roll rolls a dice with the specified number of sides
func (dr *DiceRoller) Roll(sides int) int {
	return dr.Intn(sides) + 1
}

// RandomInt returns an integer in [min, max]
func RandomInt(rng RNG, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}

// RandomArbitrary returns a real number in [min, max)
func RandomArbitrary(rng RNG, min, max float64) float64 {
	return rng.Float64()*(max-min) + min
}

// RollDice returns a roll in [min, max) lowered by the streak modifier, floored at min
func RollDice(rng RNG, min, max, meta float64) float64 {
	roll := RandomArbitrary(rng, min, max) - meta*(max-min)
	if roll < min {
		return min
	}
	return roll
}

// ShrinkSlice randomly removes elements until at most n remain, keeping order
func ShrinkSlice[T any](rng RNG, in []T, n int) []T {
	out := append([]T(nil), in...)
	if n < 0 {
		n = 0
	}
	for len(out) > n {
		i := rng.Intn(len(out))
		out = append(out[:i], out[i+1:]...)
	}
	return out
}

// IsWholeNumber reports whether f has no fractional part
func IsWholeNumber(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}

// roundInt64 rounds half away from zero
func roundInt64(f float64) int64 {
	return int64(math.Round(f))
}

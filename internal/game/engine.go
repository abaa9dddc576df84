package game

import (
	"fmt"

	"github.com/user/lifesim/config"
	"github.com/user/lifesim/internal/types"
	"go.uber.org/zap"
)

// Localizer resolves localized message ids
type Localizer interface {
	Text(id string) string
	Pool(id string) []string
}

// Engine bundles the read-only tables every state transition consults.
// Its methods never mutate the life they are given; they return a new one.
type Engine struct {
	cfg     config.GameConfig
	catalog *types.Catalog
	text    Localizer
	vendors map[VendorKind]Vendor
	Logger  *zap.Logger
}

// NewEngine validates the configuration and data tables and builds an engine
func NewEngine(cfg config.GameConfig, catalog *types.Catalog, text Localizer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	if err := ValidateCatalog(catalog); err != nil {
		return nil, err
	}
	if text == nil {
		return nil, fmt.Errorf("%w: localizer is required", ErrIntegrity)
	}
	e := &Engine{
		cfg:     cfg,
		catalog: catalog,
		text:    text,
		Logger:  zap.NewNop(),
	}
	e.vendors = map[VendorKind]Vendor{
		VendorStorage: &StorageVendor{cfg: cfg.Vendors, def: catalog.Vendors[string(VendorStorage)]},
		VendorWeapons: &WeaponsVendor{cfg: cfg.Vendors, def: catalog.Vendors[string(VendorWeapons)], policeDamage: cfg.Police.BaseDamage},
	}
	return e, nil
}

// SetLogger replaces the engine logger
func (e *Engine) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	e.Logger = logger
}

// Config returns the game balance the engine runs with
func (e *Engine) Config() config.GameConfig {
	return e.cfg
}

// Catalog returns the data tables the engine runs with
func (e *Engine) Catalog() *types.Catalog {
	return e.catalog
}

// Vendor returns the engine for one vendor kind
func (e *Engine) Vendor(kind VendorKind) (Vendor, error) {
	v, ok := e.vendors[kind]
	if !ok {
		return nil, ErrUnknownVendor
	}
	return v, nil
}

// pick returns a uniformly chosen element of a string pool
func pick(rng RNG, pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rng.Intn(len(pool))]
}

// ensureAlive rejects terminal lives and malformed snapshots
func ensureAlive(life *types.Life) error {
	if life == nil {
		return fmt.Errorf("%w: life is nil", ErrIntegrity)
	}
	if !life.Alive {
		return ErrLifeTerminal
	}
	return nil
}

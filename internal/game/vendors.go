package game

import (
	"fmt"

	"github.com/user/lifesim/config"
	"github.com/user/lifesim/internal/types"
)

// VendorKind selects a vendor engine
type VendorKind string

// Known vendors
const (
	VendorStorage VendorKind = "storage"
	VendorWeapons VendorKind = "weapons"
)

// VendorKinds returns every vendor kind in display order
func VendorKinds() []VendorKind {
	return []VendorKind{VendorStorage, VendorWeapons}
}

// ParseVendorKind validates a vendor name
func ParseVendorKind(s string) (VendorKind, error) {
	for _, kind := range VendorKinds() {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", ErrUnknownVendor
}

// VendorTransaction is a requested vendor purchase
type VendorTransaction struct {
	Index int `json:"index"`
}

// Vendor generates stock and resolves one-time purchases
type Vendor interface {
	Kind() VendorKind
	GenerateListings(rng RNG, life *types.Life) types.VendorListing
	ApplyPurchase(life *types.Life, index int) (*types.Life, error)
}

// priceLadder returns a geometric progression of whole-number prices
func priceLadder(vendors config.VendorsConfig, v config.VendorConfig) []int64 {
	prices := make([]int64, 0, v.Stock)
	last := vendors.BasePrice * v.Pricing.TimesBase
	for i := 0; i < v.Stock; i++ {
		last *= v.Pricing.IncreaseRate
		prices = append(prices, roundInt64(last))
	}
	return prices
}

// openListing decides whether a vendor trades here this turn
func openListing(rng RNG, vendors config.VendorsConfig, def types.VendorDef) types.VendorListing {
	return types.VendorListing{
		Open:         rng.Float64() < vendors.OpenRate,
		Name:         def.Name,
		Introduction: def.Introduction,
		Stock:        []types.VendorOffer{},
	}
}

// takeOffer validates a purchase and splices the offer out of a cloned life
func takeOffer(life *types.Life, kind VendorKind, index int) (*types.Life, types.VendorOffer, error) {
	if err := ensureAlive(life); err != nil {
		return nil, types.VendorOffer{}, err
	}
	if life.Current.Police.Encounter != nil {
		return nil, types.VendorOffer{}, ErrEncounterActive
	}
	listing, ok := life.Listings.Vendors[string(kind)]
	if !ok || !listing.Open {
		return nil, types.VendorOffer{}, ErrVendorClosed
	}
	if index < 0 || index >= len(listing.Stock) {
		return nil, types.VendorOffer{}, ErrStaleVendorIndex
	}
	offer := listing.Stock[index]
	if offer.Price > life.Current.Finance.Cash {
		return nil, types.VendorOffer{}, ErrInsufficientCash
	}

	newLife := life.Clone()
	listing = newLife.Listings.Vendors[string(kind)]
	listing.Stock = append(listing.Stock[:index], listing.Stock[index+1:]...)
	newLife.Listings.Vendors[string(kind)] = listing
	newLife.Current.Finance.Cash -= offer.Price
	return newLife, offer, nil
}

// vendorLog is the action log payload of a purchase
type vendorLog struct {
	Vendor VendorKind        `json:"vendor"`
	Index  int               `json:"index"`
	Offer  types.VendorOffer `json:"offer"`
}

// StorageVendor sells carrying capacity
type StorageVendor struct {
	cfg config.VendorsConfig
	def types.VendorDef
}

// Kind implements Vendor
func (v *StorageVendor) Kind() VendorKind { return VendorStorage }

// GenerateListings implements Vendor
func (v *StorageVendor) GenerateListings(rng RNG, life *types.Life) types.VendorListing {
	listing := openListing(rng, v.cfg, v.def)
	if !listing.Open {
		return listing
	}
	for _, price := range priceLadder(v.cfg, v.cfg.Storage) {
		listing.Stock = append(listing.Stock, types.VendorOffer{
			Name:  "units of storage",
			Units: v.cfg.Storage.Units,
			Price: price,
		})
	}
	return listing
}

// ApplyPurchase implements Vendor
func (v *StorageVendor) ApplyPurchase(life *types.Life, index int) (*types.Life, error) {
	newLife, offer, err := takeOffer(life, VendorStorage, index)
	if err != nil {
		return nil, err
	}
	newLife.Current.Storage.Available += offer.Units
	newLife.Current.Storage.Total += offer.Units
	newLife.Log(ActionVendor, vendorLog{Vendor: VendorStorage, Index: index, Offer: offer})
	return newLife, nil
}

var (
	weaponMakers = []string{
		"Swat and Hissin",
		"Spots and Stripes",
		"Snuggles Co",
		"Mr. Winkles",
	}
	weaponModels = []string{
		"P4W",
		"P4W-S",
		"B1T3",
		"CL4W",
		"5-CR4TCH",
		"H1-55",
		"FLUFF",
		"M30W",
	}
	weaponCalibers = []string{
		".22 Short",
		".22 Long",
		"5.7x28mm",
		"9mm",
		".38 Special",
		".357 Magnum",
		".45 ACP",
		".50 Caliber",
	}
)

// WeaponsVendor sells the single equipped weapon
type WeaponsVendor struct {
	cfg          config.VendorsConfig
	def          types.VendorDef
	policeDamage int
}

// Kind implements Vendor
func (v *WeaponsVendor) Kind() VendorKind { return VendorWeapons }

// GenerateListings implements Vendor
func (v *WeaponsVendor) GenerateListings(rng RNG, life *types.Life) types.VendorListing {
	listing := openListing(rng, v.cfg, v.def)
	if !listing.Open {
		return listing
	}
	for i, price := range priceLadder(v.cfg, v.cfg.Weapons) {
		listing.Stock = append(listing.Stock, types.VendorOffer{
			Name:  weaponName(rng),
			Units: v.cfg.Weapons.Units,
			Price: price,
			Meta: &types.OfferMeta{
				Name:  "Weapon Damage",
				Value: (i + 1) * v.policeDamage,
			},
		})
	}
	return listing
}

// ApplyPurchase implements Vendor
func (v *WeaponsVendor) ApplyPurchase(life *types.Life, index int) (*types.Life, error) {
	newLife, offer, err := takeOffer(life, VendorWeapons, index)
	if err != nil {
		return nil, err
	}
	if offer.Meta == nil {
		return nil, fmt.Errorf("%w: weapon offer %d has no damage", ErrIntegrity, index)
	}
	newLife.Current.Weapon = &types.Weapon{Name: offer.Name, Damage: offer.Meta.Value}
	newLife.Log(ActionVendor, vendorLog{Vendor: VendorWeapons, Index: index, Offer: offer})
	return newLife, nil
}

func weaponName(rng RNG) string {
	return fmt.Sprintf("%s %s [%s]", pick(rng, weaponMakers), pick(rng, weaponModels), pick(rng, weaponCalibers))
}

// DoVendorTransaction buys one offer from a vendor
func (e *Engine) DoVendorTransaction(life *types.Life, kind VendorKind, tx VendorTransaction) (*types.Life, error) {
	v, err := e.Vendor(kind)
	if err != nil {
		return nil, err
	}
	return v.ApplyPurchase(life, tx.Index)
}

package game

import (
	"math"

	"github.com/user/lifesim/internal/types"
	"go.uber.org/zap"
)

// Market transaction types
const (
	TransactionBuy  = "buy"
	TransactionSell = "sell"
	TransactionDump = "dump"
)

// UpgradeBookkeeping records purchase history and average price per item
const UpgradeBookkeeping = "bookkeeping"

// MarketTransaction is a requested market trade
type MarketTransaction struct {
	Item  string `json:"item"`
	Units int    `json:"units"`
	Type  string `json:"type"`
}

// ListingLength returns how many items a market of the given size lists
func (e *Engine) ListingLength(size int) int {
	m := e.cfg.Market
	multi := (float64(size) * (1 - (m.SizeAffect - 1))) / m.SizeMax
	n := int(math.Ceil(multi * float64(len(e.catalog.Items))))
	if n < 0 {
		return 0
	}
	if n > len(e.catalog.Items) {
		return len(e.catalog.Items)
	}
	return n
}

// GenerateMarketListings builds the for-sale list of the current location.
// The longer a life stays put, the more likely held items show up again.
func (e *Engine) GenerateMarketListings(rng RNG, life *types.Life, turnsSpent int) []types.Listing {
	m := e.cfg.Market
	size := float64(life.Current.Location.Size)
	listingLength := e.ListingLength(life.Current.Location.Size)

	// pad the catalog with held items, once per turn spent here
	var padded []types.Item
	for index := 0; index < turnsSpent; {
		matched := false
		for _, held := range life.Current.Inventory {
			if item, ok := e.catalog.Item(held.ID); ok {
				padded = append(padded, item)
				matched = true
				index++
			}
		}
		if !matched {
			break
		}
	}
	padded = append(padded, e.catalog.Items...)

	pruned := ShrinkSlice(rng, padded, listingLength)
	chosen := make([]types.Item, 0, listingLength)
	existing := make(map[string]bool, listingLength)
	for _, item := range pruned {
		if existing[item.ID] {
			continue
		}
		existing[item.ID] = true
		chosen = append(chosen, item)
	}

	// backfill from the items that did not make it
	if len(chosen) < listingLength {
		var remaining []types.Item
		for _, item := range e.catalog.Items {
			if !existing[item.ID] {
				remaining = append(remaining, item)
			}
		}
		chosen = append(chosen, ShrinkSlice(rng, remaining, listingLength-len(chosen))...)
	}

	multi := 1 - (size*m.SizeAffect)/m.SizeMax
	priceMin := multi * m.PriceVariance.Min
	priceMax := multi * m.PriceVariance.Max
	unitMin := multi * m.UnitVariance.Min
	unitMax := multi * m.UnitVariance.Max

	listings := make([]types.Listing, 0, len(chosen))
	for _, item := range chosen {
		modPerc := float64(item.Rarity) / 100

		var priceVariance float64
		if life.Current.Turn == 1 {
			// the first turn gets a discount
			priceVariance = RandomArbitrary(rng, priceMin-m.StartingDiscount, priceMax-m.StartingDiscount)
		} else {
			priceVariance = RandomArbitrary(rng, priceMin, priceMax)
		}
		modBasePrice := m.BasePrice*priceVariance + m.BasePrice
		unitVariance := RandomArbitrary(rng, unitMin, unitMax)
		modBaseUnits := m.BaseUnits*unitVariance + m.BaseUnits

		price := roundInt64(modPerc * modBasePrice)
		if price < 1 {
			price = 1
		}
		units := int(roundInt64((1 - modPerc) * modBaseUnits))
		if units < 0 {
			units = 0
		}
		listings = append(listings, types.Listing{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Rarity:      item.Rarity,
			Price:       price,
			Units:       units,
		})
	}

	e.Logger.Debug("Generated market listings",
		zap.String("life_id", life.ID),
		zap.String("location", life.Current.Location.ID),
		zap.Int("listing_length", listingLength),
		zap.Int("listings", len(listings)),
		zap.Int("turns_spent", turnsSpent))

	return listings
}

// ApplyMarketTransaction routes buy and sell to DoMarketTransaction and dump to DumpInventory
func (e *Engine) ApplyMarketTransaction(life *types.Life, tx MarketTransaction) (*types.Life, error) {
	if tx.Type == TransactionDump {
		return e.DumpInventory(life, tx)
	}
	return e.DoMarketTransaction(life, tx)
}

// DoMarketTransaction buys or sells against the current market listing
func (e *Engine) DoMarketTransaction(life *types.Life, tx MarketTransaction) (*types.Life, error) {
	if err := ensureAlive(life); err != nil {
		return nil, err
	}
	if life.Current.Police.Encounter != nil {
		return nil, ErrEncounterActive
	}
	if tx.Units <= 0 {
		return nil, ErrInvalidUnits
	}
	if tx.Type != TransactionBuy && tx.Type != TransactionSell {
		return nil, ErrInvalidTransactionType
	}

	newLife := life.Clone()
	listing := newLife.Listing(tx.Item)
	if listing == nil {
		return nil, ErrItemNotListed
	}
	totalPrice := int64(tx.Units) * listing.Price
	inventory := newLife.InventoryItem(tx.Item)

	switch tx.Type {
	case TransactionBuy:
		if tx.Units > listing.Units {
			return nil, ErrInsufficientMarketStock
		}
		if tx.Units > newLife.Current.Storage.Available {
			return nil, ErrInsufficientStorage
		}
		// savings don't count, dealers don't take checks
		if totalPrice > newLife.Current.Finance.Cash {
			return nil, ErrInsufficientCash
		}
		if inventory == nil {
			newLife.Current.Inventory = append(newLife.Current.Inventory, types.InventoryItem{
				ID:       listing.ID,
				BoughtAt: []types.Purchase{},
			})
			inventory = &newLife.Current.Inventory[len(newLife.Current.Inventory)-1]
		}
		newLife.Current.Finance.Cash -= totalPrice
		listing.Units -= tx.Units
		newLife.Current.Storage.Available -= tx.Units
		inventory.Units += tx.Units
		inventory.SunkCost += totalPrice

	case TransactionSell:
		if inventory == nil {
			return nil, ErrItemNotHeld
		}
		if tx.Units > inventory.Units {
			return nil, ErrInsufficientInventory
		}
		inventory.SunkCost -= inventory.SunkCost * int64(tx.Units) / int64(inventory.Units)
		newLife.Current.Finance.Cash += totalPrice
		listing.Units += tx.Units
		newLife.Current.Storage.Available += tx.Units
		inventory.Units -= tx.Units
	}

	// every trade is recorded, sells included
	if newLife.Current.Upgrades[UpgradeBookkeeping] {
		inventory.BoughtAt = append(inventory.BoughtAt, types.Purchase{Units: tx.Units, Price: listing.Price})
		var totalUnits, totalSpent int64
		for _, p := range inventory.BoughtAt {
			totalUnits += int64(p.Units)
			totalSpent += p.Price * int64(p.Units)
		}
		avg := (totalSpent + totalUnits - 1) / totalUnits
		inventory.AveragePrice = &avg
	}

	addHeat(newLife, e.cfg.Police.HeatRate)
	newLife.Log(ActionMarket, tx)

	e.Logger.Debug("Market transaction applied",
		zap.String("life_id", newLife.ID),
		zap.String("type", tx.Type),
		zap.String("item", tx.Item),
		zap.Int("units", tx.Units),
		zap.Int64("total_price", totalPrice),
		zap.Int64("cash", newLife.Current.Finance.Cash))

	return newLife, nil
}

// DumpInventory moves held units back to free storage with no cash effect
func (e *Engine) DumpInventory(life *types.Life, tx MarketTransaction) (*types.Life, error) {
	if err := ensureAlive(life); err != nil {
		return nil, err
	}
	if life.Current.Police.Encounter != nil {
		return nil, ErrEncounterActive
	}
	if tx.Units <= 0 {
		return nil, ErrInvalidUnits
	}

	newLife := life.Clone()
	inventory := newLife.InventoryItem(tx.Item)
	if inventory == nil {
		return nil, ErrItemNotHeld
	}
	if tx.Units > inventory.Units {
		return nil, ErrInsufficientInventory
	}
	inventory.SunkCost -= inventory.SunkCost * int64(tx.Units) / int64(inventory.Units)
	newLife.Current.Storage.Available += tx.Units
	inventory.Units -= tx.Units
	newLife.Log(ActionMarket, tx)

	return newLife, nil
}

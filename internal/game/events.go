package game

import (
	"strconv"
	"strings"

	"github.com/user/lifesim/internal/types"
	"go.uber.org/zap"
)

// Adjustment is the resolved effect of an event, recorded in the action log
type Adjustment struct {
	Type   string         `json:"type"`
	Item   *types.Listing `json:"item,omitempty"`
	Price  float64        `json:"price,omitempty"`
	Units  float64        `json:"units,omitempty"`
	Amount float64        `json:"amount,omitempty"`
}

// SimulateEvents rolls for a world event this turn and applies it.
// A miss leaves the streak modifier in place for the next roll.
func (e *Engine) SimulateEvents(rng RNG, life *types.Life) (*types.Life, error) {
	if err := ensureAlive(life); err != nil {
		return nil, err
	}
	newLife := life.Clone()

	roll := RollDice(rng, 0, 1, life.Current.EventMeta)
	if e.cfg.Events.EventRate <= roll || life.Testing || len(e.catalog.Events) == 0 {
		newLife.Current.Event = e.text.Text("event_no_event")
		e.Logger.Debug("No event this turn",
			zap.String("life_id", life.ID),
			zap.Float64("roll", roll),
			zap.Float64("event_rate", e.cfg.Events.EventRate),
			zap.Float64("event_meta", life.Current.EventMeta))
		return newLife, nil
	}

	def := e.catalog.Events[rng.Intn(len(e.catalog.Events))]
	return e.ApplyEvent(rng, newLife, def), nil
}

// ApplyEvent dispatches one event definition against a life
func (e *Engine) ApplyEvent(rng RNG, life *types.Life, def types.EventDef) *types.Life {
	newLife := life.Clone()
	market := newLife.Listings.Market
	if def.Type != types.EventAdjustCash && len(market) == 0 {
		newLife.Current.Event = e.text.Text("event_no_event")
		return newLife
	}

	var adjustment Adjustment
	switch def.Type {
	case types.EventAdjustMarket:
		item := market[rng.Intn(len(market))]
		adjustment = Adjustment{
			Type:  def.Type,
			Item:  &item,
			Price: RandomArbitrary(rng, def.Parameters.Price.Min, def.Parameters.Price.Max),
			Units: RandomArbitrary(rng, def.Parameters.Units.Min, def.Parameters.Units.Max),
		}
		e.adjustMarketListing(newLife, adjustment)
	case types.EventAdjustInventory:
		item := market[rng.Intn(len(market))]
		adjustment = Adjustment{
			Type:  def.Type,
			Item:  &item,
			Units: RandomArbitrary(rng, def.Parameters.Units.Min, def.Parameters.Units.Max),
		}
		e.adjustCurrentInventory(newLife, adjustment)
	case types.EventAdjustCash:
		adjustment = Adjustment{
			Type:   def.Type,
			Amount: RandomArbitrary(rng, def.Parameters.Amount.Min, def.Parameters.Amount.Max),
		}
		e.adjustCurrentCash(newLife, adjustment)
	}

	newLife.Current.Event = e.describe(rng, def, adjustment)
	newLife.Current.EventMeta = 0
	newLife.Log(ActionEvent, adjustment)

	e.Logger.Info("Event applied",
		zap.String("life_id", newLife.ID),
		zap.String("event_id", def.ID),
		zap.String("type", def.Type),
		zap.String("description", newLife.Current.Event))

	return newLife
}

// describe renders one of the event's templates
func (e *Engine) describe(rng RNG, def types.EventDef, adjustment Adjustment) string {
	description := pick(rng, def.Descriptions)
	if adjustment.Item != nil {
		description = strings.ReplaceAll(description, "{{item}}", adjustment.Item.Name)
	}
	amount := roundInt64(adjustment.Amount * e.cfg.Market.BasePrice)
	return strings.ReplaceAll(description, "{{amount}}", strconv.FormatInt(amount, 10))
}

func (e *Engine) adjustMarketListing(life *types.Life, adjustment Adjustment) {
	listing := life.Listing(adjustment.Item.ID)
	listing.Units = int(roundInt64(float64(listing.Units) * adjustment.Units))
	if listing.Units < 0 {
		listing.Units = 0
	}
	listing.Price = roundInt64(float64(listing.Price) * adjustment.Price)
	if listing.Price < 1 {
		listing.Price = 1
	}
}

func (e *Engine) adjustCurrentInventory(life *types.Life, adjustment Adjustment) {
	delta := int(roundInt64(e.cfg.Market.BaseUnits * adjustment.Units))
	inventory := life.InventoryItem(adjustment.Item.ID)

	if delta > life.Current.Storage.Available {
		// accepted, but there is nowhere to put it
		life.Log(ActionEventFailedStorage, adjustment)
		return
	}
	if delta < 0 {
		if inventory == nil {
			return
		}
		if -delta > inventory.Units {
			delta = -inventory.Units
		}
	}
	if inventory == nil {
		life.Current.Inventory = append(life.Current.Inventory, types.InventoryItem{
			ID:       adjustment.Item.ID,
			BoughtAt: []types.Purchase{},
		})
		inventory = &life.Current.Inventory[len(life.Current.Inventory)-1]
	}
	inventory.Units += delta
	life.Current.Storage.Available -= delta
}

func (e *Engine) adjustCurrentCash(life *types.Life, adjustment Adjustment) {
	life.Current.Finance.Cash += roundInt64(adjustment.Amount * e.cfg.Market.BasePrice)
	if life.Current.Finance.Cash < 0 {
		life.Current.Finance.Cash = 0
	}
}

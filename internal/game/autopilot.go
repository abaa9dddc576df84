package game

import (
	"github.com/user/lifesim/internal/types"
	"go.uber.org/zap"
)

// DecisionEngine plays a life on autopilot
type DecisionEngine struct {
	rng RNG
}

// NewDecisionEngine creates a decision engine drawing from rng
func NewDecisionEngine(rng RNG) *DecisionEngine {
	return &DecisionEngine{rng: rng}
}

// ChooseEncounterAction picks the safest available way out of an encounter
func (de *DecisionEngine) ChooseEncounterAction(e *Engine, life *types.Life) EncounterAction {
	encounter := life.Current.Police.Encounter
	if encounter == nil {
		return EncounterAction{}
	}
	available := func(id string) bool {
		c, ok := encounter.Choice(id)
		return ok && c.Available
	}

	if available(ChoiceComply) {
		return EncounterAction{Action: ChoiceComply}
	}
	if available(ChoiceBribe) {
		return EncounterAction{Action: ChoiceBribe}
	}
	player, _ := e.GetDamage(life, DamagePlayer)
	police, _ := e.GetDamage(life, DamagePolice)
	if player > police && available(ChoiceFight) {
		return EncounterAction{Action: ChoiceFight}
	}
	if available(ChoiceFlee) {
		return EncounterAction{Action: ChoiceFlee}
	}
	for _, c := range encounter.Choices {
		if c.Available {
			return EncounterAction{Action: c.ID}
		}
	}
	return EncounterAction{}
}

// ChooseSales returns a sell order for every held item listed above its average cost
func (de *DecisionEngine) ChooseSales(life *types.Life) []MarketTransaction {
	var sales []MarketTransaction
	for _, item := range life.Current.Inventory {
		if item.Units == 0 {
			continue
		}
		listing := life.Listing(item.ID)
		if listing == nil {
			continue
		}
		if listing.Price*int64(item.Units) > item.SunkCost {
			sales = append(sales, MarketTransaction{Item: item.ID, Units: item.Units, Type: TransactionSell})
		}
	}
	return sales
}

// ChooseBuy spends up to half the cash on one random affordable listing
func (de *DecisionEngine) ChooseBuy(life *types.Life) *MarketTransaction {
	budget := life.Current.Finance.Cash / 2
	var candidates []MarketTransaction
	for _, listing := range life.Listings.Market {
		units := min(int64(listing.Units), int64(life.Current.Storage.Available), budget/listing.Price)
		if units > 0 {
			candidates = append(candidates, MarketTransaction{Item: listing.ID, Units: int(units), Type: TransactionBuy})
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return &candidates[de.rng.Intn(len(candidates))]
}

// ChooseFlight picks a random flight the life can pay for
func (de *DecisionEngine) ChooseFlight(life *types.Life) *TravelRequest {
	var affordable []types.Flight
	for _, flight := range life.Listings.Airport {
		if flight.Price <= life.Current.Finance.Cash {
			affordable = append(affordable, flight)
		}
	}
	if len(affordable) == 0 {
		return nil
	}
	return &TravelRequest{Destination: affordable[de.rng.Intn(len(affordable))].ID}
}

// Play runs a life for up to turns turns, stopping early when it dies or
// has nothing left it can do.
func (de *DecisionEngine) Play(e *Engine, life *types.Life, turns int) (*types.Life, error) {
	if err := ensureAlive(life); err != nil {
		return nil, err
	}
	target := life.Current.Turn + turns
	var err error
	for life.Alive && life.Current.Turn < target {
		for life.Alive && life.Current.Police.Encounter != nil {
			if life, err = e.ResolveEncounter(de.rng, life, de.ChooseEncounterAction(e, life)); err != nil {
				return nil, err
			}
		}
		if !life.Alive {
			break
		}

		for _, tx := range de.ChooseSales(life) {
			if life, err = e.DoMarketTransaction(life, tx); err != nil {
				return nil, err
			}
		}
		if tx := de.ChooseBuy(life); tx != nil {
			if life, err = e.DoMarketTransaction(life, *tx); err != nil {
				return nil, err
			}
		}

		flight := de.ChooseFlight(life)
		switch {
		case life.Current.Hotel && (flight == nil || life.Current.Health.Points < life.Current.Health.Max):
			life, err = e.Rest(de.rng, life)
		case life.Current.Hotel:
			if life, err = e.CheckOut(life); err == nil {
				life, err = e.Travel(de.rng, life, *flight)
			}
		case flight != nil:
			life, err = e.Travel(de.rng, life, *flight)
		default:
			e.Logger.Info("Autopilot has no move left", zap.String("life_id", life.ID))
			return life, nil
		}
		if err != nil {
			return nil, err
		}
	}
	return life, nil
}

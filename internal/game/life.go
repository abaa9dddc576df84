package game

import (
	"fmt"
	"time"

	"github.com/user/lifesim/internal/types"
	"go.uber.org/zap"
)

// Action log types
const (
	ActionAirport            = "airport"
	ActionMarket             = "market"
	ActionEvent              = "event"
	ActionEventFailedStorage = "event - failed (storage)"
	ActionVendor             = "vendor"
	ActionPolice             = "police"
	ActionHotel              = "hotel"
)

// NewLife creates a turn 0 life for a player starting at a location
func (e *Engine) NewLife(rng RNG, playerID, locationID string, now time.Time) (*types.Life, error) {
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrIntegrity)
	}
	def, ok := e.catalog.Location(locationID)
	if !ok {
		return nil, ErrUnknownLocation
	}

	person := e.cfg.Person
	current := types.State{
		Turn:  0,
		Event: e.text.Text("event_start"),
		Police: types.Police{
			Awareness: map[string]int{},
		},
		Hotel: true,
		Finance: types.Finance{
			Cash:            person.StartingCash,
			Debt:            person.StartingDebt,
			Savings:         person.StartingSavings,
			DebtInterest:    person.DebtInterest,
			SavingsInterest: person.SavingsInterest,
		},
		Health: types.Health{
			Points: person.StartingHP,
			Max:    person.MaxHP,
		},
		Inventory: []types.InventoryItem{},
		Location:  def.Location(),
		Storage: types.Storage{
			Available: person.StartingStorage,
			Total:     person.StartingStorage,
		},
		Upgrades: map[string]bool{},
	}
	current.Health.Status = healthStatus(current.Health)

	life := &types.Life{
		ID:      fmt.Sprintf("%s_%d", playerID, now.UnixMilli()),
		Alive:   true,
		Current: current,
		Actions: []types.Action{},
	}
	life.Log(ActionAirport, life.Current.Location)
	e.refreshListings(rng, life)
	life.Starting = life.Clone().Current

	e.Logger.Info("New life created",
		zap.String("life_id", life.ID),
		zap.String("location", life.Current.Location.ID),
		zap.Int("market_listings", len(life.Listings.Market)))

	return life, nil
}

// refreshListings regenerates every listing for the current location in place
func (e *Engine) refreshListings(rng RNG, life *types.Life) {
	life.Listings.Market = e.GenerateMarketListings(rng, life, life.Current.TurnsHere)
	life.Listings.Vendors = make(map[string]types.VendorListing, len(e.vendors))
	for _, kind := range VendorKinds() {
		life.Listings.Vendors[string(kind)] = e.vendors[kind].GenerateListings(rng, life)
	}
	life.Listings.Airport = e.GenerateAirportListings(rng, life)
}

// healthStatus describes hit points as a status word
func healthStatus(h types.Health) string {
	switch {
	case h.Points <= 0:
		return types.HealthDead
	case h.Points*4 <= h.Max:
		return types.HealthCritical
	case h.Points*5 < h.Max*3:
		return types.HealthInjured
	default:
		return types.HealthHealthy
	}
}

// damage removes hit points and ends the life when none remain
func damage(life *types.Life, amount int) {
	h := &life.Current.Health
	h.Points -= amount
	if h.Points > h.Max {
		h.Points = h.Max
	}
	if h.Points <= 0 {
		h.Points = 0
		life.Alive = false
	}
	h.Status = healthStatus(*h)
}

// heal restores hit points up to the maximum
func heal(life *types.Life, amount int) {
	h := &life.Current.Health
	h.Points += amount
	if h.Points > h.Max {
		h.Points = h.Max
	}
	h.Status = healthStatus(*h)
}

// addHeat raises the awareness of the current country
func addHeat(life *types.Life, amount int) {
	if life.Current.Police.Awareness == nil {
		life.Current.Police.Awareness = map[string]int{}
	}
	life.Current.Police.Awareness[life.Current.Location.Country] += amount
}

// CheckInvariants returns the first broken snapshot invariant, if any
func CheckInvariants(life *types.Life) error {
	if life == nil {
		return fmt.Errorf("%w: life is nil", ErrIntegrity)
	}
	cur := life.Current
	switch {
	case cur.Turn < 0:
		return fmt.Errorf("%w: turn %d is negative", ErrIntegrity, cur.Turn)
	case cur.Finance.Cash < 0 || cur.Finance.Debt < 0 || cur.Finance.Savings < 0:
		return fmt.Errorf("%w: finance must be non-negative (%+v)", ErrIntegrity, cur.Finance)
	case cur.Storage.Available < 0:
		return fmt.Errorf("%w: storage available %d is negative", ErrIntegrity, cur.Storage.Available)
	case cur.Storage.Total < cur.Storage.Available:
		return fmt.Errorf("%w: storage total %d below available %d", ErrIntegrity, cur.Storage.Total, cur.Storage.Available)
	case cur.Health.Points > cur.Health.Max:
		return fmt.Errorf("%w: health %d exceeds max %d", ErrIntegrity, cur.Health.Points, cur.Health.Max)
	case life.Alive && cur.Health.Points <= 0:
		return fmt.Errorf("%w: alive life has no health", ErrIntegrity)
	}
	seen := make(map[string]bool, len(cur.Inventory))
	for _, item := range cur.Inventory {
		if seen[item.ID] {
			return fmt.Errorf("%w: duplicate inventory item %s", ErrIntegrity, item.ID)
		}
		if item.Units < 0 {
			return fmt.Errorf("%w: inventory item %s has negative units", ErrIntegrity, item.ID)
		}
		seen[item.ID] = true
	}
	for country, heat := range cur.Police.Awareness {
		if heat < 0 {
			return fmt.Errorf("%w: awareness for %s is negative", ErrIntegrity, country)
		}
	}
	return nil
}

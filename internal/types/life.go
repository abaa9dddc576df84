package types

import "encoding/json"

// Health modes reported in Health.Status
const (
	HealthHealthy  = "healthy"
	HealthInjured  = "injured"
	HealthCritical = "critical"
	HealthDead     = "dead"
)

// Life is one player's full game state at a point in time
type Life struct {
	ID       string   `json:"id"`
	Alive    bool     `json:"alive"`
	Testing  bool     `json:"testing,omitempty"`
	Starting State    `json:"starting"`
	Current  State    `json:"current"`
	Listings Listings `json:"listings"`
	Actions  []Action `json:"actions"`
}

// State is the mutable view of a life
type State struct {
	Turn      int             `json:"turn"`
	TurnsHere int             `json:"turns_here"`
	Event     string          `json:"event"`
	EventMeta float64         `json:"event_meta,omitempty"`
	Police    Police          `json:"police"`
	Hotel     bool            `json:"hotel"`
	Finance   Finance         `json:"finance"`
	Health    Health          `json:"health"`
	Inventory []InventoryItem `json:"inventory"`
	Location  Location        `json:"location"`
	Storage   Storage         `json:"storage"`
	Weapon    *Weapon         `json:"weapon,omitempty"`
	Upgrades  map[string]bool `json:"upgrades"`
}

// Finance holds whole-number currency fields
type Finance struct {
	Cash            int64   `json:"cash"`
	Debt            int64   `json:"debt"`
	Savings         int64   `json:"savings"`
	DebtInterest    float64 `json:"debt_interest"`
	SavingsInterest float64 `json:"savings_interest"`
}

// Health tracks hit points
type Health struct {
	Points int    `json:"points"`
	Max    int    `json:"max"`
	Status string `json:"status"`
}

// Purchase is one recorded buy used for average price bookkeeping
type Purchase struct {
	Units int   `json:"units"`
	Price int64 `json:"price"`
}

// InventoryItem is a held commodity
type InventoryItem struct {
	ID           string     `json:"id"`
	Units        int        `json:"units"`
	SunkCost     int64      `json:"sunk_cost"`
	BoughtAt     []Purchase `json:"bought_at"`
	AveragePrice *int64     `json:"average_price,omitempty"`
}

// Location is where the life currently is
type Location struct {
	ID        string `json:"id"`
	City      string `json:"city"`
	Country   string `json:"country"`
	Continent string `json:"continent"`
	Size      int    `json:"size"`
}

// Storage is carrying capacity, total >= available >= 0
type Storage struct {
	Available int `json:"available"`
	Total     int `json:"total"`
}

// Weapon is the single equipped weapon slot
type Weapon struct {
	Name   string `json:"name"`
	Damage int    `json:"damage"`
}

// Police holds per-country heat and the active encounter, if any
type Police struct {
	Awareness map[string]int `json:"awareness"`
	Meta      string         `json:"meta,omitempty"`
	Encounter *Encounter     `json:"encounter,omitempty"`
}

// Heat returns the awareness for a country
func (p Police) Heat(country string) int {
	return p.Awareness[country]
}

// Message is a simple/full text pair shown to the player
type Message struct {
	Simple string `json:"simple"`
	Full   string `json:"full"`
}

// Choice is one selectable encounter action
type Choice struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Encounter is present only while a police encounter is active
type Encounter struct {
	Mode    string   `json:"mode"`
	Message Message  `json:"message"`
	Choices []Choice `json:"choices"`
	Reason  string   `json:"reason,omitempty"`
	Action  string   `json:"action,omitempty"`
}

// Choice returns the choice with the given id
func (e *Encounter) Choice(id string) (Choice, bool) {
	for _, c := range e.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// Listing is a priced, unit-capped market offer
type Listing struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      int    `json:"rarity"`
	Price       int64  `json:"price"`
	Units       int    `json:"units"`
}

// VendorOffer is one rung of a vendor's price ladder
type VendorOffer struct {
	Name  string     `json:"name"`
	Units int        `json:"units"`
	Price int64      `json:"price"`
	Meta  *OfferMeta `json:"meta,omitempty"`
}

// OfferMeta describes what a vendor offer grants beyond units
type OfferMeta struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// VendorListing is the stock of one vendor at the current location
type VendorListing struct {
	Open         bool          `json:"open"`
	Name         string        `json:"name"`
	Introduction string        `json:"introduction"`
	Stock        []VendorOffer `json:"stock"`
}

// Flight is one airport travel option
type Flight struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Price        int64  `json:"price"`
	FlightNumber string `json:"flight_number"`
	FlightTime   int    `json:"flight_time"`
}

// Listings are everything offered at the current location
type Listings struct {
	Market  []Listing                `json:"market"`
	Vendors map[string]VendorListing `json:"vendors"`
	Airport []Flight                 `json:"airport"`
}

// Action is one append-only log entry
type Action struct {
	Turn int             `json:"turn"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Listing returns a pointer to the market listing with the given item id
func (l *Life) Listing(itemID string) *Listing {
	for i := range l.Listings.Market {
		if l.Listings.Market[i].ID == itemID {
			return &l.Listings.Market[i]
		}
	}
	return nil
}

// InventoryItem returns a pointer to the inventory entry with the given item id
func (l *Life) InventoryItem(itemID string) *InventoryItem {
	for i := range l.Current.Inventory {
		if l.Current.Inventory[i].ID == itemID {
			return &l.Current.Inventory[i]
		}
	}
	return nil
}

// Log appends an action entry; data is marshalled to JSON
func (l *Life) Log(actionType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		// data is always an engine-built struct
		panic(err)
	}
	l.Actions = append(l.Actions, Action{Turn: l.Current.Turn, Type: actionType, Data: raw})
}

// Clone returns a deep copy with no aliasing
func (l *Life) Clone() *Life {
	if l == nil {
		return nil
	}
	out := *l
	out.Starting = l.Starting.clone()
	out.Current = l.Current.clone()
	out.Listings = l.Listings.clone()
	if l.Actions != nil {
		out.Actions = make([]Action, len(l.Actions))
		for i, a := range l.Actions {
			out.Actions[i] = Action{Turn: a.Turn, Type: a.Type, Data: cloneSlice(a.Data)}
		}
	}
	return &out
}

func (s State) clone() State {
	out := s
	out.Police = s.Police.clone()
	if s.Inventory != nil {
		out.Inventory = make([]InventoryItem, len(s.Inventory))
		for i, item := range s.Inventory {
			cp := item
			if item.BoughtAt != nil {
				cp.BoughtAt = cloneSlice(item.BoughtAt)
			}
			if item.AveragePrice != nil {
				avg := *item.AveragePrice
				cp.AveragePrice = &avg
			}
			out.Inventory[i] = cp
		}
	}
	if s.Weapon != nil {
		w := *s.Weapon
		out.Weapon = &w
	}
	if s.Upgrades != nil {
		out.Upgrades = make(map[string]bool, len(s.Upgrades))
		for k, v := range s.Upgrades {
			out.Upgrades[k] = v
		}
	}
	return out
}

func (p Police) clone() Police {
	out := p
	if p.Awareness != nil {
		out.Awareness = make(map[string]int, len(p.Awareness))
		for k, v := range p.Awareness {
			out.Awareness[k] = v
		}
	}
	if p.Encounter != nil {
		e := *p.Encounter
		e.Choices = cloneSlice(p.Encounter.Choices)
		out.Encounter = &e
	}
	return out
}

func (l Listings) clone() Listings {
	out := Listings{}
	out.Market = cloneSlice(l.Market)
	out.Airport = cloneSlice(l.Airport)
	if l.Vendors != nil {
		out.Vendors = make(map[string]VendorListing, len(l.Vendors))
		for k, v := range l.Vendors {
			cp := v
			if v.Stock != nil {
				cp.Stock = make([]VendorOffer, len(v.Stock))
				for i, offer := range v.Stock {
					o := offer
					if offer.Meta != nil {
						m := *offer.Meta
						o.Meta = &m
					}
					cp.Stock[i] = o
				}
			}
			out.Vendors[k] = cp
		}
	}
	return out
}

// cloneSlice copies a slice, keeping nil and empty distinct
func cloneSlice[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}
	out := make(S, len(s))
	copy(out, s)
	return out
}

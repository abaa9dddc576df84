package types

// Event types understood by the event engine
const (
	EventAdjustMarket    = "adjust_market"
	EventAdjustInventory = "adjust_inventory"
	EventAdjustCash      = "adjust_cash"
)

// Item is a tradeable commodity definition
type Item struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Rarity      int    `json:"rarity" yaml:"rarity"` // 0-100
}

// Range is an inclusive parameter band
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// EventParameters are the bands an event draws from
type EventParameters struct {
	Price  *Range `json:"price,omitempty" yaml:"price,omitempty"`
	Units  *Range `json:"units,omitempty" yaml:"units,omitempty"`
	Amount *Range `json:"amount,omitempty" yaml:"amount,omitempty"`
}

// EventDef is a random world event definition
type EventDef struct {
	ID           string          `json:"id" yaml:"id"`
	Type         string          `json:"type" yaml:"type"`
	Parameters   EventParameters `json:"parameters" yaml:"parameters"`
	Descriptions []string        `json:"descriptions" yaml:"descriptions"`
}

// VendorDef is the flavour text of one vendor
type VendorDef struct {
	Name         string `json:"name" yaml:"name"`
	Introduction string `json:"introduction" yaml:"introduction"`
}

// LocationDef is a travel destination
type LocationDef struct {
	ID        string `json:"id" yaml:"id"`
	City      string `json:"city" yaml:"city"`
	Country   string `json:"country" yaml:"country"`
	Continent string `json:"continent" yaml:"continent"`
	Size      int    `json:"size" yaml:"size"`
}

// Location converts the definition into a life location
func (d LocationDef) Location() Location {
	return Location{ID: d.ID, City: d.City, Country: d.Country, Continent: d.Continent, Size: d.Size}
}

// Catalog bundles the read-only game data tables
type Catalog struct {
	Items     []Item
	Events    []EventDef
	Vendors   map[string]VendorDef
	Locations []LocationDef
}

// Item returns the item definition with the given id
func (c *Catalog) Item(id string) (Item, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Location returns the location definition with the given id
func (c *Catalog) Location(id string) (LocationDef, bool) {
	for _, loc := range c.Locations {
		if loc.ID == id {
			return loc, true
		}
	}
	return LocationDef{}, false
}

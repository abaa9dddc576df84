package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/user/lifesim/config"
	"github.com/user/lifesim/internal/i18n"
	"github.com/user/lifesim/internal/types"
)

// stubRNG replays scripted draws and then returns zero forever
type stubRNG struct {
	ints   []int
	floats []float64
}

func (r *stubRNG) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *stubRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func testCatalog() *types.Catalog {
	return &types.Catalog{
		Items: []types.Item{
			{ID: "kibble", Name: "Kibble", Rarity: 10},
			{ID: "yarn", Name: "Yarn", Rarity: 20},
			{ID: "sardines", Name: "Sardines", Rarity: 30},
			{ID: "catnip", Name: "Catnip", Rarity: 60},
			{ID: "caviar", Name: "Caviar", Rarity: 90},
		},
		Events: []types.EventDef{
			{
				ID:           "found_stash",
				Type:         types.EventAdjustInventory,
				Parameters:   types.EventParameters{Units: &types.Range{Min: 0.1, Max: 0.1}},
				Descriptions: []string{"You found some {{item}}."},
			},
		},
		Vendors: map[string]types.VendorDef{
			"storage": {Name: "Boxes and Bags", Introduction: "Pockets!"},
			"weapons": {Name: "The Armoury", Introduction: "Claws out."},
		},
		Locations: []types.LocationDef{
			{ID: "rio", City: "Rio de Janeiro", Country: "BR", Continent: "SA", Size: 8},
			{ID: "sao_paulo", City: "São Paulo", Country: "BR", Continent: "SA", Size: 10},
			{ID: "buenos_aires", City: "Buenos Aires", Country: "AR", Continent: "SA", Size: 7},
			{ID: "tokyo", City: "Tokyo", Country: "JP", Continent: "AS", Size: 10},
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return newTestEngineWith(t, config.DefaultGameConfig())
}

func newTestEngineWith(t *testing.T, cfg config.GameConfig) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, testCatalog(), i18n.MustLoadEmbedded().Localizer())
	require.NoError(t, err)
	return e
}

// newTestLife creates a turn 0 life in rio with a fixed clock
func newTestLife(t *testing.T, e *Engine) *types.Life {
	t.Helper()
	life, err := e.NewLife(NewSeededDiceRoller(1), "player", "rio", time.UnixMilli(1000))
	require.NoError(t, err)
	return life
}

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/lifesim/internal/types"
)

func TestChooseEncounterAction(t *testing.T) {
	e := newTestEngine(t)
	de := NewDecisionEngine(&stubRNG{})

	life := newTestLife(t, e)
	assert.Equal(t, EncounterAction{}, de.ChooseEncounterAction(e, life))

	life.Current.Police.Encounter = &types.Encounter{Mode: ModeDetained, Choices: e.detainedChoices()}
	assert.Equal(t, ChoiceComply, de.ChooseEncounterAction(e, life).Action)

	life.Current.Police.Encounter = &types.Encounter{Mode: ModeDiscovery, Choices: e.discoveryChoices(life)}
	assert.Equal(t, ChoiceBribe, de.ChooseEncounterAction(e, life).Action)

	// broke and outgunned
	life.Current.Finance.Cash = 0
	life.Current.Police.Encounter.Choices = e.discoveryChoices(life)
	assert.Equal(t, ChoiceFlee, de.ChooseEncounterAction(e, life).Action)

	// broke and armed
	life.Current.Weapon = &types.Weapon{Name: "Claw", Damage: 40}
	assert.Equal(t, ChoiceFight, de.ChooseEncounterAction(e, life).Action)
}

func TestChooseSales(t *testing.T) {
	de := NewDecisionEngine(&stubRNG{})
	life := &types.Life{
		Current: types.State{Inventory: []types.InventoryItem{
			{ID: "kibble", Units: 2, SunkCost: 100},
			{ID: "caviar", Units: 1, SunkCost: 1000},
			{ID: "yarn", Units: 0},
			{ID: "catnip", Units: 4, SunkCost: 10},
		}},
		Listings: types.Listings{Market: []types.Listing{
			{ID: "kibble", Price: 60, Units: 10},
			{ID: "caviar", Price: 900, Units: 10},
			{ID: "yarn", Price: 20, Units: 10},
		}},
	}

	sales := de.ChooseSales(life)
	require.Len(t, sales, 1, "only profitable listed items are sold")
	assert.Equal(t, MarketTransaction{Item: "kibble", Units: 2, Type: TransactionSell}, sales[0])
}

func TestChooseBuy(t *testing.T) {
	de := NewDecisionEngine(&stubRNG{})
	life := &types.Life{
		Current: types.State{
			Finance: types.Finance{Cash: 1000},
			Storage: types.Storage{Available: 3, Total: 10},
		},
		Listings: types.Listings{Market: []types.Listing{
			{ID: "kibble", Price: 100, Units: 50},
			{ID: "caviar", Price: 900, Units: 50},
		}},
	}

	tx := de.ChooseBuy(life)
	require.NotNil(t, tx)
	assert.Equal(t, MarketTransaction{Item: "kibble", Units: 3, Type: TransactionBuy}, *tx)

	life.Current.Storage.Available = 0
	assert.Nil(t, de.ChooseBuy(life))
}

func TestChooseFlight(t *testing.T) {
	de := NewDecisionEngine(&stubRNG{})
	life := &types.Life{
		Current: types.State{Finance: types.Finance{Cash: 200}},
		Listings: types.Listings{Airport: []types.Flight{
			{ID: "tokyo", Price: 360},
			{ID: "sao_paulo", Price: 120},
		}},
	}

	flight := de.ChooseFlight(life)
	require.NotNil(t, flight)
	assert.Equal(t, "sao_paulo", flight.Destination)

	life.Current.Finance.Cash = 10
	assert.Nil(t, de.ChooseFlight(life))
}

func TestPlay(t *testing.T) {
	e := newTestEngine(t)
	life := newTestLife(t, e)

	next, err := NewDecisionEngine(NewSeededDiceRoller(3)).Play(e, life, 8)
	require.NoError(t, err)
	require.NoError(t, CheckInvariants(next))
	if next.Alive {
		assert.GreaterOrEqual(t, next.Current.Turn, 1)
	}
	assert.Zero(t, life.Current.Turn, "the input life is not played")

	next.Alive = false
	_, err = NewDecisionEngine(&stubRNG{}).Play(e, next, 1)
	assert.ErrorIs(t, err, ErrLifeTerminal)
}

package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/lifesim/internal/types"
)

func TestNewLife(t *testing.T) {
	e := newTestEngine(t)
	life := newTestLife(t, e)
	person := e.Config().Person

	assert.Equal(t, "player_1000", life.ID)
	assert.True(t, life.Alive)
	assert.Zero(t, life.Current.Turn)
	assert.True(t, life.Current.Hotel)
	assert.Equal(t, person.StartingCash, life.Current.Finance.Cash)
	assert.Equal(t, person.StartingDebt, life.Current.Finance.Debt)
	assert.Equal(t, person.StartingHP, life.Current.Health.Points)
	assert.Equal(t, types.HealthHealthy, life.Current.Health.Status)
	assert.Equal(t, types.Storage{Available: person.StartingStorage, Total: person.StartingStorage}, life.Current.Storage)
	assert.Equal(t, "rio", life.Current.Location.ID)
	assert.Equal(t, e.text.Text("event_start"), life.Current.Event)

	assert.Len(t, life.Listings.Market, e.ListingLength(life.Current.Location.Size))
	assert.Len(t, life.Listings.Airport, len(e.Catalog().Locations)-1)
	assert.Len(t, life.Listings.Vendors, len(VendorKinds()))
	require.Len(t, life.Actions, 1)
	assert.Equal(t, ActionAirport, life.Actions[0].Type)
	assert.Equal(t, life.Current, life.Starting)
	require.NoError(t, CheckInvariants(life))
}

func TestNewLifeErrors(t *testing.T) {
	e := newTestEngine(t)
	now := time.UnixMilli(1000)

	_, err := e.NewLife(&stubRNG{}, "", "rio", now)
	assert.ErrorIs(t, err, ErrIntegrity)

	_, err = e.NewLife(&stubRNG{}, "player", "atlantis", now)
	assert.ErrorIs(t, err, ErrUnknownLocation)
}

func TestHealthStatus(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{100, types.HealthHealthy},
		{60, types.HealthHealthy},
		{59, types.HealthInjured},
		{26, types.HealthInjured},
		{25, types.HealthCritical},
		{1, types.HealthCritical},
		{0, types.HealthDead},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, healthStatus(types.Health{Points: tt.points, Max: 100}), "points %d", tt.points)
	}
}

func TestCheckInvariants(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name   string
		mutate func(life *types.Life)
	}{
		{"negative turn", func(l *types.Life) { l.Current.Turn = -1 }},
		{"negative cash", func(l *types.Life) { l.Current.Finance.Cash = -1 }},
		{"negative storage", func(l *types.Life) { l.Current.Storage.Available = -1 }},
		{"storage over total", func(l *types.Life) { l.Current.Storage.Available = l.Current.Storage.Total + 1 }},
		{"health over max", func(l *types.Life) { l.Current.Health.Points = l.Current.Health.Max + 1 }},
		{"alive without health", func(l *types.Life) { l.Current.Health.Points = 0 }},
		{"duplicate inventory", func(l *types.Life) {
			l.Current.Inventory = []types.InventoryItem{{ID: "kibble"}, {ID: "kibble"}}
		}},
		{"negative inventory", func(l *types.Life) {
			l.Current.Inventory = []types.InventoryItem{{ID: "kibble", Units: -1}}
		}},
		{"negative heat", func(l *types.Life) { l.Current.Police.Awareness["BR"] = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			life := newTestLife(t, e)
			tt.mutate(life)
			assert.ErrorIs(t, CheckInvariants(life), ErrIntegrity)
		})
	}

	assert.ErrorIs(t, CheckInvariants(nil), ErrIntegrity)
}

func TestCloneDoesNotAlias(t *testing.T) {
	e := newTestEngine(t)
	life := newTestLife(t, e)
	life.Current.Inventory = []types.InventoryItem{{ID: "kibble", Units: 1, BoughtAt: []types.Purchase{{Units: 1, Price: 5}}}}
	life.Current.Weapon = &types.Weapon{Name: "Claw", Damage: 10}
	life.Current.Police.Encounter = &types.Encounter{Mode: ModeDiscovery, Choices: e.detainedChoices()}
	before := life.Clone()
	require.Equal(t, before, life)

	cp := life.Clone()
	cp.Current.Inventory[0].BoughtAt[0].Units = 99
	cp.Current.Weapon.Damage = 99
	cp.Current.Police.Awareness["BR"] = 99
	cp.Current.Police.Encounter.Choices[0].Available = false
	cp.Listings.Market[0].Units = 9999
	cp.Actions[0].Data[0] = 'x'
	for kind, listing := range cp.Listings.Vendors {
		listing.Open = !listing.Open
		cp.Listings.Vendors[kind] = listing
	}

	assert.Equal(t, before, life)
}

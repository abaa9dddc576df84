package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/lifesim/internal/i18n"
	"github.com/user/lifesim/internal/storage"
	"github.com/user/lifesim/internal/types"
)

func newTestService(t *testing.T) (*Service, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	s := NewService(store, newTestEngine(t), NewSeededDiceRoller(7))
	s.now = func() time.Time { return time.UnixMilli(5000) }
	return s, store
}

// deepestListing returns the listing with the most units
func deepestListing(life *types.Life) types.Listing {
	var best types.Listing
	for _, l := range life.Listings.Market {
		if l.Units > best.Units {
			best = l
		}
	}
	return best
}

func TestServiceNewGame(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()

	life, err := s.NewGame(ctx, NewGameRequest{PlayerID: "p1", Location: "rio"})
	require.NoError(t, err)
	assert.Equal(t, "p1_5000", life.ID)
	assert.Equal(t, "rio", life.Current.Location.ID)

	stored, err := store.Get(ctx, life.ID)
	require.NoError(t, err)
	assert.Equal(t, life, stored)

	// same player on the same clock tick
	_, err = s.NewGame(ctx, NewGameRequest{PlayerID: "p1", Location: "rio"})
	assert.Error(t, err)

	_, err = s.NewGame(ctx, NewGameRequest{PlayerID: "p2", Location: "atlantis"})
	assert.ErrorIs(t, err, ErrUnknownLocation)
}

func TestServiceNewGameDefaults(t *testing.T) {
	s, _ := newTestService(t)

	life, err := s.NewGame(context.Background(), NewGameRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, life.ID)
	_, ok := s.Engine().Catalog().Location(life.Current.Location.ID)
	assert.True(t, ok)
}

func TestServiceLocalizedText(t *testing.T) {
	s, _ := newTestService(t)
	ctx := WithLocalizer(context.Background(), i18n.MustLoadEmbedded().Localizer("pt-BR"))

	life, err := s.NewGame(ctx, NewGameRequest{PlayerID: "p1", Location: "rio"})
	require.NoError(t, err)
	assert.Equal(t, "Você desce do avião com uma mala e um plano.", life.Current.Event)

	// the shared engine keeps its default text
	assert.Equal(t, "You step off the plane with a suitcase and a plan.", s.Engine().text.Text("event_start"))
	assert.Nil(t, LocalizerFrom(context.Background()))
}

func TestServiceRuleViolationIsNotStored(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()
	life, err := s.NewGame(ctx, NewGameRequest{PlayerID: "p1", Location: "rio"})
	require.NoError(t, err)

	_, err = s.MarketTransaction(ctx, life.ID, MarketTransaction{Item: "kibble", Units: 100000, Type: TransactionBuy})
	require.Error(t, err)
	assert.True(t, IsRuleViolation(err))

	stored, err := store.Get(ctx, life.ID)
	require.NoError(t, err)
	assert.Equal(t, life, stored)
}

func TestServiceFlow(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()
	life, err := s.NewGame(ctx, NewGameRequest{PlayerID: "p1", Location: "rio"})
	require.NoError(t, err)

	listing := deepestListing(life)
	next, err := s.MarketTransaction(ctx, life.ID, MarketTransaction{Item: listing.ID, Units: 1, Type: TransactionBuy})
	require.NoError(t, err)
	assert.Equal(t, life.Current.Finance.Cash-listing.Price, next.Current.Finance.Cash)

	stored, err := store.Get(ctx, life.ID)
	require.NoError(t, err)
	assert.Equal(t, next, stored)

	_, err = s.VendorTransaction(ctx, life.ID, "bakery", VendorTransaction{})
	assert.ErrorIs(t, err, ErrUnknownVendor)

	_, err = s.Travel(ctx, life.ID, TravelRequest{Destination: "tokyo"})
	assert.ErrorIs(t, err, ErrCheckedIn)

	next, err = s.CheckOut(ctx, life.ID)
	require.NoError(t, err)
	assert.False(t, next.Current.Hotel)

	_, err = s.Rest(ctx, life.ID)
	assert.ErrorIs(t, err, ErrNotCheckedIn)

	_, err = s.EncounterAction(ctx, life.ID, EncounterAction{Action: ChoiceFlee})
	assert.ErrorIs(t, err, ErrNoEncounter)

	_, err = s.GetLife(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.CheckOut(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestServiceSerializesTransitions(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	life, err := s.NewGame(ctx, NewGameRequest{PlayerID: "p1", Location: "rio"})
	require.NoError(t, err)

	listing := deepestListing(life)
	const buyers = 10
	require.GreaterOrEqual(t, listing.Units, buyers)
	require.GreaterOrEqual(t, life.Current.Finance.Cash, listing.Price*buyers)

	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.MarketTransaction(ctx, life.ID, MarketTransaction{Item: listing.ID, Units: 1, Type: TransactionBuy})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := s.GetLife(ctx, life.ID)
	require.NoError(t, err)
	assert.Equal(t, life.Current.Finance.Cash-listing.Price*buyers, final.Current.Finance.Cash)
	assert.Equal(t, buyers, final.InventoryItem(listing.ID).Units)
	assert.Empty(t, s.locks, "released locks are dropped")
}

func TestServiceDropsLifeLocks(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	for _, player := range []string{"p1", "p2", "p3"} {
		life, err := s.NewGame(ctx, NewGameRequest{PlayerID: player, Location: "rio"})
		require.NoError(t, err)
		_, err = s.CheckOut(ctx, life.ID)
		require.NoError(t, err)
		// a failed transition releases too
		_, err = s.Rest(ctx, life.ID)
		require.ErrorIs(t, err, ErrNotCheckedIn)
	}
	_, err := s.CheckOut(ctx, "nobody")
	require.ErrorIs(t, err, storage.ErrNotFound)

	assert.Empty(t, s.locks)

	// a held lock is kept for its waiters
	unlock := s.lock("p1")
	assert.Len(t, s.locks, 1)
	unlock()
	assert.Empty(t, s.locks)
}

func TestServiceAutoplay(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	life, err := s.NewGame(ctx, NewGameRequest{PlayerID: "p1", Location: "rio"})
	require.NoError(t, err)

	_, err = s.Autoplay(ctx, life.ID, 0)
	assert.ErrorIs(t, err, ErrIntegrity)

	next, err := s.Autoplay(ctx, life.ID, 5)
	require.NoError(t, err)
	require.NoError(t, CheckInvariants(next))
	assert.Greater(t, len(next.Actions), len(life.Actions))
	if next.Alive {
		assert.LessOrEqual(t, next.Current.Turn, 5+3, "a flight may overshoot by its flight time")
	}

	stored, err := s.GetLife(ctx, life.ID)
	require.NoError(t, err)
	assert.Equal(t, next, stored)
}

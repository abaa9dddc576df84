package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/lifesim/config"
	"github.com/user/lifesim/internal/types"
)

func testLife(id string) *types.Life {
	return &types.Life{
		ID:    id,
		Alive: true,
		Current: types.State{
			Turn:      3,
			Finance:   types.Finance{Cash: 700, Debt: 2000},
			Health:    types.Health{Points: 100, Max: 100, Status: types.HealthHealthy},
			Inventory: []types.InventoryItem{{ID: "kibble", Units: 3, SunkCost: 300}},
			Storage:   types.Storage{Available: 97, Total: 100},
			Police:    types.Police{Awareness: map[string]int{"BR": 5}},
		},
		Actions: []types.Action{},
	}
}

func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	// Test case 1: Missing life
	_, err := store.Get(ctx, "nobody_1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Test case 2: Put then get
	life := testLife("player_1")
	require.NoError(t, store.Put(ctx, life))
	got, err := store.Get(ctx, "player_1")
	require.NoError(t, err)
	assert.Equal(t, int64(700), got.Current.Finance.Cash)
	assert.Equal(t, 3, got.Current.Inventory[0].Units)
	assert.Equal(t, 5, got.Current.Police.Heat("BR"))

	// Test case 3: Put overwrites wholesale
	life.Current.Finance.Cash = 50
	life.Current.Inventory = nil
	require.NoError(t, store.Put(ctx, life))
	got, err = store.Get(ctx, "player_1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Current.Finance.Cash)
	assert.Empty(t, got.Current.Inventory)

	// Test case 4: Delete
	require.NoError(t, store.Delete(ctx, "player_1"))
	_, err = store.Get(ctx, "player_1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "player_1"), ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store)

	// stored snapshots are not aliased by the caller
	ctx := context.Background()
	life := testLife("player_2")
	require.NoError(t, store.Put(ctx, life))
	life.Current.Finance.Cash = 0
	got, err := store.Get(ctx, "player_2")
	require.NoError(t, err)
	assert.Equal(t, int64(700), got.Current.Finance.Cash)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	exerciseStore(t, store)

	// ids cannot escape the directory
	_, err = store.Get(context.Background(), "../etc/passwd")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(context.Background(), testLife("player_3")))
	_, err = os.Stat(filepath.Join(dir, "player_3.json"))
	assert.NoError(t, err)
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "lives.db"))
	require.NoError(t, err)
	defer store.Close()
	exerciseStore(t, store)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("LIFESIM_REDIS_ADDR")
	if addr == "" {
		t.Skip("LIFESIM_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	store := NewRedisStoreFromClient(client, 0)
	defer store.Close()
	exerciseStore(t, store)
}

func TestOpen(t *testing.T) {
	// Test case 1: Memory driver
	store, err := Open(config.DatabaseConfig{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	// Test case 2: File driver
	store, err = Open(config.DatabaseConfig{Driver: DriverFile, DSN: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	// Test case 3: SQLite driver
	store, err = Open(config.DatabaseConfig{Driver: DriverSQLite3, DSN: filepath.Join(t.TempDir(), "open.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	// Test case 4: Unknown driver
	_, err = Open(config.DatabaseConfig{Driver: "postgres"})
	assert.Error(t, err)
}

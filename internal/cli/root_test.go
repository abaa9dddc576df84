package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/lifesim/config"
	"github.com/user/lifesim/internal/game"
	"github.com/user/lifesim/internal/storage"
	"github.com/user/lifesim/internal/types"
)

const testDataDir = "../../assets/data"

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "lifectl", cmd.Use)

	for _, name := range []string{"autoplay", "inspect"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	autoplay, _, err := cmd.Find([]string{"autoplay"})
	require.NoError(t, err)
	turns := autoplay.Flags().Lookup("turns")
	require.NotNil(t, turns)
	assert.Equal(t, "10", turns.DefValue)
	assert.NotNil(t, autoplay.Flags().Lookup("seed"))
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAutoplayIsReproducible(t *testing.T) {
	args := []string{"autoplay", "--data", testDataDir, "--turns", "5", "--seed", "42", "--location", "rio"}

	first, err := runCommand(t, args...)
	require.NoError(t, err)
	second, err := runCommand(t, args...)
	require.NoError(t, err)

	var a, b types.Life
	require.NoError(t, json.Unmarshal([]byte(first), &a))
	require.NoError(t, json.Unmarshal([]byte(second), &b))

	assert.True(t, strings.HasPrefix(a.ID, "autopilot_"))
	assert.NoError(t, game.CheckInvariants(&a))
	assert.NotEmpty(t, a.Actions)
	assert.Equal(t, a.Current, b.Current)
	assert.Equal(t, len(a.Actions), len(b.Actions))
}

func TestAutoplayUnknownLocation(t *testing.T) {
	_, err := runCommand(t, "autoplay", "--data", testDataDir, "--location", "atlantis")
	assert.ErrorIs(t, err, game.ErrUnknownLocation)
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Database = config.DatabaseConfig{Driver: storage.DriverFile, DSN: filepath.Join(dir, "lives")}
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, config.SaveConfig(cfg, cfgPath))

	store, err := storage.NewFileStore(cfg.Database.DSN)
	require.NoError(t, err)
	life := &types.Life{ID: "p_1", Alive: true, Current: types.State{Finance: types.Finance{Cash: 1234}}}
	require.NoError(t, store.Put(context.Background(), life))

	// Test case 1: Stored life is printed
	out, err := runCommand(t, "inspect", "--config", cfgPath, "p_1")
	require.NoError(t, err)
	var got types.Life
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, int64(1234), got.Current.Finance.Cash)

	// Test case 2: Missing life
	_, err = runCommand(t, "inspect", "--config", cfgPath, "p_2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

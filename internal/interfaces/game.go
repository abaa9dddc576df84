package interfaces

import (
	"context"

	"github.com/user/lifesim/internal/game"
	"github.com/user/lifesim/internal/types"
)

// GameService defines the life operations exposed to transports
type GameService interface {
	NewGame(ctx context.Context, req game.NewGameRequest) (*types.Life, error)
	GetLife(ctx context.Context, id string) (*types.Life, error)
	MarketTransaction(ctx context.Context, id string, tx game.MarketTransaction) (*types.Life, error)
	VendorTransaction(ctx context.Context, id, vendor string, tx game.VendorTransaction) (*types.Life, error)
	Travel(ctx context.Context, id string, req game.TravelRequest) (*types.Life, error)
	Rest(ctx context.Context, id string) (*types.Life, error)
	CheckOut(ctx context.Context, id string) (*types.Life, error)
	StartEncounter(ctx context.Context, id string) (*types.Life, error)
	EncounterAction(ctx context.Context, id string, action game.EncounterAction) (*types.Life, error)
	Autoplay(ctx context.Context, id string, turns int) (*types.Life, error)
}

// Ensure the game service satisfies GameService
var _ GameService = (*game.Service)(nil)

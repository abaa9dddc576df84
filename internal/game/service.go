package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/lifesim/internal/storage"
	"github.com/user/lifesim/internal/types"
	"go.uber.org/zap"
)

// NewGameRequest starts a new life
type NewGameRequest struct {
	PlayerID string `json:"player_id,omitempty"`
	Location string `json:"location,omitempty"`
}

type localizerKey struct{}

// WithLocalizer attaches a request localizer; engine text rendered while
// serving the request uses it instead of the default.
func WithLocalizer(ctx context.Context, text Localizer) context.Context {
	return context.WithValue(ctx, localizerKey{}, text)
}

// LocalizerFrom returns the request localizer, or nil when none is attached
func LocalizerFrom(ctx context.Context) Localizer {
	text, _ := ctx.Value(localizerKey{}).(Localizer)
	return text
}

// Service loads a life, runs one engine transition and stores the result.
// Transitions on the same life are serialized; a failed transition is never stored.
type Service struct {
	store      storage.Store
	engine     *Engine
	diceRoller *DiceRoller
	Logger     *zap.Logger
	now        func() time.Time

	locksMu sync.Mutex
	locks   map[string]*lifeLock
}

// lifeLock serializes transitions on one life; refs counts holders and waiters
type lifeLock struct {
	mu   sync.Mutex
	refs int
}

// NewService creates a service over a store and engine
func NewService(store storage.Store, engine *Engine, diceRoller *DiceRoller) *Service {
	if diceRoller == nil {
		diceRoller = NewDiceRoller()
	}
	return &Service{
		store:      store,
		engine:     engine,
		diceRoller: diceRoller,
		Logger:     zap.NewNop(), // Will be set by the server
		now:        time.Now,
		locks:      make(map[string]*lifeLock),
	}
}

// SetLogger sets the logger on the service and its engine
func (s *Service) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s.Logger = logger
	s.engine.SetLogger(logger)
}

// Engine returns the engine the service runs
func (s *Service) Engine() *Engine {
	return s.engine
}

func (s *Service) engineFor(ctx context.Context) *Engine {
	text := LocalizerFrom(ctx)
	if text == nil {
		return s.engine
	}
	e := *s.engine
	e.text = text
	return &e
}

// lock takes the life's lock and returns its release. The entry is dropped
// once nobody holds or waits for it.
func (s *Service) lock(id string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &lifeLock{}
		s.locks[id] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.locksMu.Lock()
		defer s.locksMu.Unlock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
	}
}

// update runs one transition against the stored life
func (s *Service) update(ctx context.Context, id, op string, fn func(e *Engine, life *types.Life) (*types.Life, error)) (*types.Life, error) {
	unlock := s.lock(id)
	defer unlock()

	life, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := fn(s.engineFor(ctx), life)
	if err != nil {
		if IsRuleViolation(err) {
			s.Logger.Info("Rule violation",
				zap.String("life_id", id),
				zap.String("operation", op),
				zap.String("code", RuleCode(err)))
		} else {
			s.Logger.Error("Transition failed",
				zap.String("life_id", id),
				zap.String("operation", op),
				zap.Error(err))
		}
		return nil, err
	}
	if err := CheckInvariants(next); err != nil {
		s.Logger.Error("Transition broke an invariant",
			zap.String("life_id", id),
			zap.String("operation", op),
			zap.Error(err))
		return nil, err
	}
	if err := s.store.Put(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save life: %w", err)
	}
	if !next.Alive && life.Alive {
		s.Logger.Info("Life ended",
			zap.String("life_id", id),
			zap.Int("turn", next.Current.Turn))
	}
	return next, nil
}

// NewGame creates and stores a new life
func (s *Service) NewGame(ctx context.Context, req NewGameRequest) (*types.Life, error) {
	e := s.engineFor(ctx)
	if req.PlayerID == "" {
		req.PlayerID = uuid.New().String()
	}
	if req.Location == "" {
		locations := e.Catalog().Locations
		req.Location = locations[s.diceRoller.Intn(len(locations))].ID
	}

	life, err := e.NewLife(s.diceRoller, req.PlayerID, req.Location, s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Get(ctx, life.ID); err == nil {
		return nil, fmt.Errorf("life %s already exists", life.ID)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if err := s.store.Put(ctx, life); err != nil {
		return nil, fmt.Errorf("failed to save life: %w", err)
	}
	return life, nil
}

// GetLife loads a life
func (s *Service) GetLife(ctx context.Context, id string) (*types.Life, error) {
	return s.store.Get(ctx, id)
}

// MarketTransaction buys, sells or dumps inventory
func (s *Service) MarketTransaction(ctx context.Context, id string, tx MarketTransaction) (*types.Life, error) {
	return s.update(ctx, id, "market", func(e *Engine, life *types.Life) (*types.Life, error) {
		return e.ApplyMarketTransaction(life, tx)
	})
}

// VendorTransaction buys one vendor offer
func (s *Service) VendorTransaction(ctx context.Context, id, vendor string, tx VendorTransaction) (*types.Life, error) {
	kind, err := ParseVendorKind(vendor)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, id, "vendor", func(e *Engine, life *types.Life) (*types.Life, error) {
		return e.DoVendorTransaction(life, kind, tx)
	})
}

// Travel flies to a destination
func (s *Service) Travel(ctx context.Context, id string, req TravelRequest) (*types.Life, error) {
	return s.update(ctx, id, "travel", func(e *Engine, life *types.Life) (*types.Life, error) {
		return e.Travel(s.diceRoller, life, req)
	})
}

// Rest spends a turn in the hotel
func (s *Service) Rest(ctx context.Context, id string) (*types.Life, error) {
	return s.update(ctx, id, "rest", func(e *Engine, life *types.Life) (*types.Life, error) {
		return e.Rest(s.diceRoller, life)
	})
}

// CheckOut leaves the hotel
func (s *Service) CheckOut(ctx context.Context, id string) (*types.Life, error) {
	return s.update(ctx, id, "checkout", func(e *Engine, life *types.Life) (*types.Life, error) {
		return e.CheckOut(life)
	})
}

// StartEncounter rolls for a police stop
func (s *Service) StartEncounter(ctx context.Context, id string) (*types.Life, error) {
	return s.update(ctx, id, "police_start", func(e *Engine, life *types.Life) (*types.Life, error) {
		return e.StartEncounter(s.diceRoller, life)
	})
}

// EncounterAction resolves the player's encounter choice
func (s *Service) EncounterAction(ctx context.Context, id string, action EncounterAction) (*types.Life, error) {
	return s.update(ctx, id, "police", func(e *Engine, life *types.Life) (*types.Life, error) {
		return e.ResolveEncounter(s.diceRoller, life, action)
	})
}

// Autoplay lets the decision engine play a stored life for a number of turns
func (s *Service) Autoplay(ctx context.Context, id string, turns int) (*types.Life, error) {
	if turns <= 0 {
		return nil, fmt.Errorf("%w: turns must be positive", ErrIntegrity)
	}
	return s.update(ctx, id, "autoplay", func(e *Engine, life *types.Life) (*types.Life, error) {
		return NewDecisionEngine(s.diceRoller).Play(e, life, turns)
	})
}

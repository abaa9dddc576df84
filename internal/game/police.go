package game

import (
	"fmt"

	"github.com/user/lifesim/internal/types"
	"go.uber.org/zap"
)

// Encounter modes
const (
	ModeDiscovery = "discovery"
	ModeDetained  = "detained"
)

// Encounter choices
const (
	ChoiceFlee   = "flee"
	ChoiceHiss   = "hiss"
	ChoiceBribe  = "bribe"
	ChoiceFight  = "fight"
	ChoiceComply = "comply"
)

// Pre-rolled encounter outcomes
const (
	MetaLucky   = "lucky"
	MetaUnlucky = "unlucky"
)

// Resolution outcomes
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeFailure = "failure"
)

// Damage sources
const (
	DamagePolice = "police"
	DamagePlayer = "player"
)

// EncounterAction is the choice a player makes during an encounter
type EncounterAction struct {
	Action string `json:"action"`
}

// policeLog is the action log payload of an encounter step
type policeLog struct {
	Mode    string `json:"mode"`
	Action  string `json:"action,omitempty"`
	Meta    string `json:"meta,omitempty"`
	Outcome string `json:"outcome,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Heat    int    `json:"heat"`
}

// GetDamage returns the damage a source deals in a single exchange
func (e *Engine) GetDamage(life *types.Life, source string) (int, error) {
	switch source {
	case DamagePolice:
		return e.cfg.Police.BaseDamage, nil
	case DamagePlayer:
		dmg := e.cfg.Person.BaseDamage
		if life != nil && life.Current.Weapon != nil {
			dmg += life.Current.Weapon.Damage
		}
		return dmg, nil
	default:
		return 0, fmt.Errorf("%w: unknown damage source %q", ErrIntegrity, source)
	}
}

// EncounterProbability returns the chance an encounter starts at a heat level
func (e *Engine) EncounterProbability(heat int) float64 {
	p := e.cfg.Police
	if heat <= 0 {
		return 0
	}
	if heat > p.HeatCap {
		heat = p.HeatCap
	}
	return p.MaxEncounterRate * float64(heat) / float64(p.HeatCap)
}

// bribeCost scales with the heat on the player
func (e *Engine) bribeCost(life *types.Life) int64 {
	p := e.cfg.Police
	cost := int64(life.Current.Police.Heat(life.Current.Location.Country)) * p.BribePerHeat
	if cost < p.BribeMinCash {
		return p.BribeMinCash
	}
	return cost
}

func (e *Engine) rollMeta(rng RNG) string {
	if rng.Float64() < e.cfg.Police.LuckRate {
		return MetaLucky
	}
	return MetaUnlucky
}

func (e *Engine) choice(id string) types.Choice {
	return types.Choice{ID: id, Name: e.text.Text("choice_" + id), Available: true}
}

func (e *Engine) discoveryChoices(life *types.Life) []types.Choice {
	bribe := e.choice(ChoiceBribe)
	if life.Current.Finance.Cash < e.bribeCost(life) {
		bribe.Available = false
		bribe.Reason = e.text.Text("choice_reason_bribe_cash")
	}
	return []types.Choice{e.choice(ChoiceFlee), e.choice(ChoiceHiss), bribe, e.choice(ChoiceFight)}
}

func (e *Engine) detainedChoices() []types.Choice {
	return []types.Choice{e.choice(ChoiceComply), e.choice(ChoiceFight)}
}

// StartEncounter rolls for a police stop against the current country's heat.
// A life flagged as a test fixture is always stopped while it carries heat.
func (e *Engine) StartEncounter(rng RNG, life *types.Life) (*types.Life, error) {
	if err := ensureAlive(life); err != nil {
		return nil, err
	}
	if life.Current.Police.Encounter != nil {
		return nil, ErrEncounterActive
	}

	heat := life.Current.Police.Heat(life.Current.Location.Country)
	probability := e.EncounterProbability(heat)
	roll := rng.Float64()
	newLife := life.Clone()
	if probability <= 0 || (roll >= probability && !life.Testing) {
		return newLife, nil
	}

	newLife.Current.Police.Meta = e.rollMeta(rng)
	newLife.Current.Police.Encounter = &types.Encounter{
		Mode: ModeDiscovery,
		Message: types.Message{
			Simple: pick(rng, e.text.Pool("police_discovery_simple")),
			Full:   pick(rng, e.text.Pool("police_discovery_full")),
		},
		Choices: e.discoveryChoices(newLife),
	}
	newLife.Log(ActionPolice, policeLog{Mode: ModeDiscovery, Heat: heat})

	e.Logger.Info("Police encounter started",
		zap.String("life_id", life.ID),
		zap.String("country", life.Current.Location.Country),
		zap.Int("heat", heat),
		zap.Float64("probability", probability))

	return newLife, nil
}

// ResolveEncounter records the player's choice and resolves it
func (e *Engine) ResolveEncounter(rng RNG, life *types.Life, action EncounterAction) (*types.Life, error) {
	if err := ensureAlive(life); err != nil {
		return nil, err
	}
	if life.Current.Police.Encounter == nil {
		return nil, ErrNoEncounter
	}
	newLife := life.Clone()
	newLife.Current.Police.Encounter.Action = action.Action
	return e.SimulateEncounter(rng, newLife)
}

// outcomeOdds is the chance of the lucky branch when no outcome was pre-rolled
func (e *Engine) outcomeOdds(life *types.Life, action string) float64 {
	if action != ChoiceFight {
		return e.cfg.Police.LuckRate
	}
	player, _ := e.GetDamage(life, DamagePlayer)
	police, _ := e.GetDamage(life, DamagePolice)
	if player+police == 0 {
		return 0
	}
	return float64(player) / float64(player+police)
}

// SimulateEncounter resolves the action stored on the active encounter
func (e *Engine) SimulateEncounter(rng RNG, life *types.Life) (*types.Life, error) {
	if err := ensureAlive(life); err != nil {
		return nil, err
	}
	encounter := life.Current.Police.Encounter
	if encounter == nil {
		return nil, ErrNoEncounter
	}
	choice, ok := encounter.Choice(encounter.Action)
	if !ok {
		return nil, ErrInvalidChoice
	}
	if !choice.Available {
		return nil, ErrChoiceUnavailable
	}

	newLife := life.Clone()
	police := &newLife.Current.Police
	meta := police.Meta
	if meta == "" {
		if rng.Float64() < e.outcomeOdds(newLife, choice.ID) {
			meta = MetaLucky
		} else {
			meta = MetaUnlucky
		}
	}

	mode := police.Encounter.Mode
	outcome := OutcomeSuccess
	var message string
	switch choice.ID {
	case ChoiceComply:
		fine := e.cfg.Police.DetainedFine
		if fine > newLife.Current.Finance.Cash {
			fine = newLife.Current.Finance.Cash
		}
		newLife.Current.Finance.Cash -= fine
		message = "police_fined_simple"
	case ChoiceHiss:
		if meta == MetaLucky {
			message = "police_released_simple"
		} else {
			outcome = OutcomeFailure
		}
	case ChoiceBribe:
		cost := e.bribeCost(newLife)
		if cost > newLife.Current.Finance.Cash {
			return nil, ErrInsufficientCash
		}
		if meta == MetaLucky {
			newLife.Current.Finance.Cash -= cost
			message = "police_bribed_simple"
		} else {
			outcome = OutcomeFailure
		}
	case ChoiceFlee, ChoiceFight:
		if meta == MetaLucky {
			outcome = OutcomePartial
			message = "police_escaped_simple"
		} else {
			outcome = OutcomeFailure
		}
	default:
		return nil, ErrInvalidChoice
	}

	entry := policeLog{Mode: mode, Action: choice.ID, Meta: meta, Outcome: outcome}
	switch outcome {
	case OutcomeSuccess, OutcomePartial:
		if outcome == OutcomePartial {
			addHeat(newLife, e.cfg.Police.HeatRate)
		}
		newLife.Current.Event = pick(rng, e.text.Pool(message))
		police.Encounter = nil
		police.Meta = ""
	case OutcomeFailure:
		dmg, err := e.GetDamage(newLife, DamagePolice)
		if err != nil {
			return nil, err
		}
		damage(newLife, 2*dmg)
		addHeat(newLife, e.cfg.Police.HeatRate)
		entry.Reason = choice.ID + "_failure"
		if !newLife.Alive {
			newLife.Current.Event = pick(rng, e.text.Pool("police_dead_simple"))
			police.Encounter = nil
			police.Meta = ""
			break
		}
		police.Encounter = &types.Encounter{
			Mode: ModeDetained,
			Message: types.Message{
				Simple: pick(rng, e.text.Pool("police_detained_simple")),
				Full:   pick(rng, e.text.Pool("police_detained_full")),
			},
			Choices: e.detainedChoices(),
			Reason:  entry.Reason,
		}
		police.Meta = e.rollMeta(rng)
	}
	entry.Heat = police.Heat(newLife.Current.Location.Country)
	newLife.Log(ActionPolice, entry)

	e.Logger.Info("Police encounter resolved",
		zap.String("life_id", newLife.ID),
		zap.String("mode", mode),
		zap.String("action", choice.ID),
		zap.String("meta", meta),
		zap.String("outcome", outcome),
		zap.Int("health", newLife.Current.Health.Points),
		zap.Bool("alive", newLife.Alive))

	return newLife, nil
}

package game

import (
	"fmt"

	"github.com/user/lifesim/internal/types"
	"go.uber.org/zap"
)

// Hotel actions
const (
	HotelRest     = "rest"
	HotelCheckOut = "checkout"
)

// TravelRequest is a requested flight
type TravelRequest struct {
	Destination string `json:"destination"`
}

type hotelLog struct {
	Action string `json:"action"`
	Health int    `json:"health"`
}

type airportLog struct {
	Flight   types.Flight   `json:"flight"`
	Location types.Location `json:"location"`
}

const flightLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// FlightTime returns how many turns a flight between two locations takes
func FlightTime(from, to types.Location) int {
	switch {
	case from.Country == to.Country:
		return 1
	case from.Continent == to.Continent:
		return 2
	default:
		return 3
	}
}

// GenerateAirportListings prices a flight to every other known location
func (e *Engine) GenerateAirportListings(rng RNG, life *types.Life) []types.Flight {
	a := e.cfg.Airport
	flights := make([]types.Flight, 0, len(e.catalog.Locations))
	for _, def := range e.catalog.Locations {
		if def.ID == life.Current.Location.ID {
			continue
		}
		to := def.Location()
		flightTime := FlightTime(life.Current.Location, to)
		variance := RandomArbitrary(rng, a.PriceVariance.Min, a.PriceVariance.Max)
		price := roundInt64(a.BasePrice * float64(flightTime) * variance)
		if price < 1 {
			price = 1
		}
		flights = append(flights, types.Flight{
			ID:           def.ID,
			Name:         fmt.Sprintf("%s, %s", def.City, def.Country),
			City:         def.City,
			Country:      def.Country,
			Price:        price,
			FlightNumber: flightNumber(rng),
			FlightTime:   flightTime,
		})
	}
	return flights
}

func flightNumber(rng RNG) string {
	return fmt.Sprintf("%c%c%03d",
		flightLetters[rng.Intn(len(flightLetters))],
		flightLetters[rng.Intn(len(flightLetters))],
		rng.Intn(1000))
}

// Travel flies the life to a listed destination and spends the flight time
func (e *Engine) Travel(rng RNG, life *types.Life, req TravelRequest) (*types.Life, error) {
	if err := ensureAlive(life); err != nil {
		return nil, err
	}
	if life.Current.Police.Encounter != nil {
		return nil, ErrEncounterActive
	}
	if life.Current.Hotel {
		return nil, ErrCheckedIn
	}
	var flight *types.Flight
	for i := range life.Listings.Airport {
		if life.Listings.Airport[i].ID == req.Destination {
			flight = &life.Listings.Airport[i]
			break
		}
	}
	if flight == nil {
		return nil, ErrUnknownDestination
	}
	def, ok := e.catalog.Location(req.Destination)
	if !ok {
		return nil, ErrUnknownDestination
	}
	if flight.Price > life.Current.Finance.Cash {
		return nil, ErrInsufficientCash
	}

	newLife := life.Clone()
	newLife.Current.Finance.Cash -= flight.Price
	newLife.Current.Location = def.Location()
	newLife.Current.TurnsHere = 0
	newLife.Current.Hotel = true
	newLife.Log(ActionAirport, airportLog{Flight: *flight, Location: newLife.Current.Location})

	e.Logger.Info("Life travelled",
		zap.String("life_id", life.ID),
		zap.String("from", life.Current.Location.ID),
		zap.String("to", def.ID),
		zap.Int64("price", flight.Price),
		zap.Int("flight_time", flight.FlightTime))

	var err error
	for i := 0; i < flight.FlightTime && newLife.Alive; i++ {
		if newLife, err = e.AdvanceTurn(rng, newLife); err != nil {
			return nil, err
		}
	}
	return newLife, nil
}

// Rest spends a turn in the hotel recovering health
func (e *Engine) Rest(rng RNG, life *types.Life) (*types.Life, error) {
	if err := ensureAlive(life); err != nil {
		return nil, err
	}
	if life.Current.Police.Encounter != nil {
		return nil, ErrEncounterActive
	}
	if !life.Current.Hotel {
		return nil, ErrNotCheckedIn
	}
	newLife := life.Clone()
	heal(newLife, e.cfg.Person.RestHeal)
	newLife.Log(ActionHotel, hotelLog{Action: HotelRest, Health: newLife.Current.Health.Points})
	return e.AdvanceTurn(rng, newLife)
}

// CheckOut leaves the hotel so the life can travel
func (e *Engine) CheckOut(life *types.Life) (*types.Life, error) {
	if err := ensureAlive(life); err != nil {
		return nil, err
	}
	if !life.Current.Hotel {
		return nil, ErrNotCheckedIn
	}
	newLife := life.Clone()
	newLife.Current.Hotel = false
	newLife.Log(ActionHotel, hotelLog{Action: HotelCheckOut, Health: newLife.Current.Health.Points})
	return newLife, nil
}

// AdvanceTurn moves the world forward one turn: interest accrues, listings
// regenerate, an event may fire and the police may stop the life.
func (e *Engine) AdvanceTurn(rng RNG, life *types.Life) (*types.Life, error) {
	if err := ensureAlive(life); err != nil {
		return nil, err
	}
	newLife := life.Clone()
	cur := &newLife.Current
	cur.Turn++
	cur.TurnsHere++
	cur.Finance.Debt += roundInt64(float64(cur.Finance.Debt) * cur.Finance.DebtInterest)
	cur.Finance.Savings += roundInt64(float64(cur.Finance.Savings) * cur.Finance.SavingsInterest)
	cur.EventMeta += e.cfg.Events.MetaStep
	e.refreshListings(rng, newLife)

	newLife, err := e.SimulateEvents(rng, newLife)
	if err != nil {
		return nil, err
	}
	if newLife.Current.Police.Encounter == nil {
		if newLife, err = e.StartEncounter(rng, newLife); err != nil {
			return nil, err
		}
	}

	e.Logger.Debug("Turn advanced",
		zap.String("life_id", newLife.ID),
		zap.Int("turn", newLife.Current.Turn),
		zap.Int64("cash", newLife.Current.Finance.Cash),
		zap.Int64("debt", newLife.Current.Finance.Debt))

	return newLife, nil
}

package game

import "errors"

// RuleError is an anticipated rule violation; the caller must not persist the life
type RuleError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *RuleError) Error() string {
	return e.Message
}

func newRuleError(code, message string) *RuleError {
	return &RuleError{Code: code, Message: message}
}

// Market rule violations
var (
	ErrInsufficientMarketStock = newRuleError("insufficient_market_stock", "Transaction buys more units than available")
	ErrInsufficientStorage     = newRuleError("insufficient_storage", "Transaction buys more units than storage can hold")
	ErrInsufficientCash        = newRuleError("insufficient_cash", "Transaction requests more than life can afford")
	ErrInsufficientInventory   = newRuleError("insufficient_inventory", "Transaction moves more units than held")
	ErrItemNotHeld             = newRuleError("item_not_held", "You can't move an item you don't have")
	ErrItemNotListed           = newRuleError("item_not_listed", "Item is not listed at this market")
	ErrInvalidUnits            = newRuleError("invalid_units", "Units must be a positive whole number")
	ErrInvalidTransactionType  = newRuleError("invalid_transaction_type", "Transaction type must be buy, sell or dump")
)

// Vendor rule violations
var (
	ErrUnknownVendor    = newRuleError("unknown_vendor", "No such vendor")
	ErrVendorClosed     = newRuleError("vendor_closed", "Vendor is closed")
	ErrStaleVendorIndex = newRuleError("stale_vendor_index", "Vendor offer is no longer in stock")
)

// Life and travel rule violations
var (
	ErrLifeTerminal       = newRuleError("life_terminal", "This life is over")
	ErrUnknownLocation    = newRuleError("unknown_location", "No such starting location")
	ErrUnknownDestination = newRuleError("unknown_destination", "No flight to that destination")
	ErrCheckedIn          = newRuleError("checked_in", "Check out of the hotel before flying")
	ErrNotCheckedIn       = newRuleError("not_checked_in", "You are not at the hotel")
)

// Police rule violations
var (
	ErrEncounterActive   = newRuleError("encounter_active", "An encounter is already in progress")
	ErrNoEncounter       = newRuleError("no_encounter", "There is no encounter in progress")
	ErrInvalidChoice     = newRuleError("invalid_choice", "That is not one of the choices")
	ErrChoiceUnavailable = newRuleError("choice_unavailable", "That choice is not available right now")
)

// ErrIntegrity marks malformed input or missing configuration; it is not recoverable
var ErrIntegrity = errors.New("integrity fault")

// IsRuleViolation reports whether err is an anticipated rule violation
func IsRuleViolation(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}

// RuleCode returns the violation code of err, or "" when err is not one
func RuleCode(err error) string {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

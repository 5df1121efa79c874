package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ItemState represents the position of an item in its lifecycle
type ItemState int

const (
	ItemStateAdvertised  ItemState = 0
	ItemStateBrought     ItemState = 1
	ItemStateStaged      ItemState = 2
	ItemStateMissing     ItemState = 3
	ItemStateReturned    ItemState = 4
	ItemStateSold        ItemState = 5
	ItemStateCompensated ItemState = 6
)

// AllItemStates lists every state, in declaration order.
var AllItemStates = []ItemState{
	ItemStateAdvertised,
	ItemStateBrought,
	ItemStateStaged,
	ItemStateMissing,
	ItemStateReturned,
	ItemStateSold,
	ItemStateCompensated,
}

func (s ItemState) String() string {
	return [...]string{"Advertised", "Brought", "Staged", "Missing", "Returned", "Sold", "Compensated"}[s]
}

// Valid reports whether s is a known state
func (s ItemState) Valid() bool {
	return s >= ItemStateAdvertised && s <= ItemStateCompensated
}

// In reports whether s is one of the given states
func (s ItemState) In(states ...ItemState) bool {
	for _, st := range states {
		if s == st {
			return true
		}
	}
	return false
}

func (s ItemState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ItemState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ItemState(i)
		return nil
	}
	switch str {
	case "Advertised":
		*s = ItemStateAdvertised
	case "Brought":
		*s = ItemStateBrought
	case "Staged":
		*s = ItemStateStaged
	case "Missing":
		*s = ItemStateMissing
	case "Returned":
		*s = ItemStateReturned
	case "Sold":
		*s = ItemStateSold
	case "Compensated":
		*s = ItemStateCompensated
	}
	return nil
}

func (s ItemState) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ItemState) Scan(value interface{}) error {
	if value == nil {
		*s = ItemStateAdvertised
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ItemState(v)
	case int:
		*s = ItemState(v)
	}
	return nil
}

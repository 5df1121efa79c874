package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ReceiptAction tags the variant of a receipt line.
//
// Add is a live line counted into the total. Remove records a reversal event.
// RemovedLater marks a former Add whose reversal happened after the fact, so
// that recomputing history treats it as always-cancelled while the Remove row
// keeps the cancellation event itself. Extra is a synthetic line (commission)
// not tied to a physical item.
type ReceiptAction int

const (
	ReceiptActionAdd          ReceiptAction = 0
	ReceiptActionRemove       ReceiptAction = 1
	ReceiptActionRemovedLater ReceiptAction = 2
	ReceiptActionExtra        ReceiptAction = 3
)

func (a ReceiptAction) String() string {
	return [...]string{"Add", "Remove", "RemovedLater", "Extra"}[a]
}

func (a ReceiptAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *ReceiptAction) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*a = ReceiptAction(i)
		return nil
	}
	switch str {
	case "Add":
		*a = ReceiptActionAdd
	case "Remove":
		*a = ReceiptActionRemove
	case "RemovedLater":
		*a = ReceiptActionRemovedLater
	case "Extra":
		*a = ReceiptActionExtra
	}
	return nil
}

func (a ReceiptAction) Value() (driver.Value, error) {
	return int64(a), nil
}

func (a *ReceiptAction) Scan(value interface{}) error {
	if value == nil {
		*a = ReceiptActionAdd
		return nil
	}
	switch v := value.(type) {
	case int64:
		*a = ReceiptAction(v)
	case int:
		*a = ReceiptAction(v)
	}
	return nil
}

package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ReceiptStatus represents the status of a receipt
type ReceiptStatus int

const (
	ReceiptStatusPending  ReceiptStatus = 0
	ReceiptStatusFinished ReceiptStatus = 1
	ReceiptStatusAborted  ReceiptStatus = 2
)

func (s ReceiptStatus) String() string {
	return [...]string{"Pending", "Finished", "Aborted"}[s]
}

func (s ReceiptStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ReceiptStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ReceiptStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = ReceiptStatusPending
	case "Finished":
		*s = ReceiptStatusFinished
	case "Aborted":
		*s = ReceiptStatusAborted
	}
	return nil
}

func (s ReceiptStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ReceiptStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ReceiptStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ReceiptStatus(v)
	case int:
		*s = ReceiptStatus(v)
	}
	return nil
}

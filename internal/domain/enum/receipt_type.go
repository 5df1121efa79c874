package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ReceiptType distinguishes sale receipts from vendor compensation receipts
type ReceiptType int

const (
	ReceiptTypeSale         ReceiptType = 0
	ReceiptTypeCompensation ReceiptType = 1
)

func (t ReceiptType) String() string {
	return [...]string{"Sale", "Compensation"}[t]
}

func (t ReceiptType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ReceiptType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = ReceiptType(i)
		return nil
	}
	switch str {
	case "Sale":
		*t = ReceiptTypeSale
	case "Compensation":
		*t = ReceiptTypeCompensation
	}
	return nil
}

func (t ReceiptType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *ReceiptType) Scan(value interface{}) error {
	if value == nil {
		*t = ReceiptTypeSale
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = ReceiptType(v)
	case int:
		*t = ReceiptType(v)
	}
	return nil
}

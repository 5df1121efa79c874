package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ExtraType is the sub-type of an Extra receipt line
type ExtraType int

const (
	// ExtraTypeProvision is the commission charged for the current batch.
	ExtraTypeProvision ExtraType = 0
	// ExtraTypeProvisionFix trues up commission already charged in earlier
	// partial compensations against the vendor's full eligible history.
	ExtraTypeProvisionFix ExtraType = 1
)

func (t ExtraType) String() string {
	return [...]string{"Provision", "ProvisionFix"}[t]
}

func (t ExtraType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ExtraType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = ExtraType(i)
		return nil
	}
	switch str {
	case "Provision":
		*t = ExtraTypeProvision
	case "ProvisionFix":
		*t = ExtraTypeProvisionFix
	}
	return nil
}

func (t ExtraType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *ExtraType) Scan(value interface{}) error {
	if value == nil {
		*t = ExtraTypeProvision
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = ExtraType(v)
	case int:
		*t = ExtraType(v)
	}
	return nil
}

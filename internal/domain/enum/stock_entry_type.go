package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// StockEntryType classifies a row in the stock movement audit trail
type StockEntryType string

const (
	StockEntryTypePurchase   StockEntryType = "purchase"
	StockEntryTypeSale       StockEntryType = "sale"
	StockEntryTypeAdjustment StockEntryType = "adjustment"
	StockEntryTypeReturn     StockEntryType = "return"
	StockEntryTypeTransfer   StockEntryType = "transfer"
)

func (t StockEntryType) String() string {
	return string(t)
}

func (t StockEntryType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *StockEntryType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = StockEntryType(str)
	return nil
}

func (t StockEntryType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *StockEntryType) Scan(value interface{}) error {
	if value == nil {
		*t = StockEntryTypeAdjustment
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = StockEntryType(v)
	case []byte:
		*t = StockEntryType(string(v))
	}
	return nil
}

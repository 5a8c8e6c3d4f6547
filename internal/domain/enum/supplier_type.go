package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SupplierType distinguishes where a batch was sourced from: a registered
// supplier account on the platform or a free-text custom supplier.
type SupplierType string

const (
	SupplierTypeRegistered SupplierType = "registered"
	SupplierTypeCustom     SupplierType = "custom"
)

// IsValid reports whether the type is one of the accepted values.
func (t SupplierType) IsValid() bool {
	return t == SupplierTypeRegistered || t == SupplierTypeCustom
}

func (t SupplierType) String() string {
	return string(t)
}

func (t SupplierType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *SupplierType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = SupplierType(str)
	return nil
}

func (t SupplierType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *SupplierType) Scan(value interface{}) error {
	if value == nil {
		*t = SupplierTypeCustom
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = SupplierType(v)
	case []byte:
		*t = SupplierType(string(v))
	}
	return nil
}

package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// UserRole represents a user's role within an organization
type UserRole string

const (
	UserRoleAdmin         UserRole = "admin"
	UserRolePharmacyOwner UserRole = "pharmacy_owner"
	UserRolePharmacist    UserRole = "pharmacist"
	UserRoleSupplierAdmin UserRole = "supplier_admin"
)

// CanDeleteSales reports whether the role may delete completed sales.
func (r UserRole) CanDeleteSales() bool {
	return r == UserRoleAdmin || r == UserRolePharmacyOwner
}

// IsSupplier reports whether the role belongs to the supplier side.
func (r UserRole) IsSupplier() bool {
	return r == UserRoleSupplierAdmin
}

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

func (r *UserRole) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*r = UserRole(str)
	return nil
}

func (r UserRole) Value() (driver.Value, error) {
	return string(r), nil
}

func (r *UserRole) Scan(value interface{}) error {
	if value == nil {
		*r = UserRolePharmacist
		return nil
	}
	switch v := value.(type) {
	case string:
		*r = UserRole(v)
	case []byte:
		*r = UserRole(string(v))
	}
	return nil
}

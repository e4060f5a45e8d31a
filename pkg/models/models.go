package models

// Domain models matching the tables in db/migrations/0001_init.sql.
// Optional text fields use "" for absent values, never a null marker.

// FurnitureType is the furnishing state of a listed property.
type FurnitureType string

const (
	FurnitureUnset         FurnitureType = ""
	FurnitureFurnished     FurnitureType = "furnished"
	FurnitureUnfurnished   FurnitureType = "unfurnished"
	FurnitureSemiFurnished FurnitureType = "semi-furnished"
)

// FurnitureTypes lists the accepted non-empty furniture values.
var FurnitureTypes = []FurnitureType{FurnitureFurnished, FurnitureUnfurnished, FurnitureSemiFurnished}

// Valid reports whether f is empty or one of FurnitureTypes.
func (f FurnitureType) Valid() bool {
	if f == FurnitureUnset {
		return true
	}
	for _, v := range FurnitureTypes {
		if f == v {
			return true
		}
	}
	return false
}

type Property struct {
	ID               int64         `json:"id" db:"id"`
	PropertyType     string        `json:"propertyType" db:"property_type"`
	Bedrooms         int           `json:"bedrooms" db:"bedrooms"`
	DateTime         string        `json:"dateTime" db:"date_time"`
	MonthlyRentPrice int           `json:"monthlyRentPrice" db:"monthly_rent_price"`
	FurnitureTypes   FurnitureType `json:"furnitureTypes" db:"furniture_types"`
	Notes            string        `json:"notes" db:"notes"`
	ReporterName     string        `json:"reporterName" db:"reporter_name"`
	Description      string        `json:"description" db:"description"`
	Image            string        `json:"image" db:"image"`
}

// User is an account of the local application. Password holds the stored
// credential (a bcrypt hash once it went through the auth service) and is
// never serialized.
type User struct {
	ID         int64  `json:"id" db:"id"`
	Username   string `json:"username" db:"username"`
	Password   string `json:"-" db:"password"`
	IsLoggedIn bool   `json:"isLoggedIn" db:"is_logged_in"`
}

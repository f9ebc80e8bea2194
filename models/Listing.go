package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing is a rental property posted by a landlord. Rent is per month in BDT.
// Images and Amenities are stored as JSON arrays of strings.
type Listing struct {
	gorm.Model
	LandlordID  uint           `json:"landlordID" gorm:"index"`
	Location    string         `json:"location"`
	Description string         `json:"description"`
	Rent        float64        `json:"rent"`
	Bedrooms    int            `json:"bedrooms"`
	Images      datatypes.JSON `json:"images"`
	Amenities   datatypes.JSON `json:"amenities"`

	Landlord *User     `json:"landlord,omitempty" gorm:"foreignKey:LandlordID"`
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:ListingID"`
}

package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
	RoleAdmin    = "admin"
)

type User struct {
	gorm.Model
	Name                string         `json:"name"`
	Email               string         `json:"email" gorm:"uniqueIndex"`
	PhoneNumber         string         `json:"phoneNumber"`
	Password            string         `json:"-"`
	Role                string         `json:"role" gorm:"size:16;index"` // tenant, landlord, admin
	IsActive            *bool          `json:"isActive" gorm:"default:true"`
	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`

	Listings []Listing `json:"listings,omitempty" gorm:"foreignKey:LandlordID;references:ID"`
}

// Active reports whether the account may log in or be party to a booking.
func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

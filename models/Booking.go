package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusApproved  = "approved"
	BookingStatusRejected  = "rejected"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is a tenant's rental request against a listing.
//
// LandlordID is denormalized from the listing at creation time so list views
// and ownership checks never need an extra join. ContactPhone is present only
// once the landlord approved; RejectionReason only when rejected. TotalAmount
// is fixed at approval time from the listing's rent, never from client input.
type Booking struct {
	gorm.Model
	ListingID       uint      `json:"listingID" gorm:"index"`
	TenantID        uint      `json:"tenantID" gorm:"index"`
	LandlordID      uint      `json:"landlordID" gorm:"index"`
	CheckIn         time.Time `json:"checkIn"`
	CheckOut        time.Time `json:"checkOut"`
	Message         string    `json:"message"`
	Status          string    `json:"status" gorm:"size:16;index"`
	ContactPhone    string    `json:"contactPhone,omitempty"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	TotalAmount     float64   `json:"totalAmount"`
	PaymentIntentID string    `json:"-" gorm:"size:64"`

	Listing  *Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	Tenant   *User    `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	Landlord *User    `json:"landlord,omitempty" gorm:"foreignKey:LandlordID"`
}

// ActiveBookingStatuses are the non-terminal states that block listing deletion.
var ActiveBookingStatuses = []string{BookingStatusPending, BookingStatusApproved}

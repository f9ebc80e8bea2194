package services

import (
	"errors"

	"github.com/shahadathhs/barisathi-sub000/models"
	"github.com/shahadathhs/barisathi-sub000/storage"
)

// The booking lifecycle is a fixed directed graph:
//
//	pending  -> approved | rejected
//	approved -> confirmed | cancelled
//
// rejected, cancelled and confirmed are terminal. Every status write goes
// through TransitionBooking's compare-and-swap so concurrent actors (a
// landlord approving while a duplicate payment callback confirms, a retry
// re-approving an approved booking) can never both succeed.
var bookingTransitions = map[string][]string{
	models.BookingStatusPending:  {models.BookingStatusApproved, models.BookingStatusRejected},
	models.BookingStatusApproved: {models.BookingStatusConfirmed, models.BookingStatusCancelled},
}

var ErrInvalidTransition = errors.New("invalid booking state transition")

// CanTransition reports whether the lifecycle graph allows from -> to.
func CanTransition(from, to string) bool {
	for _, allowed := range bookingTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TerminalStatus reports whether no further transition is possible.
func TerminalStatus(status string) bool {
	return len(bookingTransitions[status]) == 0
}

// TransitionBooking moves a booking from the expected status to the new one,
// applying extra column updates in the same write. The update is a
// compare-and-swap on (id, status): if the booking is no longer in the
// expected status the write affects zero rows and ErrInvalidTransition is
// returned with the record untouched, so retries and races fail loudly
// instead of double-applying. Returns the reloaded booking on success.
func TransitionBooking(bookingID uint, from, to string, updates map[string]interface{}) (*models.Booking, error) {
	if !CanTransition(from, to) {
		return nil, ErrInvalidTransition
	}

	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to

	res := storage.DB.Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, from).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}

	var booking models.Booking
	if err := storage.DB.Preload("Listing").Preload("Tenant").Preload("Landlord").First(&booking, bookingID).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// TotalAmountDue computes the amount collected at confirmation: the first
// month's rent plus a 50% deposit plus a 10% service fee. Always derived from
// the listing's rent on the server; client-supplied amounts are never trusted.
func TotalAmountDue(rent float64) float64 {
	return rent + rent*0.5 + rent*0.1
}

package routes

import (
	"errors"

	"github.com/kataras/iris/v12"

	"github.com/shahadathhs/barisathi-sub000/models"
	"github.com/shahadathhs/barisathi-sub000/services"
	"github.com/shahadathhs/barisathi-sub000/storage"
	"github.com/shahadathhs/barisathi-sub000/utils"
)

// CreatePaymentIntent mints (or re-returns) the Stripe intent for an approved
// booking. Only the assigned tenant may pay, and only while the booking is
// approved; the amount comes from the booking row, never the client.
func CreatePaymentIntent(ctx iris.Context) {
	id := ctx.Params().Get("id")
	userID := ctx.Values().Get("userID").(uint)

	var booking models.Booking
	if err := storage.DB.First(&booking, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found", ctx)
		return
	}

	if booking.TenantID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	if booking.Status != models.BookingStatusApproved {
		utils.CreateInvalidTransition(ctx, "Booking must be approved before payment")
		return
	}

	// A retried client gets the same intent back rather than a second charge.
	if booking.PaymentIntentID != "" {
		intent, err := services.GetBookingIntent(booking.PaymentIntentID)
		if err == nil {
			ctx.JSON(iris.Map{
				"clientSecret": intent.ClientSecret,
				"amount":       booking.TotalAmount,
			})
			return
		}
	}

	intent, err := services.CreateBookingIntent(&booking)
	if err != nil {
		utils.CreateUpstreamFailure(ctx, "Payment processor is unavailable")
		return
	}

	if err := storage.DB.Model(&booking).Update("payment_intent_id", intent.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"clientSecret": intent.ClientSecret,
		"amount":       booking.TotalAmount,
	})
}

// ConfirmPayment drives approved -> confirmed once the processor reports
// success. Confirmation callbacks can be delivered more than once, so a
// booking that is already confirmed is a safe no-op returning current state.
func ConfirmPayment(ctx iris.Context) {
	id := ctx.Params().Get("id")
	userID := ctx.Values().Get("userID").(uint)

	var booking models.Booking
	if err := storage.DB.Preload("Listing").First(&booking, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found", ctx)
		return
	}

	if booking.TenantID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	if booking.Status == models.BookingStatusConfirmed {
		ctx.JSON(booking)
		return
	}

	if booking.Status != models.BookingStatusApproved {
		utils.CreateInvalidTransition(ctx, "Booking is not approved")
		return
	}

	if booking.PaymentIntentID == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "No payment intent exists for this booking", ctx)
		return
	}

	intent, err := services.GetBookingIntent(booking.PaymentIntentID)
	if err != nil {
		utils.CreateUpstreamFailure(ctx, "Payment processor is unavailable")
		return
	}

	if !services.IntentSucceeded(intent) {
		utils.CreateError(iris.StatusBadRequest, "Payment Error", "Payment has not completed", ctx)
		return
	}

	updated, err := services.TransitionBooking(booking.ID, models.BookingStatusApproved, models.BookingStatusConfirmed, nil)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			// Lost the race with a duplicate callback; if the other write
			// confirmed the booking this is still a success.
			var current models.Booking
			if lookupErr := storage.DB.Preload("Listing").First(&current, booking.ID).Error; lookupErr == nil &&
				current.Status == models.BookingStatusConfirmed {
				ctx.JSON(current)
				return
			}
			utils.CreateInvalidTransition(ctx, "Booking is no longer approved")
			return
		}
		utils.CreateUpstreamFailure(ctx, "Could not persist the status change")
		return
	}

	go services.NotificationServiceInstance.SendConfirmationToParties(updated, updated.Listing)

	ctx.JSON(updated)
}

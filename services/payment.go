package services

import (
	"fmt"
	"math"
	"os"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"

	"github.com/shahadathhs/barisathi-sub000/models"
)

func InitializeStripe() {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
}

// CreateBookingIntent mints a Stripe PaymentIntent for the booking's total
// amount. The amount comes from the booking row (set at approval from the
// listing's rent), converted to the smallest currency unit.
func CreateBookingIntent(booking *models.Booking) (*stripe.PaymentIntent, error) {
	if booking.TotalAmount <= 0 {
		return nil, fmt.Errorf("booking %d has no amount due", booking.ID)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(booking.TotalAmount * 100))),
		Currency: stripe.String(string(stripe.CurrencyBDT)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("bookingID", fmt.Sprintf("%d", booking.ID))
	params.AddMetadata("listingID", fmt.Sprintf("%d", booking.ListingID))
	params.AddMetadata("tenantID", fmt.Sprintf("%d", booking.TenantID))

	return paymentintent.New(params)
}

// GetBookingIntent fetches the current state of a previously created intent.
func GetBookingIntent(intentID string) (*stripe.PaymentIntent, error) {
	return paymentintent.Get(intentID, nil)
}

// IntentSucceeded reports whether the processor captured the funds.
func IntentSucceeded(intent *stripe.PaymentIntent) bool {
	return intent != nil && intent.Status == stripe.PaymentIntentStatusSucceeded
}

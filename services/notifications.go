package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/shahadathhs/barisathi-sub000/models"
	"github.com/shahadathhs/barisathi-sub000/storage"
	"github.com/shahadathhs/barisathi-sub000/utils"
)

// NotificationService fans a lifecycle event out to the in-app inbox, push
// and email. Delivery is best-effort: lifecycle transitions call these
// methods in a goroutine and never roll back on a send failure.
type NotificationService struct{}

// NewNotificationService creates a new notification service instance
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotificationData represents the data payload for push notifications
type NotificationData struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	ListingID string `json:"listingId,omitempty"`
	// Deep linking data
	Screen string `json:"screen"`
	Action string `json:"action,omitempty"`
}

// getUserPushTokens retrieves all push tokens for a user
func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}

	return tokens, nil
}

// notify writes the in-app row, then attempts push and email delivery.
// The in-app row is written first so the inbox stays consistent even when
// both external channels fail.
func (ns *NotificationService) notify(userID uint, title, body string, data NotificationData, refID uint) error {
	row := models.Notification{
		UserID:  userID,
		Type:    data.Type,
		Title:   title,
		Message: body,
		RefType: "booking",
		RefID:   refID,
	}
	if err := storage.DB.Create(&row).Error; err != nil {
		log.Printf("Failed to store notification for user %d: %v", userID, err)
	}

	if tokens, err := ns.getUserPushTokens(userID); err == nil {
		dataMap := map[string]string{
			"type":      data.Type,
			"id":        data.ID,
			"listingId": data.ListingID,
			"screen":    data.Screen,
			"action":    data.Action,
		}
		for _, token := range tokens {
			if err := utils.SendNotification(token, title, body, dataMap); err != nil {
				log.Printf("Failed to send push to token %s: %v", token, err)
			}
		}
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err == nil && user.Email != "" {
		if err := SendEmail(user.Email, title, body); err != nil {
			log.Printf("Failed to send email to user %d: %v", userID, err)
		}
	}

	return nil
}

// SendBookingRequestToLandlord notifies the landlord of a new rental request.
func (ns *NotificationService) SendBookingRequestToLandlord(booking *models.Booking, listing *models.Listing, tenantName string) error {
	title := "New Rental Request"
	body := fmt.Sprintf("%s requested to rent your property at %s from %s.",
		tenantName, listing.Location, booking.CheckIn.Format("January 2, 2006"))

	data := NotificationData{
		Type:      "booking_request",
		ID:        fmt.Sprintf("%d", booking.ID),
		ListingID: fmt.Sprintf("%d", booking.ListingID),
		Screen:    "LandlordBookings",
		Action:    "view_booking",
	}
	return ns.notify(booking.LandlordID, title, body, data, booking.ID)
}

// SendApprovalToTenant notifies the tenant that the landlord approved.
func (ns *NotificationService) SendApprovalToTenant(booking *models.Booking, listing *models.Listing) error {
	title := "Booking Approved!"
	body := fmt.Sprintf("Your request for %s was approved. Amount due: %.0f BDT. Landlord contact: %s.",
		listing.Location, booking.TotalAmount, utils.DisplayPhoneNumber(booking.ContactPhone))

	data := NotificationData{
		Type:      "booking_approved",
		ID:        fmt.Sprintf("%d", booking.ID),
		ListingID: fmt.Sprintf("%d", booking.ListingID),
		Screen:    "MyBookings",
		Action:    "pay_booking",
	}
	return ns.notify(booking.TenantID, title, body, data, booking.ID)
}

// SendRejectionToTenant notifies the tenant that the landlord rejected.
func (ns *NotificationService) SendRejectionToTenant(booking *models.Booking, listing *models.Listing) error {
	title := "Booking Declined"
	body := fmt.Sprintf("Your request for %s was declined: %s", listing.Location, booking.RejectionReason)

	data := NotificationData{
		Type:      "booking_rejected",
		ID:        fmt.Sprintf("%d", booking.ID),
		ListingID: fmt.Sprintf("%d", booking.ListingID),
		Screen:    "MyBookings",
		Action:    "view_booking",
	}
	return ns.notify(booking.TenantID, title, body, data, booking.ID)
}

// SendConfirmationToParties notifies both sides after a successful payment.
func (ns *NotificationService) SendConfirmationToParties(booking *models.Booking, listing *models.Listing) error {
	data := NotificationData{
		Type:      "booking_confirmed",
		ID:        fmt.Sprintf("%d", booking.ID),
		ListingID: fmt.Sprintf("%d", booking.ListingID),
		Screen:    "MyBookings",
		Action:    "view_booking",
	}

	tenantBody := fmt.Sprintf("Payment received. Your booking for %s is confirmed.", listing.Location)
	ns.notify(booking.TenantID, "Booking Confirmed!", tenantBody, data, booking.ID)

	landlordData := data
	landlordData.Screen = "LandlordBookings"
	landlordBody := fmt.Sprintf("The tenant paid %.0f BDT for %s. The booking is confirmed.", booking.TotalAmount, listing.Location)
	return ns.notify(booking.LandlordID, "Booking Confirmed!", landlordBody, landlordData, booking.ID)
}

// SendCancellationToTenant notifies the tenant that their approved booking
// was cancelled on their behalf (admin action or listing removal).
func (ns *NotificationService) SendCancellationToTenant(booking *models.Booking, listing *models.Listing) error {
	title := "Booking Cancelled"
	body := fmt.Sprintf("Your approved booking for %s was cancelled.", listing.Location)

	data := NotificationData{
		Type:      "booking_cancelled",
		ID:        fmt.Sprintf("%d", booking.ID),
		ListingID: fmt.Sprintf("%d", booking.ListingID),
		Screen:    "MyBookings",
		Action:    "view_booking",
	}
	return ns.notify(booking.TenantID, title, body, data, booking.ID)
}

// SendCancellationToLandlord notifies the landlord that the tenant cancelled.
func (ns *NotificationService) SendCancellationToLandlord(booking *models.Booking, listing *models.Listing) error {
	title := "Booking Cancelled"
	body := fmt.Sprintf("The approved booking for %s was cancelled by the tenant.", listing.Location)

	data := NotificationData{
		Type:      "booking_cancelled",
		ID:        fmt.Sprintf("%d", booking.ID),
		ListingID: fmt.Sprintf("%d", booking.ListingID),
		Screen:    "LandlordBookings",
		Action:    "view_booking",
	}
	return ns.notify(booking.LandlordID, title, body, data, booking.ID)
}

// Global notification service instance
var NotificationServiceInstance = NewNotificationService()

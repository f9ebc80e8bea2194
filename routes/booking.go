package routes

import (
	"errors"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/shahadathhs/barisathi-sub000/models"
	"github.com/shahadathhs/barisathi-sub000/services"
	"github.com/shahadathhs/barisathi-sub000/storage"
	"github.com/shahadathhs/barisathi-sub000/utils"
)

type CreateBookingInput struct {
	CheckIn  time.Time `json:"checkIn" validate:"required"`
	CheckOut time.Time `json:"checkOut" validate:"required"`
	Message  string    `json:"message" validate:"required,min=10"`
}

// CreateBooking opens a rental request against a listing. The landlord is
// denormalized from the listing so every later ownership check is a single
// column compare.
func CreateBooking(ctx iris.Context) {
	listingID := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	if claims.Role != models.RoleTenant {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !input.CheckIn.Before(input.CheckOut) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkOut must be after checkIn", ctx)
		return
	}

	var listing models.Listing
	if err := storage.DB.Preload("Landlord").First(&listing, listingID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Listing not found", ctx)
		return
	}

	if listing.LandlordID == claims.ID {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "You cannot book your own listing", ctx)
		return
	}

	if listing.Landlord == nil || !listing.Landlord.Active() {
		utils.CreateError(iris.StatusConflict, "Conflict", "The landlord's account is not active", ctx)
		return
	}

	var tenant models.User
	if err := storage.DB.First(&tenant, claims.ID).Error; err != nil || !tenant.Active() {
		utils.CreateForbidden(ctx)
		return
	}

	booking := models.Booking{
		ListingID:  listing.ID,
		TenantID:   claims.ID,
		LandlordID: listing.LandlordID,
		CheckIn:    input.CheckIn,
		CheckOut:   input.CheckOut,
		Message:    input.Message,
		Status:     models.BookingStatusPending,
	}

	if err := storage.DB.Create(&booking).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Preload("Listing").Preload("Tenant").First(&booking, booking.ID)

	go services.NotificationServiceInstance.SendBookingRequestToLandlord(&booking, &listing, tenant.Name)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(booking)
}

type UpdateBookingStatusInput struct {
	Status          string `json:"status" validate:"required,oneof=approved rejected"`
	ContactPhone    string `json:"contactPhone"`
	RejectionReason string `json:"rejectionReason"`
}

// UpdateBookingStatus is the landlord's approve/reject action on a pending
// request. Approval fixes the amount due from the listing's rent and records
// the landlord's contact phone; rejection records the reason. Both run
// through the lifecycle engine's compare-and-swap, so a replayed approve (or
// an approve racing a reject) gets 422 rather than silently double-applying.
func UpdateBookingStatus(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input UpdateBookingStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var booking models.Booking
	if err := storage.DB.Preload("Listing").First(&booking, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found", ctx)
		return
	}

	// Only the assigned landlord decides; admins have their own cancel path.
	if booking.LandlordID != claims.ID || claims.Role != models.RoleLandlord {
		utils.CreateForbidden(ctx)
		return
	}

	var updates map[string]interface{}
	switch input.Status {
	case models.BookingStatusApproved:
		if !utils.ValidatePhoneNumber(input.ContactPhone) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "A valid contact phone is required to approve", ctx)
			return
		}
		updates = map[string]interface{}{
			"contact_phone": utils.NormalizePhoneNumber(input.ContactPhone),
			"total_amount":  services.TotalAmountDue(booking.Listing.Rent),
		}
	case models.BookingStatusRejected:
		if input.RejectionReason == "" {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "A rejection reason is required to reject", ctx)
			return
		}
		updates = map[string]interface{}{
			"rejection_reason": input.RejectionReason,
		}
	}

	updated, err := services.TransitionBooking(booking.ID, models.BookingStatusPending, input.Status, updates)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			utils.CreateInvalidTransition(ctx, "Booking is not pending")
			return
		}
		utils.CreateUpstreamFailure(ctx, "Could not persist the status change")
		return
	}

	if input.Status == models.BookingStatusApproved {
		go services.NotificationServiceInstance.SendApprovalToTenant(updated, updated.Listing)
	} else {
		go services.NotificationServiceInstance.SendRejectionToTenant(updated, updated.Listing)
	}

	ctx.JSON(updated)
}

// CancelBooking lets the assigned tenant withdraw an approved booking before
// paying. Pending requests have no cancellation edge; they resolve through
// the landlord.
func CancelBooking(ctx iris.Context) {
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

	updated, err := services.TransitionBooking(booking.ID, models.BookingStatusApproved, models.BookingStatusCancelled, nil)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			utils.CreateInvalidTransition(ctx, "Only approved bookings can be cancelled")
			return
		}
		utils.CreateUpstreamFailure(ctx, "Could not persist the status change")
		return
	}

	go services.NotificationServiceInstance.SendCancellationToLandlord(updated, updated.Listing)

	ctx.JSON(updated)
}

// GetTenantBookings returns a page of the authenticated tenant's own
// bookings, optionally filtered by status, newest first.
func GetTenantBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	page, limit := pageParams(ctx)

	q := storage.DB.Model(&models.Booking{}).Where("tenant_id = ?", userID)
	if status := ctx.URLParamDefault("status", ""); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	q.Count(&total)

	var bookings []models.Booking
	if err := q.Preload("Listing").Preload("Listing.Landlord").
		Offset((page - 1) * limit).Limit(limit).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, bookings, page, limit, total)
}

// GetLandlordBookings returns a page of bookings against the authenticated
// landlord's listings, optionally filtered by status, newest first.
func GetLandlordBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	page, limit := pageParams(ctx)

	q := storage.DB.Model(&models.Booking{}).Where("landlord_id = ?", userID)
	if status := ctx.URLParamDefault("status", ""); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	q.Count(&total)

	var bookings []models.Booking
	if err := q.Preload("Listing").Preload("Tenant").
		Offset((page - 1) * limit).Limit(limit).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, bookings, page, limit, total)
}

func pageParams(ctx iris.Context) (page, limit int) {
	page = ctx.URLParamIntDefault("page", 1)
	limit = ctx.URLParamIntDefault("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return page, limit
}

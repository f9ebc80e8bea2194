package routes

import (
	"errors"
	"net/http"

	"github.com/kataras/iris/v12"

	"github.com/shahadathhs/barisathi-sub000/models"
	"github.com/shahadathhs/barisathi-sub000/services"
	"github.com/shahadathhs/barisathi-sub000/storage"
	"github.com/shahadathhs/barisathi-sub000/utils"
)

// GET /admin/bookings?status=&landlord_id=&tenant_id=&page=&per_page=
func AdminListBookings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := ctx.URLParamDefault("status", "")
	landlordID := ctx.URLParamDefault("landlord_id", "")
	tenantID := ctx.URLParamDefault("tenant_id", "")

	q := storage.DB.Model(&models.Booking{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if landlordID != "" {
		q = q.Where("landlord_id = ?", landlordID)
	}
	if tenantID != "" {
		q = q.Where("tenant_id = ?", tenantID)
	}

	var total int64
	q.Count(&total)

	var items []models.Booking
	if err := q.Preload("Listing").Preload("Tenant").Preload("Landlord").
		Offset((page - 1) * perPage).Limit(perPage).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, items, page, perPage, total)
}

// GET /admin/bookings/:id
func AdminGetBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var booking models.Booking
	if err := storage.DB.Preload("Listing").Preload("Tenant").Preload("Landlord").First(&booking, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "booking not found")
		return
	}
	ctx.JSON(iris.Map{"data": booking, "meta": iris.Map{}, "links": iris.Map{}})
}

// POST /admin/bookings/:id/cancel { reason }
//
// Even the admin path goes through the lifecycle table: a pending request is
// rejected with the reason, an approved one is cancelled. Terminal bookings
// cannot be touched.
func AdminCancelBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := ctx.ReadJSON(&body); err != nil || body.Reason == "" {
		utils.JSONError(ctx, http.StatusUnprocessableEntity, "invalid_payload", "reason required")
		return
	}

	var booking models.Booking
	if err := storage.DB.First(&booking, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "booking not found")
		return
	}

	before := booking
	var updated *models.Booking
	var transitionErr error
	switch booking.Status {
	case models.BookingStatusPending:
		updated, transitionErr = services.TransitionBooking(booking.ID, models.BookingStatusPending, models.BookingStatusRejected,
			map[string]interface{}{"rejection_reason": body.Reason})
	case models.BookingStatusApproved:
		updated, transitionErr = services.TransitionBooking(booking.ID, models.BookingStatusApproved, models.BookingStatusCancelled, nil)
	default:
		utils.CreateInvalidTransition(ctx, "Booking is already in a terminal state")
		return
	}

	if transitionErr != nil {
		if errors.Is(transitionErr, services.ErrInvalidTransition) {
			utils.CreateInvalidTransition(ctx, "Booking status changed concurrently")
			return
		}
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", transitionErr.Error())
		return
	}

	utils.Audit(ctx, "booking.cancel", "booking", booking.ID, before, updated)

	if updated.Status == models.BookingStatusRejected {
		services.NotificationServiceInstance.SendRejectionToTenant(updated, updated.Listing)
	} else {
		services.NotificationServiceInstance.SendCancellationToTenant(updated, updated.Listing)
	}

	ctx.JSON(iris.Map{"data": updated})
}

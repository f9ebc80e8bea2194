package routes

import (
	"encoding/json"
	"fmt"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/datatypes"

	"github.com/shahadathhs/barisathi-sub000/models"
	"github.com/shahadathhs/barisathi-sub000/services"
	"github.com/shahadathhs/barisathi-sub000/storage"
	"github.com/shahadathhs/barisathi-sub000/utils"
)

type CreateListingInput struct {
	Location    string   `json:"location" validate:"required,min=5,max=256"`
	Description string   `json:"description" validate:"required,min=20"`
	Rent        float64  `json:"rent" validate:"required,gt=0"`
	Bedrooms    int      `json:"bedrooms" validate:"required,gt=0"`
	Images      []string `json:"images" validate:"required,min=1,dive,required"`
	Amenities   []string `json:"amenities"`
}

type UpdateListingInput struct {
	Location    string   `json:"location" validate:"required,min=5,max=256"`
	Description string   `json:"description" validate:"required,min=20"`
	Rent        float64  `json:"rent" validate:"required,gt=0"`
	Bedrooms    int      `json:"bedrooms" validate:"required,gt=0"`
	Images      []string `json:"images" validate:"required,min=1,dive,required"`
	Amenities   []string `json:"amenities"`
}

func CreateListing(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Ensure arrays are never null
	amenities := input.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, _ := json.Marshal(amenities)
	imagesJSON, _ := json.Marshal(input.Images)

	listing := models.Listing{
		LandlordID:  claims.ID,
		Location:    input.Location,
		Description: input.Description,
		Rent:        input.Rent,
		Bedrooms:    input.Bedrooms,
		Images:      datatypes.JSON(imagesJSON),
		Amenities:   datatypes.JSON(amenitiesJSON),
	}

	if err := storage.DB.Create(&listing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(listing)
}

func GetListing(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var listing models.Listing
	if err := storage.DB.Preload("Landlord").First(&listing, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(listing)
}

// GetListings returns a page of listings filtered by location substring,
// bedroom count and rent range, newest first.
func GetListings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	limit := ctx.URLParamIntDefault("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	location := ctx.URLParamDefault("location", "")
	bedrooms := ctx.URLParamIntDefault("bedrooms", 0)
	minRent := ctx.URLParamFloat64Default("minRent", 0)
	maxRent := ctx.URLParamFloat64Default("maxRent", 0)

	q := storage.DB.Model(&models.Listing{})
	if location != "" {
		q = q.Where("lower(location) LIKE lower(?)", "%"+location+"%")
	}
	if bedrooms > 0 {
		q = q.Where("bedrooms = ?", bedrooms)
	}
	if minRent > 0 {
		q = q.Where("rent >= ?", minRent)
	}
	if maxRent > 0 {
		q = q.Where("rent <= ?", maxRent)
	}

	var total int64
	q.Count(&total)

	var listings []models.Listing
	if err := q.Preload("Landlord").
		Offset((page - 1) * limit).Limit(limit).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, listings, page, limit, total)
}

// GetMyListings returns the authenticated landlord's own listings.
func GetMyListings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var listings []models.Listing
	if err := storage.DB.Where("landlord_id = ?", userID).Order("created_at DESC").Find(&listings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(listings)
}

func UpdateListing(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var listing models.Listing
	if err := storage.DB.First(&listing, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if listing.LandlordID != claims.ID && claims.Role != models.RoleAdmin {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	amenities := input.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, _ := json.Marshal(amenities)
	imagesJSON, _ := json.Marshal(input.Images)

	listing.Location = input.Location
	listing.Description = input.Description
	listing.Rent = input.Rent
	listing.Bedrooms = input.Bedrooms
	listing.Images = datatypes.JSON(imagesJSON)
	listing.Amenities = datatypes.JSON(amenitiesJSON)

	if err := storage.DB.Save(&listing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(listing)
}

// DeleteListing removes a listing. Listings with active (pending or approved)
// bookings are protected with 409; an admin may pass force=true, which first
// terminates those bookings through the lifecycle engine (pending requests are
// rejected, approved ones cancelled) so the transition graph is never
// bypassed.
func DeleteListing(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var listing models.Listing
	if err := storage.DB.First(&listing, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if listing.LandlordID != claims.ID && claims.Role != models.RoleAdmin {
		utils.CreateForbidden(ctx)
		return
	}

	var activeBookings []models.Booking
	storage.DB.Where("listing_id = ? AND status IN ?", listing.ID, models.ActiveBookingStatuses).Find(&activeBookings)

	if len(activeBookings) > 0 {
		force, _ := ctx.URLParamBool("force")
		if claims.Role != models.RoleAdmin || !force {
			utils.CreateError(iris.StatusConflict, "Conflict",
				fmt.Sprintf("Listing has %d active booking(s); resolve them first.", len(activeBookings)), ctx)
			return
		}

		for _, booking := range activeBookings {
			var updated *models.Booking
			var transitionErr error
			switch booking.Status {
			case models.BookingStatusPending:
				updated, transitionErr = services.TransitionBooking(booking.ID, models.BookingStatusPending, models.BookingStatusRejected,
					map[string]interface{}{"rejection_reason": "listing removed"})
			case models.BookingStatusApproved:
				updated, transitionErr = services.TransitionBooking(booking.ID, models.BookingStatusApproved, models.BookingStatusCancelled, nil)
			}
			if transitionErr != nil {
				utils.CreateError(iris.StatusConflict, "Conflict",
					fmt.Sprintf("Booking %d changed while removing the listing; resolve it and retry.", booking.ID), ctx)
				return
			}

			// Inbox rows must land before the listing row disappears.
			if updated.Status == models.BookingStatusRejected {
				services.NotificationServiceInstance.SendRejectionToTenant(updated, &listing)
			} else {
				services.NotificationServiceInstance.SendCancellationToTenant(updated, &listing)
			}
		}
		utils.Audit(ctx, "listing.force_delete", "listing", listing.ID, listing, nil)
	}

	// Best-effort cleanup of hosted images
	var imageURLs []string
	if listing.Images != nil {
		if err := json.Unmarshal(listing.Images, &imageURLs); err == nil {
			for _, imageURL := range imageURLs {
				go storage.DeleteImageFromCloudinary(imageURL)
			}
		}
	}

	if err := storage.DB.Delete(&listing).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

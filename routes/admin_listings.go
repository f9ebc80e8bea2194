package routes

import (
	"net/http"
	"strings"

	"github.com/kataras/iris/v12"

	"github.com/shahadathhs/barisathi-sub000/models"
	"github.com/shahadathhs/barisathi-sub000/storage"
	"github.com/shahadathhs/barisathi-sub000/utils"
)

// GET /admin/listings?landlord_id=&q=&page=&per_page=
func AdminListListings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	landlordID := ctx.URLParamDefault("landlord_id", "")
	q := strings.TrimSpace(ctx.URLParamDefault("q", ""))

	query := storage.DB.Model(&models.Listing{})
	if landlordID != "" {
		query = query.Where("landlord_id = ?", landlordID)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(location) LIKE ? OR lower(description) LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var listings []models.Listing
	if err := query.Preload("Landlord").
		Offset((page - 1) * perPage).Limit(perPage).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		utils.JSONError(ctx, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	utils.JSONPage(ctx, listings, page, perPage, total)
}

// GET /admin/listings/:id — listing with its bookings
func AdminGetListing(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, http.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var listing models.Listing
	if err := storage.DB.Preload("Landlord").Preload("Bookings").First(&listing, id).Error; err != nil {
		utils.JSONError(ctx, http.StatusNotFound, "not_found", "listing not found")
		return
	}
	ctx.JSON(iris.Map{"data": listing, "meta": iris.Map{}, "links": iris.Map{}})
}

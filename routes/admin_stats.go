package routes

import (
	"time"

	"github.com/kataras/iris/v12"

	"github.com/shahadathhs/barisathi-sub000/models"
	"github.com/shahadathhs/barisathi-sub000/storage"
)

// GET /admin/stats
func AdminStats(ctx iris.Context) {
	var tenants, landlords int64
	storage.DB.Model(&models.User{}).Where("role = ?", models.RoleTenant).Count(&tenants)
	storage.DB.Model(&models.User{}).Where("role = ?", models.RoleLandlord).Count(&landlords)

	var listings int64
	storage.DB.Model(&models.Listing{}).Count(&listings)

	bookingsByStatus := iris.Map{}
	for _, status := range []string{
		models.BookingStatusPending,
		models.BookingStatusApproved,
		models.BookingStatusRejected,
		models.BookingStatusConfirmed,
		models.BookingStatusCancelled,
	} {
		var n int64
		storage.DB.Model(&models.Booking{}).Where("status = ?", status).Count(&n)
		bookingsByStatus[status] = n
	}

	since7 := time.Now().AddDate(0, 0, -7)
	since30 := time.Now().AddDate(0, 0, -30)
	var newBookings7, newBookings30 int64
	storage.DB.Model(&models.Booking{}).Where("created_at >= ?", since7).Count(&newBookings7)
	storage.DB.Model(&models.Booking{}).Where("created_at >= ?", since30).Count(&newBookings30)

	ctx.JSON(iris.Map{
		"data": iris.Map{
			"tenants":            tenants,
			"landlords":          landlords,
			"listings":           listings,
			"bookings_by_status": bookingsByStatus,
			"new_bookings_7d":    newBookings7,
			"new_bookings_30d":   newBookings30,
		},
		"meta":  iris.Map{},
		"links": iris.Map{},
	})
}

// GET /admin/activity
func AdminActivity(ctx iris.Context) {
	var logs []models.AuditLog
	storage.DB.Order("created_at DESC").Limit(100).Find(&logs)
	ctx.JSON(iris.Map{"data": logs, "meta": iris.Map{}, "links": iris.Map{}})
}

package routes

import (
	"time"

	"github.com/kataras/iris/v12"

	"github.com/shahadathhs/barisathi-sub000/models"
	"github.com/shahadathhs/barisathi-sub000/storage"
	"github.com/shahadathhs/barisathi-sub000/utils"
)

// GetMyNotifications returns the authenticated user's in-app inbox, newest first.
func GetMyNotifications(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	page := ctx.URLParamIntDefault("page", 1)
	limit := ctx.URLParamIntDefault("limit", 25)
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	q := storage.DB.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	q.Count(&total)

	var notifications []models.Notification
	if err := q.Offset((page - 1) * limit).Limit(limit).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, notifications, page, limit, total)
}

// MarkNotificationRead marks one of the user's notifications as read.
func MarkNotificationRead(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid notification ID", ctx)
		return
	}

	var notification models.Notification
	if err := storage.DB.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now
	if err := storage.DB.Save(&notification).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(notification)
}

// GetUnreadCount returns the number of unread notifications for badges.
func GetUnreadCount(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var count int64
	storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count)

	ctx.JSON(iris.Map{"unread": count})
}

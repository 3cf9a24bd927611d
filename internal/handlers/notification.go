package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"

	"github.com/tournest/tournest-api/internal/auth"
	"github.com/tournest/tournest-api/internal/models"
)

type NotificationHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewNotificationHandler(db *gorm.DB, authHandler *auth.AuthHandler) *NotificationHandler {
	return &NotificationHandler{db: db, authHandler: authHandler}
}

type ListNotificationsRequest struct {
	auth.AuthInput
	UnreadOnly bool `query:"unread_only"`
}

type ListNotificationsResponse struct {
	Body struct {
		Notifications []models.Notification `json:"notifications"`
	}
}

func (h *NotificationHandler) HandleList(ctx context.Context, input *ListNotificationsRequest) (*ListNotificationsResponse, error) {
	userID, _, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	q := h.db.WithContext(ctx).Where("user_id = ?", userID)
	if input.UnreadOnly {
		q = q.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := q.Order("id desc").Limit(100).Find(&notifications).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list notifications: " + err.Error())
	}

	res := &ListNotificationsResponse{}
	res.Body.Notifications = notifications
	return res, nil
}

type MarkNotificationReadRequest struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type MarkNotificationReadResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *NotificationHandler) HandleMarkRead(ctx context.Context, input *MarkNotificationReadRequest) (*MarkNotificationReadResponse, error) {
	userID, _, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	result := h.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", input.ID, userID).
		Update("read", true)
	if result.Error != nil {
		return nil, huma.Error500InternalServerError("Failed to update notification: " + result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return nil, huma.Error404NotFound("Notification not found")
	}

	res := &MarkNotificationReadResponse{}
	res.Body.Message = "Notification marked as read"
	return res, nil
}

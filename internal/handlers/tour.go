package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"

	"github.com/tournest/tournest-api/internal/auth"
	"github.com/tournest/tournest-api/internal/models"
)

type TourHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewTourHandler(db *gorm.DB, authHandler *auth.AuthHandler) *TourHandler {
	return &TourHandler{db: db, authHandler: authHandler}
}

type CreateTourRequest struct {
	auth.AuthInput
	Body struct {
		Title         string  `json:"title" required:"true"`
		Description   string  `json:"description"`
		City          string  `json:"city" required:"true"`
		DurationHours float64 `json:"duration_hours" required:"true" minimum:"1"`
		MeetingPoint  string  `json:"meeting_point"`
	}
}

type TourResponse struct {
	Body models.Tour
}

func (h *TourHandler) HandleCreateTour(ctx context.Context, input *CreateTourRequest) (*TourResponse, error) {
	userID, role, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if role != models.RoleGuide {
		return nil, huma.Error403Forbidden("Only guides can create tours")
	}

	tour := models.Tour{
		GuideID:       userID,
		Title:         input.Body.Title,
		Description:   input.Body.Description,
		City:          input.Body.City,
		DurationHours: input.Body.DurationHours,
		MeetingPoint:  input.Body.MeetingPoint,
	}
	if err := h.db.WithContext(ctx).Create(&tour).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create tour: " + err.Error())
	}

	return &TourResponse{Body: tour}, nil
}

type ListToursRequest struct {
	City string `query:"city"`
}

type ListToursResponse struct {
	Body struct {
		Tours []models.Tour `json:"tours"`
	}
}

func (h *TourHandler) HandleListTours(ctx context.Context, input *ListToursRequest) (*ListToursResponse, error) {
	q := h.db.WithContext(ctx).Preload("Guide")
	if input.City != "" {
		q = q.Where("city = ?", input.City)
	}

	var tours []models.Tour
	if err := q.Order("id asc").Find(&tours).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list tours: " + err.Error())
	}

	res := &ListToursResponse{}
	res.Body.Tours = tours
	return res, nil
}

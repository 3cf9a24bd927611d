package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tournest/tournest-api/internal/auth"
	"github.com/tournest/tournest-api/internal/booking"
	"github.com/tournest/tournest-api/internal/models"
)

type StatsHandler struct {
	engine      *booking.Engine
	authHandler *auth.AuthHandler
}

func NewStatsHandler(engine *booking.Engine, authHandler *auth.AuthHandler) *StatsHandler {
	return &StatsHandler{engine: engine, authHandler: authHandler}
}

type StatsRequest struct {
	auth.AuthInput
}

type StatsResponse struct {
	Body booking.Statistics
}

func (h *StatsHandler) HandleGuideStats(ctx context.Context, input *StatsRequest) (*StatsResponse, error) {
	userID, role, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if role != models.RoleGuide {
		return nil, huma.Error403Forbidden("Only guides can view guide statistics")
	}

	stats, err := h.engine.GuideStatistics(ctx, userID)
	if err != nil {
		return nil, mapBookingError(err)
	}
	return &StatsResponse{Body: *stats}, nil
}

func (h *StatsHandler) HandleTouristStats(ctx context.Context, input *StatsRequest) (*StatsResponse, error) {
	userID, role, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if role != models.RoleTourist {
		return nil, huma.Error403Forbidden("Only tourists can view tourist statistics")
	}

	stats, err := h.engine.TouristStatistics(ctx, userID)
	if err != nil {
		return nil, mapBookingError(err)
	}
	return &StatsResponse{Body: *stats}, nil
}

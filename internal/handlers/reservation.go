package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/tournest/tournest-api/internal/auth"
	"github.com/tournest/tournest-api/internal/booking"
	"github.com/tournest/tournest-api/internal/models"
)

type ReservationHandler struct {
	engine      *booking.Engine
	authHandler *auth.AuthHandler
}

func NewReservationHandler(engine *booking.Engine, authHandler *auth.AuthHandler) *ReservationHandler {
	return &ReservationHandler{engine: engine, authHandler: authHandler}
}

// ReservationView is the wire shape of a reservation.
type ReservationView struct {
	Reference          string     `json:"reference"`
	TourID             uint       `json:"tour_id"`
	TourTitle          string     `json:"tour_title"`
	TouristID          uint       `json:"tourist_id"`
	GuideID            uint       `json:"guide_id"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            time.Time  `json:"end_date"`
	SuggestedStartDate *time.Time `json:"suggested_start_date,omitempty"`
	SuggestedEndDate   *time.Time `json:"suggested_end_date,omitempty"`
	NumberOfPeople     int        `json:"number_of_people"`
	Amount             float64    `json:"amount"`
	Status             string     `json:"status"`
	PaymentStatus      string     `json:"payment_status"`
	CreatedAt          time.Time  `json:"created_at"`
}

func reservationView(r *models.Reservation) ReservationView {
	return ReservationView{
		Reference:          r.Reference,
		TourID:             r.TourID,
		TourTitle:          r.Tour.Title,
		TouristID:          r.TouristID,
		GuideID:            r.Tour.GuideID,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		SuggestedStartDate: r.SuggestedStartDate,
		SuggestedEndDate:   r.SuggestedEndDate,
		NumberOfPeople:     r.NumberOfPeople,
		Amount:             r.Amount,
		Status:             string(r.Status),
		PaymentStatus:      string(r.PaymentStatus),
		CreatedAt:          r.CreatedAt,
	}
}

// mapBookingError translates engine error kinds into stable HTTP errors.
func mapBookingError(err error) error {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, booking.ErrUnauthorized):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, booking.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, booking.ErrConflict):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, booking.ErrInvalidTransition):
		return huma.Error400BadRequest(err.Error())
	}
	return huma.Error500InternalServerError("Unexpected error: " + err.Error())
}

type CreateReservationRequest struct {
	auth.AuthInput
	Body struct {
		TourID         uint      `json:"tour_id" required:"true" doc:"Tour to book"`
		StartDate      time.Time `json:"start_date" required:"true"`
		EndDate        time.Time `json:"end_date" required:"true"`
		NumberOfPeople int       `json:"number_of_people" required:"true" minimum:"1" maximum:"50"`
	}
}

type ReservationResponse struct {
	Body ReservationView
}

func (h *ReservationHandler) HandleCreate(ctx context.Context, input *CreateReservationRequest) (*ReservationResponse, error) {
	userID, role, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if role != models.RoleTourist {
		return nil, huma.Error403Forbidden("Only tourists can create reservations")
	}

	reservation, err := h.engine.Create(ctx, booking.CreateParams{
		TouristID:      userID,
		TourID:         input.Body.TourID,
		StartDate:      input.Body.StartDate,
		EndDate:        input.Body.EndDate,
		NumberOfPeople: input.Body.NumberOfPeople,
	})
	if err != nil {
		return nil, mapBookingError(err)
	}

	return &ReservationResponse{Body: reservationView(reservation)}, nil
}

type GetReservationRequest struct {
	auth.AuthInput
	Reference string `path:"reference"`
}

func (h *ReservationHandler) HandleGet(ctx context.Context, input *GetReservationRequest) (*ReservationResponse, error) {
	userID, _, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	reservation, err := h.engine.GetByReference(ctx, input.Reference, userID)
	if err != nil {
		return nil, mapBookingError(err)
	}

	return &ReservationResponse{Body: reservationView(reservation)}, nil
}

type ListReservationsRequest struct {
	auth.AuthInput
	Status string `query:"status" doc:"Filter by lifecycle status"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

type ListReservationsResponse struct {
	Body struct {
		Reservations []ReservationView  `json:"reservations"`
		Pagination   booking.Pagination `json:"pagination"`
	}
}

func (h *ReservationHandler) HandleList(ctx context.Context, input *ListReservationsRequest) (*ListReservationsResponse, error) {
	userID, role, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	reservations, pagination, err := h.engine.ListForUser(ctx, userID, role, booking.ListFilters{
		Status: input.Status,
		Page:   input.Page,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, mapBookingError(err)
	}

	res := &ListReservationsResponse{}
	res.Body.Reservations = make([]ReservationView, 0, len(reservations))
	for i := range reservations {
		res.Body.Reservations = append(res.Body.Reservations, reservationView(&reservations[i]))
	}
	res.Body.Pagination = pagination
	return res, nil
}

type UpcomingReservationsRequest struct {
	auth.AuthInput
	Limit int `query:"limit"`
}

type UpcomingReservationsResponse struct {
	Body struct {
		Reservations []ReservationView `json:"reservations"`
	}
}

func (h *ReservationHandler) HandleUpcoming(ctx context.Context, input *UpcomingReservationsRequest) (*UpcomingReservationsResponse, error) {
	userID, role, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	reservations, err := h.engine.Upcoming(ctx, userID, role, input.Limit)
	if err != nil {
		return nil, mapBookingError(err)
	}

	res := &UpcomingReservationsResponse{}
	res.Body.Reservations = make([]ReservationView, 0, len(reservations))
	for i := range reservations {
		res.Body.Reservations = append(res.Body.Reservations, reservationView(&reservations[i]))
	}
	return res, nil
}

type TransitionRequest struct {
	auth.AuthInput
	Reference string `path:"reference"`
}

func (h *ReservationHandler) HandleConfirm(ctx context.Context, input *TransitionRequest) (*ReservationResponse, error) {
	userID, role, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if role != models.RoleGuide {
		return nil, huma.Error403Forbidden("Only guides can confirm reservations")
	}

	reservation, err := h.engine.Confirm(ctx, input.Reference, userID)
	if err != nil {
		return nil, mapBookingError(err)
	}
	return &ReservationResponse{Body: reservationView(reservation)}, nil
}

func (h *ReservationHandler) HandleCancel(ctx context.Context, input *TransitionRequest) (*ReservationResponse, error) {
	userID, role, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	reservation, err := h.engine.Cancel(ctx, input.Reference, userID, role)
	if err != nil {
		return nil, mapBookingError(err)
	}
	return &ReservationResponse{Body: reservationView(reservation)}, nil
}

type ProposeRescheduleRequest struct {
	auth.AuthInput
	Reference string `path:"reference"`
	Body      struct {
		SuggestedStartDate time.Time `json:"suggested_start_date" required:"true"`
		SuggestedEndDate   time.Time `json:"suggested_end_date" required:"true"`
	}
}

func (h *ReservationHandler) HandleProposeReschedule(ctx context.Context, input *ProposeRescheduleRequest) (*ReservationResponse, error) {
	userID, role, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if role != models.RoleGuide {
		return nil, huma.Error403Forbidden("Only guides can propose new dates")
	}

	reservation, err := h.engine.ProposeReschedule(ctx, input.Reference, userID,
		input.Body.SuggestedStartDate, input.Body.SuggestedEndDate)
	if err != nil {
		return nil, mapBookingError(err)
	}
	return &ReservationResponse{Body: reservationView(reservation)}, nil
}

func (h *ReservationHandler) HandleAcceptReschedule(ctx context.Context, input *TransitionRequest) (*ReservationResponse, error) {
	userID, role, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if role != models.RoleTourist {
		return nil, huma.Error403Forbidden("Only the tourist can accept a reschedule")
	}

	reservation, err := h.engine.AcceptReschedule(ctx, input.Reference, userID)
	if err != nil {
		return nil, mapBookingError(err)
	}
	return &ReservationResponse{Body: reservationView(reservation)}, nil
}

func (h *ReservationHandler) HandleRejectReschedule(ctx context.Context, input *TransitionRequest) (*ReservationResponse, error) {
	userID, role, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if role != models.RoleTourist {
		return nil, huma.Error403Forbidden("Only the tourist can reject a reschedule")
	}

	reservation, err := h.engine.RejectReschedule(ctx, input.Reference, userID)
	if err != nil {
		return nil, mapBookingError(err)
	}
	return &ReservationResponse{Body: reservationView(reservation)}, nil
}

func (h *ReservationHandler) HandleComplete(ctx context.Context, input *TransitionRequest) (*ReservationResponse, error) {
	userID, role, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if role != models.RoleGuide {
		return nil, huma.Error403Forbidden("Only guides can complete reservations")
	}

	reservation, err := h.engine.MarkCompleted(ctx, input.Reference, userID)
	if err != nil {
		return nil, mapBookingError(err)
	}
	return &ReservationResponse{Body: reservationView(reservation)}, nil
}

type UpdatePaymentRequest struct {
	auth.AuthInput
	Reference string `path:"reference"`
	Body      struct {
		PaymentStatus string `json:"payment_status" required:"true" enum:"unpaid,paid,refunded"`
	}
}

func (h *ReservationHandler) HandleUpdatePayment(ctx context.Context, input *UpdatePaymentRequest) (*ReservationResponse, error) {
	if _, _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	reservation, err := h.engine.UpdatePaymentStatus(ctx, input.Reference,
		models.PaymentStatus(input.Body.PaymentStatus))
	if err != nil {
		return nil, mapBookingError(err)
	}
	return &ReservationResponse{Body: reservationView(reservation)}, nil
}

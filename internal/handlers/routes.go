package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tournest/tournest-api/internal/auth"
)

func RegisterRoutes(
	r *chi.Mux,
	authHandler *auth.AuthHandler,
	reservationHandler *ReservationHandler,
	tourHandler *TourHandler,
	statsHandler *StatsHandler,
	notificationHandler *NotificationHandler,
) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Tournest API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes
	huma.Post(api, "/auth/register", authHandler.HandleRegister)
	huma.Post(api, "/auth/login", authHandler.HandleLogin)

	cookieAuth := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}

	huma.Get(api, "/me", authHandler.HandleMe, cookieAuth)

	// Tours
	huma.Get(api, "/tours", tourHandler.HandleListTours)
	huma.Post(api, "/tours", tourHandler.HandleCreateTour, cookieAuth)

	// Reservation lifecycle
	huma.Post(api, "/reservations", reservationHandler.HandleCreate, cookieAuth)
	huma.Get(api, "/reservations", reservationHandler.HandleList, cookieAuth)
	huma.Get(api, "/reservations/upcoming", reservationHandler.HandleUpcoming, cookieAuth)
	huma.Get(api, "/reservations/{reference}", reservationHandler.HandleGet, cookieAuth)
	huma.Post(api, "/reservations/{reference}/confirm", reservationHandler.HandleConfirm, cookieAuth)
	huma.Post(api, "/reservations/{reference}/cancel", reservationHandler.HandleCancel, cookieAuth)
	huma.Post(api, "/reservations/{reference}/reschedule", reservationHandler.HandleProposeReschedule, cookieAuth)
	huma.Post(api, "/reservations/{reference}/reschedule/accept", reservationHandler.HandleAcceptReschedule, cookieAuth)
	huma.Post(api, "/reservations/{reference}/reschedule/reject", reservationHandler.HandleRejectReschedule, cookieAuth)
	huma.Post(api, "/reservations/{reference}/complete", reservationHandler.HandleComplete, cookieAuth)
	huma.Put(api, "/reservations/{reference}/payment", reservationHandler.HandleUpdatePayment, cookieAuth)

	// Dashboards
	huma.Get(api, "/stats/guide", statsHandler.HandleGuideStats, cookieAuth)
	huma.Get(api, "/stats/tourist", statsHandler.HandleTouristStats, cookieAuth)

	// Notifications
	huma.Get(api, "/notifications", notificationHandler.HandleList, cookieAuth)
	huma.Post(api, "/notifications/{id}/read", notificationHandler.HandleMarkRead, cookieAuth)
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tournest/tournest-api/internal/auth"
	"github.com/tournest/tournest-api/internal/booking"
	"github.com/tournest/tournest-api/internal/config"
	"github.com/tournest/tournest-api/internal/database"
	"github.com/tournest/tournest-api/internal/handlers"
	"github.com/tournest/tournest-api/internal/notifier"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Initialize Engine and Handlers
	engine := booking.NewEngine(db, notifier.NewOutbox())

	authHandler := auth.NewAuthHandler(cfg, db)
	reservationHandler := handlers.NewReservationHandler(engine, authHandler)
	tourHandler := handlers.NewTourHandler(db, authHandler)
	statsHandler := handlers.NewStatsHandler(engine, authHandler)
	notificationHandler := handlers.NewNotificationHandler(db, authHandler)

	ctx := context.Background()

	// Outbox relay to the operations channel, if configured
	relay, err := notifier.NewDiscordRelay(cfg.DiscordBotToken, cfg.DiscordNotificationsChannelID)
	if err != nil {
		log.Printf("Discord relay not initialized: %v", err)
	} else {
		dispatcher := notifier.NewDispatcher(db, relay)
		go dispatcher.Run(ctx, time.Duration(cfg.DispatchIntervalSeconds)*time.Second)
	}

	// Tour reminder sweep
	go engine.RunReminderSweep(ctx,
		time.Duration(cfg.ReminderIntervalMinutes)*time.Minute,
		time.Duration(cfg.ReminderLookaheadHours)*time.Hour)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, reservationHandler, tourHandler, statsHandler, notificationHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

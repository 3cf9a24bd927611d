package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tournest/tournest-api/internal/auth"
	"github.com/tournest/tournest-api/internal/booking"
	"github.com/tournest/tournest-api/internal/config"
	"github.com/tournest/tournest-api/internal/models"
	"github.com/tournest/tournest-api/internal/notifier"
)

type testEnv struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
	reservation *ReservationHandler
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	err = db.AutoMigrate(&models.User{}, &models.Tour{}, &models.Reservation{}, &models.Notification{})
	if err != nil {
		t.Fatalf("failed to auto migrate: %v", err)
	}

	authHandler := auth.NewAuthHandler(&config.Config{JWTSecret: "test-secret"}, db)
	engine := booking.NewEngine(db, notifier.NewOutbox())
	return &testEnv{
		db:          db,
		authHandler: authHandler,
		reservation: NewReservationHandler(engine, authHandler),
	}
}

// cookieFor mints a session cookie for the given user, the same way login
// would.
func (env *testEnv) cookieFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := env.authHandler.GenerateToken(user.ID, user.Role)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return "auth_token=" + token
}

func (env *testEnv) seedGuide(t *testing.T, email string) models.User {
	t.Helper()
	guide := models.User{
		Email: email, Role: models.RoleGuide,
		HalfDayPrice: 5000, FullDayPrice: 8000, ExtraHourPrice: 1000,
	}
	if err := env.db.Create(&guide).Error; err != nil {
		t.Fatalf("failed to create guide: %v", err)
	}
	return guide
}

func (env *testEnv) seedTourist(t *testing.T, email string) models.User {
	t.Helper()
	tourist := models.User{Email: email, Role: models.RoleTourist}
	if err := env.db.Create(&tourist).Error; err != nil {
		t.Fatalf("failed to create tourist: %v", err)
	}
	return tourist
}

func (env *testEnv) seedTour(t *testing.T, guideID uint) models.Tour {
	t.Helper()
	tour := models.Tour{GuideID: guideID, Title: "Old Town Walk", City: "Lisbon", DurationHours: 6}
	if err := env.db.Create(&tour).Error; err != nil {
		t.Fatalf("failed to create tour: %v", err)
	}
	return tour
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var statusErr huma.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected a status error, got %v", err)
	}
	return statusErr.GetStatus()
}

func TestReservationLifecycleOverHandlers(t *testing.T) {
	env := setup(t)
	guide := env.seedGuide(t, "guide@example.com")
	tourist := env.seedTourist(t, "tourist@example.com")
	tour := env.seedTour(t, guide.ID)

	guideCookie := env.cookieFor(t, guide)
	touristCookie := env.cookieFor(t, tourist)

	start := time.Now().Add(48 * time.Hour)

	create := &CreateReservationRequest{}
	create.Cookie = touristCookie
	create.Body.TourID = tour.ID
	create.Body.StartDate = start
	create.Body.EndDate = start.Add(6 * time.Hour)
	create.Body.NumberOfPeople = 2

	created, err := env.reservation.HandleCreate(context.Background(), create)
	if err != nil {
		t.Fatalf("HandleCreate returned error: %v", err)
	}
	if created.Body.Status != string(models.StatusPending) {
		t.Errorf("expected status pending, got %s", created.Body.Status)
	}
	if created.Body.Amount != 16000 {
		t.Errorf("expected amount 16000, got %v", created.Body.Amount)
	}
	reference := created.Body.Reference

	// Guides cannot create reservations.
	create.Cookie = guideCookie
	if _, err := env.reservation.HandleCreate(context.Background(), create); statusOf(t, err) != 403 {
		t.Errorf("expected 403 for guide creating a reservation, got %v", err)
	}

	// Tourists cannot confirm.
	confirm := &TransitionRequest{Reference: reference}
	confirm.Cookie = touristCookie
	if _, err := env.reservation.HandleConfirm(context.Background(), confirm); statusOf(t, err) != 403 {
		t.Errorf("expected 403 for tourist confirming, got %v", err)
	}

	confirm.Cookie = guideCookie
	confirmed, err := env.reservation.HandleConfirm(context.Background(), confirm)
	if err != nil {
		t.Fatalf("HandleConfirm returned error: %v", err)
	}
	if confirmed.Body.Status != string(models.StatusConfirmed) {
		t.Errorf("expected status confirmed, got %s", confirmed.Body.Status)
	}

	// Confirming again maps the transition error to 400.
	if _, err := env.reservation.HandleConfirm(context.Background(), confirm); statusOf(t, err) != 400 {
		t.Errorf("expected 400 for double confirm, got %v", err)
	}

	get := &GetReservationRequest{Reference: reference}
	get.Cookie = touristCookie
	fetched, err := env.reservation.HandleGet(context.Background(), get)
	if err != nil {
		t.Fatalf("HandleGet returned error: %v", err)
	}
	if fetched.Body.GuideID != guide.ID || fetched.Body.TouristID != tourist.ID {
		t.Errorf("unexpected parties on view: %+v", fetched.Body)
	}

	// A third party sees 404, not 403.
	stranger := env.seedTourist(t, "stranger@example.com")
	get.Cookie = env.cookieFor(t, stranger)
	if _, err := env.reservation.HandleGet(context.Background(), get); statusOf(t, err) != 404 {
		t.Errorf("expected 404 for a third party, got %v", err)
	}

	pay := &UpdatePaymentRequest{Reference: reference}
	pay.Cookie = touristCookie
	pay.Body.PaymentStatus = "paid"
	paid, err := env.reservation.HandleUpdatePayment(context.Background(), pay)
	if err != nil {
		t.Fatalf("HandleUpdatePayment returned error: %v", err)
	}
	if paid.Body.PaymentStatus != string(models.PaymentPaid) {
		t.Errorf("expected payment status paid, got %s", paid.Body.PaymentStatus)
	}

	cancel := &TransitionRequest{Reference: reference}
	cancel.Cookie = touristCookie
	cancelled, err := env.reservation.HandleCancel(context.Background(), cancel)
	if err != nil {
		t.Fatalf("HandleCancel returned error: %v", err)
	}
	if cancelled.Body.Status != string(models.StatusCancelled) {
		t.Errorf("expected status cancelled, got %s", cancelled.Body.Status)
	}
}

func TestRescheduleOverHandlers(t *testing.T) {
	env := setup(t)
	guide := env.seedGuide(t, "guide@example.com")
	tourist := env.seedTourist(t, "tourist@example.com")
	tour := env.seedTour(t, guide.ID)

	guideCookie := env.cookieFor(t, guide)
	touristCookie := env.cookieFor(t, tourist)

	start := time.Now().Add(48 * time.Hour)

	create := &CreateReservationRequest{}
	create.Cookie = touristCookie
	create.Body.TourID = tour.ID
	create.Body.StartDate = start
	create.Body.EndDate = start.Add(6 * time.Hour)
	create.Body.NumberOfPeople = 2

	created, err := env.reservation.HandleCreate(context.Background(), create)
	if err != nil {
		t.Fatalf("HandleCreate returned error: %v", err)
	}
	reference := created.Body.Reference

	newStart := start.Add(7 * 24 * time.Hour)
	propose := &ProposeRescheduleRequest{Reference: reference}
	propose.Cookie = guideCookie
	propose.Body.SuggestedStartDate = newStart
	propose.Body.SuggestedEndDate = newStart.Add(6 * time.Hour)

	proposed, err := env.reservation.HandleProposeReschedule(context.Background(), propose)
	if err != nil {
		t.Fatalf("HandleProposeReschedule returned error: %v", err)
	}
	if proposed.Body.Status != string(models.StatusRescheduleRequested) {
		t.Errorf("expected status reschedule_requested, got %s", proposed.Body.Status)
	}
	if proposed.Body.SuggestedStartDate == nil {
		t.Error("expected suggested start date on view")
	}

	// Only the tourist may accept.
	accept := &TransitionRequest{Reference: reference}
	accept.Cookie = guideCookie
	if _, err := env.reservation.HandleAcceptReschedule(context.Background(), accept); statusOf(t, err) != 403 {
		t.Errorf("expected 403 for guide accepting, got %v", err)
	}

	accept.Cookie = touristCookie
	accepted, err := env.reservation.HandleAcceptReschedule(context.Background(), accept)
	if err != nil {
		t.Fatalf("HandleAcceptReschedule returned error: %v", err)
	}
	if accepted.Body.Status != string(models.StatusConfirmed) {
		t.Errorf("expected status confirmed, got %s", accepted.Body.Status)
	}
	if !accepted.Body.StartDate.Equal(newStart) {
		t.Errorf("expected start date %v, got %v", newStart, accepted.Body.StartDate)
	}
	if accepted.Body.SuggestedStartDate != nil {
		t.Error("expected suggested dates cleared on view")
	}
}

func TestHandlersRejectAnonymous(t *testing.T) {
	env := setup(t)

	create := &CreateReservationRequest{}
	create.Body.TourID = 1
	create.Body.StartDate = time.Now().Add(48 * time.Hour)
	create.Body.EndDate = time.Now().Add(54 * time.Hour)
	create.Body.NumberOfPeople = 2

	if _, err := env.reservation.HandleCreate(context.Background(), create); statusOf(t, err) != 401 {
		t.Errorf("expected 401 without a session cookie, got %v", err)
	}

	list := &ListReservationsRequest{}
	if _, err := env.reservation.HandleList(context.Background(), list); statusOf(t, err) != 401 {
		t.Errorf("expected 401 without a session cookie, got %v", err)
	}
}

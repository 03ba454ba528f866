package main

import (
	"context"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/garageflow/garage-backend/internal/auth"
	"github.com/garageflow/garage-backend/internal/campaign"
	"github.com/garageflow/garage-backend/internal/config"
	"github.com/garageflow/garage-backend/internal/db"
	"github.com/garageflow/garage-backend/internal/estimate"
	"github.com/garageflow/garage-backend/internal/handlers"
	"github.com/garageflow/garage-backend/internal/maintenance"
	"github.com/garageflow/garage-backend/internal/middleware"
	"github.com/garageflow/garage-backend/internal/models"
	"github.com/garageflow/garage-backend/internal/scheduler"
	"github.com/garageflow/garage-backend/internal/sms"
)

func main() {
	cfg := config.Load()

	client, err := db.ConnectMongo()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	database := client.Database(cfg.MongoDB)

	vehicles := &db.MongoVehicleStore{Collection: database.Collection("vehicles")}
	services := &db.MongoServiceStore{Collection: database.Collection("service_records")}
	outreach := &db.MongoOutreachStore{Collection: database.Collection("outreach_log")}
	users := &db.MongoUserCollection{Collection: database.Collection("users")}

	authService, err := auth.NewService()
	if err != nil {
		log.Fatalf("Failed to create auth service: %v", err)
	}
	seedAdmin(users, authService)

	clock := estimate.SystemClock{}
	estimator := estimate.NewEstimator(clock)
	calc := maintenance.NewCalculator(cfg.UrgencyKm)
	selector := campaign.NewSelector(vehicles, services, outreach, estimator, calc, clock)

	var sender sms.Sender
	if cfg.DryRun {
		log.Info("dry-run mode: outbound messages are logged, not sent")
		sender = sms.DryRunSender{}
	} else {
		sender = sms.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	}

	runner := campaign.NewRunner(selector, sender, outreach, clock,
		cfg.ThresholdKm, cfg.CooldownDays, cfg.SendDelay)
	sched := scheduler.New(runner, cfg.CampaignHour, cfg.CampaignMinute, cfg.Location())
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start campaign scheduler: %v", err)
	}
	defer sched.Stop()

	authHandler := handlers.NewAuthHandler(authService, users)
	vehicleHandler := handlers.NewVehicleHandler(vehicles, services, selector, estimator, clock, cfg.ThresholdKm)
	campaignHandler := handlers.NewCampaignHandler(outreach, vehicles, sender, sched, clock)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			authHandler.UpdateProfile(w, r)
			return
		}
		authHandler.GetProfile(w, r)
	})
	mux.HandleFunc("/api/auth/password", authHandler.ChangePassword)
	mux.HandleFunc("/api/vehicles/visit", vehicleHandler.RegisterVisit)
	mux.HandleFunc("/api/vehicles/due", vehicleHandler.ListDue)
	mux.HandleFunc("/api/services", vehicleHandler.RecordService)
	mux.HandleFunc("/api/outreach", campaignHandler.ListOutreach)
	mux.HandleFunc("/api/campaign/run", campaignHandler.RunCampaign)
	mux.HandleFunc("/api/messages", campaignHandler.SendMessage)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()
	handler := rateLimiter.RateLimit(100, 60)(authMiddleware.Authenticate(mux))

	log.WithField("port", cfg.Port).Info("garage backend listening")
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}

// seedAdmin creates a default admin account on an empty deployment so the
// operator surface is reachable out of the box.
func seedAdmin(users db.UserCollection, authService *auth.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := users.FindUserByUsername(ctx, "admin"); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}
	hash, err := authService.HashPassword(password)
	if err != nil {
		log.WithError(err).Error("failed to hash seed admin password")
		return
	}

	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     "admin",
		Email:        "admin@localhost",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		FirstName:    "Shop",
		LastName:     "Admin",
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := users.InsertUser(ctx, user); err != nil {
		log.WithError(err).Error("failed to seed admin user")
		return
	}
	log.Info("seeded default admin user")
}

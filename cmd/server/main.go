package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"autorent/internal/api"
	"autorent/internal/auth"
	"autorent/internal/db"
	"autorent/internal/repository"
	"autorent/internal/service"
)

func main() {
	godotenv.Load()
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logrus.Fatal("DATABASE_URL not set")
	}
	database, err := sql.Open("postgres", dbURL)
	if err != nil {
		logrus.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		logrus.Fatalf("Failed to connect to DB: %v", err)
	}
	if err := db.Setup(database); err != nil {
		logrus.Fatalf("Failed to set up schema: %v", err)
	}

	bookingRepo := repository.NewBookingRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	userRepo := repository.NewUserRepository(database)
	jobRepo := repository.NewJobRepository(database)

	sender := service.NewSenderService()
	bookingSvc := service.NewBookingService(bookingRepo, userRepo, sender, txTimeout())
	vehicleSvc := service.NewVehicleService(vehicleRepo)
	userSvc := service.NewUserService(userRepo)
	authSvc := service.NewAuthService(userRepo)
	jobSvc := service.NewJobService(jobRepo)

	authHandler := api.NewAuthHandler(authSvc)
	bookingHandler := api.NewBookingHandler(bookingSvc)
	vehicleHandler := api.NewVehicleHandler(vehicleSvc)
	userHandler := api.NewUserHandler(userSvc)

	r := mux.NewRouter()
	v1 := r.PathPrefix("/api/v1").Subrouter()

	// Public endpoints
	v1.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	v1.HandleFunc("/auth/signin", authHandler.Signin).Methods("POST")
	v1.HandleFunc("/vehicles", vehicleHandler.ListVehicles).Methods("GET")
	v1.HandleFunc("/vehicles/{id}", vehicleHandler.GetVehicle).Methods("GET")

	// Authenticated endpoints
	protected := v1.NewRoute().Subrouter()
	protected.Use(auth.Middleware)
	protected.HandleFunc("/vehicles", vehicleHandler.CreateVehicle).Methods("POST")
	protected.HandleFunc("/vehicles/{id}", vehicleHandler.UpdateVehicle).Methods("PUT")
	protected.HandleFunc("/vehicles/{id}", vehicleHandler.DeleteVehicle).Methods("DELETE")
	protected.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	protected.HandleFunc("/users/{id}", userHandler.UpdateUser).Methods("PUT")
	protected.HandleFunc("/users/{id}", userHandler.DeleteUser).Methods("DELETE")
	protected.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods("POST")
	protected.HandleFunc("/bookings", bookingHandler.ListBookings).Methods("GET")
	protected.HandleFunc("/bookings/{id}", bookingHandler.UpdateBookingStatus).Methods("PATCH")

	c := cron.New()
	if _, err := c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := jobSvc.NotifyOverdueBookings(ctx); err != nil {
			logrus.Errorf("Overdue booking sweep failed: %v", err)
		}
	}); err != nil {
		logrus.Fatalf("Failed to schedule overdue sweep: %v", err)
	}
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logrus.Infof("Server running on port %s", port)
	logrus.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, corsHandler(r))))
}

// txTimeout is the deployment-configured cap on how long a booking
// transaction may wait on locks before failing.
func txTimeout() time.Duration {
	seconds, err := strconv.Atoi(os.Getenv("BOOKING_TX_TIMEOUT_SECONDS"))
	if err != nil || seconds <= 0 {
		seconds = 10
	}
	return time.Duration(seconds) * time.Second
}

// File: medibook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medibook/config"
	"medibook/database"
	appointmentRepoPkg "medibook/database/repository/appointment"
	doctorRepoPkg "medibook/database/repository/doctor"
	notificationRepoPkg "medibook/database/repository/notification"
	patientRepoPkg "medibook/database/repository/patient"
	"medibook/handlers"
	"medibook/middleware"
	"medibook/routes"
	"medibook/services/appointment"
	"medibook/services/doctor"
	"medibook/services/notification"
	"medibook/services/patient"
	"medibook/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	storageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	patientRepo := patientRepoPkg.NewMongoPatientRepo()
	doctorRepo := doctorRepoPkg.NewMongoDoctorRepo()
	appointmentRepo := appointmentRepoPkg.NewMongoAppointmentRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()
	unitOfWork := database.NewUnitOfWork()

	// services. The notification service doubles as the appointment
	// service's transactional sink.
	notificationService := notification.NewDefaultNotificationService(
		notificationRepo, patientRepo, doctorRepo)
	appointmentService := appointment.NewDefaultAppointmentService(
		appointmentRepo, patientRepo, notificationService, unitOfWork)
	patientService := patient.NewDefaultPatientService(
		patientRepo, appointmentService, storageService)
	doctorService := doctor.NewDefaultDoctorService(
		doctorRepo, appointmentService, storageService)

	// handlers.
	patientHandler := handlers.NewPatientHandler(patientService, notificationService)
	doctorHandler := handlers.NewDoctorHandler(doctorService, notificationService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	adminHandler := handlers.NewAdminHandler(doctorService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		PatientRepo: patientRepo,
		DoctorRepo:  doctorRepo,
		Patient:     patientHandler,
		Doctor:      doctorHandler,
		Appointment: appointmentHandler,
		Admin:       adminHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

package routes

import (
	"time"

	"medibook/handlers"
	"medibook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPatientRoutes registers patient account endpoints.
func RegisterPatientRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/patients")
	api.Use(middleware.DeviceDetailsMiddleware())
	{
		api.POST("/register", hb.Patient.RegisterPatientHandler)
		api.POST("/auth", hb.Patient.AuthenticatePatientHandler)
		api.POST("/reset-password", hb.Patient.ResetPatientPasswordHandler)

		// Protected routes (require authentication)
		me := api.Group("/me")
		me.Use(middleware.JWTAuthPatientMiddleware(hb.PatientRepo))
		me.GET("", hb.Patient.GetPatientHandler)
		me.PUT("", hb.Patient.UpdatePatientHandler)
		me.DELETE("", hb.Patient.DeletePatientHandler)
		me.POST("/avatar", hb.Patient.UploadPatientAvatarHandler)
		me.PUT("/password", hb.Patient.UpdatePatientPasswordHandler)
		me.GET("/devices", hb.Patient.GetPatientDevicesHandler)
		me.POST("/devices/signout-others", hb.Patient.SignOutOtherPatientDevicesHandler)
		me.POST("/signout", hb.Patient.SignOutPatientHandler)
		me.GET("/notifications", hb.Patient.ListPatientNotificationsHandler)
		me.GET("/reservations", hb.Appointment.ListReservationsHandler)
	}
}

// RegisterDoctorRoutes registers doctor account and schedule endpoints.
func RegisterDoctorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/doctors")
	api.Use(middleware.DeviceDetailsMiddleware())
	{
		api.POST("/register", hb.Doctor.RegisterDoctorHandler)
		api.POST("/auth", hb.Doctor.AuthenticateDoctorHandler)
		api.POST("/reset-password", hb.Doctor.ResetDoctorPasswordHandler)

		// Protected routes (require authentication)
		me := api.Group("/me")
		me.Use(middleware.JWTAuthDoctorMiddleware(hb.DoctorRepo))
		me.GET("", hb.Doctor.GetDoctorHandler)
		me.PUT("", hb.Doctor.UpdateDoctorHandler)
		me.DELETE("", hb.Doctor.DeleteDoctorHandler)
		me.POST("/avatar", hb.Doctor.UploadDoctorAvatarHandler)
		me.POST("/documents/:kind", hb.Doctor.UploadDoctorDocumentHandler)
		me.PUT("/password", hb.Doctor.UpdateDoctorPasswordHandler)
		me.GET("/devices", hb.Doctor.GetDoctorDevicesHandler)
		me.POST("/devices/signout-others", hb.Doctor.SignOutOtherDoctorDevicesHandler)
		me.POST("/signout", hb.Doctor.SignOutDoctorHandler)
		me.GET("/notifications", hb.Doctor.ListDoctorNotificationsHandler)

		// Schedule management
		me.POST("/appointments", hb.Appointment.CreateSlotHandler)
		me.GET("/appointments", hb.Appointment.ListHistoryHandler)
		me.DELETE("/appointments/:id", hb.Appointment.DeleteSlotHandler)
		me.POST("/appointments/:id/cancel", hb.Appointment.CancelAppointmentHandler)
	}
}

// RegisterDirectoryRoutes registers the public doctor directory.
func RegisterDirectoryRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/doctors", hb.Doctor.SearchDoctorsHandler)
	r.GET("/api/specializations", hb.Doctor.ListSpecializationsHandler)
}

// RegisterAppointmentRoutes registers the patient-facing booking endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	api.Use(middleware.DeviceDetailsMiddleware(), middleware.JWTAuthPatientMiddleware(hb.PatientRepo))
	{
		api.GET("/available", hb.Appointment.ListAvailableHandler)
		api.POST("/:id/subscribe", hb.Appointment.SubscribeHandler)
		api.POST("/:id/unsubscribe", hb.Appointment.UnsubscribeHandler)
	}
}

// RegisterAuthRoutes registers role-agnostic auth endpoints.
func RegisterAuthRoutes(r *gin.Engine) {
	r.POST("/api/auth/verify-otp", handlers.VerifyOTPHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AdminKeyMiddleware())
		adminGroup.GET("/doctors/pending", hb.Admin.ListPendingDoctorsHandler)
		adminGroup.POST("/doctors/:id/approve", hb.Admin.ApproveDoctorHandler)
		adminGroup.GET("/doctors/:id/documents", hb.Admin.GetDoctorDocumentsHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Device-ID", "X-Device-Name"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterPatientRoutes(r, hb)
	RegisterDoctorRoutes(r, hb)
	RegisterDirectoryRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterAuthRoutes(r)
	RegisterHealthRoute(r)
	RegisterAdminRoutes(r, hb)
}

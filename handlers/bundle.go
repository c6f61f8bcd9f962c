// File: handlers/bundle.go
package handlers

import (
	doctorRepoPkg "medibook/database/repository/doctor"
	patientRepoPkg "medibook/database/repository/patient"
)

// HandlerBundle groups the endpoint handlers and the repositories the auth
// middleware validates tokens against.
type HandlerBundle struct {
	PatientRepo patientRepoPkg.PatientRepository
	DoctorRepo  doctorRepoPkg.DoctorRepository

	Patient     *PatientHandler
	Doctor      *DoctorHandler
	Appointment *AppointmentHandler
	Admin       *AdminHandler
}

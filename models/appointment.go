package models

import (
	"errors"
	"time"
)

// AppointmentStatus is the closed set of lifecycle states for an appointment.
type AppointmentStatus string

const (
	StatusOpen     AppointmentStatus = "open"
	StatusReserved AppointmentStatus = "reserved"
	StatusCanceled AppointmentStatus = "canceled"
)

// Valid reports whether s is one of the known lifecycle states.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusReserved, StatusCanceled:
		return true
	}
	return false
}

// Transition guard errors. Services map these onto their own error types.
var (
	ErrNotOpen     = errors.New("appointment is not open")
	ErrNotReserved = errors.New("appointment is not reserved")
)

// Appointment is a doctor-offered time slot. The patient fields are unset
// while the slot is open; Reserve sets them and Release clears them, so an
// appointment that has been reserved and released is equal to its original
// open form.
type Appointment struct {
	ID          string            `bson:"id" json:"id"`
	DoctorID    string            `bson:"doctor_id" json:"doctorId"`
	PatientID   string            `bson:"patient_id,omitempty" json:"patientId,omitempty"`
	PatientName string            `bson:"patient_name,omitempty" json:"patientName,omitempty"`
	StartTime   time.Time         `bson:"start_time" json:"startTime"`
	EndTime     time.Time         `bson:"end_time" json:"endTime"`
	Address     string            `bson:"address" json:"address"`
	Status      AppointmentStatus `bson:"status" json:"status"`
	ShareInfo   bool              `bson:"share_info" json:"shareInfo"`
	CreatedAt   time.Time         `bson:"created_at" json:"createdAt"`
}

// Reserve moves an open appointment to reserved for the given patient.
// ShareInfo records whether the patient allows the doctor to see their
// personal details.
func (a *Appointment) Reserve(patientID, patientName string, shareInfo bool) error {
	if a.Status != StatusOpen {
		return ErrNotOpen
	}
	a.PatientID = patientID
	a.PatientName = patientName
	a.ShareInfo = shareInfo
	a.Status = StatusReserved
	return nil
}

// Release returns a reserved appointment to open, clearing every field
// Reserve set.
func (a *Appointment) Release() error {
	if a.Status != StatusReserved {
		return ErrNotReserved
	}
	a.PatientID = ""
	a.PatientName = ""
	a.ShareInfo = false
	a.Status = StatusOpen
	return nil
}

// Cancel marks a reserved appointment canceled. The patient fields are kept
// so the slot remains attributable in the doctor's history.
func (a *Appointment) Cancel() error {
	if a.Status != StatusReserved {
		return ErrNotReserved
	}
	a.Status = StatusCanceled
	return nil
}

// AppointmentCreateRequest carries the fields a doctor supplies when
// publishing a new slot.
type AppointmentCreateRequest struct {
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
	Address   string    `json:"address" binding:"required"`
}

// HistoryFilter narrows a doctor's appointment history. Statuses are
// OR-combined; an empty set means no status restriction. PatientName is a
// case-insensitive substring match. Page is 1-indexed.
type HistoryFilter struct {
	PatientName string              `json:"patientName"`
	From        *time.Time          `json:"from"`
	Till        *time.Time          `json:"till"`
	Statuses    []AppointmentStatus `json:"statuses"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"pageSize"`
}

// AvailableFilter selects open slots of one doctor. From is mandatory,
// Till optional.
type AvailableFilter struct {
	DoctorID string     `json:"doctorId"`
	From     time.Time  `json:"from"`
	Till     *time.Time `json:"till"`
}

// AppointmentPage is one page of history results.
type AppointmentPage struct {
	Appointments []Appointment `json:"appointments"`
	Page         int           `json:"page"`
	PageSize     int           `json:"pageSize"`
	Total        int64         `json:"total"`
}

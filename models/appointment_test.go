package models

import (
	"testing"
	"time"
)

func openAppointment() Appointment {
	return Appointment{
		ID:        "appt-1",
		DoctorID:  "doc-1",
		StartTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		Address:   "Ward 3, Room 12",
		Status:    StatusOpen,
		CreatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestReserve(t *testing.T) {
	a := openAppointment()
	if err := a.Reserve("pat-1", "Jane Roe", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusReserved {
		t.Errorf("expected status %q, got %q", StatusReserved, a.Status)
	}
	if a.PatientID != "pat-1" || a.PatientName != "Jane Roe" || !a.ShareInfo {
		t.Errorf("patient fields not set: %+v", a)
	}
}

func TestReserve_NotOpen(t *testing.T) {
	a := openAppointment()
	if err := a.Reserve("pat-1", "Jane Roe", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := a
	if err := a.Reserve("pat-2", "John Doe", false); err != ErrNotOpen {
		t.Fatalf("expected ErrNotOpen, got %v", err)
	}
	if a != before {
		t.Errorf("failed transition mutated the appointment: %+v", a)
	}
}

func TestRelease_RestoresOpenState(t *testing.T) {
	original := openAppointment()
	a := original
	if err := a.Reserve("pat-1", "Jane Roe", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Release(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != original {
		t.Errorf("release did not restore the pre-reservation state:\n got %+v\nwant %+v", a, original)
	}
}

func TestRelease_NotReserved(t *testing.T) {
	a := openAppointment()
	if err := a.Release(); err != ErrNotReserved {
		t.Fatalf("expected ErrNotReserved, got %v", err)
	}
	a.Status = StatusCanceled
	if err := a.Release(); err != ErrNotReserved {
		t.Fatalf("expected ErrNotReserved for canceled, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	a := openAppointment()
	if err := a.Cancel(); err != ErrNotReserved {
		t.Fatalf("expected ErrNotReserved for open appointment, got %v", err)
	}
	if err := a.Reserve("pat-1", "Jane Roe", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Cancel(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusCanceled {
		t.Errorf("expected status %q, got %q", StatusCanceled, a.Status)
	}
	if a.PatientID != "pat-1" {
		t.Errorf("cancel should keep the patient reference, got %q", a.PatientID)
	}
	if err := a.Cancel(); err != ErrNotReserved {
		t.Fatalf("expected ErrNotReserved for second cancel, got %v", err)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []AppointmentStatus{StatusOpen, StatusReserved, StatusCanceled} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if AppointmentStatus("pending").Valid() {
		t.Error("unknown status reported valid")
	}
}

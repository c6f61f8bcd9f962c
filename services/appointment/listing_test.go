// File: services/appointment/listing_test.go
package appointment

import (
	"errors"
	"testing"
	"time"

	"medibook/models"
)

// seedHistory fills a doctor's calendar with one appointment per status plus
// an expired open slot.
func seedHistory(t *testing.T, svc *DefaultAppointmentService, repo *mockAppointmentRepo) {
	t.Helper()
	base := futureStart()

	seedOpen(repo, "open-future", "doctor-1", base)
	seedOpen(repo, "open-expired", "doctor-1", time.Now().Add(-2*time.Hour))

	seedOpen(repo, "reserved-1", "doctor-1", base.Add(2*time.Hour))
	if _, err := svc.Subscribe("patient-1", "reserved-1", true); err != nil {
		t.Fatalf("seeding reserved-1 failed: %v", err)
	}

	seedOpen(repo, "canceled-1", "doctor-1", base.Add(4*time.Hour))
	if _, err := svc.Subscribe("patient-1", "canceled-1", true); err != nil {
		t.Fatalf("seeding canceled-1 failed: %v", err)
	}
	if err := svc.Cancel("doctor-1", "canceled-1"); err != nil {
		t.Fatalf("seeding canceled-1 failed: %v", err)
	}

	seedOpen(repo, "canceled-2", "doctor-1", base.Add(1*time.Hour))
	if _, err := svc.Subscribe("patient-2", "canceled-2", true); err != nil {
		t.Fatalf("seeding canceled-2 failed: %v", err)
	}
	if err := svc.Cancel("doctor-1", "canceled-2"); err != nil {
		t.Fatalf("seeding canceled-2 failed: %v", err)
	}

	// Another doctor's slot never shows up in doctor-1's history.
	seedOpen(repo, "foreign-1", "doctor-2", base)
}

func TestListHistory_StatusFilterOrderedByStartDescending(t *testing.T) {
	svc, repo, _ := newTestService()
	seedHistory(t, svc, repo)

	page, err := svc.ListHistory("doctor-1", models.HistoryFilter{
		Statuses: []models.AppointmentStatus{models.StatusCanceled},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Appointments) != 2 {
		t.Fatalf("expected 2 canceled appointments, got %d", len(page.Appointments))
	}
	for _, appt := range page.Appointments {
		if appt.Status != models.StatusCanceled {
			t.Errorf("unexpected status %s in canceled-only listing", appt.Status)
		}
	}
	if page.Appointments[0].ID != "canceled-1" || page.Appointments[1].ID != "canceled-2" {
		t.Errorf("history not ordered by start time descending: %s, %s",
			page.Appointments[0].ID, page.Appointments[1].ID)
	}
}

func TestListHistory_SweepsExpiredOpenSlots(t *testing.T) {
	svc, repo, _ := newTestService()
	seedHistory(t, svc, repo)

	page, err := svc.ListHistory("doctor-1", models.HistoryFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, appt := range page.Appointments {
		if appt.ID == "open-expired" {
			t.Error("expired open slot survived the sweep")
		}
	}
	if _, ok := repo.appts["open-expired"]; ok {
		t.Error("expired open slot still persisted after the sweep")
	}
	// The sweep only ever touches open slots.
	if _, ok := repo.appts["canceled-1"]; !ok {
		t.Error("sweep removed a canceled appointment")
	}
}

func TestListHistory_PatientNameSubstring(t *testing.T) {
	svc, repo, _ := newTestService()
	seedHistory(t, svc, repo)

	page, err := svc.ListHistory("doctor-1", models.HistoryFilter{PatientName: "jane"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Appointments) != 2 {
		t.Fatalf("expected 2 appointments for patient name \"jane\", got %d", len(page.Appointments))
	}
	for _, appt := range page.Appointments {
		if appt.PatientName != "Jane Roe" {
			t.Errorf("unexpected patient %q in filtered history", appt.PatientName)
		}
	}
}

func TestListHistory_DateRange(t *testing.T) {
	svc, repo, _ := newTestService()
	seedHistory(t, svc, repo)
	base := futureStart()

	from := base.Add(90 * time.Minute)
	till := base.Add(3 * time.Hour)
	page, err := svc.ListHistory("doctor-1", models.HistoryFilter{From: &from, Till: &till})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Appointments) != 1 || page.Appointments[0].ID != "reserved-1" {
		t.Fatalf("expected only reserved-1 in range, got %+v", page.Appointments)
	}
}

func TestListHistory_Pagination(t *testing.T) {
	svc, repo, _ := newTestService()
	seedHistory(t, svc, repo)

	first, err := svc.ListHistory("doctor-1", models.HistoryFilter{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.ListHistory("doctor-1", models.HistoryFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Total != 4 || second.Total != 4 {
		t.Errorf("expected total 4 on every page, got %d and %d", first.Total, second.Total)
	}
	if len(first.Appointments) != 2 || len(second.Appointments) != 2 {
		t.Fatalf("expected 2 appointments per page, got %d and %d",
			len(first.Appointments), len(second.Appointments))
	}
	if first.Appointments[1].StartTime.Before(second.Appointments[0].StartTime) {
		t.Error("pages out of order")
	}
}

func TestListHistory_MasksUnsharedPatientInfo(t *testing.T) {
	svc, repo, _ := newTestService()
	seedOpen(repo, "appt-1", "doctor-1", futureStart())
	if _, err := svc.Subscribe("patient-1", "appt-1", false); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	page, err := svc.ListHistory("doctor-1", models.HistoryFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Appointments) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(page.Appointments))
	}
	shown := page.Appointments[0]
	if shown.PatientID != "" || shown.PatientName != "" {
		t.Errorf("unshared patient info visible to doctor: %+v", shown)
	}
	// The reservation itself keeps the reference.
	if repo.appts["appt-1"].PatientID != "patient-1" {
		t.Errorf("masking must not touch the stored record")
	}
}

func TestListAvailable(t *testing.T) {
	svc, repo, _ := newTestService()
	base := futureStart()
	seedOpen(repo, "early", "doctor-1", base.Add(3*time.Hour))
	seedOpen(repo, "earliest", "doctor-1", base)
	seedOpen(repo, "late", "doctor-1", base.Add(30*time.Hour))
	seedOpen(repo, "foreign", "doctor-2", base)
	seedOpen(repo, "taken", "doctor-1", base.Add(time.Hour))
	if _, err := svc.Subscribe("patient-1", "taken", true); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	till := base.Add(24 * time.Hour)
	appts, err := svc.ListAvailable(models.AvailableFilter{DoctorID: "doctor-1", From: base, Till: &till})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(appts) != 2 {
		t.Fatalf("expected 2 open slots, got %d", len(appts))
	}
	if appts[0].ID != "earliest" || appts[1].ID != "early" {
		t.Errorf("available slots not ordered by start time ascending: %s, %s", appts[0].ID, appts[1].ID)
	}
}

func TestListAvailable_FromIsMandatory(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ListAvailable(models.AvailableFilter{DoctorID: "doctor-1"})
	if !errors.Is(err, ErrFromRequired) {
		t.Fatalf("expected ErrFromRequired, got %v", err)
	}
}

func TestListAvailable_DoctorIsMandatory(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ListAvailable(models.AvailableFilter{From: futureStart()})
	if !errors.Is(err, ErrDoctorRequired) {
		t.Fatalf("expected ErrDoctorRequired, got %v", err)
	}
}

func TestListReservations(t *testing.T) {
	svc, repo, _ := newTestService()
	base := futureStart()
	seedOpen(repo, "mine-late", "doctor-1", base.Add(2*time.Hour))
	seedOpen(repo, "mine-early", "doctor-1", base)
	seedOpen(repo, "theirs", "doctor-1", base.Add(time.Hour))
	for _, id := range []string{"mine-late", "mine-early"} {
		if _, err := svc.Subscribe("patient-1", id, true); err != nil {
			t.Fatalf("subscribe failed: %v", err)
		}
	}
	if _, err := svc.Subscribe("patient-2", "theirs", true); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	appts, err := svc.ListReservations("patient-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(appts) != 2 {
		t.Fatalf("expected 2 reservations, got %d", len(appts))
	}
	if appts[0].ID != "mine-early" || appts[1].ID != "mine-late" {
		t.Errorf("reservations not ordered by start time: %s, %s", appts[0].ID, appts[1].ID)
	}
}

// File: services/appointment/service_test.go
package appointment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	appointmentRepo "medibook/database/repository/appointment"
	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ---------- Mocks ----------

// mockAppointmentRepo keeps appointments in a map and enforces the same
// conditional-write semantics as the Mongo implementation.
type mockAppointmentRepo struct {
	appts             map[string]models.Appointment
	forcedErr         error
	conflictOnReserve bool
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appts: make(map[string]models.Appointment)}
}

func (m *mockAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	if appt.ID == "" {
		appt.ID = fmt.Sprintf("appt-%d", len(m.appts)+1)
	}
	if appt.Status == "" {
		appt.Status = models.StatusOpen
	}
	appt.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.appts[appt.ID] = *appt
	return nil
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	appt, ok := m.appts[id]
	if !ok {
		return nil, nil
	}
	return &appt, nil
}

func (m *mockAppointmentRepo) ReserveOpen(ctx context.Context, apptID, patientID, patientName string, shareInfo bool) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	if m.conflictOnReserve {
		return appointmentRepo.ErrStatusConflict
	}
	appt, ok := m.appts[apptID]
	if !ok || appt.Status != models.StatusOpen {
		return appointmentRepo.ErrStatusConflict
	}
	appt.PatientID = patientID
	appt.PatientName = patientName
	appt.ShareInfo = shareInfo
	appt.Status = models.StatusReserved
	m.appts[apptID] = appt
	return nil
}

func (m *mockAppointmentRepo) ReleaseReserved(ctx context.Context, apptID, patientID string) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	appt, ok := m.appts[apptID]
	if !ok || appt.Status != models.StatusReserved || appt.PatientID != patientID {
		return appointmentRepo.ErrStatusConflict
	}
	appt.PatientID = ""
	appt.PatientName = ""
	appt.ShareInfo = false
	appt.Status = models.StatusOpen
	m.appts[apptID] = appt
	return nil
}

func (m *mockAppointmentRepo) CancelReserved(ctx context.Context, apptID, doctorID string) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	appt, ok := m.appts[apptID]
	if !ok || appt.Status != models.StatusReserved || appt.DoctorID != doctorID {
		return appointmentRepo.ErrStatusConflict
	}
	appt.Status = models.StatusCanceled
	m.appts[apptID] = appt
	return nil
}

func (m *mockAppointmentRepo) DeleteOpen(ctx context.Context, apptID, doctorID string) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	appt, ok := m.appts[apptID]
	if !ok || appt.Status != models.StatusOpen || appt.DoctorID != doctorID {
		return appointmentRepo.ErrStatusConflict
	}
	delete(m.appts, apptID)
	return nil
}

func (m *mockAppointmentRepo) DeleteExpiredOpen(ctx context.Context, doctorID string, before time.Time) (int64, error) {
	if m.forcedErr != nil {
		return 0, m.forcedErr
	}
	var swept int64
	for id, appt := range m.appts {
		if appt.DoctorID == doctorID && appt.Status == models.StatusOpen && appt.StartTime.Before(before) {
			delete(m.appts, id)
			swept++
		}
	}
	return swept, nil
}

func (m *mockAppointmentRepo) ListHistory(ctx context.Context, doctorID string, filter models.HistoryFilter) (*models.AppointmentPage, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	matches := []models.Appointment{}
	for _, appt := range m.appts {
		if appt.DoctorID != doctorID {
			continue
		}
		if filter.PatientName != "" &&
			!strings.Contains(strings.ToLower(appt.PatientName), strings.ToLower(filter.PatientName)) {
			continue
		}
		if filter.From != nil && appt.StartTime.Before(*filter.From) {
			continue
		}
		if filter.Till != nil && appt.StartTime.After(*filter.Till) {
			continue
		}
		if len(filter.Statuses) > 0 {
			found := false
			for _, st := range filter.Statuses {
				if appt.Status == st {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		matches = append(matches, appt)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].StartTime.After(matches[j].StartTime)
	})

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	total := int64(len(matches))
	start := (page - 1) * pageSize
	if start > len(matches) {
		start = len(matches)
	}
	end := start + pageSize
	if end > len(matches) {
		end = len(matches)
	}
	return &models.AppointmentPage{
		Appointments: matches[start:end],
		Page:         page,
		PageSize:     pageSize,
		Total:        total,
	}, nil
}

func (m *mockAppointmentRepo) ListAvailable(ctx context.Context, filter models.AvailableFilter) ([]models.Appointment, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	matches := []models.Appointment{}
	for _, appt := range m.appts {
		if appt.DoctorID != filter.DoctorID || appt.Status != models.StatusOpen {
			continue
		}
		if appt.StartTime.Before(filter.From) {
			continue
		}
		if filter.Till != nil && appt.StartTime.After(*filter.Till) {
			continue
		}
		matches = append(matches, appt)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].StartTime.Before(matches[j].StartTime)
	})
	return matches, nil
}

func (m *mockAppointmentRepo) ListReservedByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	matches := []models.Appointment{}
	for _, appt := range m.appts {
		if appt.PatientID == patientID && appt.Status == models.StatusReserved {
			matches = append(matches, appt)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].StartTime.Before(matches[j].StartTime)
	})
	return matches, nil
}

// mockPatientRepo serves patient lookups from a map.
type mockPatientRepo struct {
	patients map[string]models.Patient
}

func newMockPatientRepo(patients ...models.Patient) *mockPatientRepo {
	m := &mockPatientRepo{patients: make(map[string]models.Patient)}
	for _, p := range patients {
		m.patients[p.ID] = p
	}
	return m
}

func (m *mockPatientRepo) GetByID(id string) (*models.Patient, error) {
	return m.GetByIDWithProjection(id, nil)
}

func (m *mockPatientRepo) GetByEmail(email string) (*models.Patient, error) {
	return m.GetByEmailWithProjection(email, nil)
}

func (m *mockPatientRepo) GetByIDWithProjection(id string, projection bson.M) (*models.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("failed to fetch patient with id %s: not found", id)
	}
	return &p, nil
}

func (m *mockPatientRepo) GetByEmailWithProjection(email string, projection bson.M) (*models.Patient, error) {
	for _, p := range m.patients {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *mockPatientRepo) Create(p *models.Patient) error {
	m.patients[p.ID] = *p
	return nil
}

func (m *mockPatientRepo) Update(p *models.Patient) error {
	m.patients[p.ID] = *p
	return nil
}

func (m *mockPatientRepo) UpdateSetDocument(id string, updateDoc bson.M) error { return nil }

func (m *mockPatientRepo) Delete(id string) error {
	delete(m.patients, id)
	return nil
}

// recordingSink captures notification side effects.
type recordingSink struct {
	added    []models.Notification
	notified []string
	failAdd  bool
}

func (r *recordingSink) AddNotification(ctx context.Context, n *models.Notification) error {
	if r.failAdd {
		return errors.New("notification store unavailable")
	}
	r.added = append(r.added, *n)
	return nil
}

func (r *recordingSink) Notify(userID string) {
	r.notified = append(r.notified, userID)
}

// fakeUnitOfWork snapshots the mock repo and restores it when the work
// function fails, mirroring a transaction rollback.
type fakeUnitOfWork struct {
	repo *mockAppointmentRepo
}

func (u *fakeUnitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[string]models.Appointment, len(u.repo.appts))
	for id, appt := range u.repo.appts {
		snapshot[id] = appt
	}
	if err := fn(ctx); err != nil {
		u.repo.appts = snapshot
		return err
	}
	return nil
}

// ---------- Helpers ----------

func newTestService() (*DefaultAppointmentService, *mockAppointmentRepo, *recordingSink) {
	repo := newMockAppointmentRepo()
	patients := newMockPatientRepo(
		models.Patient{ID: "patient-1", FullName: "Jane Roe", Email: "jane@example.com"},
		models.Patient{ID: "patient-2", FullName: "John Doe", Email: "john@example.com"},
	)
	sink := &recordingSink{}
	svc := NewDefaultAppointmentService(repo, patients, sink, &fakeUnitOfWork{repo: repo})
	return svc, repo, sink
}

func seedOpen(repo *mockAppointmentRepo, id, doctorID string, start time.Time) models.Appointment {
	appt := models.Appointment{
		ID:        id,
		DoctorID:  doctorID,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Address:   "Room 12, Main Clinic",
		Status:    models.StatusOpen,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	repo.appts[id] = appt
	return appt
}

func futureStart() time.Time {
	return time.Now().Add(48 * time.Hour).Truncate(time.Second)
}

// ---------- Subscribe ----------

func TestSubscribe_ReservesOpenAppointment(t *testing.T) {
	svc, repo, sink := newTestService()
	seedOpen(repo, "appt-1", "doctor-1", futureStart())

	appt, err := svc.Subscribe("patient-1", "appt-1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.Status != models.StatusReserved {
		t.Errorf("expected status reserved, got %s", appt.Status)
	}
	if appt.PatientID != "patient-1" || appt.PatientName != "Jane Roe" {
		t.Errorf("patient reference not set: %+v", appt)
	}

	stored := repo.appts["appt-1"]
	if stored.Status != models.StatusReserved || stored.PatientID != "patient-1" {
		t.Errorf("stored appointment not reserved: %+v", stored)
	}

	if len(sink.added) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(sink.added))
	}
	if sink.added[0].UserID != "doctor-1" {
		t.Errorf("notification addressed to %s, want doctor-1", sink.added[0].UserID)
	}
	if len(sink.notified) != 1 || sink.notified[0] != "doctor-1" {
		t.Errorf("expected one new-message signal to doctor-1, got %v", sink.notified)
	}
}

func TestSubscribe_AnonymousWhenInfoNotShared(t *testing.T) {
	svc, repo, sink := newTestService()
	seedOpen(repo, "appt-1", "doctor-1", futureStart())

	if _, err := svc.Subscribe("patient-1", "appt-1", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.added) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(sink.added))
	}
	if strings.Contains(sink.added[0].Body, "Jane Roe") {
		t.Errorf("notification leaks patient name: %q", sink.added[0].Body)
	}
}

func TestSubscribe_NotFound(t *testing.T) {
	svc, _, sink := newTestService()

	_, err := svc.Subscribe("patient-1", "missing", true)
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
	if len(sink.added) != 0 {
		t.Errorf("expected no notifications, got %d", len(sink.added))
	}
}

func TestSubscribe_NotOpenLeavesStateUnchanged(t *testing.T) {
	svc, repo, sink := newTestService()
	seedOpen(repo, "appt-1", "doctor-1", futureStart())
	if _, err := svc.Subscribe("patient-2", "appt-1", true); err != nil {
		t.Fatalf("seed reservation failed: %v", err)
	}
	before := repo.appts["appt-1"]
	sink.added = nil
	sink.notified = nil

	_, err := svc.Subscribe("patient-1", "appt-1", true)
	if !errors.Is(err, models.ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen, got %v", err)
	}
	if repo.appts["appt-1"] != before {
		t.Errorf("failed subscribe changed state: %+v", repo.appts["appt-1"])
	}
	if len(sink.added) != 0 || len(sink.notified) != 0 {
		t.Errorf("failed subscribe produced side effects")
	}
}

func TestSubscribe_LostRaceReportsNotOpen(t *testing.T) {
	svc, repo, _ := newTestService()
	seedOpen(repo, "appt-1", "doctor-1", futureStart())
	// The appointment reads as open, but the conditional write loses to a
	// concurrent reservation.
	repo.conflictOnReserve = true

	_, err := svc.Subscribe("patient-1", "appt-1", true)
	if !errors.Is(err, models.ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen for the race loser, got %v", err)
	}
}

func TestSubscribe_NotificationFailureRollsBackReservation(t *testing.T) {
	svc, repo, sink := newTestService()
	original := seedOpen(repo, "appt-1", "doctor-1", futureStart())
	sink.failAdd = true

	_, err := svc.Subscribe("patient-1", "appt-1", true)
	if !errors.Is(err, ErrSchedulingFailed) {
		t.Fatalf("expected ErrSchedulingFailed, got %v", err)
	}
	if repo.appts["appt-1"] != original {
		t.Errorf("reservation survived a failed notification append: %+v", repo.appts["appt-1"])
	}
	if len(sink.notified) != 0 {
		t.Errorf("new-message signal sent for a rolled-back transition")
	}
}

func TestSubscribe_InfrastructureErrorCollapses(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.forcedErr = errors.New("connection reset by peer")

	_, err := svc.Subscribe("patient-1", "appt-1", true)
	if !errors.Is(err, ErrSchedulingFailed) {
		t.Fatalf("expected ErrSchedulingFailed, got %v", err)
	}
	if strings.Contains(err.Error(), "connection reset") {
		t.Errorf("infrastructure detail leaked to caller: %v", err)
	}
}

// ---------- Unsubscribe ----------

func TestUnsubscribe_RestoresPreSubscriptionState(t *testing.T) {
	svc, repo, sink := newTestService()
	original := seedOpen(repo, "appt-1", "doctor-1", futureStart())

	if _, err := svc.Subscribe("patient-1", "appt-1", true); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if err := svc.Unsubscribe("patient-1", "appt-1"); err != nil {
		t.Fatalf("unsubscribe failed: %v", err)
	}

	if repo.appts["appt-1"] != original {
		t.Errorf("appointment differs from its pre-subscription state:\n got %+v\nwant %+v",
			repo.appts["appt-1"], original)
	}
	if len(sink.added) != 2 {
		t.Fatalf("expected 2 notifications (reserve + release), got %d", len(sink.added))
	}
	for _, n := range sink.added {
		if n.UserID != "doctor-1" {
			t.Errorf("notification addressed to %s, want doctor-1", n.UserID)
		}
	}
}

func TestUnsubscribe_NotReserved(t *testing.T) {
	svc, repo, _ := newTestService()
	seedOpen(repo, "appt-1", "doctor-1", futureStart())

	err := svc.Unsubscribe("patient-1", "appt-1")
	if !errors.Is(err, models.ErrNotReserved) {
		t.Fatalf("expected ErrNotReserved, got %v", err)
	}
}

func TestUnsubscribe_OtherPatientsReservation(t *testing.T) {
	svc, repo, _ := newTestService()
	seedOpen(repo, "appt-1", "doctor-1", futureStart())
	if _, err := svc.Subscribe("patient-2", "appt-1", true); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	err := svc.Unsubscribe("patient-1", "appt-1")
	if !errors.Is(err, ErrNotYourAppointment) {
		t.Fatalf("expected ErrNotYourAppointment, got %v", err)
	}
	if repo.appts["appt-1"].PatientID != "patient-2" {
		t.Errorf("reservation lost: %+v", repo.appts["appt-1"])
	}
}

// ---------- Cancel ----------

func TestCancel_ReservedByOwningDoctor(t *testing.T) {
	svc, repo, sink := newTestService()
	seedOpen(repo, "appt-1", "doctor-1", futureStart())
	if _, err := svc.Subscribe("patient-1", "appt-1", true); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	sink.added = nil
	sink.notified = nil

	if err := svc.Cancel("doctor-1", "appt-1"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	stored := repo.appts["appt-1"]
	if stored.Status != models.StatusCanceled {
		t.Errorf("expected status canceled, got %s", stored.Status)
	}
	if stored.PatientID != "patient-1" {
		t.Errorf("canceled appointment lost its patient reference")
	}
	if len(sink.added) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(sink.added))
	}
	if sink.added[0].UserID != "patient-1" {
		t.Errorf("notification addressed to %s, want patient-1", sink.added[0].UserID)
	}
	if len(sink.notified) != 1 || sink.notified[0] != "patient-1" {
		t.Errorf("expected one new-message signal to patient-1, got %v", sink.notified)
	}
}

func TestCancel_OtherDoctorsAppointment(t *testing.T) {
	svc, repo, _ := newTestService()
	seedOpen(repo, "appt-1", "doctor-2", futureStart())
	if _, err := svc.Subscribe("patient-1", "appt-1", true); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	err := svc.Cancel("doctor-1", "appt-1")
	if err == nil || err.Error() != "not your appointment" {
		t.Fatalf("expected \"not your appointment\", got %v", err)
	}
	if repo.appts["appt-1"].Status != models.StatusReserved {
		t.Errorf("foreign cancel changed state: %+v", repo.appts["appt-1"])
	}
}

func TestCancel_WrongStatus(t *testing.T) {
	svc, repo, _ := newTestService()
	seedOpen(repo, "appt-1", "doctor-1", futureStart())

	if err := svc.Cancel("doctor-1", "appt-1"); !errors.Is(err, models.ErrNotReserved) {
		t.Fatalf("expected ErrNotReserved for an open slot, got %v", err)
	}

	if _, err := svc.Subscribe("patient-1", "appt-1", true); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if err := svc.Cancel("doctor-1", "appt-1"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if err := svc.Cancel("doctor-1", "appt-1"); !errors.Is(err, models.ErrNotReserved) {
		t.Fatalf("expected ErrNotReserved for a second cancel, got %v", err)
	}
}

func TestCancel_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	if err := svc.Cancel("doctor-1", "missing"); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

// ---------- Slot management ----------

func TestCreateSlot(t *testing.T) {
	svc, repo, _ := newTestService()
	start := futureStart()

	appt, err := svc.CreateSlot("doctor-1", models.AppointmentCreateRequest{
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Address:   "Room 4",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.ID == "" {
		t.Error("created slot has no ID")
	}
	if appt.Status != models.StatusOpen {
		t.Errorf("expected open status, got %s", appt.Status)
	}
	if _, ok := repo.appts[appt.ID]; !ok {
		t.Error("slot not persisted")
	}
}

func TestCreateSlot_EndBeforeStart(t *testing.T) {
	svc, _, _ := newTestService()
	start := futureStart()

	_, err := svc.CreateSlot("doctor-1", models.AppointmentCreateRequest{
		StartTime: start,
		EndTime:   start.Add(-time.Hour),
		Address:   "Room 4",
	})
	if !errors.Is(err, ErrInvalidSlotTimes) {
		t.Fatalf("expected ErrInvalidSlotTimes, got %v", err)
	}
}

func TestDeleteSlot(t *testing.T) {
	svc, repo, sink := newTestService()
	seedOpen(repo, "appt-1", "doctor-1", futureStart())

	if err := svc.DeleteSlot("doctor-1", "appt-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.appts["appt-1"]; ok {
		t.Error("slot still present after delete")
	}
	if len(sink.added) != 0 {
		t.Errorf("deleting a slot must not notify anyone")
	}
}

func TestDeleteSlot_Reserved(t *testing.T) {
	svc, repo, _ := newTestService()
	seedOpen(repo, "appt-1", "doctor-1", futureStart())
	if _, err := svc.Subscribe("patient-1", "appt-1", true); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := svc.DeleteSlot("doctor-1", "appt-1"); !errors.Is(err, models.ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen, got %v", err)
	}
	if _, ok := repo.appts["appt-1"]; !ok {
		t.Error("reserved slot was deleted")
	}
}

func TestDeleteSlot_OtherDoctor(t *testing.T) {
	svc, repo, _ := newTestService()
	seedOpen(repo, "appt-1", "doctor-2", futureStart())

	if err := svc.DeleteSlot("doctor-1", "appt-1"); !errors.Is(err, ErrNotYourAppointment) {
		t.Fatalf("expected ErrNotYourAppointment, got %v", err)
	}
}

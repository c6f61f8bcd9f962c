// File: handlers/appointment_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medibook/models"
	"medibook/services/appointment"

	"github.com/gin-gonic/gin"
)

// stubAppointmentService returns canned results and records the arguments it
// was called with.
type stubAppointmentService struct {
	appt        *models.Appointment
	page        *models.AppointmentPage
	slots       []models.Appointment
	err         error
	gotDoctorID string
	gotFilter   models.HistoryFilter
	gotAvail    models.AvailableFilter
	gotShare    bool
}

func (s *stubAppointmentService) CreateSlot(doctorID string, req models.AppointmentCreateRequest) (*models.Appointment, error) {
	s.gotDoctorID = doctorID
	return s.appt, s.err
}

func (s *stubAppointmentService) DeleteSlot(doctorID, appointmentID string) error {
	s.gotDoctorID = doctorID
	return s.err
}

func (s *stubAppointmentService) Cancel(doctorID, appointmentID string) error {
	s.gotDoctorID = doctorID
	return s.err
}

func (s *stubAppointmentService) ListHistory(doctorID string, filter models.HistoryFilter) (*models.AppointmentPage, error) {
	s.gotDoctorID = doctorID
	s.gotFilter = filter
	return s.page, s.err
}

func (s *stubAppointmentService) Subscribe(patientID, appointmentID string, shareInfo bool) (*models.Appointment, error) {
	s.gotShare = shareInfo
	return s.appt, s.err
}

func (s *stubAppointmentService) Unsubscribe(patientID, appointmentID string) error {
	return s.err
}

func (s *stubAppointmentService) ListAvailable(filter models.AvailableFilter) ([]models.Appointment, error) {
	s.gotAvail = filter
	return s.slots, s.err
}

func (s *stubAppointmentService) ListReservations(patientID string) ([]models.Appointment, error) {
	return s.slots, s.err
}

// newApptRouter wires the handler behind fixed identity values, standing in
// for the auth middleware.
func newApptRouter(svc appointment.AppointmentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAppointmentHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("doctorID", "doctor-1")
		c.Set("patientID", "patient-1")
	})
	r.POST("/doctors/me/appointments", h.CreateSlotHandler)
	r.GET("/doctors/me/appointments", h.ListHistoryHandler)
	r.DELETE("/doctors/me/appointments/:id", h.DeleteSlotHandler)
	r.POST("/doctors/me/appointments/:id/cancel", h.CancelAppointmentHandler)
	r.GET("/appointments/available", h.ListAvailableHandler)
	r.POST("/appointments/:id/subscribe", h.SubscribeHandler)
	r.POST("/appointments/:id/unsubscribe", h.UnsubscribeHandler)
	return r
}

func doRequest(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---------- Error mapping ----------

func TestSchedulingErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", appointment.ErrAppointmentNotFound, http.StatusNotFound},
		{"foreign appointment", appointment.ErrNotYourAppointment, http.StatusForbidden},
		{"not open", models.ErrNotOpen, http.StatusConflict},
		{"not reserved", models.ErrNotReserved, http.StatusConflict},
		{"invalid times", appointment.ErrInvalidSlotTimes, http.StatusBadRequest},
		{"collapsed failure", appointment.ErrSchedulingFailed, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubAppointmentService{err: tc.err}
			r := newApptRouter(svc)

			w := doRequest(r, http.MethodPost, "/appointments/appt-1/subscribe", `{"shareInfo":true}`)
			if w.Code != tc.want {
				t.Errorf("status %d, want %d", w.Code, tc.want)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON response: %v", err)
			}
			if body["error"] != tc.err.Error() {
				t.Errorf("error %q, want %q", body["error"], tc.err.Error())
			}
		})
	}
}

// ---------- Subscribe ----------

func TestSubscribeHandler(t *testing.T) {
	svc := &stubAppointmentService{appt: &models.Appointment{
		ID:     "appt-1",
		Status: models.StatusReserved,
	}}
	r := newApptRouter(svc)

	w := doRequest(r, http.MethodPost, "/appointments/appt-1/subscribe", `{"shareInfo":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", w.Code, w.Body.String())
	}
	if !svc.gotShare {
		t.Error("shareInfo not passed through")
	}
}

func TestSubscribeHandler_EmptyBodyDefaultsToWithheldInfo(t *testing.T) {
	svc := &stubAppointmentService{appt: &models.Appointment{ID: "appt-1"}}
	r := newApptRouter(svc)

	w := doRequest(r, http.MethodPost, "/appointments/appt-1/subscribe", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", w.Code, w.Body.String())
	}
	if svc.gotShare {
		t.Error("shareInfo defaulted to true")
	}
}

// ---------- History listing ----------

func TestListHistoryHandler_ParsesFilter(t *testing.T) {
	svc := &stubAppointmentService{page: &models.AppointmentPage{Page: 2, PageSize: 5}}
	r := newApptRouter(svc)

	w := doRequest(r, http.MethodGet,
		"/doctors/me/appointments?patientName=jane&statuses=reserved,canceled&from=2026-09-01T00:00:00Z&page=2&pageSize=5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", w.Code, w.Body.String())
	}

	f := svc.gotFilter
	if f.PatientName != "jane" {
		t.Errorf("patientName %q, want jane", f.PatientName)
	}
	if len(f.Statuses) != 2 || f.Statuses[0] != models.StatusReserved || f.Statuses[1] != models.StatusCanceled {
		t.Errorf("statuses %v", f.Statuses)
	}
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if f.From == nil || !f.From.Equal(want) {
		t.Errorf("from %v, want %v", f.From, want)
	}
	if f.Till != nil {
		t.Errorf("till should be unset, got %v", f.Till)
	}
	if f.Page != 2 || f.PageSize != 5 {
		t.Errorf("page %d size %d, want 2 and 5", f.Page, f.PageSize)
	}
	if svc.gotDoctorID != "doctor-1" {
		t.Errorf("doctorID %q, want doctor-1", svc.gotDoctorID)
	}
}

func TestListHistoryHandler_RejectsUnknownStatus(t *testing.T) {
	svc := &stubAppointmentService{}
	r := newApptRouter(svc)

	w := doRequest(r, http.MethodGet, "/doctors/me/appointments?statuses=archived", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

func TestListHistoryHandler_RejectsBadTimestamp(t *testing.T) {
	svc := &stubAppointmentService{}
	r := newApptRouter(svc)

	w := doRequest(r, http.MethodGet, "/doctors/me/appointments?from=yesterday", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

// ---------- Available listing ----------

func TestListAvailableHandler_ParsesFilter(t *testing.T) {
	svc := &stubAppointmentService{slots: []models.Appointment{}}
	r := newApptRouter(svc)

	w := doRequest(r, http.MethodGet,
		"/appointments/available?doctorId=doctor-9&from=2026-09-01T08:00:00Z&till=2026-09-02T08:00:00Z", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", w.Code, w.Body.String())
	}

	f := svc.gotAvail
	if f.DoctorID != "doctor-9" {
		t.Errorf("doctorId %q, want doctor-9", f.DoctorID)
	}
	if f.From.IsZero() || f.Till == nil {
		t.Errorf("range not parsed: from %v till %v", f.From, f.Till)
	}
}

func TestListAvailableHandler_MissingDoctor(t *testing.T) {
	svc := &stubAppointmentService{err: appointment.ErrDoctorRequired}
	r := newApptRouter(svc)

	w := doRequest(r, http.MethodGet, "/appointments/available?from=2026-09-01T08:00:00Z", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

// ---------- Slot creation ----------

func TestCreateSlotHandler(t *testing.T) {
	svc := &stubAppointmentService{appt: &models.Appointment{ID: "appt-1", Status: models.StatusOpen}}
	r := newApptRouter(svc)

	w := doRequest(r, http.MethodPost, "/doctors/me/appointments",
		`{"startTime":"2026-09-01T08:00:00Z","endTime":"2026-09-01T08:30:00Z","address":"Room 4"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status %d, want 201: %s", w.Code, w.Body.String())
	}
	if svc.gotDoctorID != "doctor-1" {
		t.Errorf("doctorID %q, want doctor-1", svc.gotDoctorID)
	}
}

func TestCreateSlotHandler_MalformedBody(t *testing.T) {
	svc := &stubAppointmentService{}
	r := newApptRouter(svc)

	w := doRequest(r, http.MethodPost, "/doctors/me/appointments", `{"startTime":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}

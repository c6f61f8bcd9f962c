// File: services/doctor/service_test.go
package doctor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ---------- Mocks ----------

// mockDoctorRepo serves doctor lookups from a map and records $set patches.
type mockDoctorRepo struct {
	doctors      map[string]models.Doctor
	patches      []bson.M
	lastCriteria models.DoctorSearchCriteria
	forcedErr    error
}

func newMockDoctorRepo(doctors ...models.Doctor) *mockDoctorRepo {
	m := &mockDoctorRepo{doctors: make(map[string]models.Doctor)}
	for _, d := range doctors {
		m.doctors[d.ID] = d
	}
	return m
}

func (m *mockDoctorRepo) GetByID(id string) (*models.Doctor, error) {
	return m.GetByIDWithProjection(id, nil)
}

func (m *mockDoctorRepo) GetByEmail(email string) (*models.Doctor, error) {
	return m.GetByEmailWithProjection(email, nil)
}

func (m *mockDoctorRepo) GetByIDWithProjection(id string, projection bson.M) (*models.Doctor, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	d, ok := m.doctors[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *mockDoctorRepo) GetByEmailWithProjection(email string, projection bson.M) (*models.Doctor, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	for _, d := range m.doctors {
		if d.Email == email {
			return &d, nil
		}
	}
	return nil, nil
}

func (m *mockDoctorRepo) Create(doctor *models.Doctor) error {
	m.doctors[doctor.ID] = *doctor
	return nil
}

func (m *mockDoctorRepo) Update(doctor *models.Doctor) error {
	m.doctors[doctor.ID] = *doctor
	return nil
}

func (m *mockDoctorRepo) UpdateSetDocument(id string, updateDoc bson.M) error {
	if m.forcedErr != nil {
		return m.forcedErr
	}
	m.patches = append(m.patches, updateDoc)
	d, ok := m.doctors[id]
	if !ok {
		return errors.New("doctor not found")
	}
	if v, ok := updateDoc["verified"].(bool); ok {
		d.Verified = v
	}
	m.doctors[id] = d
	return nil
}

func (m *mockDoctorRepo) Delete(id string) error {
	delete(m.doctors, id)
	return nil
}

func (m *mockDoctorRepo) Search(criteria models.DoctorSearchCriteria) ([]models.DoctorCard, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	m.lastCriteria = criteria
	cards := []models.DoctorCard{}
	for _, d := range m.doctors {
		if !d.Verified {
			continue
		}
		cards = append(cards, models.DoctorCard{
			ID:             d.ID,
			FullName:       d.FullName,
			Specialization: d.Specialization,
			Verified:       d.Verified,
		})
	}
	return cards, nil
}

func (m *mockDoctorRepo) ListPendingVerification() ([]models.Doctor, error) {
	if m.forcedErr != nil {
		return nil, m.forcedErr
	}
	pending := []models.Doctor{}
	for _, d := range m.doctors {
		if !d.Verified && d.DiplomaFileID != "" && d.PassportFileID != "" {
			pending = append(pending, d)
		}
	}
	return pending, nil
}

func (m *mockDoctorRepo) ListSpecializations() ([]models.Specialization, error) {
	return nil, nil
}

// stubStorage hands out deterministic URLs and records the TTLs requested.
type stubStorage struct {
	signedTTLs []time.Duration
	failSign   bool
}

func (s *stubStorage) UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error) {
	return destFolder + "/uploaded", nil
}

func (s *stubStorage) UploadEncryptedFile(ctx context.Context, localFilePath, destFolder, encryptionKey string) (string, error) {
	return destFolder + "/uploaded-enc", nil
}

func (s *stubStorage) DeleteFile(ctx context.Context, publicID string) error { return nil }

func (s *stubStorage) GetDownloadURL(ctx context.Context, resourceType, publicID string, expires time.Duration) (string, error) {
	return "https://cdn.example.com/" + publicID, nil
}

func (s *stubStorage) GetSecureDownloadURL(ctx context.Context, resourceType, publicID string, expires time.Duration) (string, error) {
	if s.failSign {
		return "", errors.New("signing backend unavailable")
	}
	s.signedTTLs = append(s.signedTTLs, expires)
	return "https://cdn.example.com/signed/" + publicID, nil
}

func newApprovalService(doctors ...models.Doctor) (*DefaultDoctorService, *mockDoctorRepo, *stubStorage) {
	repo := newMockDoctorRepo(doctors...)
	store := &stubStorage{}
	return NewDefaultDoctorService(repo, nil, store), repo, store
}

// ---------- Approval ----------

func TestApproveDoctor(t *testing.T) {
	svc, repo, _ := newApprovalService(models.Doctor{
		ID:             "doc-1",
		DiplomaFileID:  "diplomas/doc-1",
		PassportFileID: "passports/doc-1",
	})

	if err := svc.ApproveDoctor("doc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.doctors["doc-1"].Verified {
		t.Error("doctor not marked verified")
	}
	if len(repo.patches) != 1 {
		t.Fatalf("expected 1 patch, got %d", len(repo.patches))
	}
	if v, ok := repo.patches[0]["verified"].(bool); !ok || !v {
		t.Errorf("patch does not set verified: %+v", repo.patches[0])
	}
}

func TestApproveDoctor_MissingDocuments(t *testing.T) {
	svc, repo, _ := newApprovalService(models.Doctor{
		ID:            "doc-1",
		DiplomaFileID: "diplomas/doc-1",
	})

	err := svc.ApproveDoctor("doc-1")
	if err == nil || !strings.Contains(err.Error(), "has not uploaded all verification documents") {
		t.Fatalf("expected missing-documents error, got %v", err)
	}
	if repo.doctors["doc-1"].Verified {
		t.Error("doctor verified despite missing documents")
	}
}

func TestApproveDoctor_AlreadyVerified(t *testing.T) {
	svc, repo, _ := newApprovalService(models.Doctor{
		ID:             "doc-1",
		DiplomaFileID:  "diplomas/doc-1",
		PassportFileID: "passports/doc-1",
		Verified:       true,
	})

	if err := svc.ApproveDoctor("doc-1"); err != nil {
		t.Fatalf("re-approval must be a no-op, got %v", err)
	}
	if len(repo.patches) != 0 {
		t.Errorf("re-approval wrote %d patches", len(repo.patches))
	}
}

func TestApproveDoctor_NotFound(t *testing.T) {
	svc, _, _ := newApprovalService()

	err := svc.ApproveDoctor("missing")
	if err == nil || err.Error() != "doctor not found" {
		t.Fatalf("expected \"doctor not found\", got %v", err)
	}
}

func TestApproveDoctor_InfrastructureErrorCollapses(t *testing.T) {
	svc, repo, _ := newApprovalService()
	repo.forcedErr = errors.New("connection reset by peer")

	err := svc.ApproveDoctor("doc-1")
	if err == nil || strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("infrastructure detail leaked to caller: %v", err)
	}
}

// ---------- Verification documents ----------

func TestGetVerificationDocuments(t *testing.T) {
	svc, _, store := newApprovalService(models.Doctor{
		ID:             "doc-1",
		DiplomaFileID:  "diplomas/doc-1",
		PassportFileID: "passports/doc-1",
	})

	docs, err := svc.GetVerificationDocuments("doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs.DiplomaURL == "" || docs.PassportURL == "" {
		t.Errorf("expected both signed URLs, got %+v", docs)
	}
	if len(store.signedTTLs) != 2 {
		t.Fatalf("expected 2 signing calls, got %d", len(store.signedTTLs))
	}
	for _, ttl := range store.signedTTLs {
		if ttl != documentURLTTL {
			t.Errorf("signed URL TTL %v, want %v", ttl, documentURLTTL)
		}
	}
}

func TestGetVerificationDocuments_PartialUpload(t *testing.T) {
	svc, _, _ := newApprovalService(models.Doctor{
		ID:            "doc-1",
		DiplomaFileID: "diplomas/doc-1",
	})

	docs, err := svc.GetVerificationDocuments("doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs.DiplomaURL == "" {
		t.Error("diploma URL missing")
	}
	if docs.PassportURL != "" {
		t.Errorf("passport URL for a document that was never uploaded: %q", docs.PassportURL)
	}
}

func TestGetVerificationDocuments_SigningFailureCollapses(t *testing.T) {
	svc, _, store := newApprovalService(models.Doctor{
		ID:            "doc-1",
		DiplomaFileID: "diplomas/doc-1",
	})
	store.failSign = true

	_, err := svc.GetVerificationDocuments("doc-1")
	if err == nil || strings.Contains(err.Error(), "signing backend") {
		t.Fatalf("infrastructure detail leaked to caller: %v", err)
	}
}

// ---------- Directory ----------

func TestSearch_DefaultsPage(t *testing.T) {
	svc, repo, _ := newApprovalService(models.Doctor{
		ID: "doc-1", FullName: "Dr. Amina Odhiambo", Specialization: "Cardiology", Verified: true,
	})

	cards, err := svc.Search(models.DoctorSearchCriteria{Specialization: "Cardiology"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastCriteria.Page != 1 {
		t.Errorf("page not defaulted: got %d, want 1", repo.lastCriteria.Page)
	}
	if len(cards) != 1 || cards[0].ID != "doc-1" {
		t.Errorf("unexpected cards: %+v", cards)
	}
}

func TestSearch_InfrastructureErrorCollapses(t *testing.T) {
	svc, repo, _ := newApprovalService()
	repo.forcedErr = errors.New("cursor timeout")

	_, err := svc.Search(models.DoctorSearchCriteria{})
	if err == nil || err.Error() != "search failed, please try again" {
		t.Fatalf("expected the collapsed search error, got %v", err)
	}
}

// ---------- Pending list ----------

func TestListPendingVerification(t *testing.T) {
	svc, _, _ := newApprovalService(
		models.Doctor{ID: "doc-1", DiplomaFileID: "d1", PassportFileID: "p1"},
		models.Doctor{ID: "doc-2", DiplomaFileID: "d2"},
		models.Doctor{ID: "doc-3", DiplomaFileID: "d3", PassportFileID: "p3", Verified: true},
	)

	pending, err := svc.ListPendingVerification()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "doc-1" {
		t.Errorf("expected only doc-1 pending, got %+v", pending)
	}
}

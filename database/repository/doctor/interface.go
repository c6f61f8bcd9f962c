// File: database/repository/doctor/interface.go
package doctorRepo

import (
	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// DoctorRepository defines methods for doctor data access.
type DoctorRepository interface {
	// GetByID retrieves a doctor by its unique ID.
	GetByID(id string) (*models.Doctor, error)
	// GetByEmail retrieves a doctor by email; returns (nil, nil) when absent.
	GetByEmail(email string) (*models.Doctor, error)
	// GetByIDWithProjection retrieves a doctor by ID with a projection.
	GetByIDWithProjection(id string, projection bson.M) (*models.Doctor, error)
	// GetByEmailWithProjection retrieves a doctor by email with a projection.
	GetByEmailWithProjection(email string, projection bson.M) (*models.Doctor, error)
	// Create inserts a new doctor record.
	Create(doctor *models.Doctor) error
	// Update replaces the mutable fields of an existing doctor record.
	Update(doctor *models.Doctor) error
	// UpdateSetDocument applies a $set patch to the doctor record.
	UpdateSetDocument(id string, updateDoc bson.M) error
	// Delete removes a doctor record by its ID.
	Delete(id string) error
	// Search returns public directory cards matching the criteria.
	Search(criteria models.DoctorSearchCriteria) ([]models.DoctorCard, error)
	// ListPendingVerification returns doctors that uploaded both documents
	// but are not verified yet.
	ListPendingVerification() ([]models.Doctor, error)
	// ListSpecializations returns the specialization catalog sorted by name.
	ListSpecializations() ([]models.Specialization, error)
}

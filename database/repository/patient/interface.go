// File: database/repository/patient/interface.go
package patientRepo

import (
	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// PatientRepository defines methods for patient data access.
type PatientRepository interface {
	// GetByID retrieves a patient by its unique ID.
	GetByID(id string) (*models.Patient, error)
	// GetByEmail retrieves a patient by email; returns (nil, nil) when absent.
	GetByEmail(email string) (*models.Patient, error)
	// GetByIDWithProjection retrieves a patient by ID with a projection.
	GetByIDWithProjection(id string, projection bson.M) (*models.Patient, error)
	// GetByEmailWithProjection retrieves a patient by email with a projection.
	GetByEmailWithProjection(email string, projection bson.M) (*models.Patient, error)
	// Create inserts a new patient record.
	Create(patient *models.Patient) error
	// Update replaces the mutable fields of an existing patient record.
	Update(patient *models.Patient) error
	// UpdateSetDocument applies a $set patch to the patient record.
	UpdateSetDocument(id string, updateDoc bson.M) error
	// Delete removes a patient record by its ID.
	Delete(id string) error
}

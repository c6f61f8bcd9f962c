package models

// Specialization is one entry of the medical specializations catalog.
type Specialization struct {
	ID          string `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

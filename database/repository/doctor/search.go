// File: database/repository/doctor/search.go
package doctorRepo

import (
	"fmt"
	"regexp"
	"time"

	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultPageSize = 20

// Search returns verified doctors matching the criteria as public directory
// cards, sorted by name. Name and specialization match case-insensitively.
func (r *MongoDoctorRepo) Search(criteria models.DoctorSearchCriteria) ([]models.DoctorCard, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	match := bson.D{{Key: "verified", Value: true}}
	if criteria.Specialization != "" {
		match = append(match, bson.E{Key: "specialization", Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(criteria.Specialization)},
			{Key: "$options", Value: "i"},
		}})
	}
	if criteria.Name != "" {
		match = append(match, bson.E{Key: "full_name", Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(criteria.Name)},
			{Key: "$options", Value: "i"},
		}})
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "full_name", Value: 1}}}},
		bson.D{{Key: "$skip", Value: int64((page - 1) * pageSize)}},
		bson.D{{Key: "$limit", Value: int64(pageSize)}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to search doctors: %w", err)
	}
	defer cursor.Close(ctx)

	cards := []models.DoctorCard{}
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode doctor search results: %w", err)
	}
	return cards, nil
}

// ListSpecializations returns the specialization catalog sorted by name.
func (r *MongoDoctorRepo) ListSpecializations() ([]models.Specialization, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.specs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list specializations: %w", err)
	}
	defer cursor.Close(ctx)

	specializations := []models.Specialization{}
	if err := cursor.All(ctx, &specializations); err != nil {
		return nil, fmt.Errorf("failed to decode specializations: %w", err)
	}
	return specializations, nil
}

// ListPendingVerification returns unverified doctors that have uploaded both
// their diploma and passport, oldest first.
func (r *MongoDoctorRepo) ListPendingVerification() ([]models.Doctor, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"verified":         false,
		"diploma_file_id":  bson.M{"$exists": true, "$ne": ""},
		"passport_file_id": bson.M{"$exists": true, "$ne": ""},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors pending verification: %w", err)
	}
	defer cursor.Close(ctx)

	doctors := []models.Doctor{}
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctors pending verification: %w", err)
	}
	return doctors, nil
}

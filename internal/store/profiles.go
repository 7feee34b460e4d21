package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/padmamangal/padmamangal-backend/internal/models"
	"github.com/padmamangal/padmamangal-backend/internal/realtime"
)

// Profiles manages the users collection (display profiles, keyed by
// account id).
type Profiles struct {
	col *mongo.Collection
	bus realtime.Bus
}

func NewProfiles(db *mongo.Database, bus realtime.Bus) *Profiles {
	return &Profiles{col: db.Collection("users"), bus: bus}
}

// Ensure creates the profile on first session and merges identity-sourced
// display fields on later ones. Only non-empty fields are written, so
// values a previous session (or the user) set are never wiped.
func (s *Profiles) Ensure(ctx context.Context, p *models.UserProfile) error {
	set := bson.M{}
	if p.Email != "" {
		set["email"] = p.Email
	}
	if p.DisplayName != "" {
		set["display_name"] = p.DisplayName
	}
	if p.PhotoURL != "" {
		set["photo_url"] = p.PhotoURL
	}
	if p.PhoneNumber != "" {
		set["phone_number"] = p.PhoneNumber
	}

	update := bson.M{"$setOnInsert": bson.M{"created_at": time.Now().UTC()}}
	if len(set) > 0 {
		update["$set"] = set
	}

	if _, err := s.col.UpdateByID(ctx, p.ID, update, options.Update().SetUpsert(true)); err != nil {
		return err
	}
	return publish(ctx, s.bus, realtime.TopicUsers, ChangeProfileUpdated, p)
}

// List returns every profile ordered by email, the roster order the
// client renders.
func (s *Profiles) List(ctx context.Context) ([]models.UserProfile, error) {
	cur, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var profiles []models.UserProfile
	for cur.Next(ctx) {
		var p models.UserProfile
		if err := cur.Decode(&p); err != nil {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, cur.Err()
}

package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/padmamangal/padmamangal-backend/internal/models"
)

// Rooms manages the rooms collection. Rooms are created lazily on first
// navigation and never deleted.
type Rooms struct {
	col *mongo.Collection
}

func NewRooms(db *mongo.Database) *Rooms {
	return &Rooms{col: db.Collection("rooms")}
}

// EnsureGroup creates the fixed family-wide channel if absent. Idempotent.
func (r *Rooms) EnsureGroup(ctx context.Context) error {
	_, err := r.col.UpdateByID(ctx, models.GroupRoomID,
		bson.M{"$setOnInsert": bson.M{
			"name":       "Padmamangal",
			"is_group":   true,
			"created_at": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// EnsureDirect resolves the deterministic pairwise room for two users,
// creating it if absent, and records both users as members.
func (r *Rooms) EnsureDirect(ctx context.Context, uidA, uidB string) (string, error) {
	roomID := models.DirectRoomID(uidA, uidB)
	_, err := r.col.UpdateByID(ctx, roomID,
		bson.M{
			"$setOnInsert": bson.M{
				"is_group":   false,
				"created_at": time.Now().UTC(),
			},
			"$addToSet": bson.M{"members": bson.M{"$each": []string{uidA, uidB}}},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return "", err
	}
	return roomID, nil
}

// Get loads a room document by id.
func (r *Rooms) Get(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&room); err != nil {
		return nil, err
	}
	return &room, nil
}

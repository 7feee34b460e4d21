package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/padmamangal/padmamangal-backend/internal/models"
	"github.com/padmamangal/padmamangal-backend/internal/realtime"
)

// ErrSignalSettled is returned when accept/decline races a signal that is
// no longer ringing. The callee mutates a signal at most once.
var ErrSignalSettled = errors.New("call signal already settled")

// RingingMaxAge bounds how old a ringing signal may be before the
// incoming-call prompt ignores it as abandoned.
const RingingMaxAge = 45 * time.Second

// callTTL expires signal documents server-side; signals are never
// deleted by application code.
const callTTL = time.Hour

// Calls manages the calls collection.
type Calls struct {
	col *mongo.Collection
	bus realtime.Bus
}

func NewCalls(db *mongo.Database, bus realtime.Bus) *Calls {
	return &Calls{col: db.Collection("calls"), bus: bus}
}

// EnsureIndexes sets up the TTL expiry for stale signals.
func (s *Calls) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().
			SetName("idx_calls_ttl").
			SetExpireAfterSeconds(int32(callTTL / time.Second)),
	})
	return err
}

// Create persists a new ringing signal and announces it.
func (s *Calls) Create(ctx context.Context, sig *models.CallSignal) error {
	if sig.ID == "" {
		sig.ID = uuid.NewString()
	}
	sig.Status = models.CallRinging
	sig.CreatedAt = time.Now().UTC()

	if _, err := s.col.InsertOne(ctx, sig); err != nil {
		return err
	}
	return publish(ctx, s.bus, realtime.TopicCalls, ChangeCallCreated, sig)
}

// SetStatus transitions a ringing signal to accepted or declined. The
// transition happens at most once; a settled signal stays settled.
func (s *Calls) SetStatus(ctx context.Context, id string, status models.CallStatus) error {
	res := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.CallRinging},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var sig models.CallSignal
	if err := res.Decode(&sig); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrSignalSettled
		}
		return err
	}
	return publish(ctx, s.bus, realtime.TopicCalls, ChangeCallUpdated, &sig)
}

// RingingFor returns the newest live ringing signal addressed to uid, or
// nil when there is none worth prompting for.
func (s *Calls) RingingFor(ctx context.Context, uid string) (*models.CallSignal, error) {
	cutoff := time.Now().UTC().Add(-RingingMaxAge)
	var sig models.CallSignal
	err := s.col.FindOne(ctx,
		bson.M{"to": uid, "status": models.CallRinging, "created_at": bson.M{"$gte": cutoff}},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	).Decode(&sig)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sig, nil
}

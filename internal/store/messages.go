package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/padmamangal/padmamangal-backend/internal/models"
	"github.com/padmamangal/padmamangal-backend/internal/realtime"
)

// Messages manages the messages and message_votes collections.
type Messages struct {
	col   *mongo.Collection
	votes *mongo.Collection
	bus   realtime.Bus
}

func NewMessages(db *mongo.Database, bus realtime.Bus) *Messages {
	return &Messages{
		col:   db.Collection("messages"),
		votes: db.Collection("message_votes"),
		bus:   bus,
	}
}

// EnsureIndexes configures the message indexes. Called on startup.
func (s *Messages) EnsureIndexes(ctx context.Context) error {
	// Compound index on (room_id, created_at) for timeline queries.
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "room_id", Value: 1},
			{Key: "created_at", Value: 1},
		},
		Options: options.Index().SetName("idx_room_created"),
	})
	if err != nil {
		return err
	}

	// One vote document per user per poll.
	_, err = s.votes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "message_id", Value: 1},
			{Key: "uid", Value: 1},
		},
		Options: options.Index().SetName("idx_vote_message_uid").SetUnique(true),
	})
	return err
}

// Append persists a new message with a server-assigned id and timestamp,
// then publishes it on the room's change stream.
func (s *Messages) Append(ctx context.Context, m *models.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = time.Now().UTC()

	if _, err := s.col.InsertOne(ctx, m); err != nil {
		return err
	}
	return publish(ctx, s.bus, realtime.RoomTopic(m.RoomID), ChangeMessageCreated, m)
}

// History returns paginated timeline history for a room, oldest-first.
// hasMore reports whether older messages remain before the returned page.
func (s *Messages) History(ctx context.Context, roomID string, before *time.Time, limit int64) ([]models.Message, bool, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	filter := bson.M{"room_id": roomID}
	if before != nil {
		filter["created_at"] = bson.M{"$lt": before.UTC()}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit + 1)

	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, false, err
	}
	defer cur.Close(ctx)

	var msgs []models.Message
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			continue
		}
		msgs = append(msgs, m)
	}
	if err := cur.Err(); err != nil {
		return nil, false, err
	}

	hasMore := int64(len(msgs)) > limit
	if hasMore {
		msgs = msgs[:len(msgs)-1]
	}

	// Reverse to oldest-first for the timeline.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	return msgs, hasMore, nil
}

// Edit sets the text and edited timestamp of the author's own message.
func (s *Messages) Edit(ctx context.Context, roomID, id, uid, text string) error {
	now := time.Now().UTC()
	res := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "room_id": roomID, "uid": uid},
		bson.M{"$set": bson.M{"text": text, "edited_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var m models.Message
	if err := res.Decode(&m); err != nil {
		return err
	}
	return publish(ctx, s.bus, realtime.RoomTopic(roomID), ChangeMessageUpdated, &m)
}

// Delete removes the author's own message outright. No tombstone, no undo.
func (s *Messages) Delete(ctx context.Context, roomID, id, uid string) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": id, "room_id": roomID, "uid": uid}); err != nil {
		return err
	}
	_, _ = s.votes.DeleteMany(ctx, bson.M{"message_id": id})
	return publish(ctx, s.bus, realtime.RoomTopic(roomID), ChangeMessageDeleted,
		&models.Message{ID: id, RoomID: roomID})
}

// React bumps one emoji's counter atomically ($inc), so concurrent
// reactors never lose increments.
func (s *Messages) React(ctx context.Context, roomID, id, emoji string) error {
	res := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "room_id": roomID},
		bson.M{"$inc": bson.M{"reactions." + emoji: 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var m models.Message
	if err := res.Decode(&m); err != nil {
		return err
	}
	return publish(ctx, s.bus, realtime.RoomTopic(roomID), ChangeMessageUpdated, &m)
}

// CastVote upserts the voter's choice: one vote document per user per
// poll, latest option wins.
func (s *Messages) CastVote(ctx context.Context, v *models.PollVote) error {
	now := time.Now().UTC()
	_, err := s.votes.UpdateOne(ctx,
		bson.M{"message_id": v.MessageID, "uid": v.UID},
		bson.M{
			"$set":         bson.M{"option_id": v.OptionID, "room_id": v.RoomID},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return err
	}
	return publish(ctx, s.bus, realtime.RoomTopic(v.RoomID), ChangeVoteCast, v)
}

// Votes lists every vote on one poll message for tallying.
func (s *Messages) Votes(ctx context.Context, messageID string) ([]models.PollVote, error) {
	cur, err := s.votes.Find(ctx, bson.M{"message_id": messageID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var votes []models.PollVote
	for cur.Next(ctx) {
		var v models.PollVote
		if err := cur.Decode(&v); err != nil {
			continue
		}
		votes = append(votes, v)
	}
	return votes, cur.Err()
}

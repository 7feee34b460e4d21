// Package store persists the chat documents in MongoDB and publishes a
// change event for every write, so live sessions see the authoritative
// store order rather than client send order.
package store

import (
	"context"
	"encoding/json"

	"github.com/padmamangal/padmamangal-backend/internal/realtime"
)

// Change kinds carried on the bus. Sessions forward these to clients as-is.
const (
	ChangeMessageCreated = "message_created"
	ChangeMessageUpdated = "message_updated"
	ChangeMessageDeleted = "message_deleted"
	ChangeVoteCast       = "vote_cast"
	ChangeProfileUpdated = "profile_updated"
	ChangeCallCreated    = "call_created"
	ChangeCallUpdated    = "call_updated"
)

func publish(ctx context.Context, bus realtime.Bus, topic, kind string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return bus.Publish(ctx, realtime.Event{Topic: topic, Kind: kind, Data: data})
}

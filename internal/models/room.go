package models

import (
	"sort"
	"strings"
	"time"
)

// GroupRoomID is the single fixed family-wide channel.
const GroupRoomID = "padmamangal-group"

// Room is a chat channel document: either the fixed group channel or a
// deterministic pairwise direct channel.
type Room struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	IsGroup   bool      `bson:"is_group" json:"is_group"`
	Members   []string  `bson:"members,omitempty" json:"members,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// DirectRoomID resolves the pairwise channel id for two users. Both sides
// compute the same id regardless of who opens the chat first.
func DirectRoomID(uidA, uidB string) string {
	ids := []string{uidA, uidB}
	sort.Strings(ids)
	return strings.Join(ids, "__")
}

// DirectPeer returns the other member of a direct room id, or "" when the
// id does not contain uid.
func DirectPeer(roomID, uid string) string {
	parts := strings.SplitN(roomID, "__", 2)
	if len(parts) != 2 {
		return ""
	}
	switch uid {
	case parts[0]:
		return parts[1]
	case parts[1]:
		return parts[0]
	}
	return ""
}

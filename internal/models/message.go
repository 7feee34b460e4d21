package models

import (
	"time"
)

// MessageType discriminates the message payload. Exactly one type per
// message; once created the type never changes.
type MessageType string

const (
	MessageText     MessageType = "text"
	MessageImage    MessageType = "image"
	MessageVideo    MessageType = "video"
	MessageAudio    MessageType = "audio"
	MessageFile     MessageType = "file"
	MessageLocation MessageType = "location"
	MessagePoll     MessageType = "poll"
)

// PollOption is one choice of a poll message, ordered by position.
type PollOption struct {
	ID   string `bson:"id" json:"id"`
	Text string `bson:"text" json:"text"`
}

// Message is stored in MongoDB, one flat document per message with the
// room id as a field (scales better than per-room nesting and keeps
// pagination a single indexed query).
type Message struct {
	ID     string      `bson:"_id,omitempty" json:"id"`
	RoomID string      `bson:"room_id" json:"room_id"`
	Type   MessageType `bson:"type" json:"type"`

	UID       string     `bson:"uid" json:"uid"`
	Email     string     `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	EditedAt  *time.Time `bson:"edited_at,omitempty" json:"edited_at,omitempty"`

	// text
	Text string `bson:"text,omitempty" json:"text,omitempty"`

	// image / video / audio / file
	URL         string `bson:"url,omitempty" json:"url,omitempty"`
	FileName    string `bson:"file_name,omitempty" json:"file_name,omitempty"`
	ContentType string `bson:"content_type,omitempty" json:"content_type,omitempty"`
	Caption     string `bson:"caption,omitempty" json:"caption,omitempty"`

	// location
	Latitude    float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Approximate bool    `bson:"approximate,omitempty" json:"approximate,omitempty"`

	// poll
	Question string       `bson:"question,omitempty" json:"question,omitempty"`
	Options  []PollOption `bson:"options,omitempty" json:"options,omitempty"`

	Reactions map[string]int `bson:"reactions,omitempty" json:"reactions,omitempty"`
}

// PollVote records one user's choice on a poll message. At most one vote
// per user per poll; casting again overwrites the prior choice.
type PollVote struct {
	RoomID    string    `bson:"room_id" json:"room_id"`
	MessageID string    `bson:"message_id" json:"message_id"`
	UID       string    `bson:"uid" json:"uid"`
	OptionID  string    `bson:"option_id" json:"option_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

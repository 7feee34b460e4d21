package models

import "time"

// CallKind selects audio-only or audio+video.
type CallKind string

const (
	CallAudio CallKind = "audio"
	CallVideo CallKind = "video"
)

// CallStatus lifecycle: created as ringing, mutated once by the callee.
type CallStatus string

const (
	CallRinging  CallStatus = "ringing"
	CallAccepted CallStatus = "accepted"
	CallDeclined CallStatus = "declined"
)

// CallSignal is one ringing/accepted/declined call invitation.
// To is empty for group calls (everyone in the room may pick up).
type CallSignal struct {
	ID        string     `bson:"_id,omitempty" json:"id"`
	RoomID    string     `bson:"room_id" json:"room_id"`
	From      string     `bson:"from" json:"from"`
	To        string     `bson:"to,omitempty" json:"to,omitempty"`
	Kind      CallKind   `bson:"kind" json:"kind"`
	Status    CallStatus `bson:"status" json:"status"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
}

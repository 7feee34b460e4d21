package chat

import (
	"github.com/padmamangal/padmamangal-backend/internal/geo"
	"github.com/padmamangal/padmamangal-backend/internal/models"
)

// Command types accepted from the client over the session socket.
const (
	CmdSelectRoom    = "select_room"
	CmdSendText      = "send_text"
	CmdAttachStage   = "attach_stage"
	CmdAttachCaption = "attach_caption"
	CmdAttachConfirm = "attach_confirm"
	CmdAttachCancel  = "attach_cancel"
	CmdVoiceStart    = "voice_start"
	CmdVoiceChunk    = "voice_chunk"
	CmdVoiceStop     = "voice_stop"
	CmdShareLocation = "share_location"
	CmdCreatePoll    = "create_poll"
	CmdCastVote      = "cast_vote"
	CmdReact         = "react"
	CmdEditMessage   = "edit_message"
	CmdDeleteMessage = "delete_message"
	CmdCallInvite    = "call_invite"
	CmdCallAccept    = "call_accept"
	CmdCallDecline   = "call_decline"
	CmdPressStart    = "press_start"
	CmdPressEnd      = "press_end"
	CmdSignOut       = "sign_out"
	CmdPing          = "ping"
)

// Command is one client action relayed to the session controller.
type Command struct {
	Type string `json:"type"`

	// select_room: either the fixed group channel or a direct peer.
	Group   bool   `json:"group,omitempty"`
	PeerUID string `json:"peer_uid,omitempty"`

	// send_text / edit_message
	Text      string `json:"text,omitempty"`
	MessageID string `json:"message_id,omitempty"`

	// attach_stage / attach_caption / voice_chunk
	FileName    string `json:"file_name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Data        []byte `json:"data,omitempty"` // base64 over the wire
	Caption     string `json:"caption,omitempty"`

	// share_location: device coordinates when the client has them.
	HasCoords bool    `json:"has_coords,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	// create_poll / cast_vote
	Question string   `json:"question,omitempty"`
	Options  []string `json:"options,omitempty"`
	OptionID string   `json:"option_id,omitempty"`

	// react
	Emoji string `json:"emoji,omitempty"`

	// call_invite / call_accept / call_decline
	Kind     string `json:"kind,omitempty"`
	SignalID string `json:"signal_id,omitempty"`
}

// Event types pushed to the client.
const (
	EvtRoomSelected      = "room_selected"
	EvtRoster            = "roster"
	EvtMessageCreated    = "message_created"
	EvtMessageUpdated    = "message_updated"
	EvtMessageDeleted    = "message_deleted"
	EvtVoteCast          = "vote_cast"
	EvtProfileUpdated    = "profile_updated"
	EvtAttachmentStaged  = "attachment_staged"
	EvtAttachmentCleared = "attachment_cleared"
	EvtRecordingStarted  = "recording_started"
	EvtRecordingStopped  = "recording_stopped"
	EvtIncomingCall      = "incoming_call"
	EvtCallOpen          = "call_open"
	EvtCallUpdated       = "call_updated"
	EvtCallDismissed     = "call_dismissed"
	EvtLongPress         = "long_press"
	EvtSignedOut         = "signed_out"
	EvtError             = "error"
	EvtPong              = "pong"
)

// Attachment mirrors the staged state back to the client for preview.
type Attachment struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Caption     string `json:"caption,omitempty"`
	Size        int64  `json:"size"`
}

// CallOpen tells the client to join the call surface.
type CallOpen struct {
	RoomID string `json:"room_id"`
	Kind   string `json:"kind"`
	Token  string `json:"token"`
	WSURL  string `json:"ws_url"`
}

// Event is one notification pushed to the client.
type Event struct {
	Type string `json:"type"`

	Room     *models.Room         `json:"room,omitempty"`
	Messages []models.Message     `json:"messages,omitempty"`
	Message  *models.Message      `json:"message,omitempty"`
	Votes    []models.PollVote    `json:"votes,omitempty"`
	Vote     *models.PollVote     `json:"vote,omitempty"`
	Profiles []models.UserProfile `json:"profiles,omitempty"`
	Profile  *models.UserProfile  `json:"profile,omitempty"`
	Call     *models.CallSignal   `json:"call,omitempty"`
	CallOpen *CallOpen            `json:"call_open,omitempty"`

	Attachment *Attachment   `json:"attachment,omitempty"`
	Location   *geo.Location `json:"location,omitempty"`

	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/padmamangal/padmamangal-backend/internal/geo"
	"github.com/padmamangal/padmamangal-backend/internal/media"
	"github.com/padmamangal/padmamangal-backend/internal/models"
	"github.com/padmamangal/padmamangal-backend/internal/realtime"
	"github.com/padmamangal/padmamangal-backend/internal/store"
	"github.com/padmamangal/padmamangal-backend/pkg/longpress"
)

// State is the session lifecycle. A session object only exists once the
// socket is up; Authenticating covers token validation, Authenticated
// covers the live command loop.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

// errSignedOut ends the command loop on explicit sign-out.
var errSignedOut = errors.New("signed out")

// Conn is the minimal connection the session writes events to.
type Conn interface {
	WriteJSON(v interface{}) error
}

// RoomStore, MessageStore, ProfileStore and CallStore are the slices of
// the document store the controller touches; the Mongo repositories
// satisfy them and tests use fakes.
type RoomStore interface {
	EnsureGroup(ctx context.Context) error
	EnsureDirect(ctx context.Context, uidA, uidB string) (string, error)
}

type MessageStore interface {
	Append(ctx context.Context, m *models.Message) error
	History(ctx context.Context, roomID string, before *time.Time, limit int64) ([]models.Message, bool, error)
	Edit(ctx context.Context, roomID, id, uid, text string) error
	Delete(ctx context.Context, roomID, id, uid string) error
	React(ctx context.Context, roomID, id, emoji string) error
	CastVote(ctx context.Context, v *models.PollVote) error
	Votes(ctx context.Context, messageID string) ([]models.PollVote, error)
}

type ProfileStore interface {
	Ensure(ctx context.Context, p *models.UserProfile) error
	List(ctx context.Context) ([]models.UserProfile, error)
}

type CallStore interface {
	Create(ctx context.Context, sig *models.CallSignal) error
	SetStatus(ctx context.Context, id string, status models.CallStatus) error
	RingingFor(ctx context.Context, uid string) (*models.CallSignal, error)
}

// TokenIssuer mints call-transport access tokens.
type TokenIssuer interface {
	Issue(roomName, identity string) (string, error)
}

// Deps wires one session's collaborators. Everything is passed in so the
// controller never reaches for globals.
type Deps struct {
	User     models.UserProfile
	Conn     Conn
	Bus      realtime.Bus
	Rooms    RoomStore
	Messages MessageStore
	Profiles ProfileStore
	Calls    CallStore
	Tokens   TokenIssuer
	Uploader media.Uploader
	Locator  geo.Locator

	BaseURL   string // scheme://host for public upload URLs
	CallWSURL string
	ClientIP  string // for the IP-based location fallback
	SpoolDir  string // attachment/voice spool directory
}

// Session is one authenticated user's live view of one active room. All
// state mutation happens on the Run goroutine; only event writes are
// locked since the long-press timer fires off-loop.
type Session struct {
	Deps

	state    State
	composer *Composer
	recorder *Recorder
	press    *longpress.Detector

	cmds chan Command

	activeRoom   *models.Room
	roomEvents   <-chan realtime.Event
	roomUnsub    func()
	rosterEvents <-chan realtime.Event
	rosterUnsub  func()
	callEvents   <-chan realtime.Event
	callUnsub    func()

	incoming *models.CallSignal

	writeMu sync.Mutex
}

func NewSession(deps Deps) *Session {
	return &Session{
		Deps:     deps,
		state:    Authenticating,
		composer: NewComposer(deps.SpoolDir),
		recorder: NewRecorder(deps.SpoolDir),
		press:    longpress.NewDetector(longpress.DefaultDelay),
		cmds:     make(chan Command, 16),
	}
}

// Submit queues one client command for the session loop. Dropped
// commands surface as an error event rather than blocking the reader.
func (s *Session) Submit(cmd Command) {
	select {
	case s.cmds <- cmd:
	default:
		s.sendEvent(Event{Type: EvtError, Error: "too many pending actions"})
	}
}

// Run drives the session until the context ends or the user signs out.
// Teardown always unsubscribes every live stream and releases the
// capture and staging resources.
func (s *Session) Run(ctx context.Context) error {
	defer s.teardown()

	if err := s.start(ctx); err != nil {
		s.sendEvent(Event{Type: EvtError, Error: "failed to open session"})
		return err
	}
	s.state = Authenticated

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd := <-s.cmds:
			if err := s.handleCommand(ctx, cmd); err != nil {
				if errors.Is(err, errSignedOut) {
					return nil
				}
				s.sendEvent(Event{Type: EvtError, Error: err.Error()})
			}

		case evt, ok := <-s.roomEvents:
			if !ok {
				s.roomEvents = nil
				continue
			}
			s.handleRoomEvent(evt)

		case evt, ok := <-s.rosterEvents:
			if !ok {
				s.rosterEvents = nil
				continue
			}
			s.handleRosterEvent(evt)

		case evt, ok := <-s.callEvents:
			if !ok {
				s.callEvents = nil
				continue
			}
			s.handleCallEvent(evt)
		}
	}
}

// start runs the Authenticated entry work: ensure the group room and the
// caller's profile exist, open the roster and call streams, surface any
// live ringing signal, then land in the group room.
func (s *Session) start(ctx context.Context) error {
	if err := s.Rooms.EnsureGroup(ctx); err != nil {
		return err
	}
	profile := s.User
	if err := s.Profiles.Ensure(ctx, &profile); err != nil {
		return err
	}

	s.rosterEvents, s.rosterUnsub = s.Bus.Subscribe(realtime.TopicUsers)
	s.callEvents, s.callUnsub = s.Bus.Subscribe(realtime.TopicCalls)

	if profiles, err := s.Profiles.List(ctx); err == nil {
		s.sendEvent(Event{Type: EvtRoster, Profiles: profiles})
	}

	if sig, err := s.Calls.RingingFor(ctx, s.User.ID); err == nil && sig != nil {
		s.incoming = sig
		s.sendEvent(Event{Type: EvtIncomingCall, Call: sig})
	}

	return s.selectRoom(ctx, &models.Room{ID: models.GroupRoomID, Name: "Padmamangal", IsGroup: true})
}

// selectRoom switches the active room. The previous room's stream is
// torn down before the new subscription opens, so nothing from the old
// room can land after the switch.
func (s *Session) selectRoom(ctx context.Context, room *models.Room) error {
	if s.roomUnsub != nil {
		s.roomUnsub()
		s.roomUnsub = nil
		s.roomEvents = nil
	}

	s.activeRoom = room
	s.roomEvents, s.roomUnsub = s.Bus.Subscribe(realtime.RoomTopic(room.ID))

	messages, _, err := s.Messages.History(ctx, room.ID, nil, 50)
	if err != nil {
		return err
	}

	var votes []models.PollVote
	for i := range messages {
		if messages[i].Type != models.MessagePoll {
			continue
		}
		if vs, err := s.Messages.Votes(ctx, messages[i].ID); err == nil {
			votes = append(votes, vs...)
		}
	}

	s.sendEvent(Event{Type: EvtRoomSelected, Room: room, Messages: messages, Votes: votes})
	return nil
}

func (s *Session) handleCommand(ctx context.Context, cmd Command) error {
	switch cmd.Type {
	case CmdSelectRoom:
		if cmd.Group {
			return s.selectRoom(ctx, &models.Room{ID: models.GroupRoomID, Name: "Padmamangal", IsGroup: true})
		}
		peer := strings.TrimSpace(cmd.PeerUID)
		if peer == "" || peer == s.User.ID {
			return fmt.Errorf("invalid direct chat target")
		}
		roomID, err := s.Rooms.EnsureDirect(ctx, s.User.ID, peer)
		if err != nil {
			return err
		}
		return s.selectRoom(ctx, &models.Room{ID: roomID, IsGroup: false, Members: []string{s.User.ID, peer}})

	case CmdSendText:
		text := strings.TrimSpace(cmd.Text)
		if text == "" {
			return nil // whitespace-only: no document, no network call
		}
		return s.Messages.Append(ctx, &models.Message{
			RoomID: s.activeRoom.ID,
			Type:   models.MessageText,
			Text:   text,
			UID:    s.User.ID,
			Email:  s.User.Email,
		})

	case CmdAttachStage:
		staged, err := s.composer.Stage(cmd.FileName, cmd.ContentType, bytes.NewReader(cmd.Data))
		if err != nil {
			return err
		}
		s.sendEvent(Event{Type: EvtAttachmentStaged, Attachment: &Attachment{
			FileName:    staged.FileName,
			ContentType: staged.ContentType,
			Size:        staged.Size,
		}})
		return nil

	case CmdAttachCaption:
		s.composer.SetCaption(cmd.Caption)
		return nil

	case CmdAttachConfirm:
		return s.confirmAttachment(ctx)

	case CmdAttachCancel:
		s.composer.Cancel()
		s.sendEvent(Event{Type: EvtAttachmentCleared})
		return nil

	case CmdVoiceStart:
		if err := s.recorder.Start(); err != nil {
			return err
		}
		s.sendEvent(Event{Type: EvtRecordingStarted})
		return nil

	case CmdVoiceChunk:
		return s.recorder.Append(cmd.Data)

	case CmdVoiceStop:
		return s.finishVoiceMessage(ctx)

	case CmdShareLocation:
		return s.shareLocation(ctx, cmd)

	case CmdCreatePoll:
		return s.createPoll(ctx, cmd)

	case CmdCastVote:
		if cmd.MessageID == "" || cmd.OptionID == "" {
			return fmt.Errorf("message_id and option_id are required")
		}
		return s.Messages.CastVote(ctx, &models.PollVote{
			RoomID:    s.activeRoom.ID,
			MessageID: cmd.MessageID,
			UID:       s.User.ID,
			OptionID:  cmd.OptionID,
		})

	case CmdReact:
		if cmd.MessageID == "" || cmd.Emoji == "" {
			return fmt.Errorf("message_id and emoji are required")
		}
		return s.Messages.React(ctx, s.activeRoom.ID, cmd.MessageID, cmd.Emoji)

	case CmdEditMessage:
		text := strings.TrimSpace(cmd.Text)
		if cmd.MessageID == "" || text == "" {
			return nil
		}
		return s.Messages.Edit(ctx, s.activeRoom.ID, cmd.MessageID, s.User.ID, text)

	case CmdDeleteMessage:
		if cmd.MessageID == "" {
			return nil
		}
		return s.Messages.Delete(ctx, s.activeRoom.ID, cmd.MessageID, s.User.ID)

	case CmdCallInvite:
		return s.initiateCall(ctx, cmd)

	case CmdCallAccept:
		return s.settleCall(ctx, cmd.SignalID, models.CallAccepted)

	case CmdCallDecline:
		return s.settleCall(ctx, cmd.SignalID, models.CallDeclined)

	case CmdPressStart:
		id := cmd.MessageID
		if id == "" {
			return nil
		}
		s.press.Press(id, func() {
			s.sendEvent(Event{Type: EvtLongPress, MessageID: id})
		})
		return nil

	case CmdPressEnd:
		s.press.Release(cmd.MessageID)
		return nil

	case CmdSignOut:
		s.sendEvent(Event{Type: EvtSignedOut})
		return errSignedOut

	case CmdPing:
		s.sendEvent(Event{Type: EvtPong})
		return nil

	default:
		// Ignore unknown types.
		return nil
	}
}

// confirmAttachment uploads the staged file and appends the media
// message. On upload failure the staged attachment is kept so confirm
// can be retried without re-picking the file.
func (s *Session) confirmAttachment(ctx context.Context) error {
	pending := s.composer.Pending()
	if pending == nil {
		return ErrNothingStaged
	}

	blob, err := s.composer.Open()
	if err != nil {
		return err
	}
	defer blob.Close()

	url, err := s.Uploader.Upload(ctx, s.BaseURL, pending.FileName, pending.ContentType, blob)
	if err != nil {
		return fmt.Errorf("upload failed: %v", err)
	}

	msg := &models.Message{
		RoomID:      s.activeRoom.ID,
		Type:        media.KindFor(pending.ContentType),
		URL:         url,
		FileName:    pending.FileName,
		ContentType: pending.ContentType,
		Caption:     pending.TrimmedCaption(),
		UID:         s.User.ID,
		Email:       s.User.Email,
	}
	if err := s.Messages.Append(ctx, msg); err != nil {
		return err
	}

	s.composer.Clear()
	s.sendEvent(Event{Type: EvtAttachmentCleared})
	return nil
}

// finishVoiceMessage packages the capture into one blob and sends it as
// an audio message. The spool is released on every path.
func (s *Session) finishVoiceMessage(ctx context.Context) error {
	blob, fileName, _, release, err := s.recorder.Stop()
	if err != nil {
		return err
	}
	defer release()

	s.sendEvent(Event{Type: EvtRecordingStopped})

	url, err := s.Uploader.Upload(ctx, s.BaseURL, fileName, voiceContentType, blob)
	if err != nil {
		return fmt.Errorf("failed to send voice message: %v", err)
	}

	return s.Messages.Append(ctx, &models.Message{
		RoomID:      s.activeRoom.ID,
		Type:        models.MessageAudio,
		URL:         url,
		FileName:    fileName,
		ContentType: voiceContentType,
		UID:         s.User.ID,
		Email:       s.User.Email,
	})
}

// shareLocation sends device coordinates when the client supplied them,
// otherwise falls back to the IP-based approximate lookup. Only a
// failure of both sources surfaces an error.
func (s *Session) shareLocation(ctx context.Context, cmd Command) error {
	loc := geo.Location{Latitude: cmd.Latitude, Longitude: cmd.Longitude}
	if !cmd.HasCoords {
		resolved, err := s.Locator.Lookup(ctx, s.ClientIP)
		if err != nil {
			return fmt.Errorf("unable to fetch location")
		}
		loc = resolved
	}

	return s.Messages.Append(ctx, &models.Message{
		RoomID:      s.activeRoom.ID,
		Type:        models.MessageLocation,
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		Approximate: loc.Approximate,
		UID:         s.User.ID,
		Email:       s.User.Email,
	})
}

func (s *Session) createPoll(ctx context.Context, cmd Command) error {
	question := strings.TrimSpace(cmd.Question)
	var options []models.PollOption
	for _, text := range cmd.Options {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		options = append(options, models.PollOption{ID: fmt.Sprintf("%d", len(options)), Text: text})
	}
	if question == "" || len(options) < 2 {
		return fmt.Errorf("a poll needs a question and at least two options")
	}

	return s.Messages.Append(ctx, &models.Message{
		RoomID:   s.activeRoom.ID,
		Type:     models.MessagePoll,
		Question: question,
		Options:  options,
		UID:      s.User.ID,
		Email:    s.User.Email,
	})
}

// initiateCall creates the ringing signal and opens the caller's call
// surface immediately.
func (s *Session) initiateCall(ctx context.Context, cmd Command) error {
	kind := models.CallKind(cmd.Kind)
	if kind != models.CallVideo {
		kind = models.CallAudio
	}

	to := ""
	if !s.activeRoom.IsGroup {
		to = models.DirectPeer(s.activeRoom.ID, s.User.ID)
	}

	sig := &models.CallSignal{
		RoomID: s.activeRoom.ID,
		From:   s.User.ID,
		To:     to,
		Kind:   kind,
	}
	if err := s.Calls.Create(ctx, sig); err != nil {
		return err
	}

	return s.openCallSurface(sig.RoomID, kind)
}

// settleCall accepts or declines the prompted signal. Accept opens the
// call surface with the signal's original kind; decline only dismisses.
func (s *Session) settleCall(ctx context.Context, signalID string, status models.CallStatus) error {
	sig := s.incoming
	if sig == nil || (signalID != "" && sig.ID != signalID) {
		return fmt.Errorf("no incoming call to answer")
	}
	s.incoming = nil

	if err := s.Calls.SetStatus(ctx, sig.ID, status); err != nil {
		if errors.Is(err, store.ErrSignalSettled) {
			s.sendEvent(Event{Type: EvtCallDismissed, Call: sig})
			return nil
		}
		return err
	}

	if status != models.CallAccepted {
		s.sendEvent(Event{Type: EvtCallDismissed, Call: sig})
		return nil
	}
	return s.openCallSurface(sig.RoomID, sig.Kind)
}

func (s *Session) openCallSurface(roomID string, kind models.CallKind) error {
	token, err := s.Tokens.Issue(roomID, s.User.ID)
	if err != nil {
		return fmt.Errorf("failed to create call token")
	}
	s.sendEvent(Event{Type: EvtCallOpen, CallOpen: &CallOpen{
		RoomID: roomID,
		Kind:   string(kind),
		Token:  token,
		WSURL:  s.CallWSURL,
	}})
	return nil
}

// handleRoomEvent forwards one change from the active room's stream,
// dropping anything from a stale subscription.
func (s *Session) handleRoomEvent(evt realtime.Event) {
	if s.activeRoom == nil || evt.Topic != realtime.RoomTopic(s.activeRoom.ID) {
		return
	}

	switch evt.Kind {
	case store.ChangeMessageCreated, store.ChangeMessageUpdated, store.ChangeMessageDeleted:
		var m models.Message
		if err := json.Unmarshal(evt.Data, &m); err != nil {
			return
		}
		s.sendEvent(Event{Type: evt.Kind, Message: &m})
	case store.ChangeVoteCast:
		var v models.PollVote
		if err := json.Unmarshal(evt.Data, &v); err != nil {
			return
		}
		s.sendEvent(Event{Type: EvtVoteCast, Vote: &v})
	}
}

func (s *Session) handleRosterEvent(evt realtime.Event) {
	if evt.Kind != store.ChangeProfileUpdated {
		return
	}
	var p models.UserProfile
	if err := json.Unmarshal(evt.Data, &p); err != nil {
		return
	}
	s.sendEvent(Event{Type: EvtProfileUpdated, Profile: &p})
}

// handleCallEvent raises the incoming-call prompt for ringing signals
// addressed to this user and forwards status changes on signals this
// user is part of.
func (s *Session) handleCallEvent(evt realtime.Event) {
	var sig models.CallSignal
	if err := json.Unmarshal(evt.Data, &sig); err != nil {
		return
	}

	switch evt.Kind {
	case store.ChangeCallCreated:
		if sig.Status == models.CallRinging && sig.To == s.User.ID && sig.From != s.User.ID {
			s.incoming = &sig
			s.sendEvent(Event{Type: EvtIncomingCall, Call: &sig})
		}
	case store.ChangeCallUpdated:
		if sig.From == s.User.ID || sig.To == s.User.ID {
			if s.incoming != nil && s.incoming.ID == sig.ID {
				s.incoming = nil
			}
			s.sendEvent(Event{Type: EvtCallUpdated, Call: &sig})
		}
	}
}

// teardown runs on every exit path: no dangling subscriptions, no held
// capture device, no leftover spool files.
func (s *Session) teardown() {
	for _, unsub := range []func(){s.roomUnsub, s.rosterUnsub, s.callUnsub} {
		if unsub != nil {
			unsub()
		}
	}
	s.roomUnsub, s.rosterUnsub, s.callUnsub = nil, nil, nil

	s.recorder.Abort()
	s.composer.Cancel()
	s.press.Cancel()
	s.state = Unauthenticated
}

func (s *Session) sendEvent(evt Event) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.Conn.WriteJSON(evt); err != nil {
		log.Printf("error writing session event: %v", err)
	}
}

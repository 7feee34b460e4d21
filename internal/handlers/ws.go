package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/padmamangal/padmamangal-backend/internal/chat"
	"github.com/padmamangal/padmamangal-backend/internal/geo"
	"github.com/padmamangal/padmamangal-backend/internal/media"
	"github.com/padmamangal/padmamangal-backend/internal/models"
	"github.com/padmamangal/padmamangal-backend/internal/realtime"
	"github.com/padmamangal/padmamangal-backend/internal/services"
	"github.com/padmamangal/padmamangal-backend/pkg/clientip"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin policy is enforced by the CORS layer in front.
		return true
	},
}

const socketReadLimit = 10 << 20 // attachment bytes travel inline

// ChatSocket authenticates the WebSocket upgrade and runs one chat
// session per connection.
type ChatSocket struct {
	Accounts *services.Accounts
	Sessions *services.Sessions

	Bus      realtime.Bus
	Rooms    chat.RoomStore
	Messages chat.MessageStore
	Profiles chat.ProfileStore
	Calls    chat.CallStore
	Tokens   chat.TokenIssuer
	Uploader media.Uploader
	Locator  geo.Locator

	DefaultHost string
	CallWSURL   string
	SpoolDir    string
}

func (h *ChatSocket) Handle(w http.ResponseWriter, r *http.Request) {
	token := RequestToken(r)
	if token == "" {
		http.Error(w, "missing session token", http.StatusUnauthorized)
		return
	}

	userID, ok, err := h.Sessions.Validate(r.Context(), token)
	if err != nil || !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	account, err := h.Accounts.GetByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "account not found", http.StatusUnauthorized)
		return
	}

	baseURL := media.RequestBase(r, h.DefaultHost)
	clientIP := clientip.RealClientIP(r)

	conn, err := chatUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := chat.NewSession(chat.Deps{
		User: models.UserProfile{
			ID:          account.ID.String(),
			Email:       account.Email,
			DisplayName: account.DisplayName,
			PhotoURL:    account.PhotoURL,
			PhoneNumber: account.PhoneNumber,
		},
		Conn:      conn,
		Bus:       h.Bus,
		Rooms:     h.Rooms,
		Messages:  h.Messages,
		Profiles:  h.Profiles,
		Calls:     h.Calls,
		Tokens:    h.Tokens,
		Uploader:  h.Uploader,
		Locator:   h.Locator,
		BaseURL:   baseURL,
		CallWSURL: h.CallWSURL,
		ClientIP:  clientIP,
		SpoolDir:  h.SpoolDir,
	})

	// Reader goroutine feeds the session's command loop; the loop owns
	// all session state.
	go func() {
		defer cancel()
		conn.SetReadLimit(socketReadLimit)
		_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		})

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(90 * time.Second))

			var cmd chat.Command
			if err := json.Unmarshal(data, &cmd); err != nil {
				continue
			}
			session.Submit(cmd)
		}
	}()

	// Run returns nil only on explicit sign-out; then the token dies too.
	if err := session.Run(ctx); err == nil {
		if err := h.Sessions.Invalidate(context.Background(), token); err != nil {
			log.Printf("error invalidating session on sign-out: %v", err)
		}
	}
}

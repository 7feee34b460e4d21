package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/padmamangal/padmamangal-backend/internal/chat"
	"github.com/padmamangal/padmamangal-backend/internal/models"
	"github.com/padmamangal/padmamangal-backend/internal/services"
)

const (
	historyDefaultLimit = 50
	historyMaxLimit     = 200
)

type HistoryResponse struct {
	Messages []models.Message  `json:"messages"`
	Votes    []models.PollVote `json:"votes,omitempty"`
	HasMore  bool              `json:"has_more"`
}

// History serves older pages of a room's backlog for scroll-back, newest
// page first by `before` cursor, each page oldest-first.
type History struct {
	Sessions *services.Sessions
	Messages chat.MessageStore
}

func (h *History) Handle(w http.ResponseWriter, r *http.Request) {
	token := RequestToken(r)
	if token == "" {
		http.Error(w, "missing session token", http.StatusUnauthorized)
		return
	}
	if _, ok, err := h.Sessions.Validate(r.Context(), token); err != nil || !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	roomID := r.URL.Query().Get("room_id")
	if roomID == "" {
		http.Error(w, "room_id is required", http.StatusBadRequest)
		return
	}

	limit := int64(historyDefaultLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > historyMaxLimit {
		limit = historyMaxLimit
	}

	var before *time.Time
	if raw := r.URL.Query().Get("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			http.Error(w, "before must be RFC3339", http.StatusBadRequest)
			return
		}
		before = &t
	}

	messages, hasMore, err := h.Messages.History(r.Context(), roomID, before, limit)
	if err != nil {
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	var votes []models.PollVote
	for i := range messages {
		if messages[i].Type != models.MessagePoll {
			continue
		}
		if vs, err := h.Messages.Votes(r.Context(), messages[i].ID); err == nil {
			votes = append(votes, vs...)
		}
	}

	writeJSON(w, http.StatusOK, HistoryResponse{Messages: messages, Votes: votes, HasMore: hasMore})
}

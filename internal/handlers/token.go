package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/padmamangal/padmamangal-backend/internal/calls"
)

type TokenRequest struct {
	RoomName string `json:"roomName"`
	Identity string `json:"identity"`
}

type TokenResponse struct {
	Token string `json:"token,omitempty"`
	Error string `json:"error,omitempty"`
}

// CallToken mints call-transport access tokens for a room/identity pair.
type CallToken struct {
	Issuer *calls.TokenIssuer
}

func (h *CallToken) Handle(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, TokenResponse{Error: "invalid request body"})
		return
	}

	req.RoomName = strings.TrimSpace(req.RoomName)
	req.Identity = strings.TrimSpace(req.Identity)
	if req.RoomName == "" || req.Identity == "" {
		writeJSON(w, http.StatusBadRequest, TokenResponse{Error: "roomName and identity required"})
		return
	}

	token, err := h.Issuer.Issue(req.RoomName, req.Identity)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, TokenResponse{Error: "could not create token"})
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

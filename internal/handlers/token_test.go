package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padmamangal/padmamangal-backend/internal/calls"
)

func TestCallTokenHandler(t *testing.T) {
	issuer := calls.NewTokenIssuer("devkey", "secret")
	h := &CallToken{Issuer: issuer}

	req := httptest.NewRequest(http.MethodPost, "/call-token",
		strings.NewReader(`{"roomName":"padmamangal-group","identity":"alice"}`))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	identity, grant, err := issuer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity)
	assert.Equal(t, "padmamangal-group", grant.Room)
}

func TestCallTokenRequiresFields(t *testing.T) {
	h := &CallToken{Issuer: calls.NewTokenIssuer("devkey", "secret")}

	for _, body := range []string{
		`{"roomName":"","identity":"alice"}`,
		`{"roomName":"room","identity":"  "}`,
		`{}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/call-token", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Handle(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
		var resp TokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "roomName and identity required", resp.Error)
	}
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/padmamangal/padmamangal-backend/internal/handlers"
)

// Handlers bundles every HTTP surface the router mounts.
type Handlers struct {
	Auth      *handlers.Auth
	Upload    *handlers.Upload
	CallToken *handlers.CallToken
	History   *handlers.History
	Socket    *handlers.ChatSocket

	// UploadDir serves locally stored attachments; empty when uploads go
	// to Cloudinary instead.
	UploadDir string
}

func SetupRoutes(r *chi.Mux, h *Handlers) {
	// Auth routes (Postgres accounts + Redis sessions)
	r.Post("/api/auth/signup", h.Auth.Signup)
	r.Post("/api/auth/signin", h.Auth.Signin)
	r.Post("/api/auth/signout", h.Auth.Signout)
	r.Get("/api/auth/me", h.Auth.Me)

	// File upload
	r.Post("/upload", h.Upload.Handle)
	r.Post("/api/upload", h.Upload.Handle)

	// Call-transport token (legacy path kept for the deployed client)
	r.Post("/livekit-token", h.CallToken.Handle)
	r.Post("/api/call-token", h.CallToken.Handle)

	// Chat history pagination (MongoDB backlog)
	r.Get("/api/chat/history", h.History.Handle)

	// WebSocket endpoint for the realtime chat session
	r.Get("/ws/chat", h.Socket.Handle)

	// Locally stored attachments
	if h.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}
}

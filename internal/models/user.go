package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is the Postgres identity record: credentials plus the
// identity-sourced display fields.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile is the Mongo user document, keyed by the account id.
// Created on first authenticated session; later sessions merge only the
// identity-sourced fields and never wipe independently-edited ones.
type UserProfile struct {
	ID          string    `bson:"_id" json:"id"`
	Email       string    `bson:"email,omitempty" json:"email,omitempty"`
	DisplayName string    `bson:"display_name,omitempty" json:"display_name,omitempty"`
	PhotoURL    string    `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	PhoneNumber string    `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	CreatedAt   time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

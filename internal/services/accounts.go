package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/padmamangal/padmamangal-backend/internal/models"
	"github.com/padmamangal/padmamangal-backend/pkg/utils"
)

// Accounts manages identity records in PostgreSQL.
type Accounts struct {
	db *sql.DB
}

func NewAccounts(db *sql.DB) *Accounts {
	return &Accounts{db: db}
}

// SignUp creates a new account. Errors carry provider-style codes the
// frontend maps to readable text.
func (a *Accounts) SignUp(ctx context.Context, email, password, displayName, phoneNumber string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return nil, &AuthError{Code: CodeInvalidEmail}
	}
	if len(password) < 6 {
		return nil, &AuthError{Code: CodeWeakPassword}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	acc := &models.Account{
		Email:       email,
		DisplayName: strings.TrimSpace(displayName),
		PhoneNumber: strings.TrimSpace(phoneNumber),
	}
	err = a.db.QueryRowContext(ctx, `
		INSERT INTO accounts (email, password_hash, display_name, phone_number)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		RETURNING id, created_at
	`, email, hash, acc.DisplayName, acc.PhoneNumber).Scan(&acc.ID, &acc.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, &AuthError{Code: CodeEmailAlreadyInUse}
		}
		return nil, err
	}

	return acc, nil
}

// SignIn verifies credentials and returns the account.
func (a *Accounts) SignIn(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return nil, &AuthError{Code: CodeInvalidEmail}
	}

	var (
		acc      models.Account
		hash     string
		isActive bool
		display  sql.NullString
		photo    sql.NullString
		phone    sql.NullString
	)
	err := a.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, display_name, photo_url, phone_number, created_at, is_active
		FROM accounts WHERE LOWER(email) = $1
	`, email).Scan(&acc.ID, &acc.Email, &hash, &display, &photo, &phone, &acc.CreatedAt, &isActive)
	if err == sql.ErrNoRows {
		return nil, &AuthError{Code: CodeUserNotFound}
	}
	if err != nil {
		return nil, err
	}
	if !isActive {
		return nil, &AuthError{Code: CodeUserDisabled}
	}

	ok, err := utils.VerifyPassword(password, hash)
	if err != nil || !ok {
		return nil, &AuthError{Code: CodeWrongPassword}
	}

	acc.DisplayName = display.String
	acc.PhotoURL = photo.String
	acc.PhoneNumber = phone.String
	return &acc, nil
}

// GetByID loads an account for an authenticated session.
func (a *Accounts) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var (
		acc     models.Account
		display sql.NullString
		photo   sql.NullString
		phone   sql.NullString
	)
	err := a.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, photo_url, phone_number, created_at
		FROM accounts WHERE id = $1 AND is_active = TRUE
	`, id).Scan(&acc.ID, &acc.Email, &display, &photo, &phone, &acc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, &AuthError{Code: CodeUserNotFound}
	}
	if err != nil {
		return nil, err
	}

	acc.DisplayName = display.String
	acc.PhotoURL = photo.String
	acc.PhoneNumber = phone.String
	return &acc, nil
}

func validEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

package calls

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued call-session token stays valid.
const TokenTTL = time.Hour

// VideoGrant mirrors the grant shape the call transport expects inside
// its access tokens.
type VideoGrant struct {
	RoomJoin     bool   `json:"roomJoin"`
	Room         string `json:"room"`
	CanPublish   bool   `json:"canPublish"`
	CanSubscribe bool   `json:"canSubscribe"`
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Video VideoGrant `json:"video"`
}

// TokenIssuer signs short-lived access tokens for the realtime call
// transport given a room name and participant identity.
type TokenIssuer struct {
	apiKey    string
	apiSecret string
}

func NewTokenIssuer(apiKey, apiSecret string) *TokenIssuer {
	return &TokenIssuer{apiKey: apiKey, apiSecret: apiSecret}
}

// Issue creates an HS256 token granting join/publish/subscribe on one room.
func (t *TokenIssuer) Issue(roomName, identity string) (string, error) {
	if roomName == "" || identity == "" {
		return "", errors.New("roomName and identity are required")
	}

	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.apiKey,
			Subject:   identity,
			ID:        identity,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		Video: VideoGrant{
			RoomJoin:     true,
			Room:         roomName,
			CanPublish:   true,
			CanSubscribe: true,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.apiSecret))
}

// Verify parses an issued token and returns its grant. Used by tests and
// by the transport-side bridge.
func (t *TokenIssuer) Verify(raw string) (identity string, grant VideoGrant, err error) {
	token, err := jwt.ParseWithClaims(raw, &tokenClaims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(t.apiSecret), nil
	})
	if err != nil {
		return "", VideoGrant{}, err
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return "", VideoGrant{}, errors.New("invalid token")
	}
	return claims.Subject, claims.Video, nil
}

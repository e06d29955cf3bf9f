package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AuthClaims is the claim set carried by issued tokens. The subject holds
// the user's email.
type AuthClaims struct {
	jwt.RegisteredClaims
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Session is the client-side projection of the current user. Every field is
// filled from the token subject, which the server sets to the user's email.
type Session struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func SessionFromSubject(subject string) *Session {
	return &Session{ID: subject, Username: subject, Email: subject}
}

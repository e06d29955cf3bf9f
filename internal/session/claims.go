package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-task-tracker/internal/model"
)

// Claims is the part of the token payload the client cares about.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Decode reads the payload of a compact token without verifying its signature.
// Only the middle segment is looked at; the header may be anything. A token
// that does not split into three segments, whose payload is not base64url JSON,
// or which lacks sub or exp is malformed.
func Decode(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("%w: %w", model.ErrTokenMalformed, jwt.ErrTokenMalformed)
	}

	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", model.ErrTokenMalformed, err)
	}

	mapClaims := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &mapClaims); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", model.ErrTokenMalformed, err)
	}

	subject, err := mapClaims.GetSubject()
	if err != nil || subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", model.ErrTokenMalformed)
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, fmt.Errorf("%w: missing expiry", model.ErrTokenMalformed)
	}

	return Claims{Subject: subject, ExpiresAt: exp.Time}, nil
}

// Expired compares at millisecond precision; a token is still valid at the
// exact millisecond of its expiry.
func (c Claims) Expired(now time.Time) bool {
	return now.UnixMilli() > c.ExpiresAt.UnixMilli()
}

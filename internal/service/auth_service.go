package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"go-task-tracker/internal/model"
	"go-task-tracker/pkg/apierror"
)

type UserStore interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u *model.User) error
}

type AuthService struct {
	users      UserStore
	jwtSecret  []byte
	ttl        time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(users UserStore, jwtSecret string, ttl time.Duration, bcryptCost int) (*AuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		ttl:        ttl,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return model.User{}, validationFailed(err)
	}

	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return model.User{}, err
	}
	if taken {
		slog.Warn("registration with existing email", "email", req.Email)
		return model.User{}, duplicateUser("email", req.Email)
	}

	taken, err = s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return model.User{}, err
	}
	if taken {
		slog.Warn("registration with existing username", "username", req.Username)
		return model.User{}, duplicateUser("username", req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, model.ErrUserAlreadyExists) {
			return model.User{}, duplicateUser("email", req.Email)
		}
		return model.User{}, err
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login checks the credentials and issues a token whose subject is the
// user's email.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return model.LoginResponse{}, validationFailed(err)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.LoginResponse{}, badCredentials()
	}
	if err != nil {
		return model.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.Debug("password mismatch", "user_id", user.ID)
		return model.LoginResponse{}, badCredentials()
	}

	token, err := s.issueToken(user)
	if err != nil {
		return model.LoginResponse{}, err
	}

	return model.LoginResponse{Token: token, ExpiresIn: s.ttl.Milliseconds()}, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*model.AuthClaims, error) {
	claims := &model.AuthClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) { return s.jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, apierror.Wrap(model.ErrTokenExpired, "FORBIDDEN", "JWT expired", "The JWT token has expired", http.StatusForbidden)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, apierror.Wrap(model.ErrTokenMalformed, "FORBIDDEN", "JWT signature is invalid", "The JWT signature is invalid", http.StatusForbidden)
	case err != nil:
		return nil, apierror.Wrap(model.ErrTokenMalformed, "FORBIDDEN", "JWT is malformed", "The JWT token is malformed or invalid", http.StatusForbidden)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return nil, apierror.Wrap(model.ErrTokenMalformed, "FORBIDDEN", "JWT has no subject", "The JWT token is malformed or invalid", http.StatusForbidden)
	}

	return claims, nil
}

// Authenticate resolves a bearer token to the user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (model.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, apierror.Wrap(model.ErrUserNotFound, "FORBIDDEN", "User not found for token subject", "The requested user does not exist", http.StatusForbidden)
	}
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

func (s *AuthService) issueToken(user model.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, model.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func validationFailed(err error) error {
	return apierror.Wrap(model.ErrInvalidInput, "VALIDATION_FAILED", "Validation failed", err.Error(), http.StatusBadRequest)
}

func duplicateUser(field string, value string) error {
	return apierror.Wrap(model.ErrUserAlreadyExists, "ALREADY_EXISTS",
		fmt.Sprintf("User already exists with %s: %s", field, value),
		"A user with this email/username already exists", http.StatusConflict)
}

func badCredentials() error {
	return apierror.Wrap(model.ErrInvalidCredentials, "UNAUTHORIZED", "Bad credentials",
		"The username or password is incorrect", http.StatusUnauthorized)
}

// Package auth issues and resolves the bearer tokens that guard the API.
//
// A bearer is an HS256 JWT whose jti names a persisted access token record.
// The signature only proves the string came from this service; the record
// decides whether it is still valid, so deleting the record revokes it.
package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"taskapi/internal/domain/errors"
	"taskapi/internal/domain/models"
)

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

type TokenStore interface {
	CreateToken(ctx context.Context, token *models.AccessToken) error
	GetToken(ctx context.Context, id string) (*models.AccessToken, error)
	TouchToken(ctx context.Context, id string, usedAt time.Time) error
	DeleteToken(ctx context.Context, id string) error
}

type Issuer struct {
	users  UserStore
	tokens TokenStore
	key    []byte
	log    zerolog.Logger
	now    func() time.Time
}

func NewIssuer(users UserStore, tokens TokenStore, signingKey string, log zerolog.Logger) *Issuer {
	return &Issuer{
		users:  users,
		tokens: tokens,
		key:    []byte(signingKey),
		log:    log.With().Str("component", "auth").Logger(),
		now:    time.Now,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareDummy burns one bcrypt comparison so that an unknown email costs
// the same as a wrong password.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Login checks the credentials and mints a new token for deviceName. Earlier
// tokens of the same device stay valid.
func (i *Issuer) Login(ctx context.Context, email, password, deviceName string) (string, error) {
	user, err := i.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !stderrors.Is(err, errors.ErrUserNotFound) {
			return "", err
		}
		compareDummy(password)
		i.log.Info().Str("email", email).Msg("login rejected: unknown email")
		return "", errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		i.log.Info().Int64("user_id", user.ID).Msg("login rejected: wrong password")
		return "", errors.ErrInvalidCredentials
	}

	token := &models.AccessToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Name:      deviceName,
		CreatedAt: i.now().UTC(),
	}
	if err := i.tokens.CreateToken(ctx, token); err != nil {
		return "", fmt.Errorf("persist access token: %w", err)
	}

	claims := jwt.RegisteredClaims{
		ID:       token.ID,
		Subject:  strconv.FormatInt(user.ID, 10),
		IssuedAt: jwt.NewNumericDate(token.CreatedAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	i.log.Info().
		Int64("user_id", user.ID).
		Str("token_id", token.ID).
		Str("device", deviceName).
		Msg("access token issued")
	return signed, nil
}

// Authenticate resolves a bearer string to its user and token record.
func (i *Issuer) Authenticate(ctx context.Context, bearer string) (*models.User, *models.AccessToken, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(bearer, claims, func(*jwt.Token) (any, error) {
		return i.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || claims.ID == "" {
		return nil, nil, errors.ErrUnauthenticated
	}

	token, err := i.tokens.GetToken(ctx, claims.ID)
	if err != nil {
		if stderrors.Is(err, errors.ErrTokenNotFound) {
			return nil, nil, errors.ErrUnauthenticated
		}
		return nil, nil, err
	}
	if strconv.FormatInt(token.UserID, 10) != claims.Subject {
		return nil, nil, errors.ErrUnauthenticated
	}

	user, err := i.users.GetUserByID(ctx, token.UserID)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return nil, nil, errors.ErrUnauthenticated
		}
		return nil, nil, err
	}

	usedAt := i.now().UTC()
	if err := i.tokens.TouchToken(ctx, token.ID, usedAt); err != nil {
		i.log.Warn().Err(err).Str("token_id", token.ID).Msg("failed to stamp token usage")
	} else {
		token.LastUsedAt = &usedAt
	}
	return user, token, nil
}

// Revoke deletes the token record; the bearer stops authenticating at once.
func (i *Issuer) Revoke(ctx context.Context, tokenID string) error {
	if err := i.tokens.DeleteToken(ctx, tokenID); err != nil {
		return err
	}
	i.log.Info().Str("token_id", tokenID).Msg("access token revoked")
	return nil
}

// HashPassword produces the bcrypt hash stored in the credential store.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

package auth

import (
	"context"
	"fmt"
	"strings"

	"taskapi/internal/domain/errors"
	"taskapi/internal/domain/models"
)

type UserCreator interface {
	CreateUser(ctx context.Context, user *models.User) error
}

// RegisterUser stores a new user with a bcrypt hash of password. An empty
// name defaults to the local part of the email.
func RegisterUser(ctx context.Context, users UserCreator, name, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", errors.ErrInvalidCredentials)
	}
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: name, Email: email, Password: hash}
	if err := users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

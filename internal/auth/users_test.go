package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskapi/internal/domain/errors"
	storage "taskapi/repository/inmemory"
)

func TestRegisterUser(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		password string
		want     struct {
			err      error
			userName string
		}
	}{
		{
			name:     "explicit name",
			userName: "Ana",
			email:    "ana@mail.com",
			password: "secret",
			want: struct {
				err      error
				userName string
			}{userName: "Ana"},
		},
		{
			name:     "name from email",
			email:    " bob@mail.com ",
			password: "secret",
			want: struct {
				err      error
				userName string
			}{userName: "bob"},
		},
		{
			name:     "missing password",
			email:    "carl@mail.com",
			password: "",
			want: struct {
				err      error
				userName string
			}{err: errors.ErrInvalidCredentials},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewStorage()

			user, err := RegisterUser(context.Background(), store, tt.userName, tt.email, tt.password)
			if tt.want.err != nil {
				assert.ErrorIs(t, err, tt.want.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.userName, user.Name)
			assert.NotZero(t, user.ID)
			assert.NotEqual(t, tt.password, user.Password)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(tt.password)))
		})
	}
}

func TestRegisterUserDuplicate(t *testing.T) {
	store := storage.NewStorage()
	ctx := context.Background()

	_, err := RegisterUser(ctx, store, "", "dup@mail.com", "secret")
	require.NoError(t, err)

	_, err = RegisterUser(ctx, store, "", "dup@mail.com", "other")
	assert.ErrorIs(t, err, errors.ErrUserAlreadyExists)
}

package handlers

import (
	"moontech/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T, db *memDB) *Auth {
	t.Helper()
	conf := &config.Config{}
	conf.Jwt.Secret = "test-signing-secret"
	conf.Jwt.ExpireHours = 1
	auth, err := NewAuth(conf)
	require.NoError(t, err)
	auth.SetDatabase(db)
	auth.SetLogger(nopLogger{})
	return auth
}

func TestAuthRequiresSecret(t *testing.T) {
	conf := &config.Config{}
	_, err := NewAuth(conf)
	assert.Error(t, err)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newMemDB()
	auth := newTestAuth(t, db)

	user, err := auth.Register(&RegisterRequest{
		Email:    "buyer@example.com",
		Username: "buyer",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.UserId)
	assert.NotEqual(t, "secret123", user.Password, "password must be stored hashed")

	token, err := auth.Login("buyer@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.UserId, claims.UserId)
	assert.Equal(t, "buyer@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newMemDB()
	auth := newTestAuth(t, db)

	_, err := auth.Register(&RegisterRequest{Email: "buyer@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = auth.Register(&RegisterRequest{Email: "buyer@example.com", Password: "another"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRegisterMissingFields(t *testing.T) {
	auth := newTestAuth(t, newMemDB())

	_, err := auth.Register(&RegisterRequest{Email: "", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = auth.Register(&RegisterRequest{Email: "buyer@example.com", Password: ""})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newMemDB()
	auth := newTestAuth(t, db)

	_, err := auth.Register(&RegisterRequest{Email: "buyer@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = auth.Login("buyer@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = auth.Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	auth := newTestAuth(t, newMemDB())

	_, err := auth.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

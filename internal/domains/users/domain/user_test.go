package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

func TestNewUser_HashesPasswordAndNormalizesEmail(t *testing.T) {
	u, err := NewUser("u-1", "  Alice@Example.COM ", "Alice", identity.RoleSeller, "secret")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", u.Email)
	require.NotEqual(t, "secret", u.PasswordHash)
	require.True(t, u.CheckPassword("secret"))
	require.False(t, u.CheckPassword("wrong"))
	require.Equal(t, identity.Identity{Email: "alice@example.com", Role: identity.RoleSeller}, u.Identity())
}

func TestNewUser_Validation(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		userName string
		role     identity.Role
		password string
		want     error
	}{
		{"email", "alice", "Alice", identity.RoleBuyer, "secret", ErrInvalidEmail},
		{"name", "a@example.com", " ", identity.RoleBuyer, "secret", ErrEmptyName},
		{"role", "a@example.com", "Alice", identity.Role("admin"), "secret", ErrInvalidRole},
		{"empty password", "a@example.com", "Alice", identity.RoleBuyer, "", ErrEmptyPassword},
		{"weak password", "a@example.com", "Alice", identity.RoleBuyer, "abc", ErrWeakPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser("u-1", tc.email, tc.userName, tc.role, tc.password)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: now.Add(time.Hour)}
	require.False(t, s.Expired(now))
	require.True(t, s.Expired(now.Add(time.Hour)))
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ops-portal.com/ops-portal/internal/constants"
	"ops-portal.com/ops-portal/internal/policy"
)

func TestIssueAndParse(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("super-secret", time.Hour)
	actor := policy.Actor{ID: "analyst-1", Role: constants.RoleResponsible}

	tok, err := m.Issue(actor)
	require.NoError(t, err)

	got, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("secret", -time.Second)
	tok, err := m.Issue(policy.Actor{ID: "u1", Role: constants.RoleAnalyst})
	require.NoError(t, err)

	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenManager("right-secret", time.Hour).Issue(policy.Actor{ID: "u2", Role: constants.RoleAnalyst})
	require.NoError(t, err)

	_, err = NewTokenManager("wrong-secret", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager("k", time.Hour).Parse("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_UnknownRole(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		AnalystID:        "u3",
		Role:             constants.Role("root"),
	})
	tok, err := token.SignedString(secret)
	require.NoError(t, err)

	_, err = NewTokenManager("k", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssue_RejectsInvalidActor(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager("k", time.Hour).Issue(policy.Actor{ID: "", Role: constants.RoleAnalyst})
	assert.Error(t, err)

	_, err = NewTokenManager("k", time.Hour).Issue(policy.Actor{ID: "x", Role: "guest"})
	assert.Error(t, err)
}

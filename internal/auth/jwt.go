package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ops-portal.com/ops-portal/internal/constants"
	"ops-portal.com/ops-portal/internal/policy"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims carries the identity the core trusts: who the caller is and which
// role they act with.
type Claims struct {
	jwt.RegisteredClaims
	AnalystID string         `json:"analyst_id"`
	Role      constants.Role `json:"role"`
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *TokenManager) Issue(actor policy.Actor) (string, error) {
	if actor.ID == "" || !actor.Role.Valid() {
		return "", fmt.Errorf("cannot issue token for analyst %q with role %q", actor.ID, actor.Role)
	}

	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		AnalystID: actor.ID,
		Role:      actor.Role,
	})

	return token.SignedString(m.secret)
}

func (m *TokenManager) Parse(tokenString string) (policy.Actor, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return policy.Actor{}, ErrTokenExpired
		}
		return policy.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.AnalystID == "" || !claims.Role.Valid() {
		return policy.Actor{}, ErrInvalidToken
	}

	return policy.Actor{ID: claims.AnalystID, Role: claims.Role}, nil
}

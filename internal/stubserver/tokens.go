package stubserver

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/felixgeelhaar/portal/internal/domain"
)

// DefaultTokenTTL matches the backend's seven day tokens.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims are the bearer token claims: the user id and type.
type Claims struct {
	jwt.RegisteredClaims

	UserID   string          `json:"user_id"`
	UserType domain.UserType `json:"user_type"`
}

var (
	errTokenExpired = errors.New("token expired")
	errTokenInvalid = errors.New("invalid token")
)

// TokenIssuer signs and validates HS256 bearer tokens.
type TokenIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenIssuer creates an issuer. A zero ttl uses DefaultTokenTTL.
func NewTokenIssuer(key []byte, ttl time.Duration) *TokenIssuer {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{key: key, ttl: ttl, now: time.Now}
}

// Issue signs a token for the user.
func (ti *TokenIssuer) Issue(u domain.User) (string, error) {
	now := ti.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
		UserID:   u.ID,
		UserType: u.UserType,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.key)
}

// Validate parses a token and checks its signature and expiry.
func (ti *TokenIssuer) Validate(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errTokenInvalid
		}
		return ti.key, nil
	}, jwt.WithTimeFunc(ti.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errTokenExpired
		}
		return nil, errTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, errTokenInvalid
	}
	return claims, nil
}

package jwtutil

import (
	"errors"
	"time"

	"voltwise-api/internal/model"
	"voltwise-api/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned when the token signature is valid but the
	// expiry claim has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers malformed, forged and otherwise unusable tokens
	// uniformly, so callers cannot tell the failure modes apart.
	ErrTokenInvalid = errors.New("token invalid")
)

// SessionClaims is the verified identity carried by a session token. Handlers
// must only ever obtain it from Issuer.Validate; it is never synthesized from
// request input.
type SessionClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Tier   string `json:"tier"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens. Constructed once in main from
// config; the signing key lives only here.
type Issuer struct {
	signingKey []byte
	expiration time.Duration
}

// NewIssuer creates an Issuer from the JWT configuration section.
func NewIssuer(cfg *config.JWTConfig) *Issuer {
	return &Issuer{
		signingKey: []byte(cfg.SigningKey),
		expiration: time.Duration(cfg.ExpirationHours) * time.Hour,
	}
}

// Generate creates a signed session token binding the user's id, email and
// subscription tier. Tokens always carry an expiry.
func (i *Issuer) Generate(user *model.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Tier:   user.SubscriptionTier,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.signingKey)
}

// Validate verifies the token signature and expiry and returns the embedded
// claims. Only HS256 is accepted.
func (i *Issuer) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return i.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

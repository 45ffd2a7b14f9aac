package session

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Mohan-b-dev/std-dash/core"
)

const audience = "std-dash"

var (
	ErrInvalidToken = errors.New("invalid or expired session token")

	signingMethod = jwt.SigningMethodHS256
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role,omitempty"`
}

// TokenIssuer signs and parses session tokens.
type TokenIssuer struct {
	issuer string
	key    []byte
	ttl    time.Duration
	now    func() time.Time // mockable
}

func NewTokenIssuer(conf *core.Config) *TokenIssuer {
	return &TokenIssuer{
		issuer: conf.AppName,
		key:    []byte(conf.SecretKey),
		ttl:    conf.Server.JWTExpirationDelta,
		now:    time.Now,
	}
}

// Issue opens a new Session for acc.
func (ti *TokenIssuer) Issue(acc Account) (Session, error) {
	now := ti.now()
	exp := now.Add(ti.ttl)
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    ti.issuer,
			Subject:   acc.UID,
			Audience:  audience,
			ExpiresAt: exp.Unix(),
			IssuedAt:  now.Unix(),
		},
		Email: acc.Email,
		Role:  acc.Role,
	}

	token, err := jwt.NewWithClaims(signingMethod, claims).SignedString(ti.key)
	if err != nil {
		return Session{}, errors.Wrap(err, "signing token")
	}
	return Session{
		UID:       acc.UID,
		Email:     acc.Email,
		Role:      acc.Role,
		Token:     token,
		TokenID:   claims.Id,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0).UTC(),
	}, nil
}

// Parse verifies the token signature and expiry and returns the Session it carries.
func (ti *TokenIssuer) Parse(token string) (Session, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != signingMethod.Alg() {
			return nil, ErrInvalidToken
		}
		return ti.key, nil
	})
	if err != nil || !parsed.Valid {
		return Session{}, ErrInvalidToken
	}
	if !claims.VerifyAudience(audience, true) || !claims.Role.Valid() {
		return Session{}, ErrInvalidToken
	}
	return Session{
		UID:       claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
		Token:     token,
		TokenID:   claims.Id,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0).UTC(),
	}, nil
}

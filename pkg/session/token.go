package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "bguard"

var ErrInvalidToken = errors.New("invalid session token")

// Claims are the registered claims of a session token. Subject is the user
// id and ID (jti) is the session id.
type Claims struct {
	jwt.RegisteredClaims
}

// Tokens signs and verifies session tokens.
type Tokens struct {
	key []byte
	now func() time.Time
}

func NewTokens(key []byte) (*Tokens, error) {
	if len(key) == 0 {
		return nil, errEmptyKey
	}
	return &Tokens{key: key, now: time.Now}, nil
}

// Issue returns a token for the session that expires at expiresAt.
func (t *Tokens) Issue(sessionID, userID uuid.UUID, expiresAt time.Time) (string, error) {
	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			ID:        sessionID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token and returns the session and user ids it names.
func (t *Tokens) Parse(tokenString string) (sessionID, userID uuid.UUID, err error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return uuid.Nil, uuid.Nil, ErrInvalidToken
	}

	sessionID, err = uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: bad jti", ErrInvalidToken)
	}
	userID, err = uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: bad sub", ErrInvalidToken)
	}
	return sessionID, userID, nil
}

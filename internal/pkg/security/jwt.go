package security

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of an identity token.
const TokenTTL = time.Hour

// MinSecretBytes is the HS256 minimum key size (256 bits).
const MinSecretBytes = 32

var (
	ErrInvalidSecret    = errors.New("jwt secret is not valid base64")
	ErrWeakSecret       = fmt.Errorf("jwt secret must decode to at least %d bytes", MinSecretBytes)
	ErrMalformedSubject = errors.New("token subject is not a valid user id")
)

// TokenCodec issues and verifies HS256 identity tokens whose subject is a user id.
// The key is derived once at construction and never changes.
type TokenCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// Option configures a TokenCodec.
type Option func(*TokenCodec)

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec decodes the base64 secret and fails fast on a weak key.
func NewTokenCodec(secretBase64 string, opts ...Option) (*TokenCodec, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(secretBase64))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	if len(key) < MinSecretBytes {
		return nil, ErrWeakSecret
	}

	c := &TokenCodec{key: key, ttl: TokenTTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue creates a signed token for the user, valid for one hour.
func (c *TokenCodec) Issue(userID uint) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate reports whether the token is well-formed, correctly signed and unexpired.
func (c *TokenCodec) Validate(token string) bool {
	_, err := c.parse(token)
	return err == nil
}

// SubjectOf returns the user id carried by a token that passed Validate.
func (c *TokenCodec) SubjectOf(token string) (uint, error) {
	claims, err := c.parse(token)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedSubject, claims.Subject)
	}
	return uint(id), nil
}

func (c *TokenCodec) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		// non-strict base64 ignores the trailing bits of the last signature character
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}

// File: internal/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired means the signature checked out but exp has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid covers bad signatures, unexpected methods and unusable claims.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenMalformed means there was no token or it could not be parsed at all.
	ErrTokenMalformed = errors.New("malformed token")
)

// User is the authenticated caller decoded from a bearer token.
type User struct {
	UserID string
	Email  string
	Claims jwt.MapClaims
}

// TokenClaims are the fields GenerateToken puts into a new token.
type TokenClaims struct {
	UserID string
	Email  string
}

// Validator verifies tokens signed with a single configured HMAC method.
type Validator struct {
	secret []byte
	method jwt.SigningMethod
	parser *jwt.Parser
}

// NewValidator builds a Validator for the given secret and algorithm name (e.g. "HS256").
func NewValidator(secret, algorithm string) (*Validator, error) {
	if secret == "" {
		return nil, errors.New("signing secret cannot be empty")
	}
	method, err := hmacMethod(algorithm)
	if err != nil {
		return nil, err
	}
	return &Validator{
		secret: []byte(secret),
		method: method,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{method.Alg()})),
	}, nil
}

// Validate checks signature and expiry and returns the caller's identity.
func (v *Validator) Validate(tokenString string) (*User, error) {
	if tokenString == "" {
		return nil, ErrTokenMalformed
	}

	claims := jwt.MapClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	userID, ok := claimString(claims["user_id"])
	if !ok || userID == "" {
		return nil, fmt.Errorf("%w: missing user_id claim", ErrTokenInvalid)
	}
	email, _ := claimString(claims["email"])

	return &User{UserID: userID, Email: email, Claims: claims}, nil
}

// GenerateToken signs a token carrying user_id and email that expires after ttl.
func GenerateToken(c TokenClaims, secret, algorithm string, ttl time.Duration) (string, error) {
	if c.UserID == "" {
		return "", errors.New("user ID cannot be empty")
	}
	if secret == "" {
		return "", errors.New("signing secret cannot be empty")
	}
	method, err := hmacMethod(algorithm)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    c.UserID,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
		"token_type": "access",
	}
	if c.Email != "" {
		claims["email"] = c.Email
	}

	return jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
}

func hmacMethod(algorithm string) (jwt.SigningMethod, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not secret-based", algorithm)
	}
	return method, nil
}

// claimString accepts string ids and the numeric ids some issuers emit.
func claimString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		return "", false
	}
}

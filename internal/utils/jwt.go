package utils // package utils provides helper functions for token creation and hashing

import (
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// taskScope is the scope claim carried by task tokens.  Verification rejects
// tokens without it so a token minted for some other purpose can never drive
// reminder delivery.
const taskScope = "tasks"

// TaskToken represents a signed JWT authorizing calls to the reminder task
// callback endpoint, along with its expiry.  External schedulers present it
// as a Bearer token, playing the role the platform's identity tokens play in
// a managed deployment.
type TaskToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewTaskToken builds and signs an HS256 JWT for the task callback.  It takes
// the signing secret and a TTL in minutes and returns the signed token with
// its expiration time.  Claims: scope, expiration (exp) and issued at (iat).
func NewTaskToken(secret string, ttlMin int) (TaskToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"scope": taskScope,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return TaskToken{}, err
	}
	return TaskToken{Token: signed, Exp: exp}, nil
}

// VerifyTaskToken parses a task token and checks the signature, expiry and
// scope.  It returns false for anything other than a live tasks-scoped HS256
// token signed with secret.
func VerifyTaskToken(secret, raw string) bool {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	scope, _ := claims["scope"].(string)
	return scope == taskScope
}

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const SessionHeader = "X-Session-ID"

// ExtractSessionID reads the storefront session id from the request header.
func ExtractSessionID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(SessionHeader))
	if id == "" {
		return "", errors.New("session header is missing")
	}
	return id, nil
}

func parseClaims(tokenString string) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}

	// Tokens are issued and verified by the remote API; only claims are read here.
	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// TokenExpiry returns the exp claim. ok is false when the token carries none.
func TokenExpiry(tokenString string) (exp time.Time, ok bool, err error) {
	claims, err := parseClaims(tokenString)
	if err != nil {
		return time.Time{}, false, err
	}
	date, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid exp claim: %w", err)
	}
	if date == nil {
		return time.Time{}, false, nil
	}
	return date.Time, true, nil
}

// IsExpired reports whether the token can be discarded without asking the API.
// Opaque tokens and tokens without exp are treated as live.
func IsExpired(tokenString string, now time.Time) bool {
	exp, ok, err := TokenExpiry(tokenString)
	if err != nil || !ok {
		return false
	}
	return !now.Before(exp)
}

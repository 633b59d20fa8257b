package jwtauth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type Claims struct {
	jwt.StandardClaims
}

// GetToken signs a token naming userID as its subject, valid until expiresAt.
func GetToken(userID int64, expiresAt time.Time, secret string) (string, error) {
	claims := Claims{
		StandardClaims: jwt.StandardClaims{ //nolint:exhaustruct
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  jwt.TimeFunc().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signed string error: %w", err)
	}

	return signed, nil
}

// ValidateToken checks signature and expiry and returns the subject user id.
func ValidateToken(tokenString, secret string) (int64, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"]) //nolint:goerr113
		}

		return []byte(secret), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return 0, ErrExpiredToken
		}

		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.ExpiresAt == 0 {
		return 0, ErrInvalidToken
	}

	// exp has whole-second precision while the library accepts now == exp,
	// so the token would outlive a sub-second expiry.
	if jwt.TimeFunc().Unix() >= claims.ExpiresAt {
		return 0, ErrExpiredToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}

	return id, nil
}

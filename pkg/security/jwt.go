package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

// Auth tokens are short-lived on purpose. Clients are expected to
// log in again after an hour
const AuthTokenTTL = time.Hour

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// MakeAuthToken signs a bearer token carrying the user's ID. Shared by
// signup and login so both hand out identical tokens.
func MakeAuthToken(userID string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(AuthTokenTTL).Unix(),
	})

	return t.SignedString([]byte(viper.GetString("jwt.secret")))
}

// ParseAuthToken verifies the signature first and only then trusts the
// embedded user ID. Returns ErrTokenExpired when the signature checks
// out but the expiry has passed.
func ParseAuthToken(tokenStr string) (userID string, err error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return []byte(viper.GetString("jwt.secret")), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}

		return "", ErrTokenInvalid
	}

	if !token.Valid {
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}

	userID, ok = claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrTokenInvalid
	}

	expRaw, ok := claims["exp"]
	if !ok {
		return "", ErrTokenExpired
	}

	exp, ok := expRaw.(float64)
	if !ok {
		return "", ErrTokenInvalid
	}

	if time.Now().Unix() >= int64(exp) {
		return "", ErrTokenExpired
	}

	return userID, nil
}

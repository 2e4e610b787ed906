package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "access_token"
	tokenTTL   = 24 * time.Hour
)

var (
	jwtSecret    []byte
	cookieSecure bool
)

var ErrInvalidToken = errors.New("invalid token")

// Init fixe le secret HS256 et le flag Secure du cookie
func Init(secret string, secure bool) {
	jwtSecret = []byte(secret)
	cookieSecure = secure
}

// GenerateToken signe un JWT dont le sub est l'id utilisateur
func GenerateToken(userID uint) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("JWT_SECRET manquant")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

// ParseToken vérifie la signature et l'expiration puis renvoie l'id utilisateur
func ParseToken(tokenStr string) (uint, error) {
	if len(jwtSecret) == 0 {
		return 0, ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("signature invalide")
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

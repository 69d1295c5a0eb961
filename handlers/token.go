package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/HR1937/community-care/models"
)

const tokenLifetime = 24 * time.Hour

func generateToken(secret string, userID int) (string, error) {
	claims := jwt.MapClaims{
		"user_id": strconv.Itoa(userID),
		"exp":     time.Now().Add(tokenLifetime).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

func generateNeighbourToken(secret string, user models.Neighbour) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(tokenLifetime).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// parseToken returns the user id carried by a bearer token.
func parseToken(secret, tok string) (int, error) {
	if tok == "" {
		return 0, fmt.Errorf("token missing")
	}
	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return 0, fmt.Errorf("invalid token claims")
	}
	uid, ok := claims["user_id"].(string)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	id, err := strconv.Atoi(uid)
	if err != nil {
		return 0, fmt.Errorf("invalid user id in token")
	}
	return id, nil
}

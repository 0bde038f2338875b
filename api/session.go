package api

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/madanco/crewdeck/pkg/models"
	"github.com/madanco/crewdeck/pkg/repository"
)

// Session tokens are HS256 JWTs carrying the user id and an expiry. The
// original deployment shipped unsigned base64 tokens; signing and expiry are
// deliberate hardening, not an optional extra.

// MintSessionToken issues a signed token for the user.
func MintSessionToken(userID, secret string, duration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(duration).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ValidateSession decodes the token and resolves the referenced user. It
// returns nil (no error) on decode failure, expiry, or unknown user, so
// callers map nil to an unauthorized response.
func ValidateSession(ctx context.Context, tokenString, secret string, users repository.UserRepo) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, nil
	}

	user, err := users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

package utils

import (
	"strings"
	"time"

	"skillnexis/backend/config"
	"skillnexis/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const tokenTTL = 72 * time.Hour

// SessionClaims identifies the session a token was issued for.
type SessionClaims struct {
	SessionID string
	UserID    string
	Role      models.Role
}

func GenerateJWTToken(claims SessionClaims, cfg *config.Config) (string, error) {
	mapClaims := jwt.MapClaims{
		"session_id": claims.SessionID,
		"user_id":    claims.UserID,
		"role":       string(claims.Role),
		"exp":        time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

func ParseJWTToken(tokenString string, cfg *config.Config) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	sessionID, _ := claims["session_id"].(string)
	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if sessionID == "" || userID == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid session in token")
	}

	return &SessionClaims{SessionID: sessionID, UserID: userID, Role: models.Role(role)}, nil
}

func ExtractClaimsFromToken(c *fiber.Ctx, cfg *config.Config) (*SessionClaims, error) {
	tokenString := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Missing authorization token")
	}
	return ParseJWTToken(tokenString, cfg)
}

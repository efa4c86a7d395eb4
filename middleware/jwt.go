package middleware

import (
	"edulearn/config"
	"edulearn/database"
	"edulearn/models"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// GenerateAccessToken signs a short lived token carrying the user identity
func GenerateAccessToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"userId":   user.ID,
		"email":    user.Email,
		"fullname": user.Fullname,
		"role":     user.Role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(config.AppConfig.AccessTokenExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.AccessTokenSecret))
}

// GenerateRefreshToken signs a long lived token carrying only the user id
func GenerateRefreshToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"userId": user.ID,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(config.AppConfig.RefreshTokenExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.RefreshTokenSecret))
}

// ParseAccessToken returns the user id of a valid access token.
func ParseAccessToken(tokenString string) (uint, error) {
	return parseToken(tokenString, config.AppConfig.AccessTokenSecret)
}

// ParseRefreshToken returns the user id of a valid refresh token.
func ParseRefreshToken(tokenString string) (uint, error) {
	return parseToken(tokenString, config.AppConfig.RefreshTokenSecret)
}

func parseToken(tokenString, secret string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token payload")
	}
	// JWT numbers decode as float64
	userID, ok := claims["userId"].(float64)
	if !ok || userID <= 0 {
		return 0, errors.New("invalid token payload")
	}
	return uint(userID), nil
}

// JWTMiddleware authenticates the request from the accessToken cookie or a Bearer header
func JWTMiddleware(c *fiber.Ctx) error {
	tokenString := c.Cookies(AccessTokenCookie)
	if tokenString == "" {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized request!", nil)
		}
		tokenString = strings.TrimSpace(authHeader[len("Bearer "):])
	}

	userID, err := ParseAccessToken(tokenString)
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid access token!", nil)
	}

	c.Locals("userId", user.ID)
	c.Locals("role", user.Role)
	c.Locals("user", user)

	return c.Next()
}

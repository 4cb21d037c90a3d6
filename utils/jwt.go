package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken tạo access token (hạn ngắn).
func GenerateToken(userID, email, fullName, role string) (string, error) {
	return signToken(userID, email, fullName, role, 24*time.Hour, os.Getenv("JWT_SECRET"))
}

// GenerateRefreshToken tạo refresh token (hạn dài, secret riêng).
func GenerateRefreshToken(userID, email, fullName, role string) (string, error) {
	return signToken(userID, email, fullName, role, 7*24*time.Hour, os.Getenv("JWT_REFRESH_SECRET"))
}

func signToken(userID, email, fullName, role string, ttl time.Duration, secret string) (string, error) {
	claims := Claims{
		UserID:   userID,
		Email:    email,
		FullName: fullName,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func VerifyToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, os.Getenv("JWT_SECRET"))
}

func VerifyRefreshToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, os.Getenv("JWT_REFRESH_SECRET"))
}

func parseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("phương thức ký không hợp lệ")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token không hợp lệ")
	}
	return claims, nil
}

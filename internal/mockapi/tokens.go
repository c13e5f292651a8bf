package mockapi

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenService struct {
	secretKey            string
	accessTokenDuration  time.Duration
	refreshTokenDuration time.Duration
}

func NewTokenService(secretKey string) *TokenService {
	return &TokenService{
		secretKey:            secretKey,
		accessTokenDuration:  15 * time.Minute,
		refreshTokenDuration: 7 * 24 * time.Hour,
	}
}

// GenerateAccessToken returns a signed access token and its lifetime in
// seconds.
func (s *TokenService) GenerateAccessToken(accountID, email string) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessTokenDuration)

	claims := jwt.MapClaims{
		"account_id": accountID,
		"email":      email,
		"exp":        expiresAt.Unix(),
		"iat":        now.Unix(),
		"nbf":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, int64(s.accessTokenDuration.Seconds()), nil
}

// GenerateRefreshToken returns a signed refresh token and its expiry.
func (s *TokenService) GenerateRefreshToken(accountID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.refreshTokenDuration)

	claims := jwt.MapClaims{
		"account_id": accountID,
		"type":       "refresh",
		"exp":        expiresAt.Unix(),
		"iat":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateAccessToken checks the signature and expiry and returns the
// account id carried in the token.
func (s *TokenService) ValidateAccessToken(tokenString string) (string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", err
	}
	if tokenType, _ := claims["type"].(string); tokenType == "refresh" {
		return "", fmt.Errorf("refresh token used as access token")
	}
	accountID, ok := claims["account_id"].(string)
	if !ok || accountID == "" {
		return "", fmt.Errorf("invalid account_id in token")
	}
	return accountID, nil
}

// ValidateRefreshToken checks a refresh token and returns the account id.
func (s *TokenService) ValidateRefreshToken(tokenString string) (string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", err
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return "", fmt.Errorf("not a refresh token")
	}
	accountID, ok := claims["account_id"].(string)
	if !ok || accountID == "" {
		return "", fmt.Errorf("invalid account_id in token")
	}
	return accountID, nil
}

func (s *TokenService) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

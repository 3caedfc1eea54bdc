package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	api_models "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models/api"
)

var (
	// ErrInvalidToken is returned for malformed tokens or bad signatures
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's expiry has passed
	ErrExpiredToken = errors.New("token expired")
)

// Service provides JWT operations
type Service struct {
	config api_models.Config
}

// NewService creates a new JWT service
func NewService(config api_models.Config) *Service {
	return &Service{
		config: config,
	}
}

// Issue creates a signed session token carrying the user's identity and
// role. Verification is stateless: the role is frozen at issuance and a
// role change does not propagate until re-login.
func (s *Service) Issue(userID, role string) (string, error) {
	now := time.Now()

	claims := api_models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
		},
		UserID: userID,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// Verify validates a session token and returns its claims
func (s *Service) Verify(tokenString string) (*api_models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &api_models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*api_models.SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

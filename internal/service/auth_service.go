package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"techgear-support-be/internal/config"
	"techgear-support-be/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidClient    = errors.New("invalid client credentials")
	ErrTokenIssuerUnset = errors.New("token issuing is not configured")
)

type IAuthService interface {
	IssueToken(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, error)
}

type authService struct {
	cfg config.AuthConfig
	now func() time.Time
}

func NewAuthService(cfg config.AuthConfig) IAuthService {
	return &authService{cfg: cfg, now: time.Now}
}

// IssueToken exchanges client credentials for a short lived HS256 token.
func (s *authService) IssueToken(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, error) {
	if s.cfg.JWTSecret == "" || s.cfg.ClientID == "" || s.cfg.ClientSecretHash == "" {
		return nil, ErrTokenIssuerUnset
	}

	if subtle.ConstantTimeCompare([]byte(req.ClientId), []byte(s.cfg.ClientID)) != 1 {
		return nil, ErrInvalidClient
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.ClientSecretHash), []byte(req.ClientSecret)); err != nil {
		return nil, ErrInvalidClient
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   req.ClientId,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: signedToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.cfg.JWTExpiry.Seconds()),
	}, nil
}

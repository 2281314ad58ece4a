package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"spendbook.com/internal/config"
	"spendbook.com/internal/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenClaims is the payload carried by both token types. The jti claim
// identifies refresh tokens on the blacklist.
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenServiceImpl implements domain.TokenService with HS256-signed
// tokens and a pluggable revocation blacklist.
type TokenServiceImpl struct {
	secret          []byte
	accessLifetime  time.Duration
	refreshLifetime time.Duration
	blacklist       domain.TokenBlacklist
}

func NewTokenService(cfg config.JWTConfig, blacklist domain.TokenBlacklist) *TokenServiceImpl {
	return &TokenServiceImpl{
		secret:          []byte(cfg.Secret),
		accessLifetime:  time.Duration(cfg.AccessTokenMinutes) * time.Minute,
		refreshLifetime: time.Duration(cfg.RefreshTokenMinutes) * time.Minute,
		blacklist:       blacklist,
	}
}

// IssuePair issues an access/refresh token pair for the user.
func (s *TokenServiceImpl) IssuePair(userID uint) (*domain.TokenPair, error) {
	access, err := s.sign(userID, tokenTypeAccess, s.accessLifetime)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(userID, tokenTypeRefresh, s.refreshLifetime)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenServiceImpl) sign(userID uint, tokenType string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (s *TokenServiceImpl) parse(tokenString, wantType string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil, errors.New("unexpected token claims")
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("token is not a %s token", wantType)
	}
	return claims, nil
}

// ValidateAccess checks an access token and returns the user id claim.
func (s *TokenServiceImpl) ValidateAccess(tokenString string) (uint, error) {
	claims, err := s.parse(tokenString, tokenTypeAccess)
	if err != nil {
		return 0, domain.NewUnauthorizedError("invalid or expired token")
	}
	return claims.UserID, nil
}

// Refresh exchanges a valid, non-blacklisted refresh token for a new
// access token. The refresh token itself is not rotated and stays valid
// until it expires or is revoked at logout.
func (s *TokenServiceImpl) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", domain.NewUnauthorizedError("invalid or expired refresh token")
	}

	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return "", domain.NewInternalError("failed to check token blacklist", err)
	}
	if revoked {
		return "", domain.NewUnauthorizedError("refresh token has been revoked")
	}

	return s.sign(claims.UserID, tokenTypeAccess, s.accessLifetime)
}

// Revoke blacklists a refresh token for the remainder of its lifetime.
// Malformed, expired and already-revoked tokens all fail.
func (s *TokenServiceImpl) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTokenRevoked, err)
	}

	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("check token blacklist: %w", err)
	}
	if revoked {
		return fmt.Errorf("%w: refresh token already blacklisted", domain.ErrTokenRevoked)
	}

	return s.blacklist.Add(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

// Package service implements credential checks and token issuance.
package service

import (
	"context"
	"errors"
	"time"

	"leadflow_backend/internal/auth/password"
	"leadflow_backend/internal/auth/repository"
	"leadflow_backend/internal/auth/token"
	"leadflow_backend/internal/auth/transport"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType = "access"
)

type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// SignIn checks credentials and issues an access/refresh token pair. The
// error is the same whether the email or the password is wrong.
func (s *Service) SignIn(ctx context.Context, req transport.LoginRequest) (transport.TokenResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		s.log.AuthEvent("sign_in", req.Email, false, "unknown email")
		return transport.TokenResponse{}, apperr.Unauthorized("invalid credentials")
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		s.log.AuthEvent("sign_in", req.Email, false, "bad password")
		return transport.TokenResponse{}, apperr.Unauthorized("invalid credentials")
	}

	s.log.AuthEvent("sign_in", req.Email, true, "")
	return s.issueTokens(ctx, user.ID)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *Service) Refresh(ctx context.Context, rawToken string) (transport.TokenResponse, error) {
	hash := token.HashSHA256(rawToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return transport.TokenResponse{}, apperr.Unauthorized("invalid refresh token")
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return transport.TokenResponse{}, apperr.Unauthorized("refresh token expired")
	}

	_ = s.repo.RevokeRefreshToken(ctx, hash)
	return s.issueTokens(ctx, userID)
}

func (s *Service) SignOut(ctx context.Context, rawToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(rawToken))
}

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (transport.MeResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.MeResponse{}, apperr.NotFound("user not found")
		}
		return transport.MeResponse{}, err
	}

	roles, err := s.repo.GetUserRoles(ctx, userID)
	if err != nil {
		return transport.MeResponse{}, err
	}

	return transport.MeResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Roles: roles,
	}, nil
}

func (s *Service) issueTokens(ctx context.Context, userID uuid.UUID) (transport.TokenResponse, error) {
	roles, err := s.repo.GetUserRoles(ctx, userID)
	if err != nil {
		return transport.TokenResponse{}, err
	}

	accessToken, err := s.signJWT(userID, roles, s.cfg.GetAccessTokenTTL())
	if err != nil {
		return transport.TokenResponse{}, err
	}

	refreshToken, err := token.Generate(token.RefreshTokenSize)
	if err != nil {
		return transport.TokenResponse{}, err
	}

	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, userID, token.HashSHA256(refreshToken), expiresAt); err != nil {
		return transport.TokenResponse{}, err
	}

	return transport.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *Service) signJWT(userID uuid.UUID, roles []string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  accessTokenType,
		"roles": roles,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
	"github.com/quillpress/blog-api/internal/pkg/metrics"
)

// AuthService implements registration, login and self-service account operations.
type AuthService struct {
	repo   ports.UserRepository
	tokens *TokenService
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(repo ports.UserRepository, tokens *TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, log: log, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	hash, err := s.tokens.HashSecret(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "failure").Inc()
		return nil, err
	}
	created.PasswordHash = ""

	token, err := s.tokens.IssueToken(created)
	if err != nil {
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return &ports.AuthResult{User: created, Token: token}, nil
}

// Login accepts a username or email. Unknown identifiers and wrong passwords
// both yield domain.ErrInvalidCredentials; a deactivated account is only
// revealed once the password has been verified.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*ports.AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.tokens.CompareSecret(password, user.PasswordHash) {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "deactivated").Inc()
		return nil, domain.ErrAccountDeactivated
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	} else {
		user.LastLogin = &now
	}
	user.PasswordHash = ""

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return &ports.AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.repo.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Msg("profile updated")
	return user, nil
}

// ChangePassword verifies the current password, stores the new hash and
// returns a freshly issued token.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (*ports.AuthResult, error) {
	user, err := s.repo.FindCredentialsByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !s.tokens.CompareSecret(currentPassword, user.PasswordHash) {
		return nil, domain.BadRequest("Current password is incorrect")
	}
	if currentPassword == newPassword {
		return nil, domain.BadRequest("New password must differ from the current password")
	}

	hash, err := s.tokens.HashSecret(newPassword)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return nil, err
	}
	user.PasswordHash = ""

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("change_password", "success").Inc()
	s.log.Info().Str("user_id", userID).Msg("password changed")
	return &ports.AuthResult{User: user, Token: token}, nil
}

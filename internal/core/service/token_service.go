package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/quillpress/blog-api/internal/core/domain"
	"github.com/quillpress/blog-api/internal/core/ports"
	"github.com/quillpress/blog-api/internal/pkg/metrics"
)

const (
	DefaultTokenTTL = 7 * 24 * time.Hour
	DefaultIssuer   = "blog-api"
	DefaultAudience = "blog-client"
)

// Claims is the token payload: a snapshot of the identity at issuance.
type Claims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenConfig holds the signing parameters. Secret is mandatory.
type TokenConfig struct {
	Secret     string
	TTL        time.Duration
	Issuer     string
	Audience   string
	BcryptCost int
}

// TokenService issues and verifies bearer tokens and hashes secrets.
type TokenService struct {
	users    ports.UserRepository
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
	cost     int
	now      func() time.Time
	log      zerolog.Logger
}

var (
	errMissingSecret = errors.New("token service: signing secret is required")
	errBcryptCost    = fmt.Errorf("token service: bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
)

func NewTokenService(users ports.UserRepository, cfg TokenConfig, log zerolog.Logger) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errMissingSecret
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.Audience == "" {
		cfg.Audience = DefaultAudience
	}
	switch {
	case cfg.BcryptCost == 0:
		cfg.BcryptCost = bcrypt.DefaultCost
	case cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost:
		return nil, errBcryptCost
	}
	return &TokenService{
		users:    users,
		secret:   []byte(cfg.Secret),
		ttl:      cfg.TTL,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		cost:     cfg.BcryptCost,
		now:      time.Now,
		log:      log,
	}, nil
}

// IssueToken signs an HS256 token for user.
func (s *TokenService) IssueToken(user *domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// VerifyToken checks signature, issuer, audience and expiry.
// Expired tokens yield domain.ErrTokenExpired; every other failure yields
// domain.ErrInvalidToken.
func (s *TokenService) VerifyToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
			return nil, &domain.Error{Kind: domain.KindTokenExpired, Message: "Token expired", Err: err}
		}
		metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, &domain.Error{Kind: domain.KindInvalidToken, Message: "Invalid token", Err: err}
	}
	if !parsed.Valid || claims.UserID == "" {
		metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidToken
	}

	metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
	return claims, nil
}

// ResolveIdentity verifies token and loads the current user without the
// password hash. A token for a user that no longer exists is reported as
// domain.ErrInvalidToken so callers cannot tell the two cases apart.
func (s *TokenService) ResolveIdentity(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// HashSecret returns a salted bcrypt hash of plaintext.
func (s *TokenService) HashSecret(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CompareSecret reports whether plaintext matches hash.
func (s *TokenService) CompareSecret(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

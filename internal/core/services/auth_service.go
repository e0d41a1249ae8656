package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"midway/internal/core/domain"
	"midway/internal/core/ports"
	"midway/pkg/utils"
	"midway/pkg/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the payload of the auth-token credential.
type Claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthConfig configures token issuance and password hashing.
type AuthConfig struct {
	JWTSecret  string
	Issuer     string
	TokenTTL   time.Duration
	HashParams ArgonParams
}

type AuthService struct {
	users       ports.UserRepository
	revocations ports.RevocationStore
	jwtSecret   []byte
	issuer      string
	tokenTTL    time.Duration
	hashParams  ArgonParams
	now         func() time.Time
	logger      *zap.SugaredLogger
}

func NewAuthService(
	users ports.UserRepository,
	revocations ports.RevocationStore,
	cfg AuthConfig,
	logger *zap.SugaredLogger,
) *AuthService {
	params := cfg.HashParams
	if params == (ArgonParams{}) {
		params = DefaultArgon
	}
	return &AuthService{
		users:       users,
		revocations: revocations,
		jwtSecret:   []byte(cfg.JWTSecret),
		issuer:      cfg.Issuer,
		tokenTTL:    cfg.TokenTTL,
		hashParams:  params,
		now:         utils.Now,
		logger:      logger,
	}
}

// TokenTTL is the lifetime of issued credentials.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// IssueToken signs a credential for user.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	now := s.now()
	claims := &Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   string(user.ID),
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseToken verifies signature, issuer and expiry.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// Register creates a CLIENT account. The role is never taken from the caller.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = utils.NormalizeEmail(email)
	name = strings.TrimSpace(name)

	fe := validation.FieldErrors{}
	fe.Require("name", name)
	fe.Check("email", validation.ValidateEmail(email))
	fe.Check("password", validation.ValidatePassword(password))
	if err := fe.Err(); err != nil {
		return nil, err
	}

	return s.createUser(ctx, name, email, password, domain.RoleClient)
}

// CreateUser creates an account with an explicit role. Callers must have
// already authorized the role assignment.
func (s *AuthService) CreateUser(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	email = utils.NormalizeEmail(email)
	name = strings.TrimSpace(name)

	fe := validation.FieldErrors{}
	fe.Require("name", name)
	fe.Check("email", validation.ValidateEmail(email))
	fe.Check("password", validation.ValidatePassword(password))
	if _, ok := domain.ParseRole(string(role)); !ok {
		fe["role"] = "role must be one of ADMIN, MANAGER, CLEANER, CLIENT"
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	return s.createUser(ctx, name, email, password, role)
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email %s: %w", email, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(s.hashParams, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           domain.UserID(uuid.New().String()),
		Email:        email,
		Name:         name,
		Role:         role,
		Active:       true,
		PasswordHash: hash,
	}
	user.Stamp(s.now())

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Infow("user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login checks credentials and returns the user with a fresh token. Unknown
// email, wrong password and inactive accounts are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Warnw("stored password hash is unreadable", "user_id", user.ID, "error", err)
		return nil, "", domain.ErrInvalidCredentials
	}
	if !ok || !user.Active {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Logout revokes token until its natural expiry. Invalid or expired tokens
// need no revocation.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.ParseToken(token)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAuthProviderUnavailable, err)
	}
	s.logger.Infow("token revoked", "user_id", claims.Subject)
	return nil
}

// RevokeSessions invalidates every credential issued to userID so far. The
// entry lives as long as the newest of those credentials could.
func (s *AuthService) RevokeSessions(ctx context.Context, userID string) error {
	now := s.now()
	if err := s.revocations.RevokeSubject(ctx, userID, now, now.Add(s.tokenTTL)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAuthProviderUnavailable, err)
	}
	s.logger.Infow("sessions revoked", "user_id", userID)
	return nil
}

// Me loads the account behind principal.
func (s *AuthService) Me(ctx context.Context, principal *domain.Principal) (*domain.User, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.Get(ctx, string(principal.UserID))
}

// EnsureAdmin creates the bootstrap ADMIN account unless the email exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}
	_, err := s.users.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	_, err = s.CreateUser(ctx, "Administrator", email, password, domain.RoleAdmin)
	return err
}

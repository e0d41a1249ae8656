package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"midway/internal/core/domain"
	"midway/internal/core/ports"

	"go.uber.org/zap"
)

// AuthCookieName is the cookie carrying the credential.
const AuthCookieName = "auth-token"

// TokenVerifier validates a credential string.
type TokenVerifier interface {
	ParseToken(token string) (*Claims, error)
}

type sessionResolver struct {
	tokens      TokenVerifier
	revocations ports.RevocationStore
	logger      *zap.SugaredLogger
}

func NewSessionResolver(tokens TokenVerifier, revocations ports.RevocationStore, logger *zap.SugaredLogger) ports.SessionResolver {
	return &sessionResolver{
		tokens:      tokens,
		revocations: revocations,
		logger:      logger,
	}
}

// CredentialFromRequest returns the auth-token cookie, falling back to a
// Bearer Authorization header.
func CredentialFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Resolve fails closed: every credential problem yields an anonymous
// request. Only an unreachable revocation store is reported as an error.
// Credentials issued before the user's role or status last changed are
// rejected, so a demoted account cannot keep its old role.
func (r *sessionResolver) Resolve(ctx context.Context, req *http.Request) (*domain.Principal, error) {
	token := CredentialFromRequest(req)
	if token == "" {
		return nil, nil
	}

	claims, err := r.tokens.ParseToken(token)
	if err != nil {
		r.logger.Debugw("credential rejected", "reason", err.Error())
		return nil, nil
	}

	role, ok := domain.ParseRole(string(claims.Role))
	if !ok || claims.Subject == "" || claims.ID == "" {
		r.logger.Debugw("credential rejected", "reason", "incomplete claims")
		return nil, nil
	}

	revoked, err := r.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthProviderUnavailable, err)
	}
	if revoked {
		return nil, nil
	}

	since, err := r.revocations.RevokedSince(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthProviderUnavailable, err)
	}
	if !since.IsZero() && (claims.IssuedAt == nil || !claims.IssuedAt.Time.After(since)) {
		r.logger.Debugw("credential rejected", "reason", "sessions revoked", "user_id", claims.Subject)
		return nil, nil
	}

	return &domain.Principal{
		UserID: domain.UserID(claims.Subject),
		Email:  claims.Email,
		Role:   role,
	}, nil
}

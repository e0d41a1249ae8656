package middleware

import (
	"errors"

	"midway/internal/core/domain"
	"midway/internal/core/policy"
	"midway/internal/core/ports"
	apperrors "midway/pkg/errors"
	"midway/pkg/logger"
	"midway/pkg/tracing"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// DecisionRecorder counts guard outcomes.
type DecisionRecorder interface {
	RecordGuardDecision(policy, decision string)
}

// Guard resolves the caller and enforces p before any later handler runs.
// Public routes skip resolution entirely. A denied request is aborted with
// the error pushed onto the context for ErrorHandlerMiddleware to render.
func Guard(resolver ports.SessionResolver, p policy.Policy, recorder DecisionRecorder) gin.HandlerFunc {
	name := p.String()

	return func(c *gin.Context) {
		if p.IsPublic() {
			c.Next()
			return
		}

		principal, err := resolver.Resolve(c.Request.Context(), c.Request)
		if err != nil {
			record(c, recorder, name, "error")
			if !errors.Is(err, domain.ErrAuthProviderUnavailable) {
				err = errors.Join(domain.ErrAuthProviderUnavailable, err)
			}
			c.Error(err)
			c.Abort()
			return
		}

		decision := p.Evaluate(principal)
		if !decision.Allowed {
			record(c, recorder, name, string(decision.Reason))
			switch decision.Reason {
			case policy.ReasonUnauthenticated:
				c.Error(apperrors.NewUnauthenticatedError("authentication required"))
			default:
				c.Error(apperrors.NewForbiddenError("insufficient permissions"))
			}
			c.Abort()
			return
		}

		record(c, recorder, name, "allowed")
		setPrincipal(c, principal)
		c.Next()
	}
}

func setPrincipal(c *gin.Context, principal *domain.Principal) {
	c.Set(principalKey, principal)

	ctx := logger.WithUserID(c.Request.Context(), string(principal.UserID))
	c.Request = c.Request.WithContext(ctx)
	tracing.AddSpanAttributes(ctx,
		tracing.UserIDKey.String(string(principal.UserID)),
		tracing.RoleKey.String(string(principal.Role)),
	)
}

// PrincipalFrom returns the principal Guard admitted, or nil on public routes.
func PrincipalFrom(c *gin.Context) *domain.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	principal, _ := v.(*domain.Principal)
	return principal
}

func record(c *gin.Context, recorder DecisionRecorder, policy, decision string) {
	tracing.AddSpanAttributes(c.Request.Context(), tracing.DecisionKey.String(decision))
	if recorder != nil {
		recorder.RecordGuardDecision(policy, decision)
	}
}

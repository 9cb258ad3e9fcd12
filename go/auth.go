package marketplaceserver

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/go-gin-marketplace/internal/shared/errors"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// Authenticator resolves a bearer token into the caller identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (identity.Identity, error)
}

const identityContextKey = "marketplace.identity"

// RequireIdentity rejects requests without a valid bearer token with 401 and,
// when roles are given, callers holding none of them with 403. The resolved
// identity is stored on the request context.
func RequireIdentity(auth Authenticator, roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" || auth == nil {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("missing bearer token"))
			c.Abort()
			return
		}
		who, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		if len(roles) > 0 && !hasRole(who, roles) {
			respondProblem(c, apierrors.ErrForbidden.WithDetail("role "+string(who.Role)+" may not call this operation"))
			c.Abort()
			return
		}
		c.Set(identityContextKey, who)
		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), who))
		c.Next()
	}
}

func hasRole(who identity.Identity, roles []identity.Role) bool {
	for _, role := range roles {
		if who.Role == role {
			return true
		}
	}
	return false
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// actor returns the identity RequireIdentity attached to the request.
func actor(c *gin.Context) identity.Identity {
	if who, ok := identity.FromContext(c.Request.Context()); ok {
		return who
	}
	return identity.Identity{}
}

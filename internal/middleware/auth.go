package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kycdesk/kycdesk/internal/auth"
	"github.com/kycdesk/kycdesk/internal/user"
)

const claimsKey = "auth_claims"

// Authenticate validates the bearer token and attaches the decoded claims to
// the request. The token's version claim must match the stored account so a
// password reset revokes previously issued tokens.
func Authenticate(secret []byte, users user.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "authentication required")
		}
		token := strings.TrimSpace(authz[len("Bearer "):])

		claims, err := auth.VerifyToken(token, secret)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid or expired token")
		}

		account, err := users.FindByID(c.UserContext(), claims.UserID())
		if err != nil || account.TokenVersion != claims.TokenVersion {
			return fiber.NewError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// RequireRole gates the request on the authenticated principal's role. A
// missing claim set (token stage not run) is treated as forbidden, not as a
// fresh authentication failure.
func RequireRole(allowed ...user.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		for _, role := range allowed {
			if claims.Role == role {
				return c.Next()
			}
		}
		return fiber.NewError(http.StatusForbidden, "insufficient role")
	}
}

// Claims returns the claims attached by Authenticate, or nil when the request
// has not passed the token stage.
func Claims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsKey).(*auth.Claims)
	return claims
}

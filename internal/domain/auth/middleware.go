package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lwalter/authgate/internal/utils"
)

const (
	// IdentityKey is the key used to store the identity in Fiber context
	IdentityKey = "identity"

	// AccessTokenCookie is the cookie carrying the access token
	AccessTokenCookie = "access_token"
	// RefreshTokenCookie is the cookie carrying the refresh token
	RefreshTokenCookie = "refresh_token"
)

// Middleware verifies the access token from the Authorization header or the
// access token cookie and attaches the caller's identity to the request
func Middleware(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			token = c.Cookies(AccessTokenCookie)
		}
		if token == "" {
			return utils.ErrorResponse(c, "missing_token", fiber.StatusUnauthorized)
		}

		claims, err := svc.issuer.VerifyAccess(token)
		if err != nil {
			return utils.ErrorResponse(c, "invalid_token", fiber.StatusUnauthorized)
		}

		revoked, err := svc.IsTokenRevoked(claims)
		if err != nil {
			return utils.ErrorResponse(c, "token_validation_error", fiber.StatusInternalServerError)
		}
		if revoked {
			return utils.ErrorResponse(c, "token_revoked", fiber.StatusUnauthorized)
		}

		identity := &Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}

		c.Locals(IdentityKey, identity)

		return c.Next()
	}
}

// RequireAdmin rejects callers whose identity does not carry the ADMIN role.
// It must run after Middleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := GetIdentity(c)
		if identity == nil || !identity.IsAdmin() {
			return utils.ErrorResponse(c, "admin_access_required", fiber.StatusForbidden)
		}
		return c.Next()
	}
}

// GetIdentity extracts the identity from Fiber context
func GetIdentity(c *fiber.Ctx) *Identity {
	identity, ok := c.Locals(IdentityKey).(*Identity)
	if !ok {
		return nil
	}
	return identity
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const (
	localsKeyUserID      = "auth_user_id"
	localsKeyAccount     = "auth_account"
	localsKeyDisplayName = "auth_display_name"
)

// RequireUser authenticates the request from its Authorization bearer token
// and stores the caller's identity in the request locals.
func RequireUser(issuer *TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := issuer.Parse(token)
		if err != nil {
			log.Debug().Err(err).Msg("rejected access token")

			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		userID, err := claims.UserID()
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(localsKeyUserID, userID)
		c.Locals(localsKeyAccount, claims.UniqueName)
		c.Locals(localsKeyDisplayName, claims.DisplayName)

		return c.Next()
	}
}

// RequireFunction authorizes the request against one function's CRUD flag.
// Super admins bypass the per-function check. The middleware assumes
// RequireUser ran earlier in the chain.
func RequireFunction(svc *Service, functionCode string, crudType CRUDType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(localsKeyUserID).(uint64)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		super, err := svc.IsSuperAdmin(userID)
		if err != nil {
			return err
		}

		if super {
			return c.Next()
		}

		allowed, err := svc.HasPermission(userID, functionCode, crudType)
		if err != nil {
			return err
		}

		if !allowed {
			log.Debug().
				Uint64("user_id", userID).
				Str("function", functionCode).
				Str("crud", string(crudType)).
				Msg("permission denied")

			return fiber.NewError(fiber.StatusForbidden, ErrPermissionDenied.Error())
		}

		return c.Next()
	}
}

// UserID returns the authenticated caller's id, placed by RequireUser.
func UserID(c *fiber.Ctx) uint64 {
	userID, _ := c.Locals(localsKeyUserID).(uint64)

	return userID
}

// Account returns the authenticated caller's account name.
func Account(c *fiber.Ctx) string {
	account, _ := c.Locals(localsKeyAccount).(string)

	return account
}

package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"tasktrack-api/domain"
)

// contextAccountKey is where RequireAccount stores the resolved account for
// handlers further down the chain.
const contextAccountKey = "auth.account"

// RequireAccount verifies the bearer token on protected routes and resolves
// it to the owning account before the handler runs. Registration and login
// never pass through here.
func RequireAccount(store Storage, creds Credentials) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, err := creds.EmailFromAuthHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				msg := "token verification failed"
				if errors.Is(err, ErrInvalidPayload) {
					msg = "invalid token payload"
				}
				return c.JSON(http.StatusUnauthorized, messageResponse{Message: msg})
			}

			account, err := store.AccountByEmail(c.Request().Context(), email)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return c.JSON(http.StatusUnauthorized, messageResponse{Message: "user not found"})
				}
				c.Logger().Error(err)
				return c.JSON(http.StatusInternalServerError, messageResponse{Message: "internal error"})
			}

			c.Set(contextAccountKey, account)
			return next(c)
		}
	}
}

// accountFromContext returns the account resolved by RequireAccount.
func accountFromContext(c echo.Context) (domain.Account, bool) {
	account, ok := c.Get(contextAccountKey).(domain.Account)
	return account, ok
}

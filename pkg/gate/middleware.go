package gate

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// ConnectionSource reports whether a wallet is connected.
type ConnectionSource interface {
	Connected() bool
}

// ConnectPrompt is the body served to unconnected clients.
type ConnectPrompt struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirect_to"`
}

// Middleware serves protected routes only while src is connected. Other
// requests get 401 with a connect prompt and a Refresh header pointing at
// redirectTo after delay (DefaultDelay when zero).
func Middleware(src ConnectionSource, redirectTo string, delay time.Duration) echo.MiddlewareFunc {
	if redirectTo == "" {
		redirectTo = DefaultRedirectTo
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	refresh := fmt.Sprintf("%d; url=%s", int(delay.Seconds()), redirectTo)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if src.Connected() {
				return next(c)
			}

			c.Response().Header().Set("Refresh", refresh)
			return c.JSON(http.StatusUnauthorized, ConnectPrompt{
				Error:      "wallet_not_connected",
				Message:    "Please connect your wallet to continue",
				RedirectTo: redirectTo,
			})
		}
	}
}

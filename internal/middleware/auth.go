// Package middleware provides authentication, logging, and rate limiting middleware.
package middleware

import (
	"net/url"
	"strconv"
	"strings"

	"quill/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie is the cookie carrying the session token for browser clients.
const TokenCookie = "quill_token"

// LoginPath is where unauthenticated users are sent; the original URL is
// carried in the "next" query parameter so the client can return after login.
const LoginPath = "/auth/login"

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// tokenFromRequest extracts the raw token from the Authorization header or the
// session cookie. Returns "" when neither is present.
func tokenFromRequest(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.Cookies(TokenCookie)
}

// parseUserID validates the token and extracts the user ID from the "sub" claim.
func parseUserID(tokenString string) (uint, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	subClaim, ok := claims["sub"]
	if !ok {
		return 0, false
	}
	subStr, ok := subClaim.(string)
	if !ok {
		return 0, false
	}

	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(userIDVal), true
}

// redirectToLogin sends the client to the login entry point, preserving the
// requested URL in the "next" parameter. No state changes before the redirect.
func redirectToLogin(c *fiber.Ctx) error {
	next := url.QueryEscape(c.OriginalURL())
	return c.Redirect(LoginPath+"?next="+next, fiber.StatusFound)
}

// AuthRequired enforces authentication for protected routes. Unauthenticated
// requests are redirected to the login entry point with a return URL.
func AuthRequired(c *fiber.Ctx) error {
	tokenString := tokenFromRequest(c)
	if tokenString == "" {
		return redirectToLogin(c)
	}

	userID, ok := parseUserID(tokenString)
	if !ok {
		return redirectToLogin(c)
	}

	c.Locals("userID", userID)
	return c.Next()
}

// OptionalUser extracts the caller's identity when a valid token is present
// but never rejects the request. Public feeds use it for the follow flag.
func OptionalUser(c *fiber.Ctx) error {
	if tokenString := tokenFromRequest(c); tokenString != "" {
		if userID, ok := parseUserID(tokenString); ok {
			c.Locals("userID", userID)
		}
	}
	return c.Next()
}

// CurrentUserID returns the authenticated user ID from locals, or 0 when anonymous.
func CurrentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

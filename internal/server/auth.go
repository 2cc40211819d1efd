package server

import (
	"strconv"
	"strings"
	"time"

	"clipstream/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"

	tokenIssuer   = "clipstream-api"
	tokenAudience = "clipstream-client"
)

func (s *Server) generateAccessToken(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessSecret))
}

func (s *Server) generateRefreshToken(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.RefreshTokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.RefreshSecret))
}

// issueTokens mints a fresh access/refresh pair and persists the refresh
// token so it can be checked (and rotated) on renewal.
func (s *Server) issueTokens(c *fiber.Ctx, userID uint) (access, refresh string, err error) {
	access, err = s.generateAccessToken(userID)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.generateRefreshToken(userID)
	if err != nil {
		return "", "", err
	}
	if err = s.userRepo.UpdateRefreshToken(c.Context(), userID, refresh); err != nil {
		return "", "", err
	}
	s.setAuthCookies(c, access, refresh)
	return access, refresh, nil
}

func (s *Server) setAuthCookies(c *fiber.Ctx, access, refresh string) {
	c.Cookie(&fiber.Cookie{
		Name:     accessCookieName,
		Value:    access,
		Expires:  time.Now().Add(s.config.AccessTokenTTL),
		HTTPOnly: true,
		Secure:   s.config.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    refresh,
		Expires:  time.Now().Add(s.config.RefreshTokenTTL),
		HTTPOnly: true,
		Secure:   s.config.SecureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func (s *Server) clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{accessCookieName, refreshCookieName} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			HTTPOnly: true,
			Secure:   s.config.SecureCookies,
			SameSite: fiber.CookieSameSiteLaxMode,
			Path:     "/",
		})
	}
}

// parseToken validates a signed token against the given secret and returns
// the user ID from the subject claim.
func parseToken(tokenString, secret string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience))
	if err != nil || !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || id == 0 {
		return 0, jwt.ErrTokenInvalidSubject
	}
	return uint(id), nil
}

// requestToken pulls the access token from the auth cookie or, failing
// that, a Bearer authorization header.
func requestToken(c *fiber.Ctx) string {
	if t := c.Cookies(accessCookieName); t != "" {
		return t
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// AuthRequired rejects requests without a valid access token and stores the
// authenticated user's ID in c.Locals("userID").
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := requestToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}

		userID, err := parseToken(tokenString, s.config.AccessSecret)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		// Tokens outlive accounts; make sure the user still exists.
		user, err := s.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		if user == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}

// currentUserID returns the authenticated user's ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// optionalUserID resolves the requester's identity when a valid token is
// present, returning 0 for anonymous requests. Used on public listings that
// widen visibility for owners.
func (s *Server) optionalUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	tokenString := requestToken(c)
	if tokenString == "" {
		return 0
	}
	userID, err := parseToken(tokenString, s.config.AccessSecret)
	if err != nil {
		return 0
	}
	return userID
}

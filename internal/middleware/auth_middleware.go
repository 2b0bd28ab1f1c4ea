package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/errors"
	"github.com/ikkim/survei-backend/pkg/util"
)

// Context keys for authenticated request data
const (
	UserKey        = "user"
	UserIDKey      = "user_id"
	UserRoleKey    = "user_role"
	ClaimsKey      = "claims"
	AccessTokenKey = "access_token"
)

// UserLoader fetches the account behind a token on every request, so role,
// permission and deactivation changes apply without re-login.
type UserLoader interface {
	FindByID(id string) (*model.User, error)
}

// RevocationChecker reports blacklisted (logged out) tokens.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type AuthMiddleware struct {
	jwtSecret string
	users     UserLoader
	revoked   RevocationChecker
}

// NewAuthMiddleware builds the middleware. revoked may be nil when no token
// blacklist is configured.
func NewAuthMiddleware(jwtSecret string, users UserLoader, revoked RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		users:     users,
		revoked:   revoked,
	}
}

// Authenticate validates the bearer access token (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "Silakan login terlebih dahulu")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Format otorisasi tidak valid")
			c.Abort()
			return
		}
		token := parts[1]

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err == nil && claims.TokenType != util.TokenTypeAccess {
			err = util.ErrInvalidToken
		}
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if stderrors.Is(err, util.ErrExpiredToken) {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Sesi login telah berakhir")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Token autentikasi tidak valid")
			}
			c.Abort()
			return
		}

		if m.revoked != nil {
			revoked, err := m.revoked.IsRevoked(c.Request.Context(), token)
			if err != nil {
				log.Error("Failed to check token blacklist", err, map[string]interface{}{
					"user_id": claims.UserID,
				})
				errors.InternalError(c, "")
				c.Abort()
				return
			}
			if revoked {
				log.Warn("Revoked token used", map[string]interface{}{
					"user_id": claims.UserID,
				})
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "Sesi login telah diakhiri")
				c.Abort()
				return
			}
		}

		user, err := m.users.FindByID(claims.UserID)
		if err != nil {
			log.Warn("Token user not found", map[string]interface{}{
				"user_id": claims.UserID,
				"error":   err.Error(),
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Token autentikasi tidak valid")
			c.Abort()
			return
		}
		if !user.IsActive {
			log.Warn("Inactive user rejected", map[string]interface{}{
				"user_id": user.ID,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthUserInactive, "Akun tidak aktif")
			c.Abort()
			return
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Set(UserRoleKey, user.Role)
		c.Set(ClaimsKey, claims)
		c.Set(AccessTokenKey, token)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id": user.ID,
			"role":    user.Role,
		})

		c.Next()
	}
}

// RequireRole checks if user has one of the roles. Must run after Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		user, ok := GetCurrentUser(c)
		if !ok {
			log.Warn("User not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}

		log.Warn("Insufficient permissions", map[string]interface{}{
			"user_id":        user.ID,
			"user_role":      user.Role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		code := errors.AuthzForbidden
		if len(roles) == 1 && roles[0] == model.RoleSuperAdmin {
			code = errors.AuthzSuperAdminOnly
		}
		errors.RespondWithError(c, http.StatusForbidden, code, "Akses ditolak")
		c.Abort()
	}
}

// GetCurrentUser returns the account loaded by Authenticate
func GetCurrentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	id := c.GetString(UserIDKey)
	return id, id != ""
}

// GetClaims returns the validated token claims
func GetClaims(c *gin.Context) (*util.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*util.Claims)
	return claims, ok
}

// GetAccessToken returns the raw bearer token of the request
func GetAccessToken(c *gin.Context) string {
	return c.GetString(AccessTokenKey)
}

package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/auth"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/logs"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/user"
)

// LoginURL reçoit les visiteurs anonymes des routes protégées
const LoginURL = "/accounts/login"

// AuthMiddleware identifie l'utilisateur si un token valide est présent
// (header Bearer ou cookie). Une requête anonyme continue sans user_id.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			tokenStr, _ = c.Cookie(auth.CookieName)
		}
		if tokenStr == "" {
			c.Next()
			return
		}

		userID, err := auth.ParseToken(tokenStr)
		if err != nil {
			logs.LogRequest(c, "DEBUG", "Invalid token ignored", nil)
			c.Next()
			return
		}

		c.Set(user.ContextKey, userID)
		c.Next()
	}
}

// LoginRequired redirige vers la page de connexion avec ?next=
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := user.CurrentID(c); ok {
			c.Next()
			return
		}
		redirectToLogin(c)
	}
}

// PermissionRequired : connexion obligatoire puis contrôle de la permission
// par user.CanPerform.
func PermissionRequired(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := user.CurrentID(c)
		if !ok {
			redirectToLogin(c)
			return
		}

		allowed, err := user.CanPerform(c.Request.Context(), userID, action)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification des permissions"})
			logs.LogRequest(c, "ERROR", "Permission check error", map[string]interface{}{
				"error":  err.Error(),
				"action": action,
			})
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission refusée"})
			logs.LogRequest(c, "WARN", "Permission denied", map[string]interface{}{
				"action": action,
			})
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, LoginURL+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
	c.Abort()
}

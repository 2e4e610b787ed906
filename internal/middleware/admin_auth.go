package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/logs"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/user"
)

// SuperuserRequired permet de protéger certaines routes aux superusers uniquement
func SuperuserRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := user.CurrentID(c)
		if !ok {
			redirectToLogin(c)
			return
		}

		isSuperuser, err := user.IsSuperuser(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification admin"})
			logs.LogRequest(c, "ERROR", "Superuser check error", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}

		if !isSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
			logs.LogRequest(c, "WARN", "Non-superuser blocked from admin route", nil)
			return
		}

		c.Next()
	}
}

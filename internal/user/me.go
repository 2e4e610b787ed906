package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/database"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/group"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/logs"
)

// ContextKey est la clé gin posée par le middleware d'authentification
const ContextKey = "user_id"

func CurrentID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// GetMe GET /accounts/me
func GetMe(c *gin.Context) {
	userID, _ := CurrentID(c)
	ctx := c.Request.Context()
	db := database.DB.WithContext(ctx)

	u, err := FindByID(db, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur non trouvé"})
		logs.LogRequest(c, "WARN", "User not found", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	groups, err := group.NamesFor(db, u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des groupes"})
		logs.LogRequest(c, "ERROR", "Group lookup error", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	canAdd, err := CanPerform(ctx, u.ID, group.AddPost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification des permissions"})
		logs.LogRequest(c, "ERROR", "Permission check error", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	response := gin.H{
		"id":           u.ID,
		"username":     u.Username,
		"email":        u.Email,
		"created_at":   u.CreatedAt,
		"groups":       groups,
		"can_add_post": canAdd,
	}
	if u.IsSuperuser {
		response["is_superuser"] = true
	}

	c.JSON(http.StatusOK, gin.H{"user": response})
}

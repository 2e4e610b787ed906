package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/database"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/group"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/logs"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/user"
)

const successURL = "/news/"

// Signup : Inscription. Le nouvel utilisateur rejoint le groupe "common"
// dans la même transaction; sans ce groupe l'inscription échoue.
func Signup(c *gin.Context) {
	var input struct {
		Email    string `json:"email" form:"email"`
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Username = strings.TrimSpace(input.Username)

	if errs := ValidateCredentials(input.Email, input.Username, input.Password); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	ctx := c.Request.Context()

	// Vérification que email et username n'existent pas
	if user.ExistsByEmail(ctx, input.Email) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email déjà utilisé"})
		return
	}
	if user.ExistsByUsername(ctx, input.Username) {
		c.JSON(http.StatusConflict, gin.H{"error": "Nom d'utilisateur déjà utilisé"})
		return
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne"})
		logs.LogRequest(c, "ERROR", "Password hashing error", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	newUser := user.User{
		CreatedAt:    time.Now(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}

	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		return group.AddMember(tx, newUser.ID, group.Common)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// inscription concurrente entre la vérification et l'insertion
		c.JSON(http.StatusConflict, gin.H{"error": "Email ou nom d'utilisateur déjà utilisé"})
		logs.LogRequest(c, "WARN", "Duplicate user on insert", map[string]interface{}{
			"username": input.Username,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur insertion base utilisateurs"})
		message := "User creation error"
		if errors.Is(err, group.ErrGroupNotFound) {
			message = "Default group missing, signup aborted"
		}
		logs.LogRequest(c, "ERROR", message, map[string]interface{}{
			"error":    err.Error(),
			"username": input.Username,
		})
		return
	}

	token, err := GenerateToken(newUser.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération du token"})
		logs.LogRequest(c, "ERROR", "Token generation error", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	setTokenCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Utilisateur inscrit 🎉",
		"user":     publicUser(&newUser),
		"token":    token,
		"redirect": successURL,
	})
	logs.LogRequest(c, "INFO", "User signed up", map[string]interface{}{
		"newUserID": newUser.ID,
	})
}

// Login : connexion par username + mot de passe
func Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" form:"username" binding:"required"`
		Password string `json:"password" form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champs requis manquants"})
		return
	}

	u, err := user.FindByUsername(c.Request.Context(), strings.TrimSpace(input.Username))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne"})
		logs.LogRequest(c, "ERROR", "User lookup error", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if err != nil || !CheckPasswordHash(input.Password, u.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		logs.LogRequest(c, "WARN", "Failed login", map[string]interface{}{
			"username": input.Username,
		})
		return
	}

	token, err := GenerateToken(u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération du token"})
		logs.LogRequest(c, "ERROR", "Token generation error", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	setTokenCookie(c, token)

	next := c.Query("next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = successURL
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": publicUser(u), "redirect": next})
}

// Logout efface le cookie de session
func Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Déconnecté"})
}

// UpgradeMe GET /upgrade/ : ajoute l'utilisateur au groupe "authors" s'il
// n'en fait pas encore partie, puis redirige vers la liste dans tous les cas.
func UpgradeMe(c *gin.Context) {
	userID, _ := user.CurrentID(c)

	added, err := group.EnsureMember(database.DB.WithContext(c.Request.Context()), userID, group.Authors)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du passage en auteur"})
		logs.LogRequest(c, "ERROR", "Upgrade to authors failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if added {
		logs.LogRequest(c, "INFO", "User upgraded to authors", nil)
	}
	c.Redirect(http.StatusFound, successURL)
}

func setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(tokenTTL.Seconds()), "/", "", cookieSecure, true)
}

func publicUser(u *user.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"created_at": u.CreatedAt,
	}
}

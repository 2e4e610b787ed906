package category

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/database"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/logs"
)

// ListCategories GET /news/categories
func ListCategories(c *gin.Context) {
	categories, err := All(c.Request.Context(), database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des catégories"})
		logs.LogRequest(c, "ERROR", "Category listing error", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory POST /news/categories (superuser)
func CreateCategory(c *gin.Context) {
	var input struct {
		Name string `json:"name" form:"name"`
	}
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"name": []string{"Ce champ est obligatoire."}}})
		return
	}
	if utf8.RuneCountInString(input.Name) > 64 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"name": []string{"64 caractères maximum."}}})
		return
	}

	created, err := Create(c.Request.Context(), database.DB, input.Name)
	if errors.Is(err, ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"error": "Catégorie déjà existante"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création de la catégorie"})
		logs.LogRequest(c, "ERROR", "Category creation error", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": created})
	logs.LogRequest(c, "INFO", "Category created", map[string]interface{}{
		"categoryID": created.ID,
	})
}

package post

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/category"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/database"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/events"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/group"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/logs"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/user"
)

// ListURL est la cible des redirections après suppression ou upgrade
const ListURL = "/news/"

// ListPosts GET /news/
func ListPosts(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())

	news, page, err := Paginate(Base(db), c.Query("page"), PageSize)
	if errors.Is(err, ErrInvalidPage) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page invalide"})
		return
	}
	if err != nil {
		internalError(c, "Post listing error", err)
		return
	}

	body, err := listContext(c, db)
	if err != nil {
		internalError(c, "Post listing error", err)
		return
	}
	body["news"] = news
	body["page"] = page
	c.JSON(http.StatusOK, body)
}

// CreateFromList POST /news/ : enregistre le post puis renvoie la liste complète
func CreateFromList(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())

	data, err := ReadFormData(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide", "details": err.Error()})
		return
	}

	form, formErrors := BindForm(db, data)
	var created *Post
	if form != nil {
		created = &Post{}
		if err := form.Save(db, created); err != nil {
			internalError(c, "Post creation error", err)
			return
		}
		publish(c, events.PostCreated, created)
	}

	news, err := FindOrdered(Base(db), 0, 0)
	if err != nil {
		internalError(c, "Post listing error", err)
		return
	}
	body, err := listContext(c, db)
	if err != nil {
		internalError(c, "Post listing error", err)
		return
	}
	body["news"] = news

	if formErrors != nil {
		body["errors"] = formErrors
		c.JSON(http.StatusBadRequest, body)
		return
	}
	body["post"] = created
	c.JSON(http.StatusCreated, body)
	logs.LogRequest(c, "INFO", "Post created from list", map[string]interface{}{
		"postID": created.ID,
	})
}

// SearchPosts GET /news/search/ : résultats filtrés, sans pagination
func SearchPosts(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())

	filter := NewFilter(c.Request.URL.Query())
	news, err := FindOrdered(filter.Apply(Base(db)), 0, 0)
	if err != nil {
		internalError(c, "Post search error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": news, "filter": filter})
}

// GetPost GET /news/:id
func GetPost(c *gin.Context) {
	p, ok := loadPost(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p})
}

// AddPostForm GET /news/add
func AddPostForm(c *gin.Context) {
	notAuthor, err := isNotAuthor(c)
	if err != nil {
		internalError(c, "Group lookup error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"form": FormSchema(), "is_not_authors": notAuthor})
}

// AddPost POST /news/add
func AddPost(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())

	notAuthor, err := isNotAuthor(c)
	if err != nil {
		internalError(c, "Group lookup error", err)
		return
	}

	data, err := ReadFormData(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide", "details": err.Error()})
		return
	}

	form, formErrors := BindForm(db, data)
	if formErrors != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": formErrors, "form": FormSchema(), "is_not_authors": notAuthor})
		logs.LogRequest(c, "WARN", "Invalid post submission", map[string]interface{}{
			"fields": len(formErrors),
		})
		return
	}

	p := &Post{}
	if err := form.Save(db, p); err != nil {
		internalError(c, "Post creation error", err)
		return
	}
	publish(c, events.PostCreated, p)

	saved, err := GetByID(db, p.ID)
	if err != nil {
		internalError(c, "Post reload error", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Post créé avec succès", "post": saved, "is_not_authors": notAuthor})
	logs.LogRequest(c, "INFO", "Post created successfully", map[string]interface{}{
		"postID": p.ID,
	})
}

// EditPostForm GET /news/:id/edit
func EditPostForm(c *gin.Context) {
	p, ok := loadPost(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p, "form": FormSchema()})
}

// EditPost POST /news/:id/edit. Le post est relu en base ici même, jamais
// réutilisé depuis une requête précédente.
func EditPost(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())

	p, ok := loadPost(c)
	if !ok {
		return
	}

	data, err := ReadFormData(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide", "details": err.Error()})
		return
	}

	form, formErrors := BindForm(db, data)
	if formErrors != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": formErrors, "post": p, "form": FormSchema()})
		return
	}

	if err := form.Save(db, p); err != nil {
		internalError(c, "Post update error", err)
		return
	}
	publish(c, events.PostUpdated, p)

	saved, err := GetByID(db, p.ID)
	if err != nil {
		internalError(c, "Post reload error", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post mis à jour", "post": saved})
	logs.LogRequest(c, "INFO", "Post updated successfully", map[string]interface{}{
		"postID": p.ID,
	})
}

// DeletePostConfirm GET /news/:id/delete
func DeletePostConfirm(c *gin.Context) {
	p, ok := loadPost(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p})
}

// DeletePost POST /news/:id/delete
func DeletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := Delete(database.DB.WithContext(c.Request.Context()), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé"})
		return
	}
	if err != nil {
		internalError(c, "Post deletion error", err)
		return
	}

	publish(c, events.PostDeleted, &Post{ID: id})
	logs.LogRequest(c, "INFO", "Post deleted successfully", map[string]interface{}{
		"postID": id,
	})
	c.Redirect(http.StatusFound, ListURL)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé"})
		return 0, false
	}
	return uint(id), true
}

func loadPost(c *gin.Context) (*Post, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}
	p, err := GetByID(database.DB.WithContext(c.Request.Context()), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé"})
		logs.LogRequest(c, "WARN", "Post not found", map[string]interface{}{
			"postID": id,
		})
		return nil, false
	}
	if err != nil {
		internalError(c, "Post lookup error", err)
		return nil, false
	}
	return p, true
}

// listContext construit ce qui accompagne toute liste : filtre et catégories
func listContext(c *gin.Context, db *gorm.DB) (gin.H, error) {
	filter := NewFilter(c.Request.URL.Query())
	filterState := gin.H{"params": filter.Params}
	if len(filter.Errors) > 0 {
		filterState["errors"] = filter.Errors
	}
	if filter.IsBound() {
		results, err := FindOrdered(filter.Apply(Base(db)), 0, 0)
		if err != nil {
			return nil, err
		}
		filterState["results"] = results
	}

	categories, err := category.All(c.Request.Context(), database.DB)
	if err != nil {
		return nil, err
	}

	return gin.H{
		"filter":     filterState,
		"categories": categories,
		"form":       FormSchema(),
	}, nil
}

func isNotAuthor(c *gin.Context) (bool, error) {
	userID, ok := user.CurrentID(c)
	if !ok {
		return true, nil
	}
	member, err := group.IsMember(database.DB.WithContext(c.Request.Context()), userID, group.Authors)
	return !member, err
}

func publish(c *gin.Context, subject string, p *Post) {
	events.Publish(c.Request.Context(), subject, gin.H{
		"id":            p.ID,
		"author_id":     p.AuthorID,
		"category_type": p.CategoryType,
		"title":         p.Title,
	})
}

func internalError(c *gin.Context, message string, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne"})
	logs.LogRequest(c, "ERROR", message, map[string]interface{}{
		"error": err.Error(),
	})
}

package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/category"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/database"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/group"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/logs"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/post"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/user"
)

const (
	dateLayout      = "2006-01-02"
	defaultTopLimit = 10
	maxTopLimit     = 100
)

type TypeCount struct {
	CategoryType post.CategoryType `json:"category_type"`
	Count        int64             `json:"count"`
}

type TopAuthor struct {
	AuthorID    uint   `json:"author_id"`
	Username    string `json:"username"`
	PostCount   int64  `json:"post_count"`
	TotalRating int64  `json:"total_rating"`
}

// GetDashboardStats GET /api/admin/stats
func GetDashboardStats(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())

	// Période optionnelle pour le compteur de posts publiés
	startDate := time.Now().AddDate(0, 0, -30) // 30 jours par défaut
	endDate := time.Now()
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Format de date invalide pour start_date"})
			return
		}
		startDate = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Format de date invalide pour end_date"})
			return
		}
		endDate = parsed
	}

	var totalPosts, postsInRange, totalCategories, totalUsers int64
	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{db.Model(&post.Post{}), &totalPosts},
		{db.Model(&post.Post{}).Where("created_at >= ? AND created_at < ?", startDate, endDate.AddDate(0, 0, 1)), &postsInRange},
		{db.Model(&category.Category{}), &totalCategories},
		{db.Model(&user.User{}), &totalUsers},
	}
	for _, q := range counts {
		if err := q.query.Count(q.dest).Error; err != nil {
			statsError(c, err)
			return
		}
	}

	authorsCount, err := group.CountMembers(db, group.Authors)
	if err != nil {
		statsError(c, err)
		return
	}

	byType := []TypeCount{}
	if err := db.Model(&post.Post{}).
		Select("category_type, COUNT(*) AS count").
		Group("category_type").
		Order("category_type").
		Scan(&byType).Error; err != nil {
		statsError(c, err)
		return
	}

	top, err := topAuthors(db, parseLimit(c.Query("limit")))
	if err != nil {
		statsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": gin.H{
		"total_posts":      totalPosts,
		"posts_in_range":   postsInRange,
		"posts_by_type":    byType,
		"total_categories": totalCategories,
		"total_users":      totalUsers,
		"authors_count":    authorsCount,
		"top_authors":      top,
		"date_range": gin.H{
			"start": startDate.Format(dateLayout),
			"end":   endDate.Format(dateLayout),
		},
	}})
	logs.LogRequest(c, "INFO", "Admin stats retrieved successfully", nil)
}

// GetTopAuthors GET /api/admin/top-authors
func GetTopAuthors(c *gin.Context) {
	limit := parseLimit(c.Query("limit"))
	top, err := topAuthors(database.DB.WithContext(c.Request.Context()), limit)
	if err != nil {
		statsError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"top_authors": top})
	logs.LogRequest(c, "INFO", "Top authors retrieved successfully", map[string]interface{}{
		"limit": limit,
	})
}

// topAuthors classe les auteurs par somme des notes de leurs posts
func topAuthors(db *gorm.DB, limit int) ([]TopAuthor, error) {
	top := []TopAuthor{}
	err := db.Table("posts").
		Select("posts.author_id, users.username, COUNT(posts.id) AS post_count, COALESCE(SUM(posts.rating), 0) AS total_rating").
		Joins("JOIN users ON users.id = posts.author_id").
		Group("posts.author_id, users.username").
		Order("total_rating DESC, posts.author_id").
		Limit(limit).
		Scan(&top).Error
	return top, err
}

func parseLimit(raw string) int {
	if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= maxTopLimit {
		return parsed
	}
	return defaultTopLimit
}

func statsError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du calcul des statistiques"})
	logs.LogRequest(c, "ERROR", "Admin stats error", map[string]interface{}{
		"error": err.Error(),
	})
}

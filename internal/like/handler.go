package like

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/database"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/logs"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/post"
)

// Like POST /news/:id/like
func Like(c *gin.Context) {
	vote(c, up)
}

// Dislike POST /news/:id/dislike
func Dislike(c *gin.Context) {
	vote(c, down)
}

func vote(c *gin.Context, delta int) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé"})
		return
	}

	rating, err := post.AdjustRating(database.DB.WithContext(c.Request.Context()), uint(postID), delta)
	if errors.Is(err, post.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post non trouvé"})
		logs.LogRequest(c, "WARN", "Post not found", map[string]interface{}{
			"postID": postID,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du vote"})
		logs.LogRequest(c, "ERROR", "Error when voting", map[string]interface{}{
			"error":  err.Error(),
			"postID": postID,
		})
		return
	}

	c.JSON(http.StatusOK, RatingResponse{PostID: uint(postID), Rating: rating})
	logs.LogRequest(c, "INFO", "Post rating updated", map[string]interface{}{
		"postID": postID,
		"delta":  delta,
	})
}

package like

// RatingResponse est renvoyé après un vote
type RatingResponse struct {
	PostID uint `json:"post_id"`
	Rating int  `json:"rating"`
}

const (
	up   = 1
	down = -1
)

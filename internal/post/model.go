package post

import (
	"time"

	"gorm.io/gorm"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/category"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/user"
)

// CategoryType distingue les news des articles
type CategoryType string

const (
	News    CategoryType = "NW"
	Article CategoryType = "AR"
)

func (t CategoryType) IsValid() bool {
	switch t {
	case News, Article:
		return true
	default:
		return false
	}
}

type Post struct {
	ID           uint                `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time           `json:"created_at" gorm:"index"`
	AuthorID     uint                `json:"author_id" gorm:"not null;index"`
	Author       user.User           `json:"author" gorm:"foreignKey:AuthorID"`
	CategoryType CategoryType        `json:"category_type" gorm:"size:2;not null;index"`
	Categories   []category.Category `json:"post_category" gorm:"many2many:post_categories"`
	Title        string              `json:"title" gorm:"size:128;not null"`
	Text         string              `json:"text" gorm:"type:text;not null"`
	Rating       int                 `json:"rating" gorm:"not null;default:0"`
}

// PostCategory est la table de liaison post <-> catégorie
type PostCategory struct {
	PostID     uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"primaryKey;index"`
}

func (PostCategory) TableName() string {
	return "post_categories"
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Post{}, "Categories", &PostCategory{}); err != nil {
		return err
	}
	return db.AutoMigrate(&Post{})
}

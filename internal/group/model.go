package group

import (
	"time"

	"gorm.io/gorm"
)

const (
	Common  = "common"
	Authors = "authors"
)

// Codenames des permissions sur les posts
const (
	AddPost    = "add_post"
	ChangePost = "change_post"
	DeletePost = "delete_post"
	ViewPost   = "view_post"
)

type Permission struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Codename string `json:"codename" gorm:"size:100;uniqueIndex;not null"`
	Name     string `json:"name" gorm:"size:255"`
}

type Group struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"size:150;uniqueIndex;not null"`
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:group_permissions"`
}

// "groups" est un mot-clé SQLite
func (Group) TableName() string {
	return "auth_groups"
}

// Membership relie un utilisateur à un groupe
type Membership struct {
	UserID    uint `gorm:"primaryKey"`
	GroupID   uint `gorm:"primaryKey;index"`
	CreatedAt time.Time
}

func (Membership) TableName() string {
	return "user_groups"
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Permission{}, &Group{}, &Membership{})
}

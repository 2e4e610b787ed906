package user

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time `json:"created_at"`
	Username     string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email        string    `json:"-" gorm:"size:254;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	IsSuperuser  bool      `json:"is_superuser,omitempty" gorm:"not null;default:false"`
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}

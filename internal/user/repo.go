package user

import (
	"context"

	"gorm.io/gorm"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/database"
)

func ExistsByEmail(ctx context.Context, email string) bool {
	var count int64
	database.DB.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count)
	return count > 0
}

func ExistsByUsername(ctx context.Context, username string) bool {
	var count int64
	database.DB.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&count)
	return count > 0
}

// FindByUsername renvoie gorm.ErrRecordNotFound si absent
func FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if err := database.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func FindByID(db *gorm.DB, id uint) (*User, error) {
	var u User
	if err := db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

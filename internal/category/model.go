package category

import "gorm.io/gorm"

type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:64;uniqueIndex;not null"`
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Category{})
}

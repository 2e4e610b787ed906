package post

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("post not found")

// withRelations précharge l'auteur et les catégories
func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Categories", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("categories.id")
	})
}

// Base est la requête non filtrée des listings
func Base(db *gorm.DB) *gorm.DB {
	return db.Model(&Post{}).Session(&gorm.Session{})
}

// FindOrdered exécute q avec les relations, id décroissant
func FindOrdered(q *gorm.DB, limit, offset int) ([]Post, error) {
	posts := []Post{}
	tx := withRelations(q).Order("posts.id DESC")
	if limit > 0 {
		tx = tx.Limit(limit).Offset(offset)
	}
	err := tx.Find(&posts).Error
	return posts, err
}

// GetByID relit toujours le post en base
func GetByID(db *gorm.DB, id uint) (*Post, error) {
	var p Post
	if err := withRelations(db).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &p, nil
}

func Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&PostCategory{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return nil
	})
}

// AdjustRating ajoute delta à la note de façon atomique et renvoie la nouvelle note
func AdjustRating(db *gorm.DB, id uint, delta int) (int, error) {
	var rating int
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Post{}).Where("id = ?", id).UpdateColumn("rating", gorm.Expr("rating + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return tx.Model(&Post{}).Select("rating").Where("id = ?", id).Scan(&rating).Error
	})
	return rating, err
}

package category

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/cache"
)

const (
	cacheKey = "news:categories"
	cacheTTL = 5 * time.Minute
)

var (
	ErrDuplicate = errors.New("category already exists")
	ErrEmptyName = errors.New("category name is empty")
)

// All renvoie toutes les catégories triées par nom, via le cache si actif
func All(ctx context.Context, db *gorm.DB) ([]Category, error) {
	return cache.GetOrLoad(ctx, cacheKey, cacheTTL, func(ctx context.Context) ([]Category, error) {
		categories := []Category{}
		err := db.WithContext(ctx).Order("name").Find(&categories).Error
		return categories, err
	})
}

// ByIDs charge les catégories demandées; l'appelant compare les longueurs
// pour détecter les ids inconnus.
func ByIDs(db *gorm.DB, ids []uint) ([]Category, error) {
	categories := []Category{}
	if len(ids) == 0 {
		return categories, nil
	}
	err := db.Where("id IN ?", ids).Order("id").Find(&categories).Error
	return categories, err
}

func Create(ctx context.Context, db *gorm.DB, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	var count int64
	if err := db.WithContext(ctx).Model(&Category{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	c := Category{Name: name}
	if err := db.WithContext(ctx).Create(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	cache.Invalidate(ctx, cacheKey)
	return &c, nil
}

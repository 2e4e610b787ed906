package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/database"
	"github.com/ArthurDelaporte/NewsPortal-Back/internal/group"
)

// IsSuperuser vérifie si un utilisateur est superuser à partir de son ID
func IsSuperuser(ctx context.Context, userID uint) (bool, error) {
	var isSuperuser bool
	if err := database.DB.WithContext(ctx).Model(&User{}).Select("is_superuser").Where("id = ?", userID).Scan(&isSuperuser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return isSuperuser, nil
}

// CanPerform indique si l'utilisateur a le droit d'effectuer l'action
// (codename de permission, ex. "add_post"). Un superuser peut tout faire,
// sinon la permission doit être portée par l'un de ses groupes.
func CanPerform(ctx context.Context, userID uint, action string) (bool, error) {
	isSuperuser, err := IsSuperuser(ctx, userID)
	if err != nil {
		return false, err
	}
	if isSuperuser {
		return true, nil
	}
	return group.HasPermission(database.DB.WithContext(ctx), userID, action)
}

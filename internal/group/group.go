package group

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrGroupNotFound = errors.New("group not found")

// ByName renvoie ErrGroupNotFound si le groupe n'a pas été créé
func ByName(db *gorm.DB, name string) (*Group, error) {
	var g Group
	if err := db.Where("name = ?", name).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, name)
		}
		return nil, err
	}
	return &g, nil
}

func IsMember(db *gorm.DB, userID uint, name string) (bool, error) {
	var count int64
	err := db.Model(&Membership{}).
		Joins("JOIN auth_groups ON auth_groups.id = user_groups.group_id").
		Where("user_groups.user_id = ? AND auth_groups.name = ?", userID, name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddMember est sans effet si l'utilisateur est déjà membre
func AddMember(db *gorm.DB, userID uint, name string) error {
	g, err := ByName(db, name)
	if err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Membership{UserID: userID, GroupID: g.ID}).Error
}

// EnsureMember ajoute l'utilisateur au groupe s'il n'en fait pas partie.
// added vaut false quand rien n'a changé, y compris si une requête
// concurrente a inséré la même adhésion.
func EnsureMember(db *gorm.DB, userID uint, name string) (added bool, err error) {
	g, err := ByName(db, name)
	if err != nil {
		return false, err
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Membership{UserID: userID, GroupID: g.ID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// NamesFor liste les groupes d'un utilisateur, triés par nom
func NamesFor(db *gorm.DB, userID uint) ([]string, error) {
	names := []string{}
	err := db.Model(&Group{}).
		Joins("JOIN user_groups ON user_groups.group_id = auth_groups.id").
		Where("user_groups.user_id = ?", userID).
		Order("auth_groups.name").
		Pluck("auth_groups.name", &names).Error
	return names, err
}

func CountMembers(db *gorm.DB, name string) (int64, error) {
	var count int64
	err := db.Model(&Membership{}).
		Joins("JOIN auth_groups ON auth_groups.id = user_groups.group_id").
		Where("auth_groups.name = ?", name).
		Count(&count).Error
	return count, err
}

package group

import "gorm.io/gorm"

// HasPermission vrai si l'un des groupes de l'utilisateur porte le codename
func HasPermission(db *gorm.DB, userID uint, codename string) (bool, error) {
	var count int64
	err := db.Table("group_permissions").
		Joins("JOIN permissions ON permissions.id = group_permissions.permission_id").
		Joins("JOIN user_groups ON user_groups.group_id = group_permissions.group_id").
		Where("user_groups.user_id = ? AND permissions.codename = ?", userID, codename).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var defaultPermissions = []Permission{
	{Codename: AddPost, Name: "Can add post"},
	{Codename: ChangePost, Name: "Can change post"},
	{Codename: DeletePost, Name: "Can delete post"},
	{Codename: ViewPost, Name: "Can view post"},
}

// EnsureDefaults crée les groupes common/authors, les permissions sur les
// posts et donne add_post + change_post aux authors. Idempotent.
func EnsureDefaults(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		perms := make(map[string]Permission, len(defaultPermissions))
		for _, p := range defaultPermissions {
			perm := p
			if err := tx.Where(Permission{Codename: p.Codename}).Attrs(Permission{Name: p.Name}).FirstOrCreate(&perm).Error; err != nil {
				return err
			}
			perms[perm.Codename] = perm
		}

		for _, name := range []string{Common, Authors} {
			var g Group
			if err := tx.Where(Group{Name: name}).FirstOrCreate(&g).Error; err != nil {
				return err
			}
			if name != Authors {
				continue
			}
			grants := []Permission{perms[AddPost], perms[ChangePost]}
			if err := tx.Model(&g).Association("Permissions").Append(&grants); err != nil {
				return err
			}
		}
		return nil
	})
}

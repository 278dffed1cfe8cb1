package database

import (
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"todo-admin-service/internal/domain"
	"todo-admin-service/internal/permissions"
)

type SeedReport struct {
	CreatedPermissions int
	CreatedRoles       int
	SyncedRoles        int
	AdminAssigned      bool
	Noop               bool
}

// SeedSync derives one permission per configured (action, resource) pair,
// find-or-creates the default roles and resynchronizes each role's
// permission set to its rule's current match set. Replace, not merge:
// a permission a rule no longer matches is detached. Running it twice in a
// row leaves the database unchanged and reports Noop.
//
// When bootstrapAdminEmail names an existing user, that user is granted the
// super-admin role.
func SeedSync(db *gorm.DB, bootstrapAdminEmail string) (SeedReport, error) {
	var report SeedReport

	defs, err := permissions.Definitions()
	if err != nil {
		return report, err
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, def := range defs {
			created, err := firstOrCreatePermission(tx, def)
			if err != nil {
				return fmt.Errorf("seed permission %s: %w", def.Name, err)
			}
			if created {
				report.CreatedPermissions++
			}
		}

		var all []domain.Permission
		if err := tx.Order("name asc").Find(&all).Error; err != nil {
			return fmt.Errorf("load permissions: %w", err)
		}

		for _, rule := range permissions.DefaultRoleRules {
			created, synced, err := syncRole(tx, rule, all)
			if err != nil {
				return fmt.Errorf("seed role %s: %w", rule.Role, err)
			}
			if created {
				report.CreatedRoles++
			}
			if synced {
				report.SyncedRoles++
			}
		}

		if bootstrapAdminEmail != "" {
			assigned, err := assignSuperAdmin(tx, bootstrapAdminEmail)
			if err != nil {
				return err
			}
			report.AdminAssigned = assigned
		}
		return nil
	})
	if err != nil {
		return SeedReport{}, err
	}

	report.Noop = report.CreatedPermissions == 0 &&
		report.CreatedRoles == 0 &&
		report.SyncedRoles == 0 &&
		!report.AdminAssigned
	return report, nil
}

func firstOrCreatePermission(tx *gorm.DB, def permissions.Definition) (bool, error) {
	var existing domain.Permission
	err := tx.Where("name = ?", def.Name).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	perm := domain.Permission{
		Name:        def.Name,
		DisplayName: def.DisplayName,
		Group:       def.Group,
	}
	if err := tx.Create(&perm).Error; err != nil {
		return false, err
	}
	return true, nil
}

func syncRole(tx *gorm.DB, rule permissions.RoleRule, all []domain.Permission) (created, synced bool, err error) {
	var role domain.Role
	err = tx.Where("name = ?", rule.Role).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		role = domain.Role{Name: rule.Role}
		if err := tx.Create(&role).Error; err != nil {
			return false, false, err
		}
		created = true
	} else if err != nil {
		return false, false, err
	}

	target := make([]domain.Permission, 0, len(all))
	targetIDs := make(map[uint]struct{})
	for _, perm := range all {
		if rule.Matches(perm.Name) {
			target = append(target, perm)
			targetIDs[perm.ID] = struct{}{}
		}
	}

	var currentIDs []uint
	if err := tx.Model(&domain.RolePermission{}).
		Where("role_id = ?", role.ID).
		Pluck("permission_id", &currentIDs).Error; err != nil {
		return false, false, err
	}

	if !sameIDSet(currentIDs, targetIDs) {
		if err := tx.Model(&role).Association("Permissions").Replace(target); err != nil {
			return false, false, err
		}
		synced = true
	}
	return created, synced, nil
}

func sameIDSet(current []uint, target map[uint]struct{}) bool {
	if len(current) != len(target) {
		return false
	}
	for _, id := range current {
		if _, ok := target[id]; !ok {
			return false
		}
	}
	return true
}

func assignSuperAdmin(tx *gorm.DB, email string) (bool, error) {
	var user domain.User
	err := tx.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find bootstrap admin: %w", err)
	}

	var role domain.Role
	if err := tx.Where("name = ?", "super-admin").First(&role).Error; err != nil {
		return false, fmt.Errorf("find super-admin role: %w", err)
	}

	var count int64
	if err := tx.Model(&domain.UserRole{}).
		Where("user_id = ? AND role_id = ?", user.ID, role.ID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := tx.Create(&domain.UserRole{UserID: user.ID, RoleID: role.ID}).Error; err != nil {
		return false, fmt.Errorf("assign super-admin: %w", err)
	}
	return true, nil
}

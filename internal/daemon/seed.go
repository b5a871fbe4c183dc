package daemon

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoContent-Admin/GoContent-Admin/internal/db/models"
)

// seed creates the bootstrap data on an empty database: the super-admin
// role, a default admin account and the function forest with full grants.
func seed(db *gorm.DB) {
	var count int64

	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	log.Info().Msg("empty database, seeding bootstrap data")

	adminRole := models.Role{
		Name:        "Administrator",
		Description: "Built-in super-admin role",
		Level:       models.SuperAdminLevel,
	}
	if err := db.Create(&adminRole).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin role")
	}

	admin := models.User{
		Account: "admin",
		// change after the first login
		PasswordHash:      models.HashPassword("changeme"),
		DisplayName:       "Administrator",
		PasswordChangedAt: time.Now(),
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin user")
	}

	if err := db.Create(&models.UserRole{UserID: admin.ID, RoleID: adminRole.ID}).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to assign admin role")
	}

	functions := seedFunctions(db)

	// the super-admin bypasses permission checks, but explicit grants keep
	// the permission screens populated out of the box
	for _, fn := range functions {
		grant := models.RolePermission{
			RoleID:     adminRole.ID,
			FunctionID: fn.ID,
			CanCreate:  true,
			CanRead:    true,
			CanUpdate:  true,
			CanDelete:  true,
		}
		if err := db.Create(&grant).Error; err != nil {
			log.Fatal().Err(err).Msg("failed to seed admin grants")
		}
	}
}

// seedFunctions creates the default function forest and returns every node.
func seedFunctions(db *gorm.DB) []models.Function {
	create := func(code, name string, parentID *uint, sortOrder int) models.Function {
		fn := models.Function{Code: code, Name: name, ParentID: parentID, SortOrder: sortOrder}
		if err := db.Create(&fn).Error; err != nil {
			log.Fatal().Err(err).Msgf("failed to seed function %s", code)
		}

		return fn
	}

	dashboard := create("dashboard", "Dashboard", nil, 0)
	content := create("content", "Content", nil, 1)
	article := create("content.article", "Articles", &content.ID, 0)
	category := create("content.category", "Categories", &content.ID, 1)
	system := create("system", "System", nil, 2)
	user := create("system.user", "Users", &system.ID, 0)
	role := create("system.role", "Roles", &system.ID, 1)
	setting := create("system.setting", "Settings", &system.ID, 2)

	return []models.Function{dashboard, content, article, category, system, user, role, setting}
}

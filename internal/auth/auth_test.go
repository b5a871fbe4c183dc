package auth

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoContent-Admin/GoContent-Admin/internal/captcha"
	"github.com/GoContent-Admin/GoContent-Admin/internal/db/models"
)

// openTestDB opens a fresh in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.Function{},
		&models.RolePermission{},
		&models.LoginAttempt{},
	)
	require.NoError(t, err)

	return db
}

// createUser inserts a user with the given plaintext password.
func createUser(t *testing.T, db *gorm.DB, account, password string) *models.User {
	t.Helper()

	user := &models.User{
		Account:           account,
		PasswordHash:      models.HashPassword(password),
		DisplayName:       account,
		PasswordChangedAt: time.Now(),
	}
	require.NoError(t, db.Create(user).Error)

	return user
}

// passingGate builds a captcha gate plus a pre-solved answer/token pair, so
// login tests can clear the captcha step at will.
func passingGate(t *testing.T) (gate *captcha.Gate, solve func() (answer, token string)) {
	t.Helper()

	answers := make(map[string]string)

	var lastAnswer string

	gate = captcha.NewGate(captcha.NewMemoryStore(), func(answer string) ([]byte, error) {
		lastAnswer = answer

		return []byte(answer), nil
	}, time.Minute, 4)

	solve = func() (string, string) {
		_, token, err := gate.Generate()
		require.NoError(t, err)

		answers[token] = lastAnswer

		return answers[token], token
	}

	return gate, solve
}

func reloadUser(t *testing.T, db *gorm.DB, id uint64) *models.User {
	t.Helper()

	var user models.User
	require.NoError(t, db.Unscoped().First(&user, id).Error)

	return &user
}

package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/GoContent-Admin/GoContent-Admin/internal/db/models"
)

// RecordLoginAttempt appends one audit row for a login call. The account is
// stored as plain text so the trail survives account deletion or rename;
// rows are never updated or removed.
func RecordLoginAttempt(db *gorm.DB, account string, success bool, sourceIP string) error {
	attempt := models.LoginAttempt{
		Account:  account,
		Success:  success,
		SourceIP: sourceIP,
	}

	if err := db.Create(&attempt).Error; err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}

	return nil
}

package reset

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"reflection-backend/internal/models"
	"reflection-backend/internal/utils"
)

// GormCredentials backs the Credentials collaborator with the users
// table. A successful password change also revokes the user's live
// refresh tokens so stolen sessions don't outlive the reset.
type GormCredentials struct {
	DB *gorm.DB
}

func NewGormCredentials(db *gorm.DB) *GormCredentials {
	return &GormCredentials{DB: db}
}

func (c *GormCredentials) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := c.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (c *GormCredentials) SetPassword(ctx context.Context, email string, newPassword string) error {
	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	return c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("account not found")
			}
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("password_hash", newHash).Error; err != nil {
			return err
		}
		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND revoked_at IS NULL", user.ID).
			Update("revoked_at", now).Error
	})
}

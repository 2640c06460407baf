package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"study-planner/internal/model"
)

// UserRepository tracks chat users and their daily plan subscription.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertFromTelegram finds or creates a user based on TelegramID and updates basic profile info.
func (r *UserRepository) UpsertFromTelegram(ctx context.Context, telegramID int64, firstName, lastName, username string) (*model.User, error) {
	var user model.User
	db := r.db.WithContext(ctx)
	err := db.Where("telegram_id = ?", telegramID).First(&user).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"first_name": firstName,
			"last_name":  lastName,
			"username":   username,
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		return &user, nil
	case err == gorm.ErrRecordNotFound:
		user = model.User{
			TelegramID: telegramID,
			FirstName:  firstName,
			LastName:   lastName,
			Username:   username,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &user, nil
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

// SetDailyPlan toggles the morning plan delivery for a user.
func (r *UserRepository) SetDailyPlan(ctx context.Context, telegramID int64, enabled bool) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("telegram_id = ?", telegramID).
		Update("daily_plan", enabled)
	if res.Error != nil {
		return fmt.Errorf("update subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListSubscribed returns users who asked for the daily plan.
func (r *UserRepository) ListSubscribed(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Where("daily_plan = ?", true).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list subscribed users: %w", err)
	}
	return users, nil
}

package user

import (
	"context"
	"errors"

	userdomain "finanx/internal/domain/user"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, account *userdomain.User) error {
	err := r.db.WithContext(ctx).Create(account).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return userdomain.ErrEmailTaken
	}
	return err
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, userID string) (*userdomain.User, error) {
	var account userdomain.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	var account userdomain.User
	if err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", email).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *PostgresRepository) SetOnboardingDone(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", userID).
		Update("onboarding_done", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return userdomain.ErrUserNotFound
	}
	return nil
}

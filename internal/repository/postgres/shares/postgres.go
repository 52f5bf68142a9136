package shares

import (
	"context"
	"errors"

	sharesdomain "finanx/internal/domain/shares"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateShare(ctx context.Context, share *sharesdomain.AccountShare) error {
	return r.db.WithContext(ctx).Create(share).Error
}

func (r *PostgresRepository) GetShareByID(ctx context.Context, shareID string) (*sharesdomain.AccountShare, error) {
	var share sharesdomain.AccountShare
	if err := r.db.WithContext(ctx).
		Where("id = ?", shareID).
		First(&share).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sharesdomain.ErrShareNotFound
		}
		return nil, err
	}
	return &share, nil
}

func (r *PostgresRepository) GetPendingByToken(ctx context.Context, token string) (*sharesdomain.AccountShare, error) {
	var share sharesdomain.AccountShare
	if err := r.db.WithContext(ctx).
		Where("token = ? AND status = ?", token, sharesdomain.StatusPending).
		First(&share).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sharesdomain.ErrInviteNotFound
		}
		return nil, err
	}
	return &share, nil
}

func (r *PostgresRepository) FindByOwnerAndEmail(ctx context.Context, ownerID, email string, statuses []string) (*sharesdomain.AccountShare, error) {
	var share sharesdomain.AccountShare
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND lower(invitee_email) = lower(?) AND status IN ?", ownerID, email, statuses).
		Order("created_at desc").
		First(&share).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sharesdomain.ErrShareNotFound
		}
		return nil, err
	}
	return &share, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]sharesdomain.AccountShare, error) {
	var items []sharesdomain.AccountShare
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListByViewer(ctx context.Context, viewerID, status string) ([]sharesdomain.AccountShare, error) {
	var items []sharesdomain.AccountShare
	if err := r.db.WithContext(ctx).
		Where("viewer_id = ? AND status = ?", viewerID, status).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) UpdateShareStatus(ctx context.Context, shareID, status string, viewerID *string) error {
	updates := map[string]interface{}{"status": status}
	if viewerID != nil {
		updates["viewer_id"] = *viewerID
	}
	result := r.db.WithContext(ctx).
		Model(&sharesdomain.AccountShare{}).
		Where("id = ?", shareID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return sharesdomain.ErrShareNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteShare(ctx context.Context, shareID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&sharesdomain.AccountShare{}, "id = ?", shareID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) HasAcceptedShare(ctx context.Context, ownerID, viewerID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&sharesdomain.AccountShare{}).
		Where("owner_id = ? AND viewer_id = ? AND status = ?", ownerID, viewerID, sharesdomain.StatusAccepted).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

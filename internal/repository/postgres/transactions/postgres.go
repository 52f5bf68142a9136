package transactions

import (
	"context"
	"errors"

	txdomain "finanx/internal/domain/transactions"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(txdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, transaction *txdomain.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *PostgresRepository) GetTransactionByID(ctx context.Context, userID, transactionID string) (*txdomain.Transaction, error) {
	var transaction txdomain.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, transactionID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, txdomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, userID string, filter txdomain.ListFilter) ([]txdomain.Transaction, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Year > 0 {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.Month > 0 {
		query = query.Where("month = ?", filter.Month)
	}

	var items []txdomain.Transaction
	if err := query.Order("date desc, created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) UpdateTransaction(ctx context.Context, transaction *txdomain.Transaction) error {
	return r.db.WithContext(ctx).
		Model(&txdomain.Transaction{}).
		Where("id = ? AND user_id = ?", transaction.ID, transaction.UserID).
		Updates(map[string]interface{}{
			"description": transaction.Description,
			"amount":      transaction.Amount,
			"type":        transaction.Type,
			"category":    transaction.Category,
			"date":        transaction.Date,
			"month":       transaction.Month,
			"year":        transaction.Year,
			"paid":        transaction.Paid,
			"paid_at":     transaction.PaidAt,
		}).Error
}

func (r *PostgresRepository) DeleteTransaction(ctx context.Context, userID, transactionID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&txdomain.Transaction{}, "user_id = ? AND id = ?", userID, transactionID)
	return result.RowsAffected > 0, result.Error
}

package transactions

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateTransaction(ctx context.Context, transaction *Transaction) error
	GetTransactionByID(ctx context.Context, userID, transactionID string) (*Transaction, error)
	ListTransactions(ctx context.Context, userID string, filter ListFilter) ([]Transaction, error)
	UpdateTransaction(ctx context.Context, transaction *Transaction) error
	DeleteTransaction(ctx context.Context, userID, transactionID string) (bool, error)
}

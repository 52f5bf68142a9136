package transactions

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

type Transaction struct {
	ID                string          `gorm:"type:uuid;primaryKey"`
	UserID            string          `gorm:"type:uuid;not null;index:idx_transactions_user_period,priority:1"`
	Description       string          `gorm:"not null"`
	Amount            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Type              string          `gorm:"type:varchar(8);not null"`
	Category          string          `gorm:"not null"`
	Date              time.Time       `gorm:"type:date;not null"`
	Month             int             `gorm:"not null;index:idx_transactions_user_period,priority:3"`
	Year              int             `gorm:"not null;index:idx_transactions_user_period,priority:2"`
	Paid              bool            `gorm:"not null;default:false"`
	PaidAt            *time.Time
	IsInstallment     bool `gorm:"not null;default:false"`
	InstallmentNumber *int
	TotalInstallments *int
	IsRecurring       bool      `gorm:"not null;default:false"`
	RecurringGroupID  *string   `gorm:"type:uuid;index"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

type CreateInput struct {
	UserID      string
	Description string
	Amount      decimal.Decimal
	Type        string
	Category    string
	Date        time.Time

	IsInstallment     bool
	TotalInstallments int
	IsRecurring       bool
	RecurringMonths   int
}

type UpdateInput struct {
	ID          string
	UserID      string
	Description string
	Amount      decimal.Decimal
	Type        string
	Category    string
	Date        time.Time
	Paid        *bool
}

type ListFilter struct {
	Year  int
	Month int
}

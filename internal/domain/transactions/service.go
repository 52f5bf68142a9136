package transactions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create turns one submitted draft into one or more persisted rows. With an
// installment or recurring directive the whole batch is written inside a
// single repository transaction, so readers never observe a partial series.
func (s *Service) Create(ctx context.Context, input CreateInput) ([]Transaction, error) {
	if err := validateDraft(input); err != nil {
		return nil, err
	}

	rows, err := expandDraft(input)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		for i := range rows {
			if err := tx.CreateTransaction(ctx, &rows[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (s *Service) List(ctx context.Context, ownerID string, filter ListFilter) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, ownerID, filter)
}

func (s *Service) Get(ctx context.Context, ownerID, transactionID string) (*Transaction, error) {
	return s.repo.GetTransactionByID(ctx, ownerID, transactionID)
}

// Update edits one row in place. Rows generated as part of an installment or
// recurring series are independent after creation; editing one never touches
// its siblings.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*Transaction, error) {
	if err := validateFields(input.Description, input.Amount, input.Type, input.Category, input.Date); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetTransactionByID(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	date := normalizeDate(input.Date)
	existing.Description = strings.TrimSpace(input.Description)
	existing.Amount = input.Amount
	existing.Type = input.Type
	existing.Category = input.Category
	existing.Date = date
	existing.Month = int(date.Month())
	existing.Year = date.Year()

	if input.Paid != nil {
		if *input.Paid {
			existing.Paid = true
			if existing.PaidAt == nil {
				paidAt := s.now().UTC()
				existing.PaidAt = &paidAt
			}
		} else {
			existing.Paid = false
			existing.PaidAt = nil
		}
	}

	if err := s.repo.UpdateTransaction(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// TogglePaid flips the paid flag and keeps paidAt in lockstep: non-nil iff
// paid.
func (s *Service) TogglePaid(ctx context.Context, ownerID, transactionID string, paid bool) (*Transaction, error) {
	existing, err := s.repo.GetTransactionByID(ctx, ownerID, transactionID)
	if err != nil {
		return nil, err
	}

	existing.Paid = paid
	if paid {
		paidAt := s.now().UTC()
		existing.PaidAt = &paidAt
	} else {
		existing.PaidAt = nil
	}

	if err := s.repo.UpdateTransaction(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, transactionID string) error {
	deleted, err := s.repo.DeleteTransaction(ctx, ownerID, transactionID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTransactionNotFound
	}
	return nil
}

func validateDraft(input CreateInput) error {
	if err := validateFields(input.Description, input.Amount, input.Type, input.Category, input.Date); err != nil {
		return err
	}
	if input.IsInstallment && input.IsRecurring {
		return validationErr("isInstallment", "installment and recurring modes are mutually exclusive")
	}
	if input.IsInstallment && input.TotalInstallments < 2 {
		return validationErr("totalInstallments", "must be at least 2")
	}
	if input.IsRecurring && input.RecurringMonths < 2 {
		return validationErr("recurringMonths", "must be at least 2")
	}
	return nil
}

func validateFields(description string, amount decimal.Decimal, txType, category string, date time.Time) error {
	if strings.TrimSpace(description) == "" {
		return validationErr("description", "is required")
	}
	if !amount.IsPositive() {
		return validationErr("amount", "must be positive")
	}
	if !isValidType(txType) {
		return validationErr("type", "must be income or expense")
	}
	if !isValidCategory(txType, category) {
		return validationErr("category", fmt.Sprintf("unknown %s category", txType))
	}
	if date.IsZero() {
		return validationErr("date", "is required")
	}
	return nil
}

func expandDraft(input CreateInput) ([]Transaction, error) {
	description := strings.TrimSpace(input.Description)
	anchor := normalizeDate(input.Date)

	single := func() Transaction {
		return Transaction{
			ID:          uuid.NewString(),
			UserID:      input.UserID,
			Description: description,
			Amount:      input.Amount,
			Type:        input.Type,
			Category:    input.Category,
			Date:        anchor,
			Month:       int(anchor.Month()),
			Year:        anchor.Year(),
		}
	}

	switch {
	case input.IsInstallment:
		total := input.TotalInstallments
		groupID := uuid.NewString()
		rows := make([]Transaction, 0, total)
		for i := 1; i <= total; i++ {
			row := single()
			date := addMonths(anchor, i-1)
			number := i
			totalCopy := total
			row.Description = fmt.Sprintf("%s (%d/%d)", description, i, total)
			row.Date = date
			row.Month = int(date.Month())
			row.Year = date.Year()
			row.IsInstallment = true
			row.InstallmentNumber = &number
			row.TotalInstallments = &totalCopy
			row.RecurringGroupID = &groupID
			rows = append(rows, row)
		}
		return rows, nil

	case input.IsRecurring:
		months := input.RecurringMonths
		groupID := uuid.NewString()
		rows := make([]Transaction, 0, months)
		for i := 0; i < months; i++ {
			row := single()
			date := addMonths(anchor, i)
			row.Date = date
			row.Month = int(date.Month())
			row.Year = date.Year()
			row.IsRecurring = true
			row.RecurringGroupID = &groupID
			rows = append(rows, row)
		}
		return rows, nil

	default:
		return []Transaction{single()}, nil
	}
}

// addMonths advances a calendar date by whole months, clamping the day to the
// last day of shorter target months (Jan 31 + 1 month = Feb 28/29).
func addMonths(date time.Time, months int) time.Time {
	firstOfTarget := time.Date(date.Year(), date.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	day := date.Day()
	if last := firstOfTarget.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, time.UTC)
}

// normalizeDate strips any time-of-day and timezone component; month/year are
// always derived from the stored calendar date.
func normalizeDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

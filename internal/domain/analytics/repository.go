package analytics

import "context"

type Repository interface {
	// MonthlyTotals aggregates one owner's transactions for a single month.
	MonthlyTotals(ctx context.Context, ownerID string, year, month int) (MonthTotals, error)
	// YearlyTotals aggregates per month; months without transactions are
	// absent from the result.
	YearlyTotals(ctx context.Context, ownerID string, year int) ([]MonthTotals, error)
}

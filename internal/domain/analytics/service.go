package analytics

import "context"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) MonthlySummary(ctx context.Context, ownerID string, year, month int) (MonthlySummary, error) {
	totals, err := s.repo.MonthlyTotals(ctx, ownerID, year, month)
	if err != nil {
		return MonthlySummary{}, err
	}

	return MonthlySummary{
		Month:          month,
		Year:           year,
		TotalIncome:    totals.TotalIncome,
		TotalExpense:   totals.TotalExpense,
		Balance:        totals.TotalIncome.Sub(totals.TotalExpense),
		PendingExpense: totals.PendingExpense,
		IncomeCount:    totals.IncomeCount,
		ExpenseCount:   totals.ExpenseCount,
	}, nil
}

// YearlySeries always returns twelve rows; months with no activity carry
// zero totals.
func (s *Service) YearlySeries(ctx context.Context, ownerID string, year int) ([]YearlyRow, error) {
	totals, err := s.repo.YearlyTotals(ctx, ownerID, year)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[int]MonthTotals, len(totals))
	for _, row := range totals {
		byMonth[row.Month] = row
	}

	series := make([]YearlyRow, 0, 12)
	for month := 1; month <= 12; month++ {
		row := byMonth[month]
		series = append(series, YearlyRow{
			Month:        month,
			TotalIncome:  row.TotalIncome,
			TotalExpense: row.TotalExpense,
			Balance:      row.TotalIncome.Sub(row.TotalExpense),
		})
	}

	return series, nil
}

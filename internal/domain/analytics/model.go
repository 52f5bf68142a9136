package analytics

import "github.com/shopspring/decimal"

type MonthlySummary struct {
	Month          int
	Year           int
	TotalIncome    decimal.Decimal
	TotalExpense   decimal.Decimal
	Balance        decimal.Decimal
	PendingExpense decimal.Decimal
	IncomeCount    int64
	ExpenseCount   int64
}

type MonthTotals struct {
	Month          int
	TotalIncome    decimal.Decimal
	TotalExpense   decimal.Decimal
	PendingExpense decimal.Decimal
	IncomeCount    int64
	ExpenseCount   int64
}

type YearlyRow struct {
	Month        int
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
}

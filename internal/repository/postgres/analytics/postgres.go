package analytics

import (
	"context"

	analyticsdomain "finanx/internal/domain/analytics"
	txdomain "finanx/internal/domain/transactions"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type totalsRow struct {
	Month        int             `gorm:"column:month"`
	Type         string          `gorm:"column:type"`
	Total        decimal.Decimal `gorm:"column:total"`
	PendingTotal decimal.Decimal `gorm:"column:pending_total"`
	Count        int64           `gorm:"column:count"`
}

func (r *PostgresRepository) MonthlyTotals(ctx context.Context, ownerID string, year, month int) (analyticsdomain.MonthTotals, error) {
	var rows []totalsRow
	if err := r.db.WithContext(ctx).
		Model(&txdomain.Transaction{}).
		Select("month, type, COALESCE(SUM(amount), 0) AS total, COALESCE(SUM(amount) FILTER (WHERE NOT paid), 0) AS pending_total, COUNT(*) AS count").
		Where("user_id = ? AND year = ? AND month = ?", ownerID, year, month).
		Group("month, type").
		Find(&rows).Error; err != nil {
		return analyticsdomain.MonthTotals{}, err
	}

	totals := analyticsdomain.MonthTotals{Month: month}
	fillTotals(&totals, rows)
	return totals, nil
}

func (r *PostgresRepository) YearlyTotals(ctx context.Context, ownerID string, year int) ([]analyticsdomain.MonthTotals, error) {
	var rows []totalsRow
	if err := r.db.WithContext(ctx).
		Model(&txdomain.Transaction{}).
		Select("month, type, COALESCE(SUM(amount), 0) AS total, COALESCE(SUM(amount) FILTER (WHERE NOT paid), 0) AS pending_total, COUNT(*) AS count").
		Where("user_id = ? AND year = ?", ownerID, year).
		Group("month, type").
		Order("month asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byMonth := make(map[int]*analyticsdomain.MonthTotals)
	order := make([]int, 0, 12)
	for _, row := range rows {
		totals, ok := byMonth[row.Month]
		if !ok {
			totals = &analyticsdomain.MonthTotals{Month: row.Month}
			byMonth[row.Month] = totals
			order = append(order, row.Month)
		}
		applyRow(totals, row)
	}

	result := make([]analyticsdomain.MonthTotals, 0, len(order))
	for _, month := range order {
		result = append(result, *byMonth[month])
	}
	return result, nil
}

func fillTotals(totals *analyticsdomain.MonthTotals, rows []totalsRow) {
	for _, row := range rows {
		applyRow(totals, row)
	}
}

func applyRow(totals *analyticsdomain.MonthTotals, row totalsRow) {
	switch row.Type {
	case txdomain.TypeIncome:
		totals.TotalIncome = row.Total
		totals.IncomeCount = row.Count
	case txdomain.TypeExpense:
		totals.TotalExpense = row.Total
		totals.ExpenseCount = row.Count
		totals.PendingExpense = row.PendingTotal
	}
}

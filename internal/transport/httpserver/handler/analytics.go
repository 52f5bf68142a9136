package handler

import (
	"net/http"
	"time"

	"finanx/internal/transport/httpserver/middleware"
	"github.com/shopspring/decimal"
)

type summaryResponse struct {
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	TotalIncome    decimal.Decimal `json:"total_income"`
	TotalExpense   decimal.Decimal `json:"total_expense"`
	Balance        decimal.Decimal `json:"balance"`
	PendingExpense decimal.Decimal `json:"pending_expense"`
	IncomeCount    int64           `json:"income_count"`
	ExpenseCount   int64           `json:"expense_count"`
}

type yearlyRowResponse struct {
	Month        int             `json:"month"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

type yearlySummaryResponse struct {
	Year   int                 `json:"year"`
	Months []yearlyRowResponse `json:"months"`
}

func (h *Handlers) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	now := time.Now()
	query := r.URL.Query()
	year, err := parseIntParam(query.Get("year"), now.Year())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid year")
		return
	}
	month, err := parseMonthParam(query.Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid month")
		return
	}
	if month == 0 {
		month = int(now.Month())
	}

	ownerID, ok := h.effectiveOwner(w, r, user, query.Get("owner_id"))
	if !ok {
		return
	}

	summary, err := h.Analytics.MonthlySummary(r.Context(), ownerID, year, month)
	if err != nil {
		h.log.InternalError("analytics.summary: query failed", err, "user_id", user.ID, "owner_id", ownerID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Month:          summary.Month,
		Year:           summary.Year,
		TotalIncome:    summary.TotalIncome,
		TotalExpense:   summary.TotalExpense,
		Balance:        summary.Balance,
		PendingExpense: summary.PendingExpense,
		IncomeCount:    summary.IncomeCount,
		ExpenseCount:   summary.ExpenseCount,
	})
}

func (h *Handlers) YearlySummary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	query := r.URL.Query()
	year, err := parseIntParam(query.Get("year"), time.Now().Year())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid year")
		return
	}

	ownerID, ok := h.effectiveOwner(w, r, user, query.Get("owner_id"))
	if !ok {
		return
	}

	series, err := h.Analytics.YearlySeries(r.Context(), ownerID, year)
	if err != nil {
		h.log.InternalError("analytics.yearly: query failed", err, "user_id", user.ID, "owner_id", ownerID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	months := make([]yearlyRowResponse, 0, len(series))
	for _, row := range series {
		months = append(months, yearlyRowResponse{
			Month:        row.Month,
			TotalIncome:  row.TotalIncome,
			TotalExpense: row.TotalExpense,
			Balance:      row.Balance,
		})
	}

	writeJSON(w, http.StatusOK, yearlySummaryResponse{Year: year, Months: months})
}

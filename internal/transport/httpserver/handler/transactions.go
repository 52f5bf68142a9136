package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	sharesdomain "finanx/internal/domain/shares"
	txdomain "finanx/internal/domain/transactions"
	"finanx/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createTransactionRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`

	IsInstallment     bool `json:"is_installment"`
	TotalInstallments int  `json:"total_installments"`
	IsRecurring       bool `json:"is_recurring"`
	RecurringMonths   int  `json:"recurring_months"`
}

type updateTransactionRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Paid        *bool           `json:"paid"`
}

type togglePaidRequest struct {
	Paid bool `json:"paid"`
}

type transactionResponse struct {
	ID                string          `json:"id"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	Type              string          `json:"type"`
	Category          string          `json:"category"`
	Date              string          `json:"date"`
	Month             int             `json:"month"`
	Year              int             `json:"year"`
	Paid              bool            `json:"paid"`
	PaidAt            *time.Time      `json:"paid_at"`
	IsInstallment     bool            `json:"is_installment"`
	InstallmentNumber *int            `json:"installment_number"`
	TotalInstallments *int            `json:"total_installments"`
	IsRecurring       bool            `json:"is_recurring"`
	RecurringGroupID  *string         `json:"recurring_group_id"`
	CreatedAt         time.Time       `json:"created_at"`
}

type transactionListResponse struct {
	Items []transactionResponse `json:"items"`
}

type createTransactionResponse struct {
	// Transaction is the primary (first) row for callers expecting exactly
	// one; Transactions is the whole generated batch in date order.
	Transaction  transactionResponse   `json:"transaction"`
	Transactions []transactionResponse `json:"transactions"`
}

func toTransactionResponse(transaction txdomain.Transaction) transactionResponse {
	return transactionResponse{
		ID:                transaction.ID,
		Description:       transaction.Description,
		Amount:            transaction.Amount,
		Type:              transaction.Type,
		Category:          transaction.Category,
		Date:              transaction.Date.Format("2006-01-02"),
		Month:             transaction.Month,
		Year:              transaction.Year,
		Paid:              transaction.Paid,
		PaidAt:            transaction.PaidAt,
		IsInstallment:     transaction.IsInstallment,
		InstallmentNumber: transaction.InstallmentNumber,
		TotalInstallments: transaction.TotalInstallments,
		IsRecurring:       transaction.IsRecurring,
		RecurringGroupID:  transaction.RecurringGroupID,
		CreatedAt:         transaction.CreatedAt,
	}
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	query := r.URL.Query()
	year, err := parseIntParam(query.Get("year"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid year")
		return
	}
	month, err := parseMonthParam(query.Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid month")
		return
	}

	ownerID, ok := h.effectiveOwner(w, r, user, query.Get("owner_id"))
	if !ok {
		return
	}

	items, err := h.Transactions.List(r.Context(), ownerID, txdomain.ListFilter{Year: year, Month: month})
	if err != nil {
		h.log.InternalError("transactions.list: list failed", err, "user_id", user.ID, "owner_id", ownerID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]transactionResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toTransactionResponse(item))
	}
	writeJSON(w, http.StatusOK, transactionListResponse{Items: response})
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	rows, err := h.Transactions.Create(r.Context(), txdomain.CreateInput{
		UserID:            user.ID,
		Description:       req.Description,
		Amount:            req.Amount,
		Type:              req.Type,
		Category:          req.Category,
		Date:              date,
		IsInstallment:     req.IsInstallment,
		TotalInstallments: req.TotalInstallments,
		IsRecurring:       req.IsRecurring,
		RecurringMonths:   req.RecurringMonths,
	})
	if err != nil {
		var validation *txdomain.ValidationError
		if errors.As(err, &validation) {
			h.log.BusinessError("transactions.create: invalid draft", err, "user_id", user.ID, "field", validation.Field)
			writeError(w, http.StatusBadRequest, "invalid_request", validation.Error())
			return
		}
		h.log.InternalError("transactions.create: create failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]transactionResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, toTransactionResponse(row))
	}
	writeJSON(w, http.StatusCreated, createTransactionResponse{
		Transaction:  response[0],
		Transactions: response,
	})
}

func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	transactionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if transactionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	updated, err := h.Transactions.Update(r.Context(), txdomain.UpdateInput{
		ID:          transactionID,
		UserID:      user.ID,
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		Date:        date,
		Paid:        req.Paid,
	})
	if err != nil {
		var validation *txdomain.ValidationError
		switch {
		case errors.Is(err, txdomain.ErrTransactionNotFound):
			h.log.BusinessError("transactions.update: not found", err, "user_id", user.ID, "transaction_id", transactionID)
			writeError(w, http.StatusNotFound, "transaction_not_found", "transaction not found")
		case errors.As(err, &validation):
			h.log.BusinessError("transactions.update: invalid input", err, "user_id", user.ID, "field", validation.Field)
			writeError(w, http.StatusBadRequest, "invalid_request", validation.Error())
		default:
			h.log.InternalError("transactions.update: update failed", err, "user_id", user.ID, "transaction_id", transactionID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(*updated))
}

func (h *Handlers) TogglePaid(w http.ResponseWriter, r *http.Request) {
	var req togglePaidRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	transactionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if transactionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	updated, err := h.Transactions.TogglePaid(r.Context(), user.ID, transactionID, req.Paid)
	if err != nil {
		if errors.Is(err, txdomain.ErrTransactionNotFound) {
			h.log.BusinessError("transactions.toggle_paid: not found", err, "user_id", user.ID, "transaction_id", transactionID)
			writeError(w, http.StatusNotFound, "transaction_not_found", "transaction not found")
			return
		}
		h.log.InternalError("transactions.toggle_paid: update failed", err, "user_id", user.ID, "transaction_id", transactionID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(*updated))
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if transactionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	if err := h.Transactions.Delete(r.Context(), user.ID, transactionID); err != nil {
		if errors.Is(err, txdomain.ErrTransactionNotFound) {
			h.log.BusinessError("transactions.delete: not found", err, "user_id", user.ID, "transaction_id", transactionID)
			writeError(w, http.StatusNotFound, "transaction_not_found", "transaction not found")
			return
		}
		h.log.InternalError("transactions.delete: delete failed", err, "user_id", user.ID, "transaction_id", transactionID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	txType := strings.TrimSpace(r.URL.Query().Get("type"))
	if txType != "" && txType != txdomain.TypeIncome && txType != txdomain.TypeExpense {
		writeError(w, http.StatusBadRequest, "invalid_request", "type must be income or expense")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]txdomain.Category{
		"categories": txdomain.Categories(txType),
	})
}

// effectiveOwner resolves the account a read request may see. The share
// grant is checked on every call; a revoked share fails the very next read.
func (h *Handlers) effectiveOwner(w http.ResponseWriter, r *http.Request, user middleware.User, requestedOwnerID string) (string, bool) {
	ownerID, err := h.Shares.ResolveEffectiveOwner(r.Context(), identityOf(user), strings.TrimSpace(requestedOwnerID))
	if err != nil {
		if errors.Is(err, sharesdomain.ErrNoGrant) {
			h.log.BusinessError("shares.resolve: no grant", err, "user_id", user.ID, "requested_owner_id", requestedOwnerID)
			writeError(w, http.StatusForbidden, "no_grant", "you do not have access to this account")
			return "", false
		}
		h.log.InternalError("shares.resolve: resolve failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return "", false
	}
	return ownerID, true
}

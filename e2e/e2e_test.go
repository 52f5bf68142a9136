//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"finanx/internal/auth"
	"finanx/internal/config"
	"finanx/internal/db"
	analyticsdomain "finanx/internal/domain/analytics"
	sharesdomain "finanx/internal/domain/shares"
	txdomain "finanx/internal/domain/transactions"
	userdomain "finanx/internal/domain/user"
	analyticsrepo "finanx/internal/repository/postgres/analytics"
	sharesrepo "finanx/internal/repository/postgres/shares"
	txrepo "finanx/internal/repository/postgres/transactions"
	userrepo "finanx/internal/repository/postgres/user"
	"finanx/internal/transport/httpserver"
	"finanx/internal/transport/httpserver/handler"
	authmw "finanx/internal/transport/httpserver/middleware"
	"finanx/pkg/logger"
	"gorm.io/gorm"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

type userDirectory struct {
	users *userdomain.Service
}

func (d userDirectory) GetUserInfo(ctx context.Context, userID string) (sharesdomain.UserInfo, error) {
	account, err := d.users.GetByID(ctx, userID)
	if err != nil {
		return sharesdomain.UserInfo{}, err
	}
	return sharesdomain.UserInfo{ID: account.ID, Email: account.Email, Name: account.Name}, nil
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.New(io.Discard, slog.LevelError, "json")

	cfg := config.Config{
		DB: config.DBConfig{DSN: dsn},
		Auth: config.AuthConfig{
			JWTSecret: "e2e-secret",
			TokenTTL:  time.Hour,
		},
		Shares: config.SharesConfig{InviteTTL: 7 * 24 * time.Hour},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	transactions := txdomain.NewService(txrepo.NewPostgres(dbConn))
	shares := sharesdomain.NewService(sharesrepo.NewPostgres(dbConn), userDirectory{users: users}, cfg.Shares.InviteTTL)
	analytics := analyticsdomain.NewService(analyticsrepo.NewPostgres(dbConn))

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	handlers := handler.New(users, transactions, shares, analytics, tokens, false, log)
	router := httpserver.NewRouter(cfg, handlers, authmw.NewAuthenticator(tokens))

	return &testEnv{server: httptest.NewServer(router), db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE account_shares, transactions, users RESTART IDENTITY CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type userResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	OnboardingDone bool   `json:"onboarding_done"`
}

type transactionResponse struct {
	ID                string  `json:"id"`
	Description       string  `json:"description"`
	Amount            string  `json:"amount"`
	Type              string  `json:"type"`
	Category          string  `json:"category"`
	Date              string  `json:"date"`
	Month             int     `json:"month"`
	Year              int     `json:"year"`
	Paid              bool    `json:"paid"`
	IsInstallment     bool    `json:"is_installment"`
	InstallmentNumber *int    `json:"installment_number"`
	TotalInstallments *int    `json:"total_installments"`
	RecurringGroupID  *string `json:"recurring_group_id"`
}

type createTransactionResponse struct {
	Transaction  transactionResponse   `json:"transaction"`
	Transactions []transactionResponse `json:"transactions"`
}

type transactionListResponse struct {
	Items []transactionResponse `json:"items"`
}

type summaryResponse struct {
	Month        int    `json:"month"`
	Year         int    `json:"year"`
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
	Balance      string `json:"balance"`
}

type shareResponse struct {
	ID           string `json:"id"`
	InviteeEmail string `json:"invitee_email"`
	Token        string `json:"token"`
	Status       string `json:"status"`
}

type respondShareResponse struct {
	Accepted bool   `json:"accepted"`
	OwnerID  string `json:"owner_id"`
}

// registerUser creates an account and returns its id and session token. The
// token comes from the auth cookie set on the register response.
func registerUser(t *testing.T, client *http.Client, baseURL, email string) (string, string) {
	t.Helper()

	resp, body := requestJSON(t, client, http.MethodPost, baseURL+"/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", email, resp.StatusCode, string(body))
	}

	var account userResponse
	if err := json.Unmarshal(body, &account); err != nil {
		t.Fatalf("decode register response: %v", err)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "auth_token" {
			return account.ID, cookie.Value
		}
	}
	t.Fatalf("register %s: no auth_token cookie", email)
	return "", ""
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.StatusCode, string(body))
	}
	var errResp errorEnvelope
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Error.Code != "unauthenticated" {
		t.Fatalf("expected unauthenticated, got %q", errResp.Error.Code)
	}

	_, token := registerUser(t, client, env.server.URL, "alice@example.com")

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var me userResponse
	if err := json.Unmarshal(body, &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Email != "alice@example.com" {
		t.Fatalf("expected alice, got %+v", me)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 on wrong password, got %d: %s", resp.StatusCode, string(body))
	}
}

// TestE2EDuplicateEmailAtRepository inserts the same email twice through the
// repository, bypassing the service's pre-check, so the unique violation must
// come back translated as ErrEmailTaken. This is the path two concurrent
// registrations take.
func TestE2EDuplicateEmailAtRepository(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	repo := userrepo.NewPostgres(env.db)
	ctx := context.Background()

	first := &userdomain.User{
		ID:           "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	}
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("create user: %v", err)
	}

	second := &userdomain.User{
		ID:           "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	}
	if err := repo.CreateUser(ctx, second); !errors.Is(err, userdomain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestE2ETransactionsAndSummary(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	_, token := registerUser(t, client, env.server.URL, "alice@example.com")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/transactions", token, map[string]interface{}{
		"description":        "Notebook",
		"amount":             "1200.00",
		"type":               "expense",
		"category":           "cartao",
		"date":               "2026-03-10",
		"is_installment":     true,
		"total_installments": 3,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var created createTransactionResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if len(created.Transactions) != 3 {
		t.Fatalf("expected 3 installment rows, got %d", len(created.Transactions))
	}
	if created.Transaction.Description != "Notebook (1/3)" {
		t.Fatalf("expected suffixed description, got %q", created.Transaction.Description)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/transactions", token, map[string]interface{}{
		"description": "Salário",
		"amount":      "5000.00",
		"type":        "income",
		"category":    "salario",
		"date":        "2026-03-05",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/transactions?year=2026&month=3", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var list transactionListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 rows in March, got %d", len(list.Items))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/summary?year=2026&month=3", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var summary summaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Balance != "3800" && summary.Balance != "3800.00" {
		t.Fatalf("expected balance 3800.00, got %q", summary.Balance)
	}

	// Pay the first installment and verify the flag sticks.
	resp, body = requestJSON(t, client, http.MethodPatch, env.server.URL+"/api/transactions/"+created.Transaction.ID, token, map[string]bool{
		"paid": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var paid transactionResponse
	if err := json.Unmarshal(body, &paid); err != nil {
		t.Fatalf("decode toggle response: %v", err)
	}
	if !paid.Paid {
		t.Fatalf("expected paid flag set")
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/transactions/"+created.Transactions[2].ID, token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2EShareLifecycle(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	aliceID, aliceToken := registerUser(t, client, env.server.URL, "alice@example.com")
	_, bobToken := registerUser(t, client, env.server.URL, "bob@example.com")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/transactions", aliceToken, map[string]interface{}{
		"description": "Energia",
		"amount":      "150.50",
		"type":        "expense",
		"category":    "luz",
		"date":        "2026-03-10",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	// Bob cannot read Alice's data before any share exists.
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/transactions?owner_id="+aliceID, bobToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 before share, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/shares", aliceToken, map[string]string{
		"invitee_email": "bob@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var invite shareResponse
	if err := json.Unmarshal(body, &invite); err != nil {
		t.Fatalf("decode invite: %v", err)
	}
	if invite.Status != "PENDING" || len(invite.Token) != 64 {
		t.Fatalf("expected pending invite with token, got %+v", invite)
	}

	// The invite page is public.
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/shares/invite/"+invite.Token, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/shares/respond", bobToken, map[string]interface{}{
		"token":  invite.Token,
		"accept": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var respond respondShareResponse
	if err := json.Unmarshal(body, &respond); err != nil {
		t.Fatalf("decode respond: %v", err)
	}
	if !respond.Accepted || respond.OwnerID != aliceID {
		t.Fatalf("expected acceptance bound to alice, got %+v", respond)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/transactions?owner_id="+aliceID, bobToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after acceptance, got %d: %s", resp.StatusCode, string(body))
	}
	var list transactionListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Items) != 1 || list.Items[0].Description != "Energia" {
		t.Fatalf("expected alice's transaction, got %+v", list.Items)
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/shares/"+invite.ID, aliceToken, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/transactions?owner_id="+aliceID, bobToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 after revoke, got %d: %s", resp.StatusCode, string(body))
	}
}

package handler

import (
	"net/http"

	"finanx/internal/auth"
	analyticsdomain "finanx/internal/domain/analytics"
	sharesdomain "finanx/internal/domain/shares"
	txdomain "finanx/internal/domain/transactions"
	userdomain "finanx/internal/domain/user"
	"finanx/internal/transport/httpserver/middleware"
	"finanx/pkg/logger"
)

type Handlers struct {
	Users        *userdomain.Service
	Transactions *txdomain.Service
	Shares       *sharesdomain.Service
	Analytics    *analyticsdomain.Service

	tokens       *auth.Manager
	cookieSecure bool
	log          logger.Logger
}

func New(
	users *userdomain.Service,
	transactions *txdomain.Service,
	shares *sharesdomain.Service,
	analytics *analyticsdomain.Service,
	tokens *auth.Manager,
	cookieSecure bool,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Users:        users,
		Transactions: transactions,
		Shares:       shares,
		Analytics:    analytics,
		tokens:       tokens,
		cookieSecure: cookieSecure,
		log:          log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func identityOf(user middleware.User) sharesdomain.Identity {
	return sharesdomain.Identity{ID: user.ID, Email: user.Email}
}

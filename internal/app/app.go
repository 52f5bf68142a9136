package app

import (
	"context"
	"net/http"

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

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	transactions := txdomain.NewService(txrepo.NewPostgres(dbConn))
	shares := sharesdomain.NewService(sharesrepo.NewPostgres(dbConn), userDirectory{users: users}, cfg.Shares.InviteTTL)
	analytics := analyticsdomain.NewService(analyticsrepo.NewPostgres(dbConn))

	tokens := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	handlers := handler.New(users, transactions, shares, analytics, tokens, cfg.Auth.CookieSecure, log)
	router := httpserver.NewRouter(cfg, handlers, authmw.NewAuthenticator(tokens))
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// userDirectory adapts the user service to the share domain's lookup
// interface.
type userDirectory struct {
	users *userdomain.Service
}

func (d userDirectory) GetUserInfo(ctx context.Context, userID string) (sharesdomain.UserInfo, error) {
	account, err := d.users.GetByID(ctx, userID)
	if err != nil {
		return sharesdomain.UserInfo{}, err
	}
	return sharesdomain.UserInfo{
		ID:    account.ID,
		Email: account.Email,
		Name:  account.Name,
	}, nil
}

package handlers

import (
	"go.uber.org/zap"

	"github.com/fathima-sithara/social-connect/internal/services"
	"github.com/fathima-sithara/social-connect/internal/storage"
)

// Handler bundles the HTTP endpoints over the service layer.
type Handler struct {
	auth     *services.AuthService
	accounts *services.AccountService
	publish  *services.PublishService
	store    *storage.LocalStore
	logger   *zap.SugaredLogger
}

func NewHandler(
	auth *services.AuthService,
	accounts *services.AccountService,
	publish *services.PublishService,
	store *storage.LocalStore,
	logger *zap.SugaredLogger,
) *Handler {
	return &Handler{auth: auth, accounts: accounts, publish: publish, store: store, logger: logger}
}

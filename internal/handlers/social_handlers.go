package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/social-connect/internal/middleware"
	"github.com/fathima-sithara/social-connect/internal/platform"
	"github.com/fathima-sithara/social-connect/internal/utils"
)

// POST /api/social/connect/:platform
func (h *Handler) ConnectAccount(c *fiber.Ctx) error {
	p, err := platform.Parse(c.Params("platform"))
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
	}
	var creds platform.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if creds.AccessToken == "" {
		return utils.JSONError(c, fiber.StatusBadRequest, "access_token is required")
	}

	user, err := h.accounts.Connect(c.Context(), middleware.UserID(c), p, creds)
	if err != nil {
		if errors.Is(err, utils.ErrUserNotFound) {
			return utils.JSONError(c, fiber.StatusNotFound, "user not found")
		}
		// verification failures reject the connect without mutating state
		return utils.JSONError(c, fiber.StatusBadGateway, err.Error())
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"accounts": user.AccountViews()})
}

// POST /api/social/disconnect/:platform
func (h *Handler) DisconnectAccount(c *fiber.Ctx) error {
	p, err := platform.Parse(c.Params("platform"))
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
	}
	user, err := h.accounts.Disconnect(c.Context(), middleware.UserID(c), p)
	if err != nil {
		if errors.Is(err, utils.ErrUserNotFound) {
			return utils.JSONError(c, fiber.StatusNotFound, "user not found")
		}
		h.logger.Errorw("disconnect failed", "platform", p, "error", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "server error")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"accounts": user.AccountViews()})
}

// GET /api/social/accounts
func (h *Handler) ListAccounts(c *fiber.Ctx) error {
	accounts, err := h.accounts.Accounts(c.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, utils.ErrUserNotFound) {
			return utils.JSONError(c, fiber.StatusNotFound, "user not found")
		}
		h.logger.Errorw("list accounts failed", "error", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "server error")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"accounts": accounts})
}

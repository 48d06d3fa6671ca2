package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/social-connect/internal/utils"
)

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	user, err := h.auth.Register(c.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, utils.ErrEmailTaken) {
			return utils.JSONError(c, fiber.StatusConflict, err.Error())
		}
		return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
	}
	return utils.JSONSuccess(c, fiber.StatusCreated, fiber.Map{"user": user})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	tokens, user, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) {
			return utils.JSONError(c, fiber.StatusUnauthorized, err.Error())
		}
		h.logger.Errorw("login failed", "error", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "server error")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"tokens": tokens, "user": user})
}

type refreshReq struct {
	UserID       string `json:"user_id"`
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req refreshReq
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	tokens, err := h.auth.Refresh(c.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		return utils.JSONError(c, fiber.StatusUnauthorized, "invalid refresh token")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"tokens": tokens})
}

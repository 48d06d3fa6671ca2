package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/social-connect/internal/middleware"
	"github.com/fathima-sithara/social-connect/internal/platform"
	"github.com/fathima-sithara/social-connect/internal/utils"
)

const maxMediaFiles = 4

// POST /api/posts/create — multipart form: content, platforms (JSON array
// of platform names), up to 4 media files.
func (h *Handler) CreatePost(c *fiber.Ctx) error {
	content := c.FormValue("content")
	if content == "" {
		return utils.JSONError(c, fiber.StatusBadRequest, "content is required")
	}

	var names []string
	if raw := c.FormValue("platforms"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &names); err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "platforms must be a JSON array")
		}
	}
	requested, err := platform.ParseList(names)
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	var mediaPaths []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files := form.File["media"]
		if len(files) > maxMediaFiles {
			return utils.JSONError(c, fiber.StatusBadRequest, "at most 4 media files allowed")
		}
		for _, fh := range files {
			path, err := h.store.Save(c, fh)
			if err != nil {
				return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
			}
			mediaPaths = append(mediaPaths, path)
		}
	}

	post, err := h.publish.CreatePost(c.Context(), middleware.UserID(c), content, mediaPaths, requested)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrContentRequired):
			return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, utils.ErrUserNotFound):
			return utils.JSONError(c, fiber.StatusNotFound, "user not found")
		default:
			h.logger.Errorw("create post failed", "error", err)
			return utils.JSONError(c, fiber.StatusInternalServerError, "server error")
		}
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{
		"post":    post,
		"results": post.Platforms,
	})
}

// GET /api/posts/history
func (h *Handler) PostHistory(c *fiber.Ctx) error {
	posts, err := h.publish.History(c.Context(), middleware.UserID(c))
	if err != nil {
		h.logger.Errorw("post history failed", "error", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "server error")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"posts": posts})
}

// GET /api/posts/:id — ownership-checked; foreign posts read as 404.
func (h *Handler) GetPost(c *fiber.Ctx) error {
	post, err := h.publish.Get(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, utils.ErrPostNotFound) {
			return utils.JSONError(c, fiber.StatusNotFound, "post not found")
		}
		h.logger.Errorw("get post failed", "error", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "server error")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"post": post})
}

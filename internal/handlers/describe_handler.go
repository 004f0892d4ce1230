package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/freelancehub/backend/internal/services/describe"
)

type DescribeHandler struct {
	Describe *describe.Service
	Log      *zap.SugaredLogger
}

func NewDescribeHandler(svc *describe.Service, log *zap.SugaredLogger) *DescribeHandler {
	return &DescribeHandler{Describe: svc, Log: log}
}

type DescribeReq struct {
	Title string `json:"title"`
}

func (h *DescribeHandler) Generate(c *fiber.Ctx) error {
	var req DescribeReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return validationFail(c, FieldErrors{"title": {"Title is required"}})
	}

	text, err := h.Describe.Generate(c.Context(), title)
	if err != nil {
		h.Log.Warnw("description generation failed", "title", title, "error", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"message": "An error occurred while generating the description",
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"description": text,
	})
}

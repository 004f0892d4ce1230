package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/freelancehub/backend/internal/models"
	"github.com/freelancehub/backend/internal/realtime"
	"github.com/freelancehub/backend/internal/services/project"
)

type ProjectHandler struct {
	Projects *project.Service
	Events   *realtime.Publisher
}

func NewProjectHandler(projects *project.Service, events *realtime.Publisher) *ProjectHandler {
	return &ProjectHandler{Projects: projects, Events: events}
}

type CreateProjectReq struct {
	Title   string `json:"title"`
	Details string `json:"details"`
	Amount  string `json:"amount"`
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	uid, err := userUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req CreateProjectReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	p, err := h.Projects.Create(c.Context(), uid, req.Title, req.Details, req.Amount)
	if err != nil {
		return fail(c, err)
	}

	h.Events.Publish(c.Context(), realtime.Event{
		Type:      "project_created",
		ProjectID: p.ID,
		Title:     p.Title,
		At:        p.CreatedAt,
	})

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Project uploaded successfully",
		"data": fiber.Map{
			"project": p,
		},
	})
}

// ListMine returns the caller's projects. Optional query params narrow the
// list: q (title substring), from/to (RFC 3339 date range on updated_at).
func (h *ProjectHandler) ListMine(c *fiber.Ctx) error {
	uid, err := userUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	projects, err := h.Projects.ListByOwner(c.Context(), uid)
	if err != nil {
		return fail(c, err)
	}

	opts := project.FilterOptions{TitleContains: c.Query("q")}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		opts.UpdatedFrom = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		opts.UpdatedTo = &to
	}
	projects = project.Filter(projects, opts)

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Projects fetched successfully",
		"projects": projects,
	})
}

// GetOne fetches a single project. With ?owner=1 the lookup is
// owner-scoped and fails closed as not-found for anyone else.
func (h *ProjectHandler) GetOne(c *fiber.Ctx) error {
	uid, err := userUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid or missing project ID",
		})
	}

	var p *models.Project
	if c.QueryBool("owner") {
		p, err = h.Projects.GetOwned(c.Context(), id, uid)
	} else {
		p, err = h.Projects.Get(c.Context(), id)
	}
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project fetched",
		"project": p,
	})
}

func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	uid, err := userUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid or missing project ID",
		})
	}

	if err := h.Projects.Delete(c.Context(), id, uid); err != nil {
		return fail(c, err)
	}

	h.Events.Publish(c.Context(), realtime.Event{
		Type:      "project_deleted",
		ProjectID: id,
		At:        time.Now(),
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project deleted successfully",
	})
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/freelancehub/backend/internal/realtime"
	"github.com/freelancehub/backend/internal/services/bid"
	"github.com/freelancehub/backend/internal/services/project"
)

type BidHandler struct {
	Bids     *bid.Service
	Projects *project.Service
	Events   *realtime.Publisher
}

func NewBidHandler(bids *bid.Service, projects *project.Service, events *realtime.Publisher) *BidHandler {
	return &BidHandler{Bids: bids, Projects: projects, Events: events}
}

type PlaceBidReq struct {
	ProjectID string `json:"project_id"`
	Bid       string `json:"bid"`
}

func (h *BidHandler) Place(c *fiber.Ctx) error {
	uid, err := userUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req PlaceBidReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	if req.ProjectID == "" || req.Bid == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Please provide bid and project_id",
		})
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid or missing project ID",
		})
	}

	b, err := h.Bids.Place(c.Context(), projectID, uid, req.Bid)
	if err != nil {
		return fail(c, err)
	}

	h.Events.Publish(c.Context(), realtime.Event{
		Type:      "bid_placed",
		ProjectID: projectID,
		Username:  b.Username,
		At:        b.CreatedAt,
	})

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Bid added successfully",
	})
}

// ListMyBidProjects returns every project the caller has bid on, in full.
func (h *BidHandler) ListMyBidProjects(c *fiber.Ctx) error {
	uid, err := userUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	projects, err := h.Projects.ListWithBidsBy(c.Context(), uid)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Projects with user bids fetched successfully",
		"projects": projects,
	})
}

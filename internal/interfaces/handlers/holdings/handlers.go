package holdings

import (
	holdsvc "portfolio-backend/internal/application/holdings"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/pkg/response"
	"portfolio-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles holdings handlers. Holdings are read-only over HTTP.
type Handlers struct {
	Service *holdsvc.Service
}

func optionalUUID(c *fiber.Ctx, key string) (uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, ok := validation.ParseUUID(raw)
	if !ok {
		return uuid.Nil, domain.InvalidInput("Invalid " + key + " format (must be a valid UUID)")
	}
	return id, nil
}

// List GET /api/v1/holdings?portfolio_id=&asset_id=
func (h *Handlers) List(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var f holdsvc.ListFilter
	var err error
	if f.PortfolioID, err = optionalUUID(c, "portfolio_id"); err != nil {
		return response.FromError(c, err)
	}
	if f.AssetID, err = optionalUUID(c, "asset_id"); err != nil {
		return response.FromError(c, err)
	}

	data, err := h.Service.List(c.UserContext(), actor, f)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Holdings fetched successfully", data, fiber.Map{"count": len(data)})
}

// Get GET /api/v1/holdings/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := validation.ParseUUID(c.Params("id"))
	if !ok {
		return response.FromError(c, domain.NotFound("Holding not found"))
	}
	holding, err := h.Service.Get(c.UserContext(), actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Holding fetched successfully", holding, nil)
}

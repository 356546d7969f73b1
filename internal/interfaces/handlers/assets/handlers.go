package assets

import (
	"strings"

	assetsvc "portfolio-backend/internal/application/assets"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/pkg/response"
	"portfolio-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *assetsvc.Service
}

type createBody struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type updateBody struct {
	Ticker   *string `json:"ticker"`
	Name     *string `json:"name"`
	Category *string `json:"category"`
}

func category(s string) domain.AssetCategory {
	return domain.AssetCategory(strings.ToUpper(strings.TrimSpace(s)))
}

func assetID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := validation.ParseUUID(c.Params("id"))
	if !ok {
		return uuid.Nil, domain.NotFound("Asset not found")
	}
	return id, nil
}

// List GET /api/v1/assets?category=
func (h *Handlers) List(c *fiber.Ctx) error {
	out, err := h.Service.List(c.UserContext(), category(c.Query("category")))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Assets fetched successfully", out, fiber.Map{"count": len(out)})
}

// Get GET /api/v1/assets/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := assetID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	a, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Asset fetched successfully", a, nil)
}

// Create POST /api/v1/assets
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body createBody
	if err := c.BodyParser(&body); err != nil {
		return response.FromError(c, domain.InvalidInput("Invalid request body"))
	}
	a, err := h.Service.Create(c.UserContext(), actor, assetsvc.CreateRequest{
		Ticker:   body.Ticker,
		Name:     body.Name,
		Category: category(body.Category),
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Asset created successfully", a, nil)
}

// Update PATCH /api/v1/assets/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := assetID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var body updateBody
	if err := c.BodyParser(&body); err != nil {
		return response.FromError(c, domain.InvalidInput("Invalid request body"))
	}
	req := assetsvc.UpdateRequest{Ticker: body.Ticker, Name: body.Name}
	if body.Category != nil {
		cat := category(*body.Category)
		req.Category = &cat
	}
	a, err := h.Service.Update(c.UserContext(), actor, id, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Asset updated successfully", a, nil)
}

// Delete DELETE /api/v1/assets/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := assetID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), actor, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Asset deleted successfully", fiber.Map{"asset_id": id}, nil)
}

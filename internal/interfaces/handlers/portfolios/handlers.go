package portfolios

import (
	portsvc "portfolio-backend/internal/application/portfolios"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/pkg/response"
	"portfolio-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *portsvc.Service
}

type createBody struct {
	Name string `json:"name"`
	Host string `json:"host"`
}

type updateBody struct {
	Name *string `json:"name"`
	Host *string `json:"host"`
}

func portfolioID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := validation.ParseUUID(c.Params("id"))
	if !ok {
		return uuid.Nil, domain.NotFound("Portfolio not found")
	}
	return id, nil
}

// List GET /api/v1/portfolios
func (h *Handlers) List(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.List(c.UserContext(), actor)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Portfolios fetched successfully", out, fiber.Map{"count": len(out)})
}

// Get GET /api/v1/portfolios/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := portfolioID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	p, err := h.Service.Get(c.UserContext(), actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Portfolio fetched successfully", p, nil)
}

// Create POST /api/v1/portfolios
func (h *Handlers) Create(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body createBody
	if err := c.BodyParser(&body); err != nil {
		return response.FromError(c, domain.InvalidInput("Invalid request body"))
	}
	p, err := h.Service.Create(c.UserContext(), actor, portsvc.CreateRequest{Name: body.Name, Host: body.Host})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Portfolio created successfully", p, nil)
}

// Update PATCH /api/v1/portfolios/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := portfolioID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var body updateBody
	if err := c.BodyParser(&body); err != nil {
		return response.FromError(c, domain.InvalidInput("Invalid request body"))
	}
	p, err := h.Service.Update(c.UserContext(), actor, id, portsvc.UpdateRequest{Name: body.Name, Host: body.Host})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Portfolio updated successfully", p, nil)
}

// Delete DELETE /api/v1/portfolios/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := portfolioID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), actor, id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Portfolio deleted successfully", fiber.Map{"portfolio_id": id}, nil)
}

// Summary GET /api/v1/portfolios/:id/summary
func (h *Handlers) Summary(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, err := portfolioID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	s, err := h.Service.Summary(c.UserContext(), actor, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Portfolio summary fetched successfully", s, nil)
}

package transactions

import (
	"errors"
	"strings"

	txsvc "portfolio-backend/internal/application/transactions"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/pkg/response"
	"portfolio-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *txsvc.Service
}

type admitBody struct {
	AssetID  string      `json:"asset_id"`
	Kind     string      `json:"kind"`
	Quantity interface{} `json:"quantity"`
	Price    interface{} `json:"price"`
	Date     string      `json:"date"`
}

// decode turns the body into an AdmitRequest. Shape problems are carried in
// Malformed so that out-of-scope callers still get 404/403 first.
func (b admitBody) decode() txsvc.AdmitRequest {
	req := txsvc.AdmitRequest{Kind: domain.TransactionKind(strings.ToUpper(strings.TrimSpace(b.Kind)))}
	var problems []string

	if id, ok := validation.ParseUUID(b.AssetID); ok {
		req.AssetID = id
	} else {
		problems = append(problems, "asset_id must be a valid UUID")
	}
	if q, ok := validation.ParseDecimal(b.Quantity); ok {
		req.Quantity = q
	} else {
		problems = append(problems, "quantity must be a decimal with at most 10 integer digits and 2 places")
	}
	if p, ok := validation.ParseDecimal(b.Price); ok {
		req.Price = p
	} else {
		problems = append(problems, "price must be a decimal with at most 10 integer digits and 2 places")
	}
	if d, err := validation.ParseDate(b.Date); err == nil {
		req.Date = d
	} else {
		problems = append(problems, "date must be YYYY-MM-DD")
	}
	if len(problems) > 0 {
		req.Malformed = errors.New(strings.Join(problems, "; "))
	}
	return req
}

func portfolioID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := validation.ParseUUID(c.Params("id"))
	if !ok {
		return uuid.Nil, domain.NotFound("Portfolio not found")
	}
	return id, nil
}

// Admit POST /api/v1/portfolios/:id/transactions
func (h *Handlers) Admit(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	pid, err := portfolioID(c)
	if err != nil {
		return response.FromError(c, err)
	}

	var body admitBody
	req := txsvc.AdmitRequest{Malformed: errors.New("Invalid request body")}
	if err := c.BodyParser(&body); err == nil {
		req = body.decode()
	}

	tx, err := h.Service.Admit(c.UserContext(), actor, pid, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Transaction recorded successfully", tx, nil)
}

// List GET /api/v1/portfolios/:id/transactions
func (h *Handlers) List(c *fiber.Ctx) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	pid, err := portfolioID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	txs, err := h.Service.ListForPortfolio(c.UserContext(), actor, pid)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Transactions fetched successfully", txs, fiber.Map{"count": len(txs)})
}

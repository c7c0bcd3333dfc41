package handlers

import (
	"mcadesk/internal/services/merchant"
	"mcadesk/internal/utils/pagination"
	"mcadesk/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type MerchantHandler struct {
	merchantService merchant.Service
}

func NewMerchantHandler(merchantSvc merchant.Service) *MerchantHandler {
	return &MerchantHandler{merchantService: merchantSvc}
}

func (h *MerchantHandler) CreateMerchant(c *fiber.Ctx) error {
	var input merchant.CreateMerchantInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	m, err := h.merchantService.CreateMerchant(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, "Merchant created successfully", m)
}

func (h *MerchantHandler) GetMerchant(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	m, err := h.merchantService.GetMerchant(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Merchant retrieved successfully", m)
}

func (h *MerchantHandler) ListMerchants(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	merchants, total, err := h.merchantService.ListMerchants(c.UserContext(), c.Query("search"), p.Offset, p.Limit)
	if err != nil {
		return fail(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, merchants))
}

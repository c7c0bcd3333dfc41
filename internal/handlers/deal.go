package handlers

import (
	"strconv"

	"mcadesk/internal/domain/offer"
	"mcadesk/internal/domain/stage"
	"mcadesk/internal/repositories"
	"mcadesk/internal/services/deal"
	"mcadesk/internal/utils"
	"mcadesk/internal/utils/pagination"
	"mcadesk/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type DealHandler struct {
	dealService deal.Service
}

func NewDealHandler(dealService deal.Service) *DealHandler {
	return &DealHandler{dealService: dealService}
}

// CreateDeal opens a new lead for an existing merchant
func (h *DealHandler) CreateDeal(c *fiber.Ctx) error {
	var input deal.CreateRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	input.ActorID = utils.ActorID(c)

	created, err := h.dealService.Create(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, "Deal created successfully", created)
}

func (h *DealHandler) ListDeals(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	filter := repositories.DealFilter{Stage: stage.Stage(c.Query("stage"))}
	for key, dst := range map[string]*uint{
		"merchant_id":    &filter.MerchantID,
		"underwriter_id": &filter.UnderwriterID,
		"broker_id":      &filter.BrokerID,
	} {
		v := c.Query(key)
		if v == "" {
			continue
		}
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return response.BadRequest(c, key+" must be a positive integer")
		}
		*dst = uint(id)
	}

	deals, total, err := h.dealService.List(c.UserContext(), filter, p.Offset, p.Limit)
	if err != nil {
		return fail(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, deals))
}

// GetDeal returns the deal with its merchant, owners, documents and history
func (h *DealHandler) GetDeal(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	d, err := h.dealService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Deal retrieved successfully", d)
}

func (h *DealHandler) PatchDeal(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var input deal.PatchRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	input.DealID = id
	input.ActorID = utils.ActorID(c)

	updated, err := h.dealService.Patch(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Deal updated successfully", updated)
}

func (h *DealHandler) DeleteDeal(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.dealService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DealHandler) TransitionDeal(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var input deal.TransitionRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	input.DealID = id
	input.ActorID = utils.ActorID(c)

	updated, err := h.dealService.Transition(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Deal stage updated successfully", updated)
}

func (h *DealHandler) GetTransitions(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	opts, err := h.dealService.AllowedTransitions(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Allowed transitions retrieved successfully", opts)
}

func (h *DealHandler) GetHistory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	history, err := h.dealService.History(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Deal history retrieved successfully", history)
}

// DecideDeal records APPROVE, DECLINE or COUNTER
func (h *DealHandler) DecideDeal(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var input deal.DecisionRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	input.DealID = id
	input.ActorID = utils.ActorID(c)

	result, err := h.dealService.Decide(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Decision recorded successfully", result)
}

func (h *DealHandler) AddComment(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	var input deal.CommentRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	input.DealID = id
	input.AuthorID = utils.ActorID(c)

	comment, err := h.dealService.AddComment(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, "Comment added successfully", comment)
}

func (h *DealHandler) ListComments(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return fail(c, err)
	}
	p := pagination.ParseFromRequest(c)

	comments, total, err := h.dealService.Comments(c.UserContext(), id, p.Offset, p.Limit)
	if err != nil {
		return fail(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, comments))
}

// QuoteOffer prices an offer without touching any deal
func (h *DealHandler) QuoteOffer(c *fiber.Ctx) error {
	var input offer.Request
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	o, err := h.dealService.Quote(input)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Offer calculated successfully", fiber.Map{
		"offer":   o,
		"summary": o.Summary(),
	})
}

package academic

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarity/scholarity-api/utils/middleware"
	"github.com/scholarity/scholarity-api/utils/response"
	"github.com/scholarity/scholarity-api/utils/validation"
)

// TaxonomyRequest represents an instructor proposal for a new category or
// subject
type TaxonomyRequest struct {
	Type       string `json:"type" validate:"required,oneof=CATEGORY SUBJECT"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
	CategoryID *uint  `json:"category_id" validate:"omitempty,min=1"`
}

// ResolveRequest represents an admin decision on a taxonomy request
type ResolveRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

// RequestItem handles POST /api/v1/teacher/academic/requests
func (h *AcademicHandler) RequestItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req TaxonomyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	request, err := h.service.RequestItem(c.Context(), userID, req.Type, validation.SanitizeString(req.Name), req.CategoryID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, request)
}

// ListRequests handles GET /api/v1/admin/academic/requests
func (h *AcademicHandler) ListRequests(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	status := c.Query("status", "")

	requests, total, err := h.service.ListRequests(c.Context(), status, page, limit)
	if err != nil {
		return response.FromError(c, err)
	}

	pagination := response.CalculatePagination(page, limit, total)
	return response.Paginated(c, requests, pagination)
}

// ResolveTaxonomyRequest handles PATCH /api/v1/admin/academic/requests/:id
func (h *AcademicHandler) ResolveTaxonomyRequest(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	var req ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	approve := req.Status == "APPROVED"
	request, err := h.service.ResolveRequest(c.Context(), uint(id), approve, req.Reason)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, request)
}

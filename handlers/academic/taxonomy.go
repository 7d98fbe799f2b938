package academic

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarity/scholarity-api/services"
	"github.com/scholarity/scholarity-api/utils/response"
	"github.com/scholarity/scholarity-api/utils/validation"
	"gorm.io/gorm"
)

// AcademicHandler handles taxonomy browsing, admin edits and the
// instructor request flow
type AcademicHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	service   *services.AcademicService
}

// NewAcademicHandler creates a new academic handler
func NewAcademicHandler(db *gorm.DB) *AcademicHandler {
	return &AcademicHandler{
		db:        db,
		validator: validation.NewValidator(),
		service:   services.NewAcademicService(db),
	}
}

// CategoryRequest represents a category create/update payload
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// SubjectRequest represents a subject create payload
type SubjectRequest struct {
	CategoryID uint   `json:"category_id" validate:"required,min=1"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
}

// RenameRequest represents a subject rename payload
type RenameRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// BulkDeleteRequest represents a bulk category deletion
type BulkDeleteRequest struct {
	CategoryIDs []uint `json:"category_ids" validate:"required,min=1,dive,min=1"`
}

// ListCategories handles GET /api/v1/academic/categories
func (h *AcademicHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, categories)
}

// CreateCategory handles POST /api/v1/admin/academic/categories
func (h *AcademicHandler) CreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	category, err := h.service.CreateCategory(c.Context(), validation.SanitizeString(req.Name))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, category)
}

// UpdateCategory handles PUT /api/v1/admin/academic/categories/:id
func (h *AcademicHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid category ID")
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	category, err := h.service.UpdateCategory(c.Context(), uint(id), validation.SanitizeString(req.Name))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, category)
}

// DeleteCategory handles DELETE /api/v1/admin/academic/categories/:id
func (h *AcademicHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid category ID")
	}

	if err := h.service.DeleteCategory(c.Context(), uint(id)); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Category deleted", nil)
}

// BulkDeleteCategories handles POST /api/v1/admin/academic/categories/bulk-delete
func (h *AcademicHandler) BulkDeleteCategories(c *fiber.Ctx) error {
	var req BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	removed, err := h.service.BulkDeleteCategories(c.Context(), req.CategoryIDs)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, fiber.Map{"deleted": removed})
}

// CreateSubject handles POST /api/v1/admin/academic/subjects
func (h *AcademicHandler) CreateSubject(c *fiber.Ctx) error {
	var req SubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	subject, err := h.service.CreateSubject(c.Context(), req.CategoryID, validation.SanitizeString(req.Name))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, subject)
}

// UpdateSubject handles PUT /api/v1/admin/academic/subjects/:id
func (h *AcademicHandler) UpdateSubject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	var req RenameRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	subject, err := h.service.UpdateSubject(c.Context(), uint(id), validation.SanitizeString(req.Name))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, subject)
}

// DeleteSubject handles DELETE /api/v1/admin/academic/subjects/:id
func (h *AcademicHandler) DeleteSubject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	if err := h.service.DeleteSubject(c.Context(), uint(id)); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Subject deleted", nil)
}

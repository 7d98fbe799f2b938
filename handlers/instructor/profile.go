package instructor

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarity/scholarity-api/services"
	"github.com/scholarity/scholarity-api/utils/middleware"
	"github.com/scholarity/scholarity-api/utils/response"
	"github.com/scholarity/scholarity-api/utils/validation"
	"gorm.io/gorm"
)

// ProfileHandler handles instructor profile endpoints
type ProfileHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	service   *services.TeacherService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{
		db:        db,
		validator: validation.NewValidator(),
		service:   services.NewTeacherService(db),
	}
}

// ProfileRequest represents an instructor profile upsert payload
type ProfileRequest struct {
	Bio        string `json:"bio" validate:"required,min=10,max=2000"`
	Expertise  string `json:"expertise" validate:"required,min=2,max=500"`
	Experience string `json:"experience" validate:"required,min=2,max=500"`
}

// GetProfile handles GET /api/v1/teacher/profile
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	profile, err := h.service.Profile(c.Context(), userID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, profile)
}

// UpsertProfile handles PUT /api/v1/teacher/profile
func (h *ProfileHandler) UpsertProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	profile, err := h.service.UpsertProfile(c.Context(), userID, services.ProfileInput{
		Bio:        validation.SanitizeString(req.Bio),
		Expertise:  validation.SanitizeString(req.Expertise),
		Experience: validation.SanitizeString(req.Experience),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, profile)
}

// ListTeachers handles GET /api/v1/teachers (public roster)
func (h *ProfileHandler) ListTeachers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	teachers, total, err := h.service.ListTeachers(c.Context(), page, limit)
	if err != nil {
		return response.FromError(c, err)
	}

	pagination := response.CalculatePagination(page, limit, total)
	return response.Paginated(c, teachers, pagination)
}

package student

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarity/scholarity-api/services"
	"github.com/scholarity/scholarity-api/utils/middleware"
	"github.com/scholarity/scholarity-api/utils/response"
	"github.com/scholarity/scholarity-api/utils/validation"
	"gorm.io/gorm"
)

// ProfileHandler handles learner profile endpoints
type ProfileHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	service   *services.StudentService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{
		db:        db,
		validator: validation.NewValidator(),
		service:   services.NewStudentService(db),
	}
}

// ProfileRequest represents a learner profile upsert payload
type ProfileRequest struct {
	Bio       string `json:"bio" validate:"omitempty,max=2000"`
	Interests string `json:"interests" validate:"omitempty,max=500"`
}

// GetProfile handles GET /api/v1/student/profile
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

// UpsertProfile handles PUT /api/v1/student/profile
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

	profile, err := h.service.UpsertProfile(c.Context(), userID, services.StudentProfileInput{
		Bio:       validation.SanitizeString(req.Bio),
		Interests: validation.SanitizeString(req.Interests),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, profile)
}

// ListStudents handles GET /api/v1/admin/students
func (h *ProfileHandler) ListStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	withoutApplications := c.Query("without_applications") == "true"

	students, total, err := h.service.ListStudents(c.Context(), withoutApplications, page, limit)
	if err != nil {
		return response.FromError(c, err)
	}

	pagination := response.CalculatePagination(page, limit, total)
	return response.Paginated(c, students, pagination)
}

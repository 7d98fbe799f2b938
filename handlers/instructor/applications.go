package instructor

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarity/scholarity-api/services"
	authutil "github.com/scholarity/scholarity-api/utils/auth"
	"github.com/scholarity/scholarity-api/utils/middleware"
	"github.com/scholarity/scholarity-api/utils/response"
	"github.com/scholarity/scholarity-api/utils/validation"
	"gorm.io/gorm"
)

// InstructorHandler handles the instructor application workflow
type InstructorHandler struct {
	db         *gorm.DB
	validator  *validation.Validator
	service    *services.InstructorService
	jwtManager *authutil.JWTManager
}

// NewInstructorHandler creates a new instructor handler
func NewInstructorHandler(db *gorm.DB, jwtManager *authutil.JWTManager) *InstructorHandler {
	return &InstructorHandler{
		db:         db,
		validator:  validation.NewValidator(),
		service:    services.NewInstructorService(db),
		jwtManager: jwtManager,
	}
}

// ApplyRequest represents an application from an existing account
type ApplyRequest struct {
	Bio        string `json:"bio" validate:"required,min=10,max=2000"`
	Expertise  string `json:"expertise" validate:"required,min=2,max=500"`
	Experience string `json:"experience" validate:"required,min=2,max=500"`
}

// JoinRequest represents a combined signup + application
type JoinRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Bio        string `json:"bio" validate:"required,min=10,max=2000"`
	Expertise  string `json:"expertise" validate:"required,min=2,max=500"`
	Experience string `json:"experience" validate:"required,min=2,max=500"`
}

// ReviewRequest represents an admin decision on an application
type ReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

// Apply handles POST /api/v1/instructor/apply
func (h *InstructorHandler) Apply(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	application, err := h.service.Apply(c.Context(), userID, services.ApplicationInput{
		Bio:        validation.SanitizeString(req.Bio),
		Expertise:  validation.SanitizeString(req.Expertise),
		Experience: validation.SanitizeString(req.Experience),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, application)
}

// Join handles POST /api/v1/instructor/join. Creates an inactive account
// plus a pending application and returns tokens so the applicant can track
// their verification status.
func (h *InstructorHandler) Join(c *fiber.Ctx) error {
	var req JoinRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	user, application, err := h.service.Join(c.Context(), services.JoinInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       validation.SanitizeString(req.Name),
		Bio:        validation.SanitizeString(req.Bio),
		Expertise:  validation.SanitizeString(req.Expertise),
		Experience: validation.SanitizeString(req.Experience),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	accessToken, _, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role.Name, user.TokenVersion)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}
	refreshToken, _, err := h.jwtManager.GenerateRefreshToken(user.ID, user.Email, user.Role.Name, user.TokenVersion)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate refresh token")
	}

	return response.Created(c, fiber.Map{
		"user":          user,
		"application":   application,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// VerificationStatus handles GET /api/v1/instructor/verification-status
func (h *InstructorHandler) VerificationStatus(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	status, application, err := h.service.VerificationStatus(c.Context(), userID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, fiber.Map{
		"status":      status,
		"application": application,
	})
}

// ListApplications handles GET /api/v1/admin/instructor/applications
func (h *InstructorHandler) ListApplications(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	status := c.Query("status", "")

	applications, total, err := h.service.ListApplications(c.Context(), status, page, limit)
	if err != nil {
		return response.FromError(c, err)
	}

	pagination := response.CalculatePagination(page, limit, total)
	return response.Paginated(c, applications, pagination)
}

// Review handles PATCH /api/v1/admin/instructor/applications/:id
func (h *InstructorHandler) Review(c *fiber.Ctx) error {
	reviewerID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	applicationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	approve := req.Status == "APPROVED"
	if !approve && req.Reason == "" {
		return response.BadRequest(c, "Rejection reason is required")
	}

	application, err := h.service.Review(c.Context(), uint(applicationID), reviewerID, approve, req.Reason)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, application)
}

package admin

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarity/scholarity-api/services"
	"github.com/scholarity/scholarity-api/utils/response"
	"github.com/scholarity/scholarity-api/utils/validation"
	"gorm.io/gorm"
)

// AdminHandler handles admin-side account and role management
type AdminHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	service   *services.AdminUserService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{
		db:        db,
		validator: validation.NewValidator(),
		service:   services.NewAdminUserService(db),
	}
}

// ChangeRoleRequest represents a role reassignment payload
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,min=2,max=50"`
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	users, total, err := h.service.ListUsers(c.Context(), services.UserFilter{
		Search: c.Query("search", ""),
		Role:   c.Query("role", ""),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	pagination := response.CalculatePagination(page, limit, total)
	return response.Paginated(c, users, pagination)
}

// GetUser handles GET /api/v1/admin/users/:id
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.service.GetUser(c.Context(), uint(id))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, user)
}

// ToggleUserActive handles POST /api/v1/admin/users/:id/toggle
func (h *AdminHandler) ToggleUserActive(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.service.ToggleActive(c.Context(), uint(id))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, user)
}

// ChangeUserRole handles PATCH /api/v1/admin/users/:id/role
func (h *AdminHandler) ChangeUserRole(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	user, err := h.service.ChangeRole(c.Context(), uint(id), req.Role)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, user)
}

// DeleteUser handles DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.service.DeleteUser(c.Context(), uint(id)); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "User deleted", nil)
}

// ListRoles handles GET /api/v1/admin/roles
func (h *AdminHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.service.ListRoles(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, roles)
}

// ListAuditLogs handles GET /api/v1/admin/audit-logs
func (h *AdminHandler) ListAuditLogs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	logs, total, err := h.service.ListAuditLogs(c.Context(), page, limit)
	if err != nil {
		return response.FromError(c, err)
	}

	pagination := response.CalculatePagination(page, limit, total)
	return response.Paginated(c, logs, pagination)
}

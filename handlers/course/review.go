package course

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarity/scholarity-api/model"
	"github.com/scholarity/scholarity-api/services"
	"github.com/scholarity/scholarity-api/utils/middleware"
	"github.com/scholarity/scholarity-api/utils/response"
)

// ReviewRequest represents an admin decision on a pending course
type ReviewRequest struct {
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// BulkDeleteRequest represents an admin bulk course deletion
type BulkDeleteRequest struct {
	CourseIDs []uint `json:"course_ids" validate:"omitempty,dive,min=1"`
	DeleteAll bool   `json:"delete_all"`
}

// PendingCourses handles GET /api/v1/admin/courses/pending
func (h *CourseHandler) PendingCourses(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	courses, total, err := h.service.ListCourses(c.Context(), services.CourseFilter{
		Status: model.CoursePending,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	pagination := response.CalculatePagination(page, limit, total)
	return response.Paginated(c, courses, pagination)
}

// AdminCourses handles GET /api/v1/admin/courses with arbitrary filters
func (h *CourseHandler) AdminCourses(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	categoryID, _ := strconv.Atoi(c.Query("category_id", "0"))
	teacherID, _ := strconv.Atoi(c.Query("teacher_id", "0"))

	courses, total, err := h.service.ListCourses(c.Context(), services.CourseFilter{
		Status:     c.Query("status", ""),
		CategoryID: uint(categoryID),
		TeacherID:  uint(teacherID),
		Search:     c.Query("search", ""),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	pagination := response.CalculatePagination(page, limit, total)
	return response.Paginated(c, courses, pagination)
}

// ApproveCourse handles POST /api/v1/admin/courses/:id/approve
func (h *CourseHandler) ApproveCourse(c *fiber.Ctx) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	courseID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	course, err := h.service.Approve(c.Context(), adminID, uint(courseID), req.Comment)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Course approved", course)
}

// RejectCourse handles POST /api/v1/admin/courses/:id/reject
func (h *CourseHandler) RejectCourse(c *fiber.Ctx) error {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	courseID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	course, err := h.service.Reject(c.Context(), adminID, uint(courseID), req.Comment)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Course rejected", course)
}

// CourseLogs handles GET /api/v1/admin/courses/:id/logs
func (h *CourseHandler) CourseLogs(c *fiber.Ctx) error {
	courseID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	logs, err := h.service.Logs(c.Context(), uint(courseID))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, logs)
}

// BulkDeleteCourses handles POST /api/v1/admin/courses/bulk-delete
func (h *CourseHandler) BulkDeleteCourses(c *fiber.Ctx) error {
	role, _ := middleware.GetUserRole(c)

	var req BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if !req.DeleteAll && len(req.CourseIDs) == 0 {
		return response.BadRequest(c, "Provide course_ids or set delete_all")
	}

	removed, err := h.service.BulkDelete(c.Context(), role, req.CourseIDs, req.DeleteAll)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, fiber.Map{"deleted": removed})
}

package course

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarity/scholarity-api/services"
	"github.com/scholarity/scholarity-api/utils/middleware"
	"github.com/scholarity/scholarity-api/utils/response"
	"github.com/scholarity/scholarity-api/utils/validation"
)

// CreateUnitRequest represents the request body for adding a unit
type CreateUnitRequest struct {
	Title string `json:"title" validate:"required,min=2,max=255"`
	Order int    `json:"order" validate:"gte=0"`
}

// ResourceRequest is one attachment within a lesson payload
type ResourceRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
	URL   string `json:"url" validate:"required,url"`
	Type  string `json:"type" validate:"omitempty,max=20"`
}

// LessonRequest represents the request body for adding or updating a lesson
type LessonRequest struct {
	Title     string            `json:"title" validate:"required,min=2,max=255"`
	Order     int               `json:"order" validate:"gte=0"`
	Duration  int               `json:"duration" validate:"gte=0"`
	VideoURL  string            `json:"video_url" validate:"omitempty,url"`
	IsFree    bool              `json:"is_free"`
	Resources []ResourceRequest `json:"resources" validate:"omitempty,dive"`
}

func toLessonInput(req LessonRequest) services.LessonInput {
	in := services.LessonInput{
		Title:    validation.SanitizeString(req.Title),
		Order:    req.Order,
		Duration: req.Duration,
		VideoURL: req.VideoURL,
		IsFree:   req.IsFree,
	}
	for _, r := range req.Resources {
		in.Resources = append(in.Resources, services.ResourceInput{
			Title: validation.SanitizeString(r.Title),
			URL:   r.URL,
			Type:  r.Type,
		})
	}
	return in
}

// AddUnit handles POST /api/v1/teacher/courses/:id/units
func (h *CourseHandler) AddUnit(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	courseID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	var req CreateUnitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	unit, err := h.service.AddUnit(c.Context(), userID, uint(courseID), validation.SanitizeString(req.Title), req.Order)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, unit)
}

// AddLesson handles POST /api/v1/teacher/units/:id/lessons
func (h *CourseHandler) AddLesson(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	unitID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid unit ID")
	}

	var req LessonRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	lesson, err := h.service.AddLesson(c.Context(), userID, uint(unitID), toLessonInput(req))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, lesson)
}

// UpdateLesson handles PUT /api/v1/teacher/lessons/:id
func (h *CourseHandler) UpdateLesson(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	lessonID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid lesson ID")
	}

	var req LessonRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	lesson, err := h.service.UpdateLesson(c.Context(), userID, uint(lessonID), toLessonInput(req))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, lesson)
}

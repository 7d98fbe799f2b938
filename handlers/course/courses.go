package course

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarity/scholarity-api/model"
	"github.com/scholarity/scholarity-api/services"
	"github.com/scholarity/scholarity-api/services/storage"
	"github.com/scholarity/scholarity-api/utils/middleware"
	"github.com/scholarity/scholarity-api/utils/response"
	"github.com/scholarity/scholarity-api/utils/validation"
	"gorm.io/gorm"
)

// CourseHandler handles course authoring and browsing
type CourseHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	service   *services.CourseService
	spaces    *storage.SpacesClient
}

// NewCourseHandler creates a new course handler. spaces may be nil when
// object storage is not configured; thumbnail uploads then return 503.
func NewCourseHandler(db *gorm.DB, spaces *storage.SpacesClient) *CourseHandler {
	return &CourseHandler{
		db:        db,
		validator: validation.NewValidator(),
		service:   services.NewCourseService(db),
		spaces:    spaces,
	}
}

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=255"`
	Description string  `json:"description" validate:"omitempty,max=5000"`
	Price       float64 `json:"price" validate:"gte=0"`
	CategoryID  uint    `json:"category_id" validate:"required,min=1"`
	SubjectID   uint    `json:"subject_id" validate:"required,min=1"`
}

// UpdateCourseRequest represents the request body for updating a course
type UpdateCourseRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	CategoryID  *uint    `json:"category_id" validate:"omitempty,min=1"`
	SubjectID   *uint    `json:"subject_id" validate:"omitempty,min=1"`
}

// ListCourses handles GET /api/v1/courses. Public listing shows approved
// courses only.
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	categoryID, _ := strconv.Atoi(c.Query("category_id", "0"))
	subjectID, _ := strconv.Atoi(c.Query("subject_id", "0"))

	courses, total, err := h.service.ListCourses(c.Context(), services.CourseFilter{
		Status:     model.CourseApproved,
		CategoryID: uint(categoryID),
		SubjectID:  uint(subjectID),
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

// GetCourse handles GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	courseID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.service.Details(c.Context(), uint(courseID))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, course)
}

// MyCourses handles GET /api/v1/teacher/courses
func (h *CourseHandler) MyCourses(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	courses, err := h.service.TeacherCourses(c.Context(), userID)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, courses)
}

// CreateCourse handles POST /api/v1/teacher/courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	course, err := h.service.Create(c.Context(), userID, services.CreateCourseInput{
		Title:       validation.SanitizeString(req.Title),
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		SubjectID:   req.SubjectID,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, course)
}

// UpdateCourse handles PUT /api/v1/teacher/courses/:id
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	role, _ := middleware.GetUserRole(c)

	courseID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	var req UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	course, err := h.service.Update(c.Context(), userID, role, uint(courseID), services.UpdateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		SubjectID:   req.SubjectID,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, course)
}

// SubmitCourse handles POST /api/v1/teacher/courses/:id/submit
func (h *CourseHandler) SubmitCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	courseID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.service.Submit(c.Context(), userID, uint(courseID))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Course submitted for review", course)
}

// ToggleCourse handles POST /api/v1/teacher/courses/:id/toggle
func (h *CourseHandler) ToggleCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	role, _ := middleware.GetUserRole(c)

	courseID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.service.ToggleStatus(c.Context(), userID, role, uint(courseID))
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, course)
}

// DeleteCourse handles DELETE /api/v1/teacher/courses/:id
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	role, _ := middleware.GetUserRole(c)

	courseID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	if err := h.service.Delete(c.Context(), userID, role, uint(courseID)); err != nil {
		return response.FromError(c, err)
	}

	return response.SuccessWithMessage(c, "Course deleted", nil)
}

// UploadThumbnail handles POST /api/v1/teacher/courses/:id/thumbnail
func (h *CourseHandler) UploadThumbnail(c *fiber.Ctx) error {
	if h.spaces == nil {
		return response.ServiceUnavailable(c, "File storage is not configured")
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	courseID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	fileHeader, err := c.FormFile("thumbnail")
	if err != nil {
		return response.BadRequest(c, "Thumbnail file is required")
	}

	// 5 MB cap on thumbnails
	if fileHeader.Size > 5*1024*1024 {
		return response.BadRequest(c, "Thumbnail must be smaller than 5 MB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}

	url, err := h.spaces.UploadThumbnail(c.Context(), uint(courseID), fileHeader.Filename, data)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	course, err := h.service.UpdateThumbnail(c.Context(), userID, uint(courseID), url)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, course)
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/eduflow/course-booking/internal/domain"
	"github.com/eduflow/course-booking/internal/service"
	"github.com/eduflow/course-booking/pkg/response"
	"github.com/eduflow/course-booking/pkg/telemetry"
)

// CourseHandler handles public course browsing requests
type CourseHandler struct {
	catalogService service.CatalogService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(catalogService service.CatalogService) *CourseHandler {
	return &CourseHandler{catalogService: catalogService}
}

// ListCourses handles GET /courses?q=...&format=...
func (h *CourseHandler) ListCourses(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.course.list_courses")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	query := c.Query("q")
	format := c.Query("format")
	span.SetAttributes(
		attribute.String("query", query),
		attribute.String("format", format),
	)

	courses, err := h.catalogService.ListCourses(ctx, query, format)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleCatalogError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("count", len(courses)))
	response.Success(c, courses)
}

// GetCourse handles GET /courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.course.get_course")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id := c.Param("id")
	span.SetAttributes(attribute.String("course_id", id))

	course, err := h.catalogService.GetCourse(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleCatalogError(c, err)
		return
	}

	response.Success(c, course)
}

func handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrVersionConflict):
		response.Conflict(c, "VERSION_CONFLICT", err.Error())
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsValidationError(err):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/eduflow/course-booking/internal/dto"
	"github.com/eduflow/course-booking/internal/service"
	"github.com/eduflow/course-booking/pkg/response"
	"github.com/eduflow/course-booking/pkg/telemetry"
)

// AdminHandler handles admin catalog management requests
type AdminHandler struct {
	catalogService service.CatalogService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(catalogService service.CatalogService) *AdminHandler {
	return &AdminHandler{catalogService: catalogService}
}

// ListCoursesWithEnrollments handles GET /admin/courses
func (h *AdminHandler) ListCoursesWithEnrollments(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.admin.list_courses")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	courses, err := h.catalogService.ListCoursesWithEnrollments(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleCatalogError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("count", len(courses)))
	response.Success(c, courses)
}

// CreateCourse handles POST /admin/courses
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.admin.create_course")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	course, err := h.catalogService.CreateCourse(ctx, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleCatalogError(c, err)
		return
	}

	span.SetAttributes(attribute.String("course_id", course.ID))
	response.Created(c, course)
}

// UpdateCourse handles PUT /admin/courses/:id
func (h *AdminHandler) UpdateCourse(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.admin.update_course")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id := c.Param("id")
	span.SetAttributes(attribute.String("course_id", id))

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	course, err := h.catalogService.UpdateCourse(ctx, id, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleCatalogError(c, err)
		return
	}

	response.Success(c, course)
}

// SoftDeleteCourse handles DELETE /admin/courses/:id
func (h *AdminHandler) SoftDeleteCourse(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.admin.soft_delete_course")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id := c.Param("id")
	span.SetAttributes(attribute.String("course_id", id))

	if err := h.catalogService.SoftDeleteCourse(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleCatalogError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true, "soft": true})
}

// DeleteCourse handles DELETE /admin/courses/:id/permanent
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.admin.delete_course")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id := c.Param("id")
	span.SetAttributes(attribute.String("course_id", id))

	if err := h.catalogService.DeleteCourse(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleCatalogError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true, "soft": false})
}

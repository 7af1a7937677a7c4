package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/eduflow/course-booking/internal/domain"
	"github.com/eduflow/course-booking/internal/dto"
)

// MockCatalogService is a map-backed implementation of service.CatalogService
type MockCatalogService struct {
	courses map[string]*domain.Course
}

func NewMockCatalogService() *MockCatalogService {
	return &MockCatalogService{courses: make(map[string]*domain.Course)}
}

func (m *MockCatalogService) ListCourses(ctx context.Context, query, format string) ([]*domain.Course, error) {
	if format != "" && !domain.DeliveryFormat(format).IsValid() {
		return nil, domain.ErrInvalidFormat
	}
	var out []*domain.Course
	for _, c := range m.courses {
		if !c.IsDeleted {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockCatalogService) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	course, ok := m.courses[id]
	if !ok || course.IsDeleted {
		return nil, domain.ErrCourseNotFound
	}
	return course, nil
}

func (m *MockCatalogService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*domain.Course, error) {
	course := req.ToDomain()
	if err := course.Validate(); err != nil {
		return nil, err
	}
	course.ID = "course-123"
	course.Version = 1
	m.courses[course.ID] = course
	return course, nil
}

func (m *MockCatalogService) UpdateCourse(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*domain.Course, error) {
	existing, ok := m.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	if req.Version != existing.Version {
		return nil, domain.ErrVersionConflict
	}
	course := req.ToDomain(id)
	course.Version = existing.Version + 1
	m.courses[id] = course
	return course, nil
}

func (m *MockCatalogService) SoftDeleteCourse(ctx context.Context, id string) error {
	course, ok := m.courses[id]
	if !ok {
		return domain.ErrCourseNotFound
	}
	course.IsDeleted = true
	return nil
}

func (m *MockCatalogService) DeleteCourse(ctx context.Context, id string) error {
	if _, ok := m.courses[id]; !ok {
		return domain.ErrCourseNotFound
	}
	delete(m.courses, id)
	return nil
}

func (m *MockCatalogService) ListCoursesWithEnrollments(ctx context.Context) ([]*dto.CourseWithEnrollments, error) {
	var out []*dto.CourseWithEnrollments
	for _, c := range m.courses {
		out = append(out, &dto.CourseWithEnrollments{Course: c})
	}
	return out, nil
}

func (m *MockCatalogService) AddCourse(course *domain.Course) {
	m.courses[course.ID] = course
}

func setupCatalogRouter(mockSvc *MockCatalogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	courseHandler := NewCourseHandler(mockSvc)
	courses := router.Group("/courses")
	{
		courses.GET("", courseHandler.ListCourses)
		courses.GET("/:id", courseHandler.GetCourse)
	}

	adminHandler := NewAdminHandler(mockSvc)
	admin := router.Group("/admin")
	{
		admin.GET("/courses", adminHandler.ListCoursesWithEnrollments)
		admin.POST("/courses", adminHandler.CreateCourse)
		admin.PUT("/courses/:id", adminHandler.UpdateCourse)
		admin.DELETE("/courses/:id", adminHandler.SoftDeleteCourse)
		admin.DELETE("/courses/:id/permanent", adminHandler.DeleteCourse)
	}

	return router
}

func TestCourseHandler_ListCourses(t *testing.T) {
	mockSvc := NewMockCatalogService()
	mockSvc.AddCourse(&domain.Course{ID: "c1", Title: "Go Fundamentals", Version: 1})
	router := setupCatalogRouter(mockSvc)

	tests := []struct {
		name       string
		url        string
		wantStatus int
	}{
		{"plain listing", "/courses", http.StatusOK},
		{"with format filter", "/courses?format=classroom", http.StatusOK},
		{"unknown format", "/courses?format=hologram", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.Code, tt.wantStatus)
			}
		})
	}
}

func TestCourseHandler_GetCourse(t *testing.T) {
	mockSvc := NewMockCatalogService()
	mockSvc.AddCourse(&domain.Course{ID: "c1", Title: "Go Fundamentals", Version: 1})
	router := setupCatalogRouter(mockSvc)

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"existing course", "c1", http.StatusOK},
		{"unknown course", "nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/courses/"+tt.id, nil)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.Code, tt.wantStatus)
			}
		})
	}
}

func TestAdminHandler_CreateCourse(t *testing.T) {
	mockSvc := NewMockCatalogService()
	router := setupCatalogRouter(mockSvc)

	body, _ := json.Marshal(dto.CreateCourseRequest{
		Title:        "New Course",
		DurationDays: 2,
		Sessions: []domain.CourseSession{
			{StartDate: "2026-12-01", Format: domain.FormatClassroom, AvailableSeats: 10},
		},
	})
	req, _ := http.NewRequest(http.MethodPost, "/admin/courses", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", resp.Code, http.StatusCreated, resp.Body.String())
	}
}

func TestAdminHandler_UpdateCourse(t *testing.T) {
	mockSvc := NewMockCatalogService()
	mockSvc.AddCourse(&domain.Course{ID: "c1", Title: "Go Fundamentals", DurationDays: 3, Version: 2})
	router := setupCatalogRouter(mockSvc)

	tests := []struct {
		name       string
		id         string
		version    int64
		wantStatus int
	}{
		{"matching version", "c1", 2, http.StatusOK},
		{"stale version", "c1", 1, http.StatusConflict},
		{"unknown course", "nope", 1, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(dto.UpdateCourseRequest{
				Title:        "Go Fundamentals",
				DurationDays: 3,
				Version:      tt.version,
			})
			req, _ := http.NewRequest(http.MethodPut, "/admin/courses/"+tt.id, bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d, body %s", resp.Code, tt.wantStatus, resp.Body.String())
			}
		})
	}
}

func TestAdminHandler_DeleteCourse(t *testing.T) {
	t.Run("soft delete", func(t *testing.T) {
		mockSvc := NewMockCatalogService()
		mockSvc.AddCourse(&domain.Course{ID: "c1", Title: "Go Fundamentals", Version: 1})
		router := setupCatalogRouter(mockSvc)

		req, _ := http.NewRequest(http.MethodDelete, "/admin/courses/c1", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.Code, http.StatusOK)
		}
		if !mockSvc.courses["c1"].IsDeleted {
			t.Error("course should be soft deleted")
		}
	})

	t.Run("permanent delete", func(t *testing.T) {
		mockSvc := NewMockCatalogService()
		mockSvc.AddCourse(&domain.Course{ID: "c1", Title: "Go Fundamentals", Version: 1})
		router := setupCatalogRouter(mockSvc)

		req, _ := http.NewRequest(http.MethodDelete, "/admin/courses/c1/permanent", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.Code, http.StatusOK)
		}
		if _, ok := mockSvc.courses["c1"]; ok {
			t.Error("course should be removed")
		}
	})
}

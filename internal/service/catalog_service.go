package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/eduflow/course-booking/internal/domain"
	"github.com/eduflow/course-booking/internal/dto"
	"github.com/eduflow/course-booking/internal/store"
	"github.com/eduflow/course-booking/pkg/telemetry"
)

// CatalogService defines course browsing and admin catalog operations
type CatalogService interface {
	// ListCourses lists non-deleted courses, optionally filtered by a free
	// text query and a delivery format
	ListCourses(ctx context.Context, query, format string) ([]*domain.Course, error)
	// GetCourse returns a single course by ID
	GetCourse(ctx context.Context, id string) (*domain.Course, error)
	// CreateCourse creates a course
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*domain.Course, error)
	// UpdateCourse replaces a course, honoring its version precondition
	UpdateCourse(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*domain.Course, error)
	// SoftDeleteCourse hides a course from listings without removing it
	SoftDeleteCourse(ctx context.Context, id string) error
	// DeleteCourse permanently removes a course
	DeleteCourse(ctx context.Context, id string) error
	// ListCoursesWithEnrollments lists every course, deleted included, with
	// its live booking count
	ListCoursesWithEnrollments(ctx context.Context) ([]*dto.CourseWithEnrollments, error)
}

type catalogService struct {
	courses  store.CourseStore
	bookings store.BookingStore
}

// NewCatalogService creates a new catalog service
func NewCatalogService(courses store.CourseStore, bookings store.BookingStore) CatalogService {
	return &catalogService{
		courses:  courses,
		bookings: bookings,
	}
}

// ListCourses lists non-deleted courses matching the query and format
func (s *catalogService) ListCourses(ctx context.Context, query, format string) ([]*domain.Course, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.list_courses")
	defer span.End()

	span.SetAttributes(
		attribute.String("query", query),
		attribute.String("format", format),
	)

	var deliveryFormat domain.DeliveryFormat
	if format != "" {
		deliveryFormat = domain.DeliveryFormat(format)
		if !deliveryFormat.IsValid() {
			return nil, domain.ErrInvalidFormat
		}
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	filtered := make([]*domain.Course, 0, len(courses))
	for _, c := range courses {
		if c.IsDeleted {
			continue
		}
		if query != "" && !c.MatchesQuery(query) {
			continue
		}
		if format != "" && !c.OffersFormat(deliveryFormat) {
			continue
		}
		filtered = append(filtered, c)
	}

	span.SetAttributes(attribute.Int("count", len(filtered)))
	return filtered, nil
}

// GetCourse returns a single course by ID
func (s *catalogService) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.get_course")
	defer span.End()

	if id == "" {
		return nil, domain.ErrInvalidCourseID
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return nil, domain.ErrCourseNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to fetch course: %w", err)
	}
	if course.IsDeleted {
		return nil, domain.ErrCourseNotFound
	}

	return course, nil
}

// CreateCourse creates a course
func (s *catalogService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*domain.Course, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.create_course")
	defer span.End()

	course := req.ToDomain()
	if err := course.Validate(); err != nil {
		return nil, err
	}

	// Sessions keep stable surrogate IDs independent of their dates
	for i := range course.ScheduledDates {
		if course.ScheduledDates[i].ID == "" {
			course.ScheduledDates[i].ID = uuid.New().String()
		}
	}
	course.Version = 1

	created, err := s.courses.Create(ctx, course)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	span.SetAttributes(attribute.String("course_id", created.ID))
	return created, nil
}

// UpdateCourse replaces a course
func (s *catalogService) UpdateCourse(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*domain.Course, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.update_course")
	defer span.End()

	if id == "" {
		return nil, domain.ErrInvalidCourseID
	}

	course := req.ToDomain(id)
	if err := course.Validate(); err != nil {
		return nil, err
	}

	for i := range course.ScheduledDates {
		if course.ScheduledDates[i].ID == "" {
			course.ScheduledDates[i].ID = uuid.New().String()
		}
	}

	updated, err := s.courses.Update(ctx, course)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return nil, domain.ErrCourseNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return updated, nil
}

// SoftDeleteCourse hides a course from listings without removing it
func (s *catalogService) SoftDeleteCourse(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.soft_delete_course")
	defer span.End()

	if id == "" {
		return domain.ErrInvalidCourseID
	}

	_, err := s.courses.Patch(ctx, id, map[string]interface{}{"isDeleted": true})
	if err != nil {
		if domain.IsNotFoundError(err) {
			return domain.ErrCourseNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to soft delete course: %w", err)
	}

	return nil
}

// DeleteCourse permanently removes a course
func (s *catalogService) DeleteCourse(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.delete_course")
	defer span.End()

	if id == "" {
		return domain.ErrInvalidCourseID
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		if domain.IsNotFoundError(err) {
			return domain.ErrCourseNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete course: %w", err)
	}

	return nil
}

// ListCoursesWithEnrollments lists every course with its live booking count.
// Courses and bookings are fetched concurrently.
func (s *catalogService) ListCoursesWithEnrollments(ctx context.Context) ([]*dto.CourseWithEnrollments, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.list_courses_with_enrollments")
	defer span.End()

	var (
		wg          sync.WaitGroup
		courses     []*domain.Course
		bookings    []*domain.Booking
		coursesErr  error
		bookingsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		courses, coursesErr = s.courses.List(ctx)
	}()
	go func() {
		defer wg.Done()
		bookings, bookingsErr = s.bookings.List(ctx, store.BookingFilter{})
	}()
	wg.Wait()

	if coursesErr != nil {
		span.RecordError(coursesErr)
		span.SetStatus(codes.Error, coursesErr.Error())
		return nil, fmt.Errorf("failed to list courses: %w", coursesErr)
	}
	if bookingsErr != nil {
		span.RecordError(bookingsErr)
		span.SetStatus(codes.Error, bookingsErr.Error())
		return nil, fmt.Errorf("failed to list bookings: %w", bookingsErr)
	}

	counts := make(map[string]int, len(courses))
	for _, b := range bookings {
		if b.IsLive() {
			counts[b.CourseID]++
		}
	}

	result := make([]*dto.CourseWithEnrollments, 0, len(courses))
	for _, c := range courses {
		result = append(result, &dto.CourseWithEnrollments{
			Course:          c,
			EnrollmentCount: counts[c.ID],
		})
	}

	return result, nil
}

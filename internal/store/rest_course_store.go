package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/eduflow/course-booking/internal/domain"
)

// RESTCourseStore implements CourseStore against the catalog store REST API
type RESTCourseStore struct {
	client *Client
}

// NewRESTCourseStore creates a course store backed by the REST client
func NewRESTCourseStore(client *Client) *RESTCourseStore {
	return &RESTCourseStore{client: client}
}

// List returns all courses
func (s *RESTCourseStore) List(ctx context.Context) ([]*domain.Course, error) {
	var courses []*domain.Course
	if err := s.client.getJSON(ctx, "/courses", nil, &courses); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// GetByID returns a single course
func (s *RESTCourseStore) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	var course domain.Course
	if err := s.client.getJSON(ctx, "/courses/"+id, nil, &course); err != nil {
		return nil, mapCourseError(err)
	}
	return &course, nil
}

// Create stores a new course
func (s *RESTCourseStore) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	var created domain.Course
	if err := s.client.postJSON(ctx, "/courses", course, &created); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return &created, nil
}

// Update replaces the full course document with a version precondition.
// The version in the body is bumped so the next writer sees the change.
func (s *RESTCourseStore) Update(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	currentVersion := course.Version
	next := *course
	next.Version = currentVersion + 1

	var updated domain.Course
	if err := s.client.putJSON(ctx, "/courses/"+course.ID, currentVersion, &next, &updated); err != nil {
		return nil, mapCourseError(err)
	}
	return &updated, nil
}

// Patch applies a partial update
func (s *RESTCourseStore) Patch(ctx context.Context, id string, fields map[string]interface{}) (*domain.Course, error) {
	var patched domain.Course
	if err := s.client.patchJSON(ctx, "/courses/"+id, fields, &patched); err != nil {
		return nil, mapCourseError(err)
	}
	return &patched, nil
}

// Delete removes a course permanently
func (s *RESTCourseStore) Delete(ctx context.Context, id string) error {
	if err := s.client.delete(ctx, "/courses/"+id); err != nil {
		return mapCourseError(err)
	}
	return nil
}

// mapCourseError translates gateway responses onto domain errors
func mapCourseError(err error) error {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.IsNotFound() {
			return domain.ErrCourseNotFound
		}
		if httpErr.IsConflict() {
			return domain.ErrVersionConflict
		}
	}
	return err
}

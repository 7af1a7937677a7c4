package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/eduflow/course-booking/internal/domain"
	"github.com/google/uuid"
)

// MemoryCourseStore is an in-memory CourseStore for tests and local runs.
// It enforces the same version precondition as the REST store so CAS
// behavior can be exercised without a network.
type MemoryCourseStore struct {
	mu      sync.RWMutex
	courses map[string]*domain.Course
}

// NewMemoryCourseStore creates an empty in-memory course store
func NewMemoryCourseStore() *MemoryCourseStore {
	return &MemoryCourseStore{courses: make(map[string]*domain.Course)}
}

// Seed inserts a course directly, bypassing version checks
func (s *MemoryCourseStore) Seed(course *domain.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[course.ID] = cloneCourse(course)
}

func (s *MemoryCourseStore) List(ctx context.Context) ([]*domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, cloneCourse(c))
	}
	return out, nil
}

func (s *MemoryCourseStore) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	return cloneCourse(c), nil
}

func (s *MemoryCourseStore) Create(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cloneCourse(course)
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.courses[c.ID] = c
	return cloneCourse(c), nil
}

func (s *MemoryCourseStore) Update(ctx context.Context, course *domain.Course) (*domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.courses[course.ID]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	if course.Version > 0 && existing.Version != course.Version {
		return nil, domain.ErrVersionConflict
	}
	next := cloneCourse(course)
	next.Version = course.Version + 1
	s.courses[course.ID] = next
	return cloneCourse(next), nil
}

func (s *MemoryCourseStore) Patch(ctx context.Context, id string, fields map[string]interface{}) (*domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	patched := &domain.Course{}
	if err := mergeFields(existing, fields, patched); err != nil {
		return nil, err
	}
	s.courses[id] = patched
	return cloneCourse(patched), nil
}

func (s *MemoryCourseStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return domain.ErrCourseNotFound
	}
	delete(s.courses, id)
	return nil
}

// MemoryBookingStore is an in-memory BookingStore for tests
type MemoryBookingStore struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// DeleteErr, when set, is returned by Delete to simulate store failures
	DeleteErr error
	// CreateErr, when set, is returned by Create
	CreateErr error
}

// NewMemoryBookingStore creates an empty in-memory booking store
func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{bookings: make(map[string]*domain.Booking)}
}

// Seed inserts a booking directly
func (s *MemoryBookingStore) Seed(booking *domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := *booking
	s.bookings[b.ID] = &b
}

func (s *MemoryBookingStore) List(ctx context.Context, filter BookingFilter) ([]*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.CourseID != "" && b.CourseID != filter.CourseID {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

func (s *MemoryBookingStore) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (s *MemoryBookingStore) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b := *booking
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	s.bookings[b.ID] = &b
	clone := b
	return &clone, nil
}

func (s *MemoryBookingStore) Delete(ctx context.Context, id string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[id]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(s.bookings, id)
	return nil
}

// MemoryUserStore is an in-memory UserStore for tests
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMemoryUserStore creates an empty in-memory user store
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*domain.User)}
}

// Seed inserts a user directly
func (s *MemoryUserStore) Seed(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[u.ID] = &u
}

func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.User, 0)
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *MemoryUserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	s.users[u.ID] = &u
	clone := u
	return &clone, nil
}

func (s *MemoryUserStore) Patch(ctx context.Context, id string, fields map[string]interface{}) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	patched := &domain.User{}
	if err := mergeFields(existing, fields, patched); err != nil {
		return nil, err
	}
	s.users[id] = patched
	clone := *patched
	return &clone, nil
}

// cloneCourse deep-copies a course via its session slice
func cloneCourse(c *domain.Course) *domain.Course {
	clone := *c
	clone.ScheduledDates = make([]domain.CourseSession, len(c.ScheduledDates))
	copy(clone.ScheduledDates, c.ScheduledDates)
	return &clone
}

// mergeFields applies a partial-update map onto a document the way the
// catalog store's PATCH does: JSON-merge the fields over the record.
func mergeFields(existing interface{}, fields map[string]interface{}, out interface{}) error {
	base, err := json.Marshal(existing)
	if err != nil {
		return err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(base, &doc); err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(merged, out)
}

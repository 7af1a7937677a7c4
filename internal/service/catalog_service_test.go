package service

import (
	"context"
	"errors"
	"testing"

	"github.com/eduflow/course-booking/internal/domain"
	"github.com/eduflow/course-booking/internal/dto"
	"github.com/eduflow/course-booking/internal/store"
)

func seedCatalog(courses *store.MemoryCourseStore) {
	courses.Seed(&domain.Course{
		ID:       "c1",
		Title:    "Go Fundamentals",
		Keywords: "go, backend",
		DeliveryMethods: domain.DeliveryMethods{
			Classroom: true,
		},
		ScheduledDates: []domain.CourseSession{
			{ID: "s1", StartDate: "2026-10-01", Format: domain.FormatClassroom, AvailableSeats: 5},
		},
		Version: 1,
	})
	courses.Seed(&domain.Course{
		ID:       "c2",
		Title:    "Kubernetes in Practice",
		Keywords: "ops",
		DeliveryMethods: domain.DeliveryMethods{
			Distance: true,
		},
		ScheduledDates: []domain.CourseSession{
			{ID: "s2", StartDate: "2026-11-01", Format: domain.FormatDistance, AvailableSeats: 8},
		},
		Version: 1,
	})
	courses.Seed(&domain.Course{
		ID:        "c3",
		Title:     "Retired Course",
		IsDeleted: true,
		Version:   1,
	})
}

func TestListCourses(t *testing.T) {
	ctx := context.Background()
	courses := store.NewMemoryCourseStore()
	bookings := store.NewMemoryBookingStore()
	seedCatalog(courses)
	svc := NewCatalogService(courses, bookings)

	t.Run("hides soft deleted courses", func(t *testing.T) {
		list, err := svc.ListCourses(ctx, "", "")
		if err != nil {
			t.Fatalf("ListCourses() error = %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("courses = %d, want 2", len(list))
		}
		for _, c := range list {
			if c.IsDeleted {
				t.Errorf("deleted course %s leaked into listing", c.ID)
			}
		}
	})

	t.Run("filters by query", func(t *testing.T) {
		list, err := svc.ListCourses(ctx, "kubernetes", "")
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 || list[0].ID != "c2" {
			t.Fatalf("query match = %v, want [c2]", list)
		}
	})

	t.Run("matches keywords", func(t *testing.T) {
		list, err := svc.ListCourses(ctx, "backend", "")
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 || list[0].ID != "c1" {
			t.Fatalf("keyword match = %v, want [c1]", list)
		}
	})

	t.Run("filters by format", func(t *testing.T) {
		list, err := svc.ListCourses(ctx, "", "distance")
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 || list[0].ID != "c2" {
			t.Fatalf("format match = %v, want [c2]", list)
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		_, err := svc.ListCourses(ctx, "", "hologram")
		if !errors.Is(err, domain.ErrInvalidFormat) {
			t.Fatalf("error = %v, want ErrInvalidFormat", err)
		}
	})
}

func TestGetCourse(t *testing.T) {
	ctx := context.Background()
	courses := store.NewMemoryCourseStore()
	seedCatalog(courses)
	svc := NewCatalogService(courses, store.NewMemoryBookingStore())

	t.Run("found", func(t *testing.T) {
		course, err := svc.GetCourse(ctx, "c1")
		if err != nil {
			t.Fatalf("GetCourse() error = %v", err)
		}
		if course.Title != "Go Fundamentals" {
			t.Errorf("title = %s", course.Title)
		}
	})

	t.Run("soft deleted reads as missing", func(t *testing.T) {
		_, err := svc.GetCourse(ctx, "c3")
		if !errors.Is(err, domain.ErrCourseNotFound) {
			t.Fatalf("error = %v, want ErrCourseNotFound", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetCourse(ctx, "nope")
		if !errors.Is(err, domain.ErrCourseNotFound) {
			t.Fatalf("error = %v, want ErrCourseNotFound", err)
		}
	})
}

func TestCreateCourse(t *testing.T) {
	ctx := context.Background()
	courses := store.NewMemoryCourseStore()
	svc := NewCatalogService(courses, store.NewMemoryBookingStore())

	t.Run("assigns session ids and version", func(t *testing.T) {
		created, err := svc.CreateCourse(ctx, &dto.CreateCourseRequest{
			Title:        "New Course",
			DurationDays: 2,
			DeliveryMethods: domain.DeliveryMethods{
				Classroom: true,
			},
			Sessions: []domain.CourseSession{
				{StartDate: "2026-12-01", Format: domain.FormatClassroom, AvailableSeats: 10},
			},
		})
		if err != nil {
			t.Fatalf("CreateCourse() error = %v", err)
		}
		if created.Version != 1 {
			t.Errorf("version = %d, want 1", created.Version)
		}
		if created.ScheduledDates[0].ID == "" {
			t.Error("session should get a generated id")
		}
	})

	t.Run("rejects blank title", func(t *testing.T) {
		_, err := svc.CreateCourse(ctx, &dto.CreateCourseRequest{Title: "  "})
		if !errors.Is(err, domain.ErrInvalidCourseTitle) {
			t.Fatalf("error = %v, want ErrInvalidCourseTitle", err)
		}
	})

	t.Run("rejects session without a date", func(t *testing.T) {
		_, err := svc.CreateCourse(ctx, &dto.CreateCourseRequest{
			Title: "Bad",
			Sessions: []domain.CourseSession{
				{Format: domain.FormatClassroom},
			},
		})
		if !errors.Is(err, domain.ErrInvalidSessionDate) {
			t.Fatalf("error = %v, want ErrInvalidSessionDate", err)
		}
	})
}

func TestUpdateCourse(t *testing.T) {
	ctx := context.Background()
	courses := store.NewMemoryCourseStore()
	seedCatalog(courses)
	svc := NewCatalogService(courses, store.NewMemoryBookingStore())

	t.Run("bumps the version", func(t *testing.T) {
		updated, err := svc.UpdateCourse(ctx, "c1", &dto.UpdateCourseRequest{
			Title:        "Go Fundamentals, 2nd edition",
			DurationDays: 4,
			Version:      1,
		})
		if err != nil {
			t.Fatalf("UpdateCourse() error = %v", err)
		}
		if updated.Version != 2 {
			t.Errorf("version = %d, want 2", updated.Version)
		}
		if updated.Title != "Go Fundamentals, 2nd edition" {
			t.Errorf("title = %s", updated.Title)
		}
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		_, err := svc.UpdateCourse(ctx, "c2", &dto.UpdateCourseRequest{
			Title:   "Kubernetes in Practice",
			Version: 99,
		})
		if !errors.Is(err, domain.ErrVersionConflict) {
			t.Fatalf("error = %v, want ErrVersionConflict", err)
		}
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := svc.UpdateCourse(ctx, "nope", &dto.UpdateCourseRequest{Title: "X"})
		if !errors.Is(err, domain.ErrCourseNotFound) {
			t.Fatalf("error = %v, want ErrCourseNotFound", err)
		}
	})
}

func TestSoftDeleteCourse(t *testing.T) {
	ctx := context.Background()
	courses := store.NewMemoryCourseStore()
	seedCatalog(courses)
	svc := NewCatalogService(courses, store.NewMemoryBookingStore())

	if err := svc.SoftDeleteCourse(ctx, "c1"); err != nil {
		t.Fatalf("SoftDeleteCourse() error = %v", err)
	}

	course, err := courses.GetByID(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if !course.IsDeleted {
		t.Error("course should be flagged deleted")
	}

	// record survives for history even though listings hide it
	if _, err := svc.GetCourse(ctx, "c1"); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Errorf("soft deleted course should read as missing, got %v", err)
	}
}

func TestDeleteCourse(t *testing.T) {
	ctx := context.Background()
	courses := store.NewMemoryCourseStore()
	seedCatalog(courses)
	svc := NewCatalogService(courses, store.NewMemoryBookingStore())

	if err := svc.DeleteCourse(ctx, "c1"); err != nil {
		t.Fatalf("DeleteCourse() error = %v", err)
	}
	if _, err := courses.GetByID(ctx, "c1"); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Errorf("course should be gone, got %v", err)
	}
}

func TestListCoursesWithEnrollments(t *testing.T) {
	ctx := context.Background()
	courses := store.NewMemoryCourseStore()
	bookings := store.NewMemoryBookingStore()
	seedCatalog(courses)
	bookings.Seed(&domain.Booking{ID: "b1", UserID: "u1", CourseID: "c1", Status: domain.BookingStatusConfirmed})
	bookings.Seed(&domain.Booking{ID: "b2", UserID: "u2", CourseID: "c1", Status: domain.BookingStatusConfirmed})
	bookings.Seed(&domain.Booking{ID: "b3", UserID: "u3", CourseID: "c1", Status: domain.BookingStatusCancelled})
	bookings.Seed(&domain.Booking{ID: "b4", UserID: "u4", CourseID: "c2", Status: domain.BookingStatusConfirmed})
	svc := NewCatalogService(courses, bookings)

	list, err := svc.ListCoursesWithEnrollments(ctx)
	if err != nil {
		t.Fatalf("ListCoursesWithEnrollments() error = %v", err)
	}

	counts := map[string]int{}
	for _, c := range list {
		counts[c.ID] = c.EnrollmentCount
	}
	if counts["c1"] != 2 {
		t.Errorf("c1 enrollments = %d, want 2 (cancelled excluded)", counts["c1"])
	}
	if counts["c2"] != 1 {
		t.Errorf("c2 enrollments = %d, want 1", counts["c2"])
	}
	if got, ok := counts["c3"]; !ok || got != 0 {
		t.Errorf("c3 should appear in the admin listing with 0 enrollments, got %d (present=%v)", got, ok)
	}
}

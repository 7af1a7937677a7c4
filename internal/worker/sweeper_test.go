package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/eduflow/course-booking/internal/domain"
	"github.com/eduflow/course-booking/internal/store"
)

func sweepFixture() (*store.MemoryCourseStore, *store.MemoryBookingStore) {
	courses := store.NewMemoryCourseStore()
	courses.Seed(&domain.Course{
		ID:    "c1",
		Title: "Go Fundamentals",
		ScheduledDates: []domain.CourseSession{
			{ID: "s1", StartDate: "2026-10-01", Format: domain.FormatClassroom, AvailableSeats: 5},
		},
		Version: 1,
	})
	courses.Seed(&domain.Course{
		ID:        "c2",
		Title:     "Retired",
		IsDeleted: true,
		Version:   1,
	})
	return courses, store.NewMemoryBookingStore()
}

func TestSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("removes orphaned bookings only", func(t *testing.T) {
		courses, bookings := sweepFixture()
		bookings.Seed(&domain.Booking{ID: "live", UserID: "u1", CourseID: "c1", SessionID: "s1", Status: domain.BookingStatusConfirmed})
		bookings.Seed(&domain.Booking{ID: "gone-course", UserID: "u2", CourseID: "vanished", SessionID: "s1", Status: domain.BookingStatusConfirmed})
		bookings.Seed(&domain.Booking{ID: "deleted-course", UserID: "u3", CourseID: "c2", SessionID: "s1", Status: domain.BookingStatusConfirmed})
		bookings.Seed(&domain.Booking{ID: "gone-session", UserID: "u4", CourseID: "c1", SessionID: "s9", Status: domain.BookingStatusConfirmed})

		sweeper := NewSweeper(courses, bookings, SweeperConfig{})
		removed, err := sweeper.Sweep(ctx)
		if err != nil {
			t.Fatalf("Sweep() error = %v", err)
		}
		if removed != 3 {
			t.Errorf("removed = %d, want 3", removed)
		}

		if _, err := bookings.GetByID(ctx, "live"); err != nil {
			t.Errorf("live booking should survive, got %v", err)
		}
		for _, id := range []string{"gone-course", "deleted-course", "gone-session"} {
			if _, err := bookings.GetByID(ctx, id); !errors.Is(err, domain.ErrBookingNotFound) {
				t.Errorf("booking %s should be removed, got %v", id, err)
			}
		}
	})

	t.Run("matches legacy bookings by session date", func(t *testing.T) {
		courses, bookings := sweepFixture()
		bookings.Seed(&domain.Booking{ID: "legacy", UserID: "u1", CourseID: "c1", SessionDate: "2026-10-01", Status: domain.BookingStatusConfirmed})

		sweeper := NewSweeper(courses, bookings, SweeperConfig{})
		removed, err := sweeper.Sweep(ctx)
		if err != nil {
			t.Fatalf("Sweep() error = %v", err)
		}
		if removed != 0 {
			t.Errorf("removed = %d, want 0", removed)
		}
	})

	t.Run("never touches seat counts", func(t *testing.T) {
		courses, bookings := sweepFixture()
		bookings.Seed(&domain.Booking{ID: "gone-session", UserID: "u1", CourseID: "c1", SessionID: "s9", Status: domain.BookingStatusConfirmed})

		sweeper := NewSweeper(courses, bookings, SweeperConfig{})
		if _, err := sweeper.Sweep(ctx); err != nil {
			t.Fatalf("Sweep() error = %v", err)
		}

		course, err := courses.GetByID(ctx, "c1")
		if err != nil {
			t.Fatal(err)
		}
		if course.ScheduledDates[0].AvailableSeats != 5 {
			t.Errorf("seats = %d, want 5 (untouched)", course.ScheduledDates[0].AvailableSeats)
		}
	})

	t.Run("cancelled bookings are left alone", func(t *testing.T) {
		courses, bookings := sweepFixture()
		bookings.Seed(&domain.Booking{ID: "cancelled", UserID: "u1", CourseID: "vanished", Status: domain.BookingStatusCancelled})

		sweeper := NewSweeper(courses, bookings, SweeperConfig{})
		removed, err := sweeper.Sweep(ctx)
		if err != nil {
			t.Fatalf("Sweep() error = %v", err)
		}
		if removed != 0 {
			t.Errorf("removed = %d, want 0", removed)
		}
		if _, err := bookings.GetByID(ctx, "cancelled"); err != nil {
			t.Errorf("cancelled booking should remain for history, got %v", err)
		}
	})
}

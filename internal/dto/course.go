package dto

import "github.com/eduflow/course-booking/internal/domain"

// CreateCourseRequest represents the admin create-course payload
type CreateCourseRequest struct {
	Title           string                  `json:"title" binding:"required"`
	TagLine         string                  `json:"tagLine"`
	Description     string                  `json:"description"`
	CourseNumber    string                  `json:"courseNumber"`
	DurationDays    int                     `json:"durationDays" binding:"required"`
	Keywords        string                  `json:"keyWords"`
	DeliveryMethods domain.DeliveryMethods  `json:"deliveryMethods"`
	Sessions        []domain.CourseSession  `json:"scheduledDates"`
}

// ToDomain converts the request to a domain course
func (r *CreateCourseRequest) ToDomain() *domain.Course {
	return &domain.Course{
		Title:           r.Title,
		TagLine:         r.TagLine,
		Description:     r.Description,
		CourseNumber:    r.CourseNumber,
		DurationDays:    r.DurationDays,
		Keywords:        r.Keywords,
		DeliveryMethods: r.DeliveryMethods,
		ScheduledDates:  r.Sessions,
	}
}

// UpdateCourseRequest replaces a course. Version carries the optimistic
// locking precondition read by the client.
type UpdateCourseRequest struct {
	Title           string                  `json:"title" binding:"required"`
	TagLine         string                  `json:"tagLine"`
	Description     string                  `json:"description"`
	CourseNumber    string                  `json:"courseNumber"`
	DurationDays    int                     `json:"durationDays" binding:"required"`
	Keywords        string                  `json:"keyWords"`
	DeliveryMethods domain.DeliveryMethods  `json:"deliveryMethods"`
	Sessions        []domain.CourseSession  `json:"scheduledDates"`
	Version         int64                   `json:"version"`
}

// ToDomain converts the request to a domain course with the given ID
func (r *UpdateCourseRequest) ToDomain(id string) *domain.Course {
	return &domain.Course{
		ID:              id,
		Title:           r.Title,
		TagLine:         r.TagLine,
		Description:     r.Description,
		CourseNumber:    r.CourseNumber,
		DurationDays:    r.DurationDays,
		Keywords:        r.Keywords,
		DeliveryMethods: r.DeliveryMethods,
		ScheduledDates:  r.Sessions,
		Version:         r.Version,
	}
}

// CourseWithEnrollments pairs a course with its live booking count
type CourseWithEnrollments struct {
	*domain.Course
	EnrollmentCount int `json:"enrollmentCount"`
}

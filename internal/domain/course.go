package domain

import "strings"

// DeliveryFormat is the format a course session is offered in
type DeliveryFormat string

const (
	FormatClassroom DeliveryFormat = "classroom"
	FormatDistance  DeliveryFormat = "distance"
)

// IsValid checks if the format is a known DeliveryFormat
func (f DeliveryFormat) IsValid() bool {
	return f == FormatClassroom || f == FormatDistance
}

// String returns the string representation of DeliveryFormat
func (f DeliveryFormat) String() string {
	return string(f)
}

// DeliveryMethods flags which formats a course can be delivered in
type DeliveryMethods struct {
	Classroom bool `json:"classroom"`
	Distance  bool `json:"distance"`
}

// CourseSession is a single scheduled offering of a course.
// Sessions carry a surrogate ID; legacy records in the catalog store only
// have a start date, so lookups fall back to date equality.
type CourseSession struct {
	ID             string         `json:"id,omitempty"`
	StartDate      string         `json:"startDate"`
	Format         DeliveryFormat `json:"format"`
	AvailableSeats int            `json:"availableSeats"`
}

// Course represents a course entity as stored in the catalog store.
// JSON tags follow the store's document shape, including the legacy
// "keyWords" key.
type Course struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	TagLine         string          `json:"tagLine"`
	Description     string          `json:"description"`
	CourseNumber    string          `json:"courseNumber"`
	DurationDays    int             `json:"durationDays"`
	Keywords        string          `json:"keyWords"`
	Image           string          `json:"image,omitempty"`
	DeliveryMethods DeliveryMethods `json:"deliveryMethods"`
	ScheduledDates  []CourseSession `json:"scheduledDates"`
	IsDeleted       bool            `json:"isDeleted,omitempty"`

	// Version is the optimistic-concurrency token for full-replace updates.
	// Zero means the record predates versioning.
	Version int64 `json:"version,omitempty"`
}

// FindSession returns the index of the session matching sessionID, falling
// back to startDate equality when no ID matches. Returns -1 if not found.
func (c *Course) FindSession(sessionID, startDate string) int {
	if sessionID != "" {
		for i := range c.ScheduledDates {
			if c.ScheduledDates[i].ID == sessionID {
				return i
			}
		}
	}
	if startDate == "" {
		return -1
	}
	for i := range c.ScheduledDates {
		if c.ScheduledDates[i].StartDate == startDate {
			return i
		}
	}
	return -1
}

// MatchesQuery reports whether the course matches a free-text search term
// against title, tag line and keywords. An empty term matches everything.
func (c *Course) MatchesQuery(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(c.Title), term) ||
		strings.Contains(strings.ToLower(c.TagLine), term) ||
		strings.Contains(strings.ToLower(c.Keywords), term)
}

// OffersFormat reports whether the course is offered in the given format.
func (c *Course) OffersFormat(f DeliveryFormat) bool {
	switch f {
	case FormatClassroom:
		return c.DeliveryMethods.Classroom
	case FormatDistance:
		return c.DeliveryMethods.Distance
	}
	return false
}

// Validate validates the fields required to store a course
func (c *Course) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrInvalidCourseTitle
	}
	if c.DurationDays < 0 {
		return ErrInvalidCourseDuration
	}
	for i := range c.ScheduledDates {
		s := &c.ScheduledDates[i]
		if strings.TrimSpace(s.StartDate) == "" {
			return ErrInvalidSessionDate
		}
		if !s.Format.IsValid() {
			return ErrInvalidFormat
		}
	}
	return nil
}

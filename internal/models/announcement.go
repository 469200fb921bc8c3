package models

import "time"

// AnnouncementAudience enumerates the target audiences an announcement
// may address.
type AnnouncementAudience string

const (
	AudienceAll      AnnouncementAudience = "all"
	AudienceStudents AnnouncementAudience = "students"
	AudienceTeachers AnnouncementAudience = "teachers"
	AudienceStaff    AnnouncementAudience = "staff"
)

// Valid reports whether the audience is a known value.
func (a AnnouncementAudience) Valid() bool {
	switch a {
	case AudienceAll, AudienceStudents, AudienceTeachers, AudienceStaff:
		return true
	}
	return false
}

// Announcement is a tenant-owned notice addressed to an audience.
type Announcement struct {
	ID          string               `db:"id" json:"id"`
	CollegeCode string               `db:"college_code" json:"college_code"`
	Title       string               `db:"title" json:"title"`
	Content     string               `db:"content" json:"content"`
	Audience    AnnouncementAudience `db:"audience" json:"audience"`
	CreatedBy   string               `db:"created_by" json:"created_by"`
	CreatedAt   time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `db:"updated_at" json:"updated_at"`
}

// AnnouncementFilter captures listing criteria for announcements.
type AnnouncementFilter struct {
	CollegeCode string
	CreatedBy   string
	Audiences   []AnnouncementAudience
	Page        int
	PageSize    int
}

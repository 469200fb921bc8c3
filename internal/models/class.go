package models

import "time"

// Class is a tenant-owned class/course section. ScheduleDay follows
// time.Weekday numbering (0 = Sunday).
type Class struct {
	ID             string    `db:"id" json:"id"`
	CollegeCode    string    `db:"college_code" json:"college_code"`
	CourseName     string    `db:"course_name" json:"course_name"`
	Department     string    `db:"department" json:"department,omitempty"`
	Semester       *int      `db:"semester" json:"semester,omitempty"`
	Section        string    `db:"section" json:"section,omitempty"`
	RoomNumber     string    `db:"room_number" json:"room_number,omitempty"`
	ClassTeacherID *string   `db:"class_teacher_id" json:"class_teacher_id,omitempty"`
	ScheduleDay    *int      `db:"schedule_day" json:"schedule_day,omitempty"`
	ScheduleTime   string    `db:"schedule_time" json:"schedule_time,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ClassFilter captures filtering criteria for listing classes.
type ClassFilter struct {
	CollegeCode string
	TeacherID   string
	Department  string
	Semester    *int
	Page        int
	PageSize    int
}

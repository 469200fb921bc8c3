package models

import "time"

// Activity is an append-only audit entry. Rows are only ever inserted;
// the application never updates or deletes them.
type Activity struct {
	ID            string    `db:"id" json:"id"`
	CollegeCode   string    `db:"college_code" json:"college_code"`
	UserID        string    `db:"user_id" json:"user_id"`
	UserRole      UserRole  `db:"user_role" json:"user_role"`
	Action        string    `db:"action" json:"action"`
	Details       string    `db:"details" json:"details,omitempty"`
	ReferenceID   *string   `db:"reference_id" json:"reference_id,omitempty"`
	ReferenceType string    `db:"reference_type" json:"reference_type,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Activity action labels recorded by the API.
const (
	ActivityActionLogin              = "login"
	ActivityActionRegisterCollege    = "register_college"
	ActivityActionCreateStudent      = "create_student"
	ActivityActionSaveClass          = "save_class"
	ActivityActionDeleteClass        = "delete_class"
	ActivityActionSaveAssignment     = "save_assignment"
	ActivityActionDeleteAssignment   = "delete_assignment"
	ActivityActionSaveAnnouncement   = "save_announcement"
	ActivityActionDeleteAnnouncement = "delete_announcement"
	ActivityActionRecordAttendance   = "record_attendance"
)

package models

import "time"

// Student is a tenant-owned academic record. A student may optionally be
// linked to a login account (UserID) and to a class (ClassID).
type Student struct {
	ID              string     `db:"id" json:"id"`
	CollegeCode     string     `db:"college_code" json:"college_code"`
	UserID          *string    `db:"user_id" json:"user_id,omitempty"`
	ClassID         *string    `db:"class_id" json:"class_id,omitempty"`
	FullName        string     `db:"full_name" json:"full_name"`
	Email           string     `db:"email" json:"email,omitempty"`
	MobileNumber    string     `db:"mobile_number" json:"mobile_number,omitempty"`
	DateOfBirth     *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender          string     `db:"gender" json:"gender,omitempty"`
	Course          string     `db:"course" json:"course,omitempty"`
	Department      string     `db:"department" json:"department,omitempty"`
	CurrentSemester *int       `db:"current_semester" json:"current_semester,omitempty"`
	EnrollmentNo    string     `db:"enrollment_number" json:"enrollment_number,omitempty"`
	GuardianName    string     `db:"guardian_name" json:"guardian_name,omitempty"`
	GuardianContact string     `db:"guardian_contact" json:"guardian_contact,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// StudentFilter captures filtering criteria for listing students.
type StudentFilter struct {
	CollegeCode string
	ClassID     string
	Search      string
	Page        int
	PageSize    int
}

package models

// TeacherProfile extends a teacher-role user with academic details.
type TeacherProfile struct {
	ID              string  `db:"id" json:"id"`
	UserID          string  `db:"user_id" json:"user_id"`
	Department      string  `db:"department" json:"department,omitempty"`
	Qualification   string  `db:"qualification" json:"qualification,omitempty"`
	ExperienceYears *int    `db:"experience_years" json:"experience_years,omitempty"`
	SubjectsTaught  string  `db:"subjects_taught" json:"subjects_taught,omitempty"`
	FullName        string  `db:"full_name" json:"full_name"`
	Email           string  `db:"email" json:"email"`
	CollegeCode     string  `db:"college_code" json:"college_code"`
	MobileNumber    *string `db:"mobile_number" json:"mobile_number,omitempty"`
}

// StaffProfile extends a staff-role user with operational details.
type StaffProfile struct {
	ID            string `db:"id" json:"id"`
	UserID        string `db:"user_id" json:"user_id"`
	Department    string `db:"department" json:"department,omitempty"`
	Designation   string `db:"designation" json:"designation,omitempty"`
	ShiftTime     string `db:"shift_time" json:"shift_time,omitempty"`
	AssignedTasks string `db:"assigned_tasks" json:"assigned_tasks,omitempty"`
	FullName      string `db:"full_name" json:"full_name"`
	Email         string `db:"email" json:"email"`
	CollegeCode   string `db:"college_code" json:"college_code"`
}

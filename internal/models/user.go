package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStaff   UserRole = "staff"
	RoleStudent UserRole = "student"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStaff, RoleStudent:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
// Every user belongs to exactly one college identified by CollegeCode.
type User struct {
	ID           string    `db:"id" json:"id"`
	CollegeCode  string    `db:"college_code" json:"college_code"`
	FullName     string    `db:"full_name" json:"full_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	MobileNumber string    `db:"mobile_number" json:"mobile_number,omitempty"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserInfo is the public projection returned by authentication endpoints.
// The password hash never leaves the repository layer.
type UserInfo struct {
	ID          string   `json:"user_id"`
	FullName    string   `json:"full_name"`
	Email       string   `json:"email"`
	Role        UserRole `json:"role"`
	CollegeCode string   `json:"college_code"`
}

// Info converts a stored user into its public projection.
func (u *User) Info() UserInfo {
	return UserInfo{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		Role:        u.Role,
		CollegeCode: u.CollegeCode,
	}
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

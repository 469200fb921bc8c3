package dto

import "github.com/campusdesk/campusdesk-api/internal/models"

// AdminDashboardResponse aggregates tenant-wide counts for the admin view.
type AdminDashboardResponse struct {
	CollegeCode string            `json:"college_code"`
	Counts      AdminCounts       `json:"counts"`
	Activities  []models.Activity `json:"activities"`
}

// AdminCounts carries the scalar totals shown on the admin dashboard.
type AdminCounts struct {
	Teachers      int `json:"teachers"`
	Students      int `json:"students"`
	Classes       int `json:"classes"`
	Announcements int `json:"announcements"`
	Staff         int `json:"staff"`
}

// TeacherDashboardResponse aggregates ownership-scoped counts plus
// today's classes for the teacher view.
type TeacherDashboardResponse struct {
	TeacherID    string            `json:"teacher_id"`
	Counts       TeacherCounts     `json:"counts"`
	Activities   []models.Activity `json:"activities"`
	TodayClasses []models.Class    `json:"today_classes"`
}

// TeacherCounts carries the scalar totals shown on the teacher dashboard.
type TeacherCounts struct {
	Students      int `json:"students"`
	Classes       int `json:"classes"`
	Assignments   int `json:"assignments"`
	Announcements int `json:"announcements"`
}

// StudentDashboardResponse aggregates enrollment-scoped figures for the
// student view.
type StudentDashboardResponse struct {
	StudentID        string            `json:"student_id"`
	TotalAssignments int               `json:"total_assignments"`
	DaysPresent      int               `json:"days_present"`
	Activities       []models.Activity `json:"activities"`
}

package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	RoleCandidate   = "candidate"
	RoleRecruiter   = "recruiter"
	RoleInterviewer = "interviewer"
	RoleHR          = "hr"
	RoleReviewer    = "reviewer"
	RoleViewer      = "viewer"
)

type UserStatus string

const (
	UserActive  UserStatus = "ACTIVE"
	UserInvited UserStatus = "INVITED"
)

// User is a single record plus a role-tag set; role-specific attributes live
// in EmployeeProfile / CandidateProfile side tables keyed by user ID.
type User struct {
	ID           string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string         `gorm:"column:name;type:text" json:"name"`
	Email        string         `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;type:text" json:"-"`
	Roles        pq.StringArray `gorm:"column:roles;type:text[]" json:"roles"`
	Status       UserStatus     `gorm:"column:status;type:text" json:"status"`
	CreatedAt    time.Time      `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (User) TableName() string { return "users" }

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// EmployeeProfile ties a company-side user (recruiter, interviewer, HR,
// reviewer, viewer) to their company.
type EmployeeProfile struct {
	UserID    string `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	CompanyID string `gorm:"column:company_id;type:uuid;index" json:"company_id"`
	Role      string `gorm:"column:role;type:text" json:"role"`
}

func (EmployeeProfile) TableName() string { return "employee_profiles" }

type CandidateProfile struct {
	UserID          string         `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Phone           string         `gorm:"column:phone;type:text" json:"phone"`
	Summary         string         `gorm:"column:summary;type:text" json:"summary"`
	Location        string         `gorm:"column:location;type:text" json:"location"`
	TotalExperience int            `gorm:"column:total_experience" json:"total_experience"`
	CurrentCompany  string         `gorm:"column:current_company;type:text" json:"current_company"`
	Degree          string         `gorm:"column:degree;type:text" json:"degree"`
	CollegeName     string         `gorm:"column:college_name;type:text" json:"college_name"`
	GraduationYear  int            `gorm:"column:graduation_year" json:"graduation_year"`
	SkillIDs        pq.StringArray `gorm:"column:skill_ids;type:text[]" json:"skill_ids"`
	ProfileComplete bool           `gorm:"column:profile_complete" json:"profile_complete"`
}

func (CandidateProfile) TableName() string { return "candidate_profiles" }

package models

import "time"

type JobApplication struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	JobID       string `gorm:"column:job_id;type:uuid;index;uniqueIndex:uq_job_candidate" json:"job_id"`
	CandidateID string `gorm:"column:candidate_id;type:uuid;index;uniqueIndex:uq_job_candidate" json:"candidate_id"`

	Status ApplicationStatus `gorm:"column:status;type:text" json:"status"`

	ResumeFilePath string `gorm:"column:resume_file_path;type:text" json:"resume_file_path"`
	CoverLetter    string `gorm:"column:cover_letter;type:text" json:"cover_letter"`

	CandidateExperience int64     `gorm:"column:candidate_experience" json:"candidate_experience"`
	AppliedAt           time.Time `gorm:"column:applied_at;type:timestamptz" json:"applied_at"`

	RecruiterComment string `gorm:"column:recruiter_comment;type:text" json:"recruiter_comment"`

	JoiningDate       *time.Time `gorm:"column:joining_date;type:date" json:"joining_date"`
	DocumentsVerified *bool      `gorm:"column:documents_verified" json:"documents_verified"`

	Skills []ApplicationSkill `gorm:"foreignKey:ApplicationID" json:"skills"`
}

func (JobApplication) TableName() string { return "job_applications" }

// ApplicationSkill is one (skill, years-of-experience) entry recorded by the
// recruiter at review time.
type ApplicationSkill struct {
	ID                string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ApplicationID     string `gorm:"column:application_id;type:uuid;index" json:"application_id"`
	SkillID           string `gorm:"column:skill_id;type:uuid" json:"skill_id"`
	YearsOfExperience int    `gorm:"column:years_of_experience" json:"years_of_experience"`
}

func (ApplicationSkill) TableName() string { return "application_skills" }

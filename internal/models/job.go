package models

import (
	"time"

	"github.com/lib/pq"
)

type JobStatus string

const (
	JobOpen   JobStatus = "OPEN"
	JobClosed JobStatus = "CLOSED"
)

type Job struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CompanyID   string `gorm:"column:company_id;type:uuid;index" json:"company_id"`
	CreatedByID string `gorm:"column:created_by_id;type:uuid;index" json:"created_by_id"`

	Position    string    `gorm:"column:position;type:text" json:"position"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Location    string    `gorm:"column:location;type:text" json:"location"`
	Type        string    `gorm:"column:type;type:text" json:"type"`
	Status      JobStatus `gorm:"column:status;type:text" json:"status"`

	PostedAt    time.Time `gorm:"column:posted_at;type:timestamptz" json:"posted_at"`
	CloseReason string    `gorm:"column:close_reason;type:text" json:"close_reason"`

	RequiredSkillIDs     pq.StringArray `gorm:"column:required_skill_ids;type:text[]" json:"required_skill_ids"`
	PreferredSkillIDs    pq.StringArray `gorm:"column:preferred_skill_ids;type:text[]" json:"preferred_skill_ids"`
	SelectedCandidateIDs pq.StringArray `gorm:"column:selected_candidate_ids;type:text[]" json:"selected_candidate_ids"`
}

func (Job) TableName() string { return "jobs" }

type Company struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name     string `gorm:"column:name;type:text" json:"name"`
	Website  string `gorm:"column:website;type:text" json:"website"`
	Location string `gorm:"column:location;type:text" json:"location"`
}

func (Company) TableName() string { return "companies" }

type SkillStatus string

const (
	SkillApproved SkillStatus = "APPROVED"
	SkillProposed SkillStatus = "PROPOSED"
	SkillRejected SkillStatus = "REJECTED"
)

type Skill struct {
	ID     string      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name   string      `gorm:"column:name;type:text;uniqueIndex" json:"name"`
	Status SkillStatus `gorm:"column:status;type:text" json:"status"`
}

func (Skill) TableName() string { return "skills" }

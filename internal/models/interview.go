package models

import (
	"time"

	"github.com/lib/pq"
)

// Interview is the 1:1 aggregate bound to one job application. Job, company
// and candidate references are denormalized for read convenience.
type Interview struct {
	ID            string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ApplicationID string `gorm:"column:application_id;type:uuid;uniqueIndex" json:"application_id"`
	JobID         string `gorm:"column:job_id;type:uuid;index" json:"job_id"`
	CompanyID     string `gorm:"column:company_id;type:uuid;index" json:"company_id"`
	CandidateID   string `gorm:"column:candidate_id;type:uuid;index" json:"candidate_id"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`

	// Union of interviewer user IDs across all rounds. Grows only.
	InterviewerIDs pq.StringArray `gorm:"column:interviewer_ids;type:text[]" json:"interviewer_ids"`

	IDProofURL      string `gorm:"column:id_proof_url;type:text" json:"id_proof_url"`
	MarksheetURL    string `gorm:"column:marksheet_url;type:text" json:"marksheet_url"`
	AddressProofURL string `gorm:"column:address_proof_url;type:text" json:"address_proof_url"`

	FinalComments string `gorm:"column:final_comments;type:text" json:"final_comments"`

	Rounds []InterviewRound `gorm:"foreignKey:InterviewID" json:"rounds"`
}

func (Interview) TableName() string { return "interviews" }

type InterviewRound struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	InterviewID string `gorm:"column:interview_id;type:uuid;index" json:"interview_id"`

	RoundNumber int    `gorm:"column:round_number" json:"round_number"`
	RoundType   string `gorm:"column:round_type;type:text" json:"round_type"`
	Status      string `gorm:"column:status;type:text" json:"status"`

	ScheduledAt *time.Time `gorm:"column:scheduled_at;type:timestamptz" json:"scheduled_at"`
	MeetingLink string     `gorm:"column:meeting_link;type:text" json:"meeting_link"`
	Comments    string     `gorm:"column:comments;type:text" json:"comments"`

	InterviewerIDs pq.StringArray `gorm:"column:interviewer_ids;type:text[]" json:"interviewer_ids"`
	HRIDs          pq.StringArray `gorm:"column:hr_ids;type:text[]" json:"hr_ids"`

	Feedbacks []InterviewFeedback `gorm:"foreignKey:RoundID" json:"feedbacks"`
}

func (InterviewRound) TableName() string { return "interview_rounds" }

// FullyScheduled reports whether both a time and a meeting link are set.
func (r *InterviewRound) FullyScheduled() bool {
	return r.ScheduledAt != nil && r.MeetingLink != ""
}

type InterviewFeedback struct {
	ID            string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	RoundID       string `gorm:"column:round_id;type:uuid;index" json:"round_id"`
	SkillID       string `gorm:"column:skill_id;type:uuid" json:"skill_id"`
	InterviewerID string `gorm:"column:interviewer_id;type:uuid" json:"interviewer_id"`

	Rating   int    `gorm:"column:rating" json:"rating"`
	Comments string `gorm:"column:comments;type:text" json:"comments"`
}

func (InterviewFeedback) TableName() string { return "interview_feedback" }

package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hirestack/hirestack/internal/models"
	pgrepo "github.com/hirestack/hirestack/internal/repositories/postgres"
	"github.com/hirestack/hirestack/internal/utils"
)

type JobCreateInput struct {
	CompanyID         string   `json:"company_id"`
	Position          string   `json:"position"`
	Description       string   `json:"description"`
	Location          string   `json:"location"`
	Type              string   `json:"type"`
	RequiredSkillIDs  []string `json:"required_skill_ids"`
	PreferredSkillIDs []string `json:"preferred_skill_ids"`
}

type JobUpdateInput struct {
	Position          *string  `json:"position"`
	Description       *string  `json:"description"`
	Location          *string  `json:"location"`
	Type              *string  `json:"type"`
	RequiredSkillIDs  []string `json:"required_skill_ids"`
	PreferredSkillIDs []string `json:"preferred_skill_ids"`
}

type JobCloseInput struct {
	Reason               string   `json:"reason"`
	SelectedCandidateIDs []string `json:"selected_candidate_ids"`
}

type JobService interface {
	Create(ctx context.Context, createdByUserID string, in JobCreateInput) (*models.Job, error)
	Update(ctx context.Context, jobID string, in JobUpdateInput) (*models.Job, error)
	Close(ctx context.Context, jobID string, in JobCloseInput) (*models.Job, error)
	Delete(ctx context.Context, jobID, actorUserID string) error
	GetByID(ctx context.Context, jobID string) (*models.Job, error)
	ListOpen(ctx context.Context) ([]models.Job, error)
	ListByCompany(ctx context.Context, companyID string) ([]models.Job, error)
}

type jobService struct {
	jobs      pgrepo.JobRepository
	companies pgrepo.CompanyRepository
	skills    pgrepo.SkillRepository
	log       *logrus.Logger
}

func NewJobService(jobs pgrepo.JobRepository, companies pgrepo.CompanyRepository, skills pgrepo.SkillRepository, log *logrus.Logger) JobService {
	return &jobService{jobs: jobs, companies: companies, skills: skills, log: log}
}

type companyNamer struct {
	companies pgrepo.CompanyRepository
}

// NewCompanyNamer adapts the company repository for notification payloads.
func NewCompanyNamer(companies pgrepo.CompanyRepository) CompanyNamer {
	return &companyNamer{companies: companies}
}

func (n *companyNamer) CompanyName(ctx context.Context, companyID string) (string, error) {
	c, err := n.companies.GetByID(ctx, companyID)
	if err != nil {
		return "", err
	}
	return c.Name, nil
}

func (s *jobService) Create(ctx context.Context, createdByUserID string, in JobCreateInput) (*models.Job, error) {
	const op = "JobService.Create"

	if in.CompanyID == "" || in.Position == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "company_id and position are required", nil)
	}
	if _, err := s.companies.GetByID(ctx, in.CompanyID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "company not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load company", err)
	}
	if err := s.validateSkills(ctx, op, in.RequiredSkillIDs); err != nil {
		return nil, err
	}
	if err := s.validateSkills(ctx, op, in.PreferredSkillIDs); err != nil {
		return nil, err
	}

	job := &models.Job{
		ID:                uuid.NewString(),
		CompanyID:         in.CompanyID,
		CreatedByID:       createdByUserID,
		Position:          in.Position,
		Description:       in.Description,
		Location:          in.Location,
		Type:              in.Type,
		Status:            models.JobOpen,
		PostedAt:          time.Now().UTC(),
		RequiredSkillIDs:  in.RequiredSkillIDs,
		PreferredSkillIDs: in.PreferredSkillIDs,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}
	return job, nil
}

func (s *jobService) Update(ctx context.Context, jobID string, in JobUpdateInput) (*models.Job, error) {
	const op = "JobService.Update"

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}

	if in.Position != nil {
		job.Position = *in.Position
	}
	if in.Description != nil {
		job.Description = *in.Description
	}
	if in.Location != nil {
		job.Location = *in.Location
	}
	if in.Type != nil {
		job.Type = *in.Type
	}
	if in.RequiredSkillIDs != nil {
		if err := s.validateSkills(ctx, op, in.RequiredSkillIDs); err != nil {
			return nil, err
		}
		job.RequiredSkillIDs = in.RequiredSkillIDs
	}
	if in.PreferredSkillIDs != nil {
		if err := s.validateSkills(ctx, op, in.PreferredSkillIDs); err != nil {
			return nil, err
		}
		job.PreferredSkillIDs = in.PreferredSkillIDs
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update job", err)
	}
	return job, nil
}

// Close marks a job CLOSED. A close needs either a reason or at least one
// selected candidate; closing twice is a conflict.
func (s *jobService) Close(ctx context.Context, jobID string, in JobCloseInput) (*models.Job, error) {
	const op = "JobService.Close"

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if job.Status == models.JobClosed {
		return nil, utils.E(utils.CodeConflict, op, "job is already closed", nil)
	}
	if in.Reason == "" && len(in.SelectedCandidateIDs) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "a close reason or selected candidates are required", nil)
	}

	job.Status = models.JobClosed
	job.CloseReason = in.Reason
	if len(in.SelectedCandidateIDs) > 0 {
		job.SelectedCandidateIDs = in.SelectedCandidateIDs
	}
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to close job", err)
	}
	return job, nil
}

func (s *jobService) Delete(ctx context.Context, jobID, actorUserID string) error {
	const op = "JobService.Delete"

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if job.CreatedByID != actorUserID {
		return utils.E(utils.CodeForbidden, op, "only the job's creator can delete it", nil)
	}
	if err := s.jobs.Delete(ctx, jobID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete job", err)
	}
	return nil
}

func (s *jobService) GetByID(ctx context.Context, jobID string) (*models.Job, error) {
	const op = "JobService.GetByID"

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	return job, nil
}

func (s *jobService) ListOpen(ctx context.Context) ([]models.Job, error) {
	const op = "JobService.ListOpen"

	rows, err := s.jobs.ListOpen(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return rows, nil
}

func (s *jobService) ListByCompany(ctx context.Context, companyID string) ([]models.Job, error) {
	const op = "JobService.ListByCompany"

	rows, err := s.jobs.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return rows, nil
}

func (s *jobService) validateSkills(ctx context.Context, op string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ids = dedupe(ids)
	count, err := s.skills.CountByIDs(ctx, ids)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to validate skills", err)
	}
	if count != int64(len(ids)) {
		return utils.E(utils.CodeInvalidArgument, op, "one or more skill IDs do not exist", nil)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

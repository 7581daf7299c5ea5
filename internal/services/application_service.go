package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hirestack/hirestack/internal/mailer"
	"github.com/hirestack/hirestack/internal/models"
	pgrepo "github.com/hirestack/hirestack/internal/repositories/postgres"
	"github.com/hirestack/hirestack/internal/utils"
)

type SkillYoe struct {
	SkillID           string `json:"skill_id"`
	YearsOfExperience int    `json:"years_of_experience"`
}

type StatusUpdateInput struct {
	Status         string
	Remarks        string
	SkillsWithYoe  []SkillYoe
	NumberOfRounds int
}

type ApplyInput struct {
	JobID           string
	CandidateUserID string
	ResumeFilePath  string
	CoverLetter     string
}

type ApplicationService interface {
	Apply(ctx context.Context, in ApplyInput) (*models.JobApplication, error)
	GetByID(ctx context.Context, id string) (*models.JobApplication, error)
	ListByJob(ctx context.Context, jobID string) ([]models.JobApplication, error)
	ListByCandidate(ctx context.Context, candidateUserID string) ([]models.JobApplication, error)
	UpdateStatus(ctx context.Context, applicationID string, in StatusUpdateInput) (*models.JobApplication, error)
}

type applicationService struct {
	tx         pgrepo.TxManager
	apps       pgrepo.ApplicationRepository
	interviews pgrepo.InterviewRepository
	rounds     pgrepo.RoundRepository
	jobs       pgrepo.JobRepository
	companies  CompanyNamer
	candidates pgrepo.CandidateRepository
	users      pgrepo.UserRepository
	skills     pgrepo.SkillRepository
	producer   mailer.Producer
	log        *logrus.Logger
}

// CompanyNamer resolves a company's display name for notification payloads.
type CompanyNamer interface {
	CompanyName(ctx context.Context, companyID string) (string, error)
}

func NewApplicationService(
	tx pgrepo.TxManager,
	apps pgrepo.ApplicationRepository,
	interviews pgrepo.InterviewRepository,
	rounds pgrepo.RoundRepository,
	jobs pgrepo.JobRepository,
	companies CompanyNamer,
	candidates pgrepo.CandidateRepository,
	users pgrepo.UserRepository,
	skills pgrepo.SkillRepository,
	producer mailer.Producer,
	log *logrus.Logger,
) ApplicationService {
	return &applicationService{
		tx:         tx,
		apps:       apps,
		interviews: interviews,
		rounds:     rounds,
		jobs:       jobs,
		companies:  companies,
		candidates: candidates,
		users:      users,
		skills:     skills,
		producer:   producer,
		log:        log,
	}
}

func (s *applicationService) Apply(ctx context.Context, in ApplyInput) (*models.JobApplication, error) {
	const op = "ApplicationService.Apply"

	if in.JobID == "" || in.CandidateUserID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id and candidate are required", nil)
	}

	var app *models.JobApplication
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.jobs.GetByID(ctx, in.JobID); err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return utils.E(utils.CodeNotFound, op, "job not found", err)
			}
			return utils.E(utils.CodeInternal, op, "failed to load job", err)
		}

		candidate, err := s.candidates.GetByUserID(ctx, in.CandidateUserID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return utils.E(utils.CodeNotFound, op, "candidate profile not found", err)
			}
			return utils.E(utils.CodeInternal, op, "failed to load candidate", err)
		}
		if !candidate.ProfileComplete {
			return utils.E(utils.CodeInvalidArgument, op, "profile must be completed before applying", nil)
		}

		exists, err := s.apps.ExistsByJobAndCandidate(ctx, in.JobID, in.CandidateUserID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to check existing application", err)
		}
		if exists {
			return utils.E(utils.CodeConflict, op, "already applied", nil)
		}

		app = &models.JobApplication{
			ID:                  uuid.NewString(),
			JobID:               in.JobID,
			CandidateID:         in.CandidateUserID,
			Status:              models.StatusPending,
			ResumeFilePath:      in.ResumeFilePath,
			CoverLetter:         in.CoverLetter,
			CandidateExperience: int64(candidate.TotalExperience),
			AppliedAt:           time.Now().UTC(),
		}
		if err := s.apps.Create(ctx, app); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to create application", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *applicationService) GetByID(ctx context.Context, id string) (*models.JobApplication, error) {
	const op = "ApplicationService.GetByID"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "application_id is required", nil)
	}
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get application", err)
	}
	return app, nil
}

func (s *applicationService) ListByJob(ctx context.Context, jobID string) ([]models.JobApplication, error) {
	const op = "ApplicationService.ListByJob"

	rows, err := s.apps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return rows, nil
}

func (s *applicationService) ListByCandidate(ctx context.Context, candidateUserID string) ([]models.JobApplication, error) {
	const op = "ApplicationService.ListByCandidate"

	rows, err := s.apps.ListByCandidate(ctx, candidateUserID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return rows, nil
}

// UpdateStatus is the application status machine. It validates the transition
// against the legality table, applies the status-specific side effects
// (interview creation, round planning, round completion), replaces the
// recorded skill list when one is supplied, and enqueues exactly one
// notification, all in one transaction.
func (s *applicationService) UpdateStatus(ctx context.Context, applicationID string, in StatusUpdateInput) (*models.JobApplication, error) {
	const op = "ApplicationService.UpdateStatus"

	if applicationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "application_id is required", nil)
	}
	target, ok := models.ParseApplicationStatus(in.Status)
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("unknown status %q", in.Status), nil)
	}

	var updated *models.JobApplication
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		app, err := s.apps.GetByID(ctx, applicationID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return utils.E(utils.CodeNotFound, op, "application not found", err)
			}
			return utils.E(utils.CodeInternal, op, "failed to load application", err)
		}

		if !models.CanTransition(app.Status, target) {
			return utils.E(utils.CodeInvalidArgument, op,
				fmt.Sprintf("illegal transition %s -> %s", app.Status, target), nil)
		}

		if len(in.SkillsWithYoe) > 0 {
			if err := s.replaceSkills(ctx, op, app.ID, in.SkillsWithYoe); err != nil {
				return err
			}
		}

		app.Status = target
		app.RecruiterComment = in.Remarks
		if err := s.apps.Update(ctx, app); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to update application", err)
		}

		switch target {
		case models.StatusTestScheduled, models.StatusInterviewScheduled:
			if err := s.ensureRounds(ctx, op, app, in.NumberOfRounds); err != nil {
				return err
			}
		case models.StatusHired:
			if err := s.completeRounds(ctx, op, app, in.Remarks); err != nil {
				return err
			}
		}

		if err := s.notifyStatusChange(ctx, op, app, target); err != nil {
			return err
		}

		updated, err = s.apps.GetByID(ctx, applicationID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to reload application", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// replaceSkills validates every supplied skill ID, then clears and re-inserts
// the application's recorded skill list. One unknown ID rejects the whole
// update.
func (s *applicationService) replaceSkills(ctx context.Context, op, applicationID string, entries []SkillYoe) error {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.SkillID)
	}
	count, err := s.skills.CountByIDs(ctx, ids)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to validate skills", err)
	}
	if count != int64(len(ids)) {
		return utils.E(utils.CodeInvalidArgument, op, "one or more skill IDs do not exist", nil)
	}

	rows := make([]models.ApplicationSkill, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, models.ApplicationSkill{
			ID:                uuid.NewString(),
			ApplicationID:     applicationID,
			SkillID:           e.SkillID,
			YearsOfExperience: e.YearsOfExperience,
		})
	}
	if err := s.apps.ReplaceSkills(ctx, applicationID, rows); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to replace skills", err)
	}
	return nil
}

// ensureRounds resolves or creates the application's interview and resizes
// its rounds to the requested count (default 2). If the interview already
// existed, all existing rounds are forced back to SCHEDULED first.
func (s *applicationService) ensureRounds(ctx context.Context, op string, app *models.JobApplication, requested int) error {
	target := requested
	if target <= 0 {
		target = DefaultRoundCount
	}

	iv, err := s.interviews.GetByApplicationID(ctx, app.ID)
	switch {
	case err == nil:
		if err := s.rounds.SetStatusAll(ctx, iv.ID, models.RoundStatusScheduled); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to reset round statuses", err)
		}
		if err := resizeRounds(ctx, s.rounds, iv, target); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to resize rounds", err)
		}
		return nil

	case errors.Is(err, utils.ErrNotFound):
		job, jerr := s.jobs.GetByID(ctx, app.JobID)
		if jerr != nil {
			return utils.E(utils.CodeInternal, op, "failed to load job for interview", jerr)
		}
		iv = &models.Interview{
			ID:            uuid.NewString(),
			ApplicationID: app.ID,
			JobID:         job.ID,
			CompanyID:     job.CompanyID,
			CandidateID:   app.CandidateID,
			CreatedAt:     time.Now().UTC(),
			Rounds:        newRounds("", 0, target),
		}
		for i := range iv.Rounds {
			iv.Rounds[i].InterviewID = iv.ID
		}
		if err := s.interviews.Create(ctx, iv); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to create interview", err)
		}
		return nil

	default:
		return utils.E(utils.CodeInternal, op, "failed to resolve interview", err)
	}
}

// completeRounds forces every round of the application's interview (if any)
// to COMPLETED and records the final remarks on the interview.
func (s *applicationService) completeRounds(ctx context.Context, op string, app *models.JobApplication, remarks string) error {
	iv, err := s.interviews.GetByApplicationID(ctx, app.ID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil
	}
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to resolve interview", err)
	}

	if err := s.rounds.CompleteAll(ctx, iv.ID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to complete rounds", err)
	}
	if remarks != "" {
		iv.FinalComments = remarks
		if err := s.interviews.Update(ctx, iv); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to update interview", err)
		}
	}
	return nil
}

func (s *applicationService) notifyStatusChange(ctx context.Context, op string, app *models.JobApplication, target models.ApplicationStatus) error {
	job, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load job for notification", err)
	}
	candidate, err := s.users.GetByID(ctx, app.CandidateID)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load candidate for notification", err)
	}
	companyName, err := s.companies.CompanyName(ctx, job.CompanyID)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load company for notification", err)
	}

	msg := mailer.Message{
		To:   candidate.Email,
		Type: mailer.TypeApplicationStatusUpdate,
		Fields: map[string]string{
			"jobTitle": job.Position,
			"company":  companyName,
			"status":   string(target),
		},
	}
	if target == models.StatusTestScheduled {
		msg.Type = mailer.TypeOnlineTestLink
		msg.Fields = map[string]string{
			"jobTitle": job.Position,
			"company":  companyName,
		}
	}

	if err := s.producer.Enqueue(ctx, msg); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to enqueue notification", err)
	}
	return nil
}

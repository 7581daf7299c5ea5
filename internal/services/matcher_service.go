package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hirestack/hirestack/internal/mailer"
	"github.com/hirestack/hirestack/internal/models"
	pgrepo "github.com/hirestack/hirestack/internal/repositories/postgres"
	"github.com/hirestack/hirestack/internal/utils"
)

const autoMatchComment = "Auto-Matched via System"

type MatcherService interface {
	// AutoMatch links every candidate whose skill set covers all of the
	// job's required skills and who has not already applied. Returns the
	// number of applications created. Running it twice creates nothing new.
	AutoMatch(ctx context.Context, jobID string) (int, error)
}

type matcherService struct {
	tx         pgrepo.TxManager
	jobs       pgrepo.JobRepository
	apps       pgrepo.ApplicationRepository
	candidates pgrepo.CandidateRepository
	users      pgrepo.UserRepository
	producer   mailer.Producer
	notifier   NotificationService
	log        *logrus.Logger
}

func NewMatcherService(
	tx pgrepo.TxManager,
	jobs pgrepo.JobRepository,
	apps pgrepo.ApplicationRepository,
	candidates pgrepo.CandidateRepository,
	users pgrepo.UserRepository,
	producer mailer.Producer,
	notifier NotificationService,
	log *logrus.Logger,
) MatcherService {
	return &matcherService{
		tx:         tx,
		jobs:       jobs,
		apps:       apps,
		candidates: candidates,
		users:      users,
		producer:   producer,
		notifier:   notifier,
		log:        log,
	}
}

func (s *matcherService) AutoMatch(ctx context.Context, jobID string) (int, error) {
	const op = "MatcherService.AutoMatch"

	var matchedUserIDs []string
	var job *models.Job

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		job, err = s.jobs.GetByID(ctx, jobID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return utils.E(utils.CodeNotFound, op, "job not found", err)
			}
			return utils.E(utils.CodeInternal, op, "failed to load job", err)
		}
		if job.Status != models.JobOpen {
			return utils.E(utils.CodeInvalidArgument, op, "job is not open", nil)
		}
		if len(job.RequiredSkillIDs) == 0 {
			return utils.E(utils.CodeInvalidArgument, op, "job has no required skills to match on", nil)
		}

		profiles, err := s.candidates.List(ctx)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to list candidates", err)
		}

		for _, p := range profiles {
			if !coversAll(p.SkillIDs, job.RequiredSkillIDs) {
				continue
			}
			exists, err := s.apps.ExistsByJobAndCandidate(ctx, job.ID, p.UserID)
			if err != nil {
				return utils.E(utils.CodeInternal, op, "failed to check existing application", err)
			}
			if exists {
				continue
			}

			app := &models.JobApplication{
				ID:                  uuid.NewString(),
				JobID:               job.ID,
				CandidateID:         p.UserID,
				Status:              models.StatusLinked,
				RecruiterComment:    autoMatchComment,
				CandidateExperience: int64(p.TotalExperience),
				AppliedAt:           time.Now().UTC(),
			}
			if err := s.apps.Create(ctx, app); err != nil {
				return utils.E(utils.CodeInternal, op, "failed to create linked application", err)
			}

			user, err := s.users.GetByID(ctx, p.UserID)
			if err != nil {
				return utils.E(utils.CodeInternal, op, "failed to load matched user", err)
			}
			msg := mailer.Message{
				To:     user.Email,
				Type:   mailer.TypeJobMatched,
				Fields: map[string]string{"jobTitle": job.Position},
			}
			if err := s.producer.Enqueue(ctx, msg); err != nil {
				return utils.E(utils.CodeInternal, op, "failed to enqueue match notification", err)
			}

			matchedUserIDs = append(matchedUserIDs, p.UserID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	// In-app notifications are written after the transaction commits; Mongo
	// cannot join the Postgres transaction.
	for _, userID := range matchedUserIDs {
		s.notifier.Notify(ctx, userID, "You were matched to the "+job.Position+" role.", job.ID)
	}

	s.log.WithFields(logrus.Fields{"job_id": jobID, "matched": len(matchedUserIDs)}).Info("auto-match run complete")
	return len(matchedUserIDs), nil
}

// coversAll reports whether have includes every ID in want.
func coversAll(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, id := range have {
		set[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

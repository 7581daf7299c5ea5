package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hirestack/hirestack/internal/cache"
	"github.com/hirestack/hirestack/internal/mailer"
	"github.com/hirestack/hirestack/internal/models"
	pgrepo "github.com/hirestack/hirestack/internal/repositories/postgres"
	"github.com/hirestack/hirestack/internal/storage"
	"github.com/hirestack/hirestack/internal/utils"
)

const interviewCacheTTL = 5 * time.Minute

func interviewCacheKey(id string) string { return "interview:" + id }

const meetingTimeLayout = "2006-01-02 15:04:05"

// Document kinds accepted by UploadDocument.
const (
	DocIDProof      = "id_proof"
	DocMarksheet    = "marksheet"
	DocAddressProof = "address_proof"
)

type RoundUpdateInput struct {
	ScheduledAt *time.Time
	MeetingLink *string
	Status      *string
	Comments    *string
	Feedbacks   []FeedbackEntry
}

type FeedbackEntry struct {
	SkillID  string `json:"skill_id"`
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

type VerificationInput struct {
	Verified    bool
	Remarks     string
	JoiningDate *time.Time
}

type InterviewService interface {
	GetByID(ctx context.Context, id string) (*models.Interview, error)
	GetByApplicationID(ctx context.Context, applicationID string) (*models.Interview, error)
	ListByCompany(ctx context.Context, companyID string) ([]models.Interview, error)
	ListByCandidate(ctx context.Context, candidateUserID string) ([]models.Interview, error)
	ListByInterviewer(ctx context.Context, userID string) ([]models.Interview, error)
	ListHired(ctx context.Context, companyID string) ([]models.Interview, error)

	PlanRounds(ctx context.Context, interviewID string, count int) (*models.Interview, error)
	AssignToRound(ctx context.Context, roundID string, userIDs []string) (*models.InterviewRound, error)
	UpdateRound(ctx context.Context, roundID, actorID string, in RoundUpdateInput) (*models.InterviewRound, error)
	SubmitFeedback(ctx context.Context, roundID, interviewerID string, entries []FeedbackEntry) error

	ResolveVerification(ctx context.Context, interviewID string, in VerificationInput) (*models.Interview, error)
	UploadDocument(ctx context.Context, interviewID, kind, filename, contentType string, r io.Reader) (*models.Interview, error)
	SetDocuments(ctx context.Context, interviewID string, in DocumentURLsInput) (*models.Interview, error)
}

type DocumentURLsInput struct {
	IDProofURL      *string `json:"id_proof_url"`
	MarksheetURL    *string `json:"marksheet_url"`
	AddressProofURL *string `json:"address_proof_url"`
}

type interviewService struct {
	tx         pgrepo.TxManager
	interviews pgrepo.InterviewRepository
	rounds     pgrepo.RoundRepository
	feedback   pgrepo.FeedbackRepository
	apps       pgrepo.ApplicationRepository
	jobs       pgrepo.JobRepository
	users      pgrepo.UserRepository
	companies  CompanyNamer
	uploader   storage.Uploader
	producer   mailer.Producer
	cache      cache.Cache
	log        *logrus.Logger
}

func NewInterviewService(
	tx pgrepo.TxManager,
	interviews pgrepo.InterviewRepository,
	rounds pgrepo.RoundRepository,
	feedback pgrepo.FeedbackRepository,
	apps pgrepo.ApplicationRepository,
	jobs pgrepo.JobRepository,
	users pgrepo.UserRepository,
	companies CompanyNamer,
	uploader storage.Uploader,
	producer mailer.Producer,
	c cache.Cache,
	log *logrus.Logger,
) InterviewService {
	return &interviewService{
		tx:         tx,
		interviews: interviews,
		rounds:     rounds,
		feedback:   feedback,
		apps:       apps,
		jobs:       jobs,
		users:      users,
		companies:  companies,
		uploader:   uploader,
		producer:   producer,
		cache:      c,
		log:        log,
	}
}

// invalidate drops the cached projection after any write. Best effort; a
// stale entry only lives until the TTL.
func (s *interviewService) invalidate(ctx context.Context, interviewID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, interviewCacheKey(interviewID)); err != nil {
		s.log.WithError(err).WithField("interview_id", interviewID).Warn("cache invalidation failed")
	}
}

func (s *interviewService) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	const op = "InterviewService.GetByID"

	if s.cache != nil {
		var cached models.Interview
		if hit, err := s.cache.GetJSON(ctx, interviewCacheKey(id), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	iv, err := s.interviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, interviewCacheKey(id), iv, interviewCacheTTL); err != nil {
			s.log.WithError(err).Warn("failed to cache interview")
		}
	}
	return iv, nil
}

func (s *interviewService) GetByApplicationID(ctx context.Context, applicationID string) (*models.Interview, error) {
	const op = "InterviewService.GetByApplicationID"

	iv, err := s.interviews.GetByApplicationID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "no interview for application", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}
	return iv, nil
}

func (s *interviewService) ListByCompany(ctx context.Context, companyID string) ([]models.Interview, error) {
	const op = "InterviewService.ListByCompany"

	rows, err := s.interviews.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interviews", err)
	}
	return rows, nil
}

func (s *interviewService) ListByCandidate(ctx context.Context, candidateUserID string) ([]models.Interview, error) {
	const op = "InterviewService.ListByCandidate"

	rows, err := s.interviews.ListByCandidate(ctx, candidateUserID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interviews", err)
	}
	return rows, nil
}

func (s *interviewService) ListByInterviewer(ctx context.Context, userID string) ([]models.Interview, error) {
	const op = "InterviewService.ListByInterviewer"

	rows, err := s.interviews.ListByInterviewer(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interviews", err)
	}
	return rows, nil
}

func (s *interviewService) ListHired(ctx context.Context, companyID string) ([]models.Interview, error) {
	const op = "InterviewService.ListHired"

	rows, err := s.interviews.ListByApplicationStatus(ctx, companyID, models.StatusHired)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list hired interviews", err)
	}
	return rows, nil
}

// PlanRounds resizes an interview to the requested round count. Rounds above
// the new count are removed with their feedback; surviving rounds keep their
// scheduling and are re-typed against the new total.
func (s *interviewService) PlanRounds(ctx context.Context, interviewID string, count int) (*models.Interview, error) {
	const op = "InterviewService.PlanRounds"

	if count < 1 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "round count must be at least 1", nil)
	}

	var out *models.Interview
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		iv, err := s.interviews.GetByID(ctx, interviewID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return utils.E(utils.CodeNotFound, op, "interview not found", err)
			}
			return utils.E(utils.CodeInternal, op, "failed to load interview", err)
		}
		if err := resizeRounds(ctx, s.rounds, iv, count); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to resize rounds", err)
		}
		out, err = s.interviews.GetByID(ctx, interviewID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to reload interview", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, interviewID)
	return out, nil
}

// AssignToRound replaces a round's assignment with the supplied users. The
// round type decides the pool: an HR round takes them all as HRs, any other
// round as interviewers. Assignees are also merged into the interview-level
// roster, which only ever grows.
func (s *interviewService) AssignToRound(ctx context.Context, roundID string, userIDs []string) (*models.InterviewRound, error) {
	const op = "InterviewService.AssignToRound"

	if len(userIDs) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no users to assign", nil)
	}

	var out *models.InterviewRound
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		round, err := s.rounds.GetByID(ctx, roundID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return utils.E(utils.CodeNotFound, op, "round not found", err)
			}
			return utils.E(utils.CodeInternal, op, "failed to load round", err)
		}

		users, err := s.users.GetByIDs(ctx, userIDs)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to load users", err)
		}
		if len(users) != len(userIDs) {
			return utils.E(utils.CodeInvalidArgument, op, "one or more user IDs do not exist", nil)
		}

		// Reassignment always starts clean; a shrunk list must not leave
		// stale assignees behind.
		round.InterviewerIDs = nil
		round.HRIDs = nil
		if isHRRound(round) {
			round.HRIDs = append(round.HRIDs, userIDs...)
		} else {
			round.InterviewerIDs = append(round.InterviewerIDs, userIDs...)
		}

		if err := s.rounds.Update(ctx, round); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to update round", err)
		}

		iv, err := s.interviews.GetByID(ctx, round.InterviewID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return utils.E(utils.CodeNotFound, op, "parent interview not found", err)
			}
			return utils.E(utils.CodeInternal, op, "failed to load interview", err)
		}
		before := len(iv.InterviewerIDs)
		for _, id := range userIDs {
			iv.InterviewerIDs = appendUnique(iv.InterviewerIDs, id)
		}
		if len(iv.InterviewerIDs) != before {
			if err := s.interviews.Update(ctx, iv); err != nil {
				return utils.E(utils.CodeInternal, op, "failed to update roster", err)
			}
		}

		out = round
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, out.InterviewID)
	return out, nil
}

// UpdateRound applies a partial update to one round. Feedback entries carried
// on the update are upserted by (round, skill, interviewer) for the acting
// user, so amending a rating never duplicates a row. Crossing from
// not-fully-scheduled to fully scheduled (time and link both set) fans a
// meeting invite out to the candidate, the job's creator, and everyone
// assigned to the round.
func (s *interviewService) UpdateRound(ctx context.Context, roundID, actorID string, in RoundUpdateInput) (*models.InterviewRound, error) {
	const op = "InterviewService.UpdateRound"

	if len(in.Feedbacks) > 0 && actorID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "actor is required to record feedback", nil)
	}
	for _, e := range in.Feedbacks {
		if e.Rating < 1 || e.Rating > 10 {
			return nil, utils.E(utils.CodeInvalidArgument, op,
				fmt.Sprintf("rating %d out of range for skill %s", e.Rating, e.SkillID), nil)
		}
	}

	var out *models.InterviewRound
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		round, err := s.rounds.GetByID(ctx, roundID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return utils.E(utils.CodeNotFound, op, "round not found", err)
			}
			return utils.E(utils.CodeInternal, op, "failed to load round", err)
		}

		wasScheduled := round.FullyScheduled()

		if in.ScheduledAt != nil {
			round.ScheduledAt = in.ScheduledAt
		}
		if in.MeetingLink != nil {
			round.MeetingLink = *in.MeetingLink
		}
		if in.Status != nil {
			round.Status = *in.Status
		}
		if in.Comments != nil {
			round.Comments = *in.Comments
		}

		for _, e := range in.Feedbacks {
			existing, err := s.feedback.FindByRoundSkillInterviewer(ctx, round.ID, e.SkillID, actorID)
			switch {
			case err == nil:
				existing.Rating = e.Rating
				existing.Comments = e.Comments
				if err := s.feedback.Update(ctx, existing); err != nil {
					return utils.E(utils.CodeInternal, op, "failed to update feedback", err)
				}
			case errors.Is(err, utils.ErrNotFound):
				fb := &models.InterviewFeedback{
					ID:            uuid.NewString(),
					RoundID:       round.ID,
					SkillID:       e.SkillID,
					InterviewerID: actorID,
					Rating:        e.Rating,
					Comments:      e.Comments,
				}
				if err := s.feedback.Create(ctx, fb); err != nil {
					return utils.E(utils.CodeInternal, op, "failed to create feedback", err)
				}
			default:
				return utils.E(utils.CodeInternal, op, "failed to look up feedback", err)
			}
		}

		if err := s.rounds.Update(ctx, round); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to update round", err)
		}

		if !wasScheduled && round.FullyScheduled() {
			if err := s.sendMeetingInvites(ctx, op, round); err != nil {
				return err
			}
		}

		out = round
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, out.InterviewID)
	return out, nil
}

func (s *interviewService) sendMeetingInvites(ctx context.Context, op string, round *models.InterviewRound) error {
	iv, err := s.interviews.GetByID(ctx, round.InterviewID)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load interview", err)
	}
	job, err := s.jobs.GetByID(ctx, iv.JobID)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	candidate, err := s.users.GetByID(ctx, iv.CandidateID)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load candidate", err)
	}
	companyName, err := s.companies.CompanyName(ctx, iv.CompanyID)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load company", err)
	}

	fields := map[string]string{
		"roundType":     round.RoundType,
		"jobTitle":      job.Position,
		"company":       companyName,
		"time":          round.ScheduledAt.Format(meetingTimeLayout),
		"link":          round.MeetingLink,
		"candidateName": candidate.Name,
	}

	recipientIDs := appendUnique(nil, iv.CandidateID)
	recipientIDs = appendUnique(recipientIDs, job.CreatedByID)
	for _, id := range round.InterviewerIDs {
		recipientIDs = appendUnique(recipientIDs, id)
	}
	for _, id := range round.HRIDs {
		recipientIDs = appendUnique(recipientIDs, id)
	}

	recipients, err := s.users.GetByIDs(ctx, recipientIDs)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load invite recipients", err)
	}
	for _, u := range recipients {
		msg := mailer.Message{To: u.Email, Type: mailer.TypeInterviewMeetingInvite, Fields: fields}
		if err := s.producer.Enqueue(ctx, msg); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to enqueue meeting invite", err)
		}
	}
	return nil
}

// SubmitFeedback records a batch of per-skill ratings from one interviewer
// against one round, then marks the round COMPLETED. Every entry is inserted
// as a new row; a caller who submits the same batch twice gets duplicate
// rows. Amendments go through UpdateRound, which upserts by
// (round, skill, interviewer). The whole batch lands in one transaction.
func (s *interviewService) SubmitFeedback(ctx context.Context, roundID, interviewerID string, entries []FeedbackEntry) error {
	const op = "InterviewService.SubmitFeedback"

	if interviewerID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "interviewer_id is required", nil)
	}
	if len(entries) == 0 {
		return utils.E(utils.CodeInvalidArgument, op, "no feedback entries", nil)
	}
	for _, e := range entries {
		if e.Rating < 1 || e.Rating > 10 {
			return utils.E(utils.CodeInvalidArgument, op,
				fmt.Sprintf("rating %d out of range for skill %s", e.Rating, e.SkillID), nil)
		}
	}

	var interviewID string
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		round, err := s.rounds.GetByID(ctx, roundID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return utils.E(utils.CodeNotFound, op, "round not found", err)
			}
			return utils.E(utils.CodeInternal, op, "failed to load round", err)
		}
		interviewID = round.InterviewID

		for _, e := range entries {
			fb := &models.InterviewFeedback{
				ID:            uuid.NewString(),
				RoundID:       round.ID,
				SkillID:       e.SkillID,
				InterviewerID: interviewerID,
				Rating:        e.Rating,
				Comments:      e.Comments,
			}
			if err := s.feedback.Create(ctx, fb); err != nil {
				return utils.E(utils.CodeInternal, op, "failed to create feedback", err)
			}
		}

		round.Status = models.RoundStatusCompleted
		if err := s.rounds.Update(ctx, round); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to complete round", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, interviewID)
	return nil
}

// ResolveVerification settles the HR document check for an interview. A pass
// requires a joining date, flips the application to OFFER_SENT and queues the
// offer letter; a fail parks the application ON_HOLD and clears any joining
// date set by an earlier pass. Either way the remarks are stamped onto the
// application.
func (s *interviewService) ResolveVerification(ctx context.Context, interviewID string, in VerificationInput) (*models.Interview, error) {
	const op = "InterviewService.ResolveVerification"

	var out *models.Interview
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		iv, err := s.interviews.GetByID(ctx, interviewID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return utils.E(utils.CodeNotFound, op, "interview not found", err)
			}
			return utils.E(utils.CodeInternal, op, "failed to load interview", err)
		}
		app, err := s.apps.GetByID(ctx, iv.ApplicationID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to load application", err)
		}

		target := models.StatusOnHold
		if in.Verified {
			if in.JoiningDate == nil {
				return utils.E(utils.CodeInvalidArgument, op, "joining_date is required when documents are verified", nil)
			}
			target = models.StatusOfferSent
		}
		if !models.CanTransition(app.Status, target) {
			return utils.E(utils.CodeInvalidArgument, op,
				fmt.Sprintf("illegal transition %s -> %s", app.Status, target), nil)
		}

		verified := in.Verified
		app.DocumentsVerified = &verified
		app.Status = target
		app.RecruiterComment = "HR Verification: " + in.Remarks
		if in.Verified {
			app.JoiningDate = in.JoiningDate
		} else {
			app.JoiningDate = nil
		}
		if err := s.apps.Update(ctx, app); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to update application", err)
		}

		candidate, err := s.users.GetByID(ctx, app.CandidateID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to load candidate", err)
		}
		companyName, err := s.companies.CompanyName(ctx, iv.CompanyID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to load company", err)
		}
		job, err := s.jobs.GetByID(ctx, iv.JobID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to load job", err)
		}

		var msg mailer.Message
		if in.Verified {
			msg = mailer.Message{
				To:   candidate.Email,
				Type: mailer.TypeOfferLetter,
				Fields: map[string]string{
					"candidateName": candidate.Name,
					"companyName":   companyName,
					"joiningDate":   in.JoiningDate.Format("2006-01-02"),
				},
			}
		} else {
			msg = mailer.Message{
				To:   candidate.Email,
				Type: mailer.TypeApplicationStatusUpdate,
				Fields: map[string]string{
					"jobTitle": job.Position,
					"company":  companyName,
					"status":   "ON HOLD - Document Verification Issue",
				},
			}
		}
		if err := s.producer.Enqueue(ctx, msg); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to enqueue notification", err)
		}

		out, err = s.interviews.GetByID(ctx, interviewID)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to reload interview", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, interviewID)
	return out, nil
}

// UploadDocument streams a verification document to object storage and
// records its path on the interview under the given kind.
func (s *interviewService) UploadDocument(ctx context.Context, interviewID, kind, filename, contentType string, r io.Reader) (*models.Interview, error) {
	const op = "InterviewService.UploadDocument"

	switch kind {
	case DocIDProof, DocMarksheet, DocAddressProof:
	default:
		return nil, utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("unknown document kind %q", kind), nil)
	}

	iv, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load interview", err)
	}

	objectName := fmt.Sprintf("interviews/%s/%s/%s%s", iv.ID, kind, uuid.NewString(), path.Ext(filename))
	storedPath, err := s.uploader.Upload(ctx, objectName, contentType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload document", err)
	}

	switch kind {
	case DocIDProof:
		iv.IDProofURL = storedPath
	case DocMarksheet:
		iv.MarksheetURL = storedPath
	case DocAddressProof:
		iv.AddressProofURL = storedPath
	}
	if err := s.interviews.Update(ctx, iv); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to record document path", err)
	}
	s.invalidate(ctx, iv.ID)
	return iv, nil
}

// SetDocuments patches the stored document URLs directly, for clients that
// upload elsewhere and only hand over links.
func (s *interviewService) SetDocuments(ctx context.Context, interviewID string, in DocumentURLsInput) (*models.Interview, error) {
	const op = "InterviewService.SetDocuments"

	iv, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load interview", err)
	}

	if in.IDProofURL != nil {
		iv.IDProofURL = *in.IDProofURL
	}
	if in.MarksheetURL != nil {
		iv.MarksheetURL = *in.MarksheetURL
	}
	if in.AddressProofURL != nil {
		iv.AddressProofURL = *in.AddressProofURL
	}

	if err := s.interviews.Update(ctx, iv); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update documents", err)
	}
	s.invalidate(ctx, iv.ID)
	return iv, nil
}

// isHRRound classifies a round by its type label. Any label containing "hr",
// case-insensitively, counts; everything else takes interviewers.
func isHRRound(round *models.InterviewRound) bool {
	return strings.Contains(strings.ToLower(round.RoundType), "hr")
}

func appendUnique(list []string, id string) []string {
	for _, v := range list {
		if v == id {
			return list
		}
	}
	return append(list, id)
}

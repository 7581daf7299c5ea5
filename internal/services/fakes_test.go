package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/hirestack/hirestack/internal/mailer"
	"github.com/hirestack/hirestack/internal/models"
	"github.com/hirestack/hirestack/internal/utils"
)

// In-memory fakes backing the service tests. The tx fake models the outbox
// guarantee: messages enqueued during a Do that fails are discarded, like a
// rolled-back outbox row.

type fakeStore struct {
	mu sync.Mutex

	apps       map[string]*models.JobApplication
	appSkills  map[string][]models.ApplicationSkill
	interviews map[string]*models.Interview
	rounds     map[string]*models.InterviewRound
	feedbacks  map[string]*models.InterviewFeedback
	jobs       map[string]*models.Job
	companies  map[string]*models.Company
	skills     map[string]*models.Skill
	users      map[string]*models.User
	employees  map[string]*models.EmployeeProfile
	candidates map[string]*models.CandidateProfile
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		apps:       map[string]*models.JobApplication{},
		appSkills:  map[string][]models.ApplicationSkill{},
		interviews: map[string]*models.Interview{},
		rounds:     map[string]*models.InterviewRound{},
		feedbacks:  map[string]*models.InterviewFeedback{},
		jobs:       map[string]*models.Job{},
		companies:  map[string]*models.Company{},
		skills:     map[string]*models.Skill{},
		users:      map[string]*models.User{},
		employees:  map[string]*models.EmployeeProfile{},
		candidates: map[string]*models.CandidateProfile{},
	}
}

func (s *fakeStore) roundsOf(interviewID string) []models.InterviewRound {
	var out []models.InterviewRound
	for _, r := range s.rounds {
		if r.InterviewID != interviewID {
			continue
		}
		cp := *r
		cp.Feedbacks = s.feedbacksOf(r.ID)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoundNumber < out[j].RoundNumber })
	return out
}

func (s *fakeStore) feedbacksOf(roundID string) []models.InterviewFeedback {
	var out []models.InterviewFeedback
	for _, f := range s.feedbacks {
		if f.RoundID == roundID {
			out = append(out, *f)
		}
	}
	return out
}

// --- transactions and outbox ---

type fakeProducer struct {
	staged []mailer.Message
	Sent   []mailer.Message
}

func (p *fakeProducer) Enqueue(_ context.Context, msg mailer.Message) error {
	p.staged = append(p.staged, msg)
	return nil
}

// SentOfType filters committed messages by template type.
func (p *fakeProducer) SentOfType(t mailer.Type) []mailer.Message {
	var out []mailer.Message
	for _, m := range p.Sent {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

type fakeTx struct {
	producer *fakeProducer
}

func (t *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var mark int
	if t.producer != nil {
		mark = len(t.producer.staged)
	}
	if err := fn(ctx); err != nil {
		if t.producer != nil {
			t.producer.staged = t.producer.staged[:mark]
		}
		return err
	}
	if t.producer != nil {
		t.producer.Sent = append(t.producer.Sent, t.producer.staged[mark:]...)
		t.producer.staged = t.producer.staged[:mark]
	}
	return nil
}

// --- repositories ---

type fakeApplicationRepo struct{ s *fakeStore }

func (r *fakeApplicationRepo) Create(_ context.Context, app *models.JobApplication) error {
	cp := *app
	r.s.apps[app.ID] = &cp
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id string) (*models.JobApplication, error) {
	app, ok := r.s.apps[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *app
	cp.Skills = append([]models.ApplicationSkill(nil), r.s.appSkills[id]...)
	return &cp, nil
}

func (r *fakeApplicationRepo) Update(_ context.Context, app *models.JobApplication) error {
	cp := *app
	cp.Skills = nil
	r.s.apps[app.ID] = &cp
	return nil
}

func (r *fakeApplicationRepo) ExistsByJobAndCandidate(_ context.Context, jobID, candidateID string) (bool, error) {
	for _, a := range r.s.apps {
		if a.JobID == jobID && a.CandidateID == candidateID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApplicationRepo) ListByJob(_ context.Context, jobID string) ([]models.JobApplication, error) {
	var out []models.JobApplication
	for _, a := range r.s.apps {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByCandidate(_ context.Context, candidateID string) ([]models.JobApplication, error) {
	var out []models.JobApplication
	for _, a := range r.s.apps {
		if a.CandidateID == candidateID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ReplaceSkills(_ context.Context, applicationID string, skills []models.ApplicationSkill) error {
	r.s.appSkills[applicationID] = append([]models.ApplicationSkill(nil), skills...)
	return nil
}

type fakeInterviewRepo struct{ s *fakeStore }

func (r *fakeInterviewRepo) Create(_ context.Context, iv *models.Interview) error {
	cp := *iv
	cp.Rounds = nil
	r.s.interviews[iv.ID] = &cp
	for _, round := range iv.Rounds {
		rc := round
		r.s.rounds[round.ID] = &rc
	}
	return nil
}

func (r *fakeInterviewRepo) GetByID(_ context.Context, id string) (*models.Interview, error) {
	iv, ok := r.s.interviews[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *iv
	cp.Rounds = r.s.roundsOf(id)
	return &cp, nil
}

func (r *fakeInterviewRepo) GetByApplicationID(_ context.Context, applicationID string) (*models.Interview, error) {
	for _, iv := range r.s.interviews {
		if iv.ApplicationID == applicationID {
			cp := *iv
			cp.Rounds = r.s.roundsOf(iv.ID)
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *fakeInterviewRepo) Update(_ context.Context, iv *models.Interview) error {
	cp := *iv
	cp.Rounds = nil
	r.s.interviews[iv.ID] = &cp
	return nil
}

func (r *fakeInterviewRepo) ListByCompany(_ context.Context, companyID string) ([]models.Interview, error) {
	var out []models.Interview
	for _, iv := range r.s.interviews {
		if iv.CompanyID == companyID {
			cp := *iv
			cp.Rounds = r.s.roundsOf(iv.ID)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *fakeInterviewRepo) ListByCandidate(_ context.Context, candidateID string) ([]models.Interview, error) {
	var out []models.Interview
	for _, iv := range r.s.interviews {
		if iv.CandidateID == candidateID {
			cp := *iv
			cp.Rounds = r.s.roundsOf(iv.ID)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *fakeInterviewRepo) ListByInterviewer(_ context.Context, userID string) ([]models.Interview, error) {
	var out []models.Interview
	for _, iv := range r.s.interviews {
		for _, id := range iv.InterviewerIDs {
			if id == userID {
				cp := *iv
				cp.Rounds = r.s.roundsOf(iv.ID)
				out = append(out, cp)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeInterviewRepo) ListByApplicationStatus(_ context.Context, companyID string, status models.ApplicationStatus) ([]models.Interview, error) {
	var out []models.Interview
	for _, iv := range r.s.interviews {
		if iv.CompanyID != companyID {
			continue
		}
		app, ok := r.s.apps[iv.ApplicationID]
		if !ok || app.Status != status {
			continue
		}
		cp := *iv
		cp.Rounds = r.s.roundsOf(iv.ID)
		out = append(out, cp)
	}
	return out, nil
}

type fakeRoundRepo struct{ s *fakeStore }

func (r *fakeRoundRepo) GetByID(_ context.Context, id string) (*models.InterviewRound, error) {
	round, ok := r.s.rounds[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *round
	cp.Feedbacks = r.s.feedbacksOf(id)
	return &cp, nil
}

func (r *fakeRoundRepo) CreateBatch(_ context.Context, rounds []models.InterviewRound) error {
	for _, round := range rounds {
		cp := round
		r.s.rounds[round.ID] = &cp
	}
	return nil
}

func (r *fakeRoundRepo) Update(_ context.Context, round *models.InterviewRound) error {
	cp := *round
	cp.Feedbacks = nil
	r.s.rounds[round.ID] = &cp
	return nil
}

func (r *fakeRoundRepo) DeleteAbove(_ context.Context, interviewID string, keep int) error {
	for id, round := range r.s.rounds {
		if round.InterviewID != interviewID || round.RoundNumber <= keep {
			continue
		}
		for fid, f := range r.s.feedbacks {
			if f.RoundID == id {
				delete(r.s.feedbacks, fid)
			}
		}
		delete(r.s.rounds, id)
	}
	return nil
}

func (r *fakeRoundRepo) SetStatusAll(_ context.Context, interviewID, status string) error {
	for _, round := range r.s.rounds {
		if round.InterviewID == interviewID {
			round.Status = status
		}
	}
	return nil
}

func (r *fakeRoundRepo) SetType(_ context.Context, interviewID string, roundNumber int, roundType string) error {
	for _, round := range r.s.rounds {
		if round.InterviewID == interviewID && round.RoundNumber == roundNumber {
			round.RoundType = roundType
		}
	}
	return nil
}

func (r *fakeRoundRepo) CompleteAll(_ context.Context, interviewID string) error {
	return r.SetStatusAll(context.Background(), interviewID, models.RoundStatusCompleted)
}

type fakeFeedbackRepo struct{ s *fakeStore }

func (r *fakeFeedbackRepo) Create(_ context.Context, fb *models.InterviewFeedback) error {
	cp := *fb
	r.s.feedbacks[fb.ID] = &cp
	return nil
}

func (r *fakeFeedbackRepo) Update(_ context.Context, fb *models.InterviewFeedback) error {
	cp := *fb
	r.s.feedbacks[fb.ID] = &cp
	return nil
}

func (r *fakeFeedbackRepo) FindByRoundSkillInterviewer(_ context.Context, roundID, skillID, interviewerID string) (*models.InterviewFeedback, error) {
	for _, f := range r.s.feedbacks {
		if f.RoundID == roundID && f.SkillID == skillID && f.InterviewerID == interviewerID {
			cp := *f
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

type fakeJobRepo struct{ s *fakeStore }

func (r *fakeJobRepo) Create(_ context.Context, job *models.Job) error {
	cp := *job
	r.s.jobs[job.ID] = &cp
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id string) (*models.Job, error) {
	job, ok := r.s.jobs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *fakeJobRepo) Update(_ context.Context, job *models.Job) error {
	cp := *job
	r.s.jobs[job.ID] = &cp
	return nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id string) error {
	delete(r.s.jobs, id)
	return nil
}

func (r *fakeJobRepo) ListOpen(_ context.Context) ([]models.Job, error) {
	var out []models.Job
	for _, j := range r.s.jobs {
		if j.Status == models.JobOpen {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) ListByCompany(_ context.Context, companyID string) ([]models.Job, error) {
	var out []models.Job
	for _, j := range r.s.jobs {
		if j.CompanyID == companyID {
			out = append(out, *j)
		}
	}
	return out, nil
}

type fakeSkillRepo struct{ s *fakeStore }

func (r *fakeSkillRepo) Create(_ context.Context, skill *models.Skill) error {
	for _, sk := range r.s.skills {
		if strings.EqualFold(sk.Name, skill.Name) {
			return errors.New("duplicate skill name")
		}
	}
	cp := *skill
	r.s.skills[skill.ID] = &cp
	return nil
}

func (r *fakeSkillRepo) List(_ context.Context) ([]models.Skill, error) {
	var out []models.Skill
	for _, sk := range r.s.skills {
		out = append(out, *sk)
	}
	return out, nil
}

func (r *fakeSkillRepo) GetByIDs(_ context.Context, ids []string) ([]models.Skill, error) {
	var out []models.Skill
	for _, id := range ids {
		if sk, ok := r.s.skills[id]; ok {
			out = append(out, *sk)
		}
	}
	return out, nil
}

func (r *fakeSkillRepo) CountByIDs(_ context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := r.s.skills[id]; ok {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []string) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetEmployee(_ context.Context, userID string) (*models.EmployeeProfile, error) {
	e, ok := r.s.employees[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeUserRepo) CreateEmployee(_ context.Context, emp *models.EmployeeProfile) error {
	cp := *emp
	r.s.employees[emp.UserID] = &cp
	return nil
}

type fakeCandidateRepo struct{ s *fakeStore }

func (r *fakeCandidateRepo) GetByUserID(_ context.Context, userID string) (*models.CandidateProfile, error) {
	p, ok := r.s.candidates[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeCandidateRepo) List(_ context.Context) ([]models.CandidateProfile, error) {
	var out []models.CandidateProfile
	for _, p := range r.s.candidates {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeCandidateRepo) Upsert(_ context.Context, p *models.CandidateProfile) error {
	cp := *p
	r.s.candidates[p.UserID] = &cp
	return nil
}

type fakeCompanyRepo struct{ s *fakeStore }

func (r *fakeCompanyRepo) Create(_ context.Context, c *models.Company) error {
	cp := *c
	r.s.companies[c.ID] = &cp
	return nil
}

func (r *fakeCompanyRepo) GetByID(_ context.Context, id string) (*models.Company, error) {
	c, ok := r.s.companies[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

type fakeCompanyNamer struct{ s *fakeStore }

func (n *fakeCompanyNamer) CompanyName(_ context.Context, companyID string) (string, error) {
	c, ok := n.s.companies[companyID]
	if !ok {
		return "", utils.ErrNotFound
	}
	return c.Name, nil
}

type fakeNotifier struct {
	notices []models.Notification
}

func (n *fakeNotifier) Notify(_ context.Context, recipientID, message, relatedJobID string) {
	n.notices = append(n.notices, models.Notification{
		RecipientID:  recipientID,
		Message:      message,
		RelatedJobID: relatedJobID,
	})
}

func (n *fakeNotifier) ListForUser(_ context.Context, userID string, _ int) ([]models.Notification, error) {
	var out []models.Notification
	for _, m := range n.notices {
		if m.RecipientID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (n *fakeNotifier) MarkRead(_ context.Context, _ string) error { return nil }

type fakeUploader struct {
	uploads map[string]string
}

func (u *fakeUploader) Upload(_ context.Context, objectName, _ string, _ io.Reader) (string, error) {
	if u.uploads == nil {
		u.uploads = map[string]string{}
	}
	url := "https://files.test/" + objectName
	u.uploads[objectName] = url
	return url, nil
}

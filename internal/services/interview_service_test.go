package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirestack/hirestack/internal/mailer"
	"github.com/hirestack/hirestack/internal/models"
	"github.com/hirestack/hirestack/internal/utils"
)

type ivFixture struct {
	store    *fakeStore
	producer *fakeProducer
	uploader *fakeUploader
	svc      InterviewService
}

func newIvFixture(t *testing.T) *ivFixture {
	t.Helper()

	s := newFakeStore()
	producer := &fakeProducer{}
	uploader := &fakeUploader{}
	log := logrus.New()

	s.companies["c-1"] = &models.Company{ID: "c-1", Name: "Acme"}
	s.jobs["j-1"] = &models.Job{ID: "j-1", CompanyID: "c-1", CreatedByID: "rec-1", Position: "Backend Engineer", Status: models.JobOpen}
	s.users["cand-1"] = &models.User{ID: "cand-1", Name: "Dana", Email: "dana@example.com", Roles: []string{models.RoleCandidate}}
	s.users["rec-1"] = &models.User{ID: "rec-1", Name: "Rae", Email: "rae@acme.com", Roles: []string{models.RoleRecruiter}}
	s.users["hr-1"] = &models.User{ID: "hr-1", Name: "Hana", Email: "hana@acme.com", Roles: []string{models.RoleHR}}
	s.users["int-1"] = &models.User{ID: "int-1", Name: "Iris", Email: "iris@acme.com", Roles: []string{models.RoleInterviewer}}
	s.users["int-2"] = &models.User{ID: "int-2", Name: "Ivan", Email: "ivan@acme.com", Roles: []string{models.RoleInterviewer}}
	s.skills["sk-go"] = &models.Skill{ID: "sk-go", Name: "Go"}

	svc := NewInterviewService(
		&fakeTx{producer: producer},
		&fakeInterviewRepo{s: s},
		&fakeRoundRepo{s: s},
		&fakeFeedbackRepo{s: s},
		&fakeApplicationRepo{s: s},
		&fakeJobRepo{s: s},
		&fakeUserRepo{s: s},
		&fakeCompanyNamer{s: s},
		uploader,
		producer,
		nil,
		log,
	)
	return &ivFixture{store: s, producer: producer, uploader: uploader, svc: svc}
}

// seedInterview creates an application in the given status plus its interview
// with two planned rounds.
func (f *ivFixture) seedInterview(status models.ApplicationStatus) *models.Interview {
	f.store.apps["a-1"] = &models.JobApplication{ID: "a-1", JobID: "j-1", CandidateID: "cand-1", Status: status}
	iv := &models.Interview{ID: "iv-1", ApplicationID: "a-1", JobID: "j-1", CompanyID: "c-1", CandidateID: "cand-1"}
	f.store.interviews[iv.ID] = iv
	for _, r := range newRounds(iv.ID, 0, 2) {
		cp := r
		f.store.rounds[r.ID] = &cp
	}
	return iv
}

func (f *ivFixture) roundID(n int) string {
	for id, r := range f.store.rounds {
		if r.RoundNumber == n {
			return id
		}
	}
	return ""
}

func TestAssignToRoundRoutesByRoundType(t *testing.T) {
	f := newIvFixture(t)
	f.seedInterview(models.StatusInterviewScheduled)
	ctx := context.Background()

	// round 1 is "Technical Round 1": everyone lands in the interviewer pool,
	// the assignees' own roles do not matter
	round, err := f.svc.AssignToRound(ctx, f.roundID(1), []string{"int-1", "hr-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"int-1", "hr-1"}, []string(round.InterviewerIDs))
	assert.Empty(t, round.HRIDs)

	// round 2 is "HR Round": the same users land in the HR pool
	round, err = f.svc.AssignToRound(ctx, f.roundID(2), []string{"int-1", "hr-1"})
	require.NoError(t, err)
	assert.Empty(t, round.InterviewerIDs)
	assert.Equal(t, []string{"int-1", "hr-1"}, []string(round.HRIDs))

	iv, err := f.svc.GetByID(ctx, "iv-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"int-1", "hr-1"}, []string(iv.InterviewerIDs), "all assignees join the aggregate roster")
}

func TestAssignToRoundReplacesPreviousAssignment(t *testing.T) {
	f := newIvFixture(t)
	f.seedInterview(models.StatusInterviewScheduled)
	ctx := context.Background()

	_, err := f.svc.AssignToRound(ctx, f.roundID(1), []string{"int-1", "int-2"})
	require.NoError(t, err)

	// the shrunk reassignment must not keep int-1 around on the round
	round, err := f.svc.AssignToRound(ctx, f.roundID(1), []string{"int-2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"int-2"}, []string(round.InterviewerIDs))
	assert.Empty(t, round.HRIDs)

	// the aggregate roster never shrinks
	iv, err := f.svc.GetByID(ctx, "iv-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"int-1", "int-2"}, []string(iv.InterviewerIDs))
}

func TestAssignToRoundUnknownUser(t *testing.T) {
	f := newIvFixture(t)
	f.seedInterview(models.StatusInterviewScheduled)

	_, err := f.svc.AssignToRound(context.Background(), f.roundID(1), []string{"ghost"})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestUpdateRoundMeetingInviteFanOut(t *testing.T) {
	f := newIvFixture(t)
	f.seedInterview(models.StatusInterviewScheduled)
	ctx := context.Background()
	rid := f.roundID(1)

	_, err := f.svc.AssignToRound(ctx, rid, []string{"int-1", "hr-1"})
	require.NoError(t, err)

	// time alone does not cross the scheduling edge
	at := time.Date(2026, 9, 10, 14, 30, 0, 0, time.UTC)
	atStr := at
	_, err = f.svc.UpdateRound(ctx, rid, "rec-1", RoundUpdateInput{ScheduledAt: &atStr})
	require.NoError(t, err)
	assert.Empty(t, f.producer.SentOfType(mailer.TypeInterviewMeetingInvite))

	link := "https://meet.test/abc"
	round, err := f.svc.UpdateRound(ctx, rid, "rec-1", RoundUpdateInput{MeetingLink: &link})
	require.NoError(t, err)
	assert.True(t, round.FullyScheduled())

	invites := f.producer.SentOfType(mailer.TypeInterviewMeetingInvite)
	require.Len(t, invites, 4) // candidate, job creator, interviewer, hr
	recipients := map[string]bool{}
	for _, m := range invites {
		recipients[m.To] = true
		assert.Equal(t, "Technical Round 1", m.Fields["roundType"])
		assert.Equal(t, "Backend Engineer", m.Fields["jobTitle"])
		assert.Equal(t, "Acme", m.Fields["company"])
		assert.Equal(t, "2026-09-10 14:30:00", m.Fields["time"])
		assert.Equal(t, link, m.Fields["link"])
		assert.Equal(t, "Dana", m.Fields["candidateName"])
	}
	assert.True(t, recipients["dana@example.com"])
	assert.True(t, recipients["rae@acme.com"])
	assert.True(t, recipients["iris@acme.com"])
	assert.True(t, recipients["hana@acme.com"])

	// updating an already scheduled round must not resend
	comment := "bring laptop"
	_, err = f.svc.UpdateRound(ctx, rid, "rec-1", RoundUpdateInput{Comments: &comment})
	require.NoError(t, err)
	assert.Len(t, f.producer.SentOfType(mailer.TypeInterviewMeetingInvite), 4)
}

func TestSubmitFeedbackValidatesRating(t *testing.T) {
	f := newIvFixture(t)
	f.seedInterview(models.StatusInterviewScheduled)

	err := f.svc.SubmitFeedback(context.Background(), f.roundID(1), "int-1",
		[]FeedbackEntry{{SkillID: "sk-go", Rating: 11}})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	err = f.svc.SubmitFeedback(context.Background(), f.roundID(1), "int-1", nil)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestSubmitFeedbackBulkInsertsEveryEntry(t *testing.T) {
	f := newIvFixture(t)
	f.seedInterview(models.StatusInterviewScheduled)
	ctx := context.Background()
	rid := f.roundID(1)

	err := f.svc.SubmitFeedback(ctx, rid, "int-1", []FeedbackEntry{
		{SkillID: "sk-go", Rating: 7, Comments: "solid"},
	})
	require.NoError(t, err)

	round, err := (&fakeRoundRepo{s: f.store}).GetByID(ctx, rid)
	require.NoError(t, err)
	assert.Equal(t, models.RoundStatusCompleted, round.Status)
	require.Len(t, round.Feedbacks, 1)
	assert.Equal(t, 7, round.Feedbacks[0].Rating)

	// the bulk path never deduplicates; resubmitting the same pair adds a row
	err = f.svc.SubmitFeedback(ctx, rid, "int-1", []FeedbackEntry{
		{SkillID: "sk-go", Rating: 9, Comments: "revised"},
	})
	require.NoError(t, err)

	round, err = (&fakeRoundRepo{s: f.store}).GetByID(ctx, rid)
	require.NoError(t, err)
	assert.Len(t, round.Feedbacks, 2)

	// a second interviewer adds a distinct entry
	err = f.svc.SubmitFeedback(ctx, rid, "int-2", []FeedbackEntry{
		{SkillID: "sk-go", Rating: 6},
	})
	require.NoError(t, err)
	round, err = (&fakeRoundRepo{s: f.store}).GetByID(ctx, rid)
	require.NoError(t, err)
	assert.Len(t, round.Feedbacks, 3)
}

func TestUpdateRoundFeedbackUpserts(t *testing.T) {
	f := newIvFixture(t)
	f.seedInterview(models.StatusInterviewScheduled)
	ctx := context.Background()
	rid := f.roundID(1)

	_, err := f.svc.UpdateRound(ctx, rid, "int-1", RoundUpdateInput{
		Feedbacks: []FeedbackEntry{{SkillID: "sk-go", Rating: 7, Comments: "solid"}},
	})
	require.NoError(t, err)

	round, err := (&fakeRoundRepo{s: f.store}).GetByID(ctx, rid)
	require.NoError(t, err)
	require.Len(t, round.Feedbacks, 1)
	assert.NotEqual(t, models.RoundStatusCompleted, round.Status, "amending does not complete the round")

	// same (skill, interviewer) pair overwrites in place
	_, err = f.svc.UpdateRound(ctx, rid, "int-1", RoundUpdateInput{
		Feedbacks: []FeedbackEntry{{SkillID: "sk-go", Rating: 9, Comments: "revised"}},
	})
	require.NoError(t, err)

	round, err = (&fakeRoundRepo{s: f.store}).GetByID(ctx, rid)
	require.NoError(t, err)
	require.Len(t, round.Feedbacks, 1)
	assert.Equal(t, 9, round.Feedbacks[0].Rating)
	assert.Equal(t, "revised", round.Feedbacks[0].Comments)

	// another interviewer's amendment is keyed separately
	_, err = f.svc.UpdateRound(ctx, rid, "int-2", RoundUpdateInput{
		Feedbacks: []FeedbackEntry{{SkillID: "sk-go", Rating: 6}},
	})
	require.NoError(t, err)
	round, err = (&fakeRoundRepo{s: f.store}).GetByID(ctx, rid)
	require.NoError(t, err)
	assert.Len(t, round.Feedbacks, 2)

	_, err = f.svc.UpdateRound(ctx, rid, "int-1", RoundUpdateInput{
		Feedbacks: []FeedbackEntry{{SkillID: "sk-go", Rating: 0}},
	})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestResolveVerificationRequiresJoiningDate(t *testing.T) {
	f := newIvFixture(t)
	f.seedInterview(models.StatusHired)
	ctx := context.Background()

	_, err := f.svc.ResolveVerification(ctx, "iv-1", VerificationInput{Verified: true})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	assert.Equal(t, models.StatusHired, f.store.apps["a-1"].Status)
	assert.Empty(t, f.producer.Sent)

	// a same-day joining date is fine; only a missing one is rejected
	today := time.Now()
	_, err = f.svc.ResolveVerification(ctx, "iv-1", VerificationInput{Verified: true, JoiningDate: &today})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOfferSent, f.store.apps["a-1"].Status)
}

func TestResolveVerificationPassSendsOffer(t *testing.T) {
	f := newIvFixture(t)
	f.seedInterview(models.StatusHired)
	ctx := context.Background()

	joining := time.Now().Add(30 * 24 * time.Hour)
	_, err := f.svc.ResolveVerification(ctx, "iv-1", VerificationInput{
		Verified: true, Remarks: "all documents valid", JoiningDate: &joining,
	})
	require.NoError(t, err)

	app := f.store.apps["a-1"]
	assert.Equal(t, models.StatusOfferSent, app.Status)
	require.NotNil(t, app.DocumentsVerified)
	assert.True(t, *app.DocumentsVerified)
	assert.True(t, strings.HasPrefix(app.RecruiterComment, "HR Verification: "))
	require.NotNil(t, app.JoiningDate)

	require.Len(t, f.producer.Sent, 1)
	msg := f.producer.Sent[0]
	assert.Equal(t, mailer.TypeOfferLetter, msg.Type)
	assert.Equal(t, "dana@example.com", msg.To)
	assert.Equal(t, "Dana", msg.Fields["candidateName"])
	assert.Equal(t, "Acme", msg.Fields["companyName"])
	assert.Equal(t, joining.Format("2006-01-02"), msg.Fields["joiningDate"])
}

func TestResolveVerificationFailParksOnHold(t *testing.T) {
	f := newIvFixture(t)
	f.seedInterview(models.StatusHired)

	// a joining date from an earlier approval must not survive the hold
	earlier := time.Now().Add(14 * 24 * time.Hour)
	f.store.apps["a-1"].JoiningDate = &earlier

	_, err := f.svc.ResolveVerification(context.Background(), "iv-1", VerificationInput{
		Verified: false, Remarks: "marksheet unreadable",
	})
	require.NoError(t, err)

	app := f.store.apps["a-1"]
	assert.Equal(t, models.StatusOnHold, app.Status)
	require.NotNil(t, app.DocumentsVerified)
	assert.False(t, *app.DocumentsVerified)
	assert.Nil(t, app.JoiningDate)

	require.Len(t, f.producer.Sent, 1)
	msg := f.producer.Sent[0]
	assert.Equal(t, mailer.TypeApplicationStatusUpdate, msg.Type)
	assert.Equal(t, "ON HOLD - Document Verification Issue", msg.Fields["status"])
}

func TestResolveVerificationIllegalFromState(t *testing.T) {
	f := newIvFixture(t)
	f.seedInterview(models.StatusPending)

	joining := time.Now().Add(24 * time.Hour)
	_, err := f.svc.ResolveVerification(context.Background(), "iv-1", VerificationInput{
		Verified: true, JoiningDate: &joining,
	})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestUploadDocument(t *testing.T) {
	f := newIvFixture(t)
	f.seedInterview(models.StatusHired)
	ctx := context.Background()

	iv, err := f.svc.UploadDocument(ctx, "iv-1", DocMarksheet, "marks.pdf", "application/pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.Contains(t, iv.MarksheetURL, "interviews/iv-1/marksheet/")
	assert.True(t, strings.HasSuffix(iv.MarksheetURL, ".pdf"))
	assert.Empty(t, iv.IDProofURL)

	_, err = f.svc.UploadDocument(ctx, "iv-1", "passport", "p.png", "image/png", strings.NewReader("png"))
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestSetDocuments(t *testing.T) {
	f := newIvFixture(t)
	f.seedInterview(models.StatusHired)

	idURL := "https://files.test/id.png"
	iv, err := f.svc.SetDocuments(context.Background(), "iv-1", DocumentURLsInput{IDProofURL: &idURL})
	require.NoError(t, err)
	assert.Equal(t, idURL, iv.IDProofURL)
	assert.Empty(t, iv.MarksheetURL)
}

func TestPlanRoundsShrink(t *testing.T) {
	f := newIvFixture(t)
	f.seedInterview(models.StatusInterviewScheduled)
	ctx := context.Background()

	iv, err := f.svc.PlanRounds(ctx, "iv-1", 1)
	require.NoError(t, err)
	require.Len(t, iv.Rounds, 1)
	assert.Equal(t, "Technical Round 1", iv.Rounds[0].RoundType)

	_, err = f.svc.PlanRounds(ctx, "iv-1", 0)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestListHired(t *testing.T) {
	f := newIvFixture(t)
	f.seedInterview(models.StatusHired)

	rows, err := f.svc.ListHired(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "iv-1", rows[0].ID)

	f.store.apps["a-1"].Status = models.StatusOfferSent
	rows, err = f.svc.ListHired(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

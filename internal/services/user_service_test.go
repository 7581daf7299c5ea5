package services

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirestack/hirestack/internal/mailer"
	"github.com/hirestack/hirestack/internal/models"
	"github.com/hirestack/hirestack/internal/utils"
)

type userFixture struct {
	store    *fakeStore
	producer *fakeProducer
	svc      UserService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	s := newFakeStore()
	producer := &fakeProducer{}

	s.companies["c-1"] = &models.Company{ID: "c-1", Name: "Acme"}
	s.users["rec-1"] = &models.User{ID: "rec-1", Name: "Rae", Email: "rae@acme.com", Roles: []string{models.RoleRecruiter}}
	s.employees["rec-1"] = &models.EmployeeProfile{UserID: "rec-1", CompanyID: "c-1", Role: models.RoleRecruiter}
	s.skills["sk-go"] = &models.Skill{ID: "sk-go", Name: "Go"}

	svc := NewUserService(
		&fakeTx{producer: producer},
		&fakeUserRepo{s: s},
		&fakeCandidateRepo{s: s},
		&fakeCompanyRepo{s: s},
		&fakeSkillRepo{s: s},
		producer,
		logrus.New(),
	)
	return &userFixture{store: s, producer: producer, svc: svc}
}

func TestInviteCandidate(t *testing.T) {
	f := newUserFixture(t)

	user, err := f.svc.Invite(context.Background(), "rec-1", InviteInput{
		Name: "Dana", Email: "Dana@Example.com", Role: models.RoleCandidate,
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserInvited, user.Status)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	_, hasEmp := f.store.employees[user.ID]
	assert.False(t, hasEmp, "candidates get no employee profile")

	require.Len(t, f.producer.Sent, 1)
	msg := f.producer.Sent[0]
	assert.Equal(t, mailer.TypeAddCandidate, msg.Type)
	assert.Equal(t, "Rae", msg.Fields["recruiterName"])
	assert.Equal(t, "Acme", msg.Fields["company"])
}

func TestInviteEmployee(t *testing.T) {
	f := newUserFixture(t)

	user, err := f.svc.Invite(context.Background(), "rec-1", InviteInput{
		Name: "Iris", Email: "iris@acme.com", Role: models.RoleInterviewer,
	})
	require.NoError(t, err)

	emp := f.store.employees[user.ID]
	require.NotNil(t, emp)
	assert.Equal(t, "c-1", emp.CompanyID)
	assert.Equal(t, models.RoleInterviewer, emp.Role)

	require.Len(t, f.producer.Sent, 1)
	assert.Equal(t, mailer.TypeProfileCreated, f.producer.Sent[0].Type)
}

func TestInviteRejectsDuplicateEmailAndBadRole(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	_, err := f.svc.Invite(ctx, "rec-1", InviteInput{Name: "X", Email: "rae@acme.com", Role: models.RoleHR})
	assert.True(t, utils.IsCode(err, utils.CodeConflict))

	_, err = f.svc.Invite(ctx, "rec-1", InviteInput{Name: "X", Email: "x@acme.com", Role: "root"})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestUpsertCandidateProfileCompleteness(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	p, err := f.svc.UpsertCandidateProfile(ctx, "cand-1", CandidateProfileInput{Phone: "1"})
	require.NoError(t, err)
	assert.False(t, p.ProfileComplete)

	p, err = f.svc.UpsertCandidateProfile(ctx, "cand-1", CandidateProfileInput{
		Phone: "1", Location: "Berlin", SkillIDs: []string{"sk-go"},
	})
	require.NoError(t, err)
	assert.True(t, p.ProfileComplete)

	_, err = f.svc.UpsertCandidateProfile(ctx, "cand-1", CandidateProfileInput{
		Phone: "1", Location: "Berlin", SkillIDs: []string{"sk-bogus"},
	})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

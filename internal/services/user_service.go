package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hirestack/hirestack/internal/mailer"
	"github.com/hirestack/hirestack/internal/models"
	pgrepo "github.com/hirestack/hirestack/internal/repositories/postgres"
	"github.com/hirestack/hirestack/internal/utils"
)

type InviteInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type CandidateProfileInput struct {
	Phone           string   `json:"phone"`
	Summary         string   `json:"summary"`
	Location        string   `json:"location"`
	TotalExperience int      `json:"total_experience"`
	CurrentCompany  string   `json:"current_company"`
	Degree          string   `json:"degree"`
	CollegeName     string   `json:"college_name"`
	GraduationYear  int      `json:"graduation_year"`
	SkillIDs        []string `json:"skill_ids"`
}

type UserService interface {
	// Invite creates an INVITED user with a random password on behalf of a
	// recruiter. Candidates get only the user record; employee roles also get
	// a profile in the recruiter's company.
	Invite(ctx context.Context, recruiterUserID string, in InviteInput) (*models.User, error)
	UpsertCandidateProfile(ctx context.Context, userID string, in CandidateProfileInput) (*models.CandidateProfile, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetEmployee(ctx context.Context, userID string) (*models.EmployeeProfile, error)
}

type userService struct {
	tx         pgrepo.TxManager
	users      pgrepo.UserRepository
	candidates pgrepo.CandidateRepository
	companies  pgrepo.CompanyRepository
	skills     pgrepo.SkillRepository
	producer   mailer.Producer
	log        *logrus.Logger
}

func NewUserService(
	tx pgrepo.TxManager,
	users pgrepo.UserRepository,
	candidates pgrepo.CandidateRepository,
	companies pgrepo.CompanyRepository,
	skills pgrepo.SkillRepository,
	producer mailer.Producer,
	log *logrus.Logger,
) UserService {
	return &userService{
		tx:         tx,
		users:      users,
		candidates: candidates,
		companies:  companies,
		skills:     skills,
		producer:   producer,
		log:        log,
	}
}

var invitableRoles = map[string]bool{
	models.RoleCandidate:   true,
	models.RoleRecruiter:   true,
	models.RoleInterviewer: true,
	models.RoleHR:          true,
	models.RoleReviewer:    true,
	models.RoleViewer:      true,
}

func (s *userService) Invite(ctx context.Context, recruiterUserID string, in InviteInput) (*models.User, error) {
	const op = "UserService.Invite"

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name and email are required", nil)
	}
	if !invitableRoles[in.Role] {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown role "+in.Role, nil)
	}

	recruiter, err := s.users.GetByID(ctx, recruiterUserID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load recruiter", err)
	}
	emp, err := s.users.GetEmployee(ctx, recruiterUserID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeForbidden, op, "inviter has no company", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load recruiter profile", err)
	}
	company, err := s.companies.GetByID(ctx, emp.CompanyID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load company", err)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, utils.E(utils.CodeConflict, op, "a user with this email already exists", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to check email", err)
	}

	hash, err := utils.HashPassword(randomPassword())
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Roles:        []string{in.Role},
		Status:       models.UserInvited,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to create user", err)
		}
		var msg mailer.Message
		if in.Role == models.RoleCandidate {
			msg = mailer.Message{
				To:   user.Email,
				Type: mailer.TypeAddCandidate,
				Fields: map[string]string{
					"name":          user.Name,
					"recruiterName": recruiter.Name,
					"company":       company.Name,
				},
			}
		} else {
			if err := s.users.CreateEmployee(ctx, &models.EmployeeProfile{
				UserID:    user.ID,
				CompanyID: emp.CompanyID,
				Role:      in.Role,
			}); err != nil {
				return utils.E(utils.CodeInternal, op, "failed to create employee profile", err)
			}
			msg = mailer.Message{
				To:   user.Email,
				Type: mailer.TypeProfileCreated,
				Fields: map[string]string{
					"company": company.Name,
					"role":    in.Role,
				},
			}
		}
		if err := s.producer.Enqueue(ctx, msg); err != nil {
			return utils.E(utils.CodeInternal, op, "failed to enqueue invite mail", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpsertCandidateProfile(ctx context.Context, userID string, in CandidateProfileInput) (*models.CandidateProfile, error) {
	const op = "UserService.UpsertCandidateProfile"

	if len(in.SkillIDs) > 0 {
		count, err := s.skills.CountByIDs(ctx, dedupe(in.SkillIDs))
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to validate skills", err)
		}
		if count != int64(len(dedupe(in.SkillIDs))) {
			return nil, utils.E(utils.CodeInvalidArgument, op, "one or more skill IDs do not exist", nil)
		}
	}

	p := &models.CandidateProfile{
		UserID:          userID,
		Phone:           in.Phone,
		Summary:         in.Summary,
		Location:        in.Location,
		TotalExperience: in.TotalExperience,
		CurrentCompany:  in.CurrentCompany,
		Degree:          in.Degree,
		CollegeName:     in.CollegeName,
		GraduationYear:  in.GraduationYear,
		SkillIDs:        in.SkillIDs,
	}
	p.ProfileComplete = in.Phone != "" && in.Location != "" && len(in.SkillIDs) > 0

	if err := s.candidates.Upsert(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save profile", err)
	}
	return p, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	const op = "UserService.GetByID"

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get user", err)
	}
	return u, nil
}

func (s *userService) GetEmployee(ctx context.Context, userID string) (*models.EmployeeProfile, error) {
	const op = "UserService.GetEmployee"

	emp, err := s.users.GetEmployee(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "employee profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get employee profile", err)
	}
	return emp, nil
}

func randomPassword() string {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

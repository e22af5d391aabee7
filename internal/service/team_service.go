package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/projeval/projeval-api/internal/dto"
	"github.com/projeval/projeval-api/internal/models"
	"github.com/projeval/projeval-api/internal/repository"
)

var (
	// ErrTeamNotFound indicates the team does not exist for this faculty.
	ErrTeamNotFound = errors.New("team not found")
	// ErrStudentNotFound indicates no student matches the given USN.
	ErrStudentNotFound = errors.New("student not found")
	// ErrTeamFull indicates the team already holds the maximum member count.
	ErrTeamFull = errors.New("team already has the maximum number of members")
	// ErrMemberExists indicates the student already belongs to the team.
	ErrMemberExists = errors.New("student is already in this team")
	// ErrMemberNotFound indicates the membership record does not exist.
	ErrMemberNotFound = errors.New("team member not found")
)

// TeamService manages project teams, their members and leader assignment.
type TeamService interface {
	Create(ctx context.Context, facultyID uint, payload dto.TeamCreateRequest) (dto.TeamResponse, error)
	Get(ctx context.Context, id, facultyID uint) (dto.TeamResponse, error)
	List(ctx context.Context, facultyID uint) ([]dto.TeamResponse, error)
	AddMember(ctx context.Context, teamID, facultyID uint, payload dto.AddMemberRequest) (dto.TeamResponse, error)
	RemoveMember(ctx context.Context, teamID, memberID, facultyID uint) error
	SetLeader(ctx context.Context, teamID, studentID, facultyID uint) (dto.LeaderCredentialsResponse, error)
}

type teamService struct {
	teams     repository.TeamRepository
	students  repository.StudentRepository
	projects  repository.ProjectRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTeamService constructs the team service.
func NewTeamService(teams repository.TeamRepository, students repository.StudentRepository, projects repository.ProjectRepository, validator *validator.Validate, logger zerolog.Logger) TeamService {
	return &teamService{
		teams:     teams,
		students:  students,
		projects:  projects,
		validator: validator,
		logger:    logger.With().Str("component", "team_service").Logger(),
	}
}

func (s *teamService) Create(ctx context.Context, facultyID uint, payload dto.TeamCreateRequest) (dto.TeamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeamResponse{}, err
	}

	team := models.Team{
		Name:      payload.Name,
		FacultyID: facultyID,
	}

	if err := s.teams.Create(ctx, &team); err != nil {
		return dto.TeamResponse{}, err
	}

	s.logger.Info().Uint("team_id", team.ID).Uint("faculty_id", facultyID).Msg("team created")

	return dto.NewTeamResponse(team), nil
}

func (s *teamService) Get(ctx context.Context, id, facultyID uint) (dto.TeamResponse, error) {
	team, err := s.teams.GetByID(ctx, id, facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, ErrTeamNotFound
		}
		return dto.TeamResponse{}, err
	}

	response := dto.NewTeamResponse(team)

	if project, err := s.projects.GetByTeam(ctx, team.ID); err == nil {
		lite := dto.NewProjectLite(project)
		response.Project = &lite
	}

	return response, nil
}

func (s *teamService) List(ctx context.Context, facultyID uint) ([]dto.TeamResponse, error) {
	teams, err := s.teams.ListByFaculty(ctx, facultyID)
	if err != nil {
		return nil, err
	}

	return dto.NewTeamResponseSlice(teams), nil
}

func (s *teamService) AddMember(ctx context.Context, teamID, facultyID uint, payload dto.AddMemberRequest) (dto.TeamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeamResponse{}, err
	}

	team, err := s.teams.GetByID(ctx, teamID, facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, ErrTeamNotFound
		}
		return dto.TeamResponse{}, err
	}

	count, err := s.teams.CountMembers(ctx, team.ID)
	if err != nil {
		return dto.TeamResponse{}, err
	}
	if count >= models.MaxTeamMembers {
		return dto.TeamResponse{}, ErrTeamFull
	}

	usn := strings.ToUpper(strings.TrimSpace(payload.USN))
	student, err := s.students.GetByUSN(ctx, usn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, ErrStudentNotFound
		}
		return dto.TeamResponse{}, err
	}

	if _, err := s.teams.GetMember(ctx, team.ID, student.ID); err == nil {
		return dto.TeamResponse{}, ErrMemberExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.TeamResponse{}, err
	}

	member := models.TeamMember{
		TeamID:    team.ID,
		StudentID: student.ID,
	}
	if err := s.teams.AddMember(ctx, &member); err != nil {
		return dto.TeamResponse{}, err
	}

	s.logger.Info().Uint("team_id", team.ID).Str("usn", usn).Msg("member added to team")

	return s.Get(ctx, teamID, facultyID)
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, memberID, facultyID uint) error {
	team, err := s.teams.GetByID(ctx, teamID, facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	member, err := s.teams.GetMemberByID(ctx, memberID, team.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	// Removing the leader revokes the team's leader credentials.
	if member.IsLeader {
		team.LeaderID = nil
		team.LeaderUsername = nil
		team.LeaderPasswordHash = ""
		if err := s.teams.Update(ctx, &team); err != nil {
			return err
		}
	}

	if err := s.teams.RemoveMember(ctx, &member); err != nil {
		return err
	}

	s.logger.Info().Uint("team_id", team.ID).Uint("member_id", memberID).Msg("member removed from team")

	return nil
}

func (s *teamService) SetLeader(ctx context.Context, teamID, studentID, facultyID uint) (dto.LeaderCredentialsResponse, error) {
	team, err := s.teams.GetByID(ctx, teamID, facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LeaderCredentialsResponse{}, ErrTeamNotFound
		}
		return dto.LeaderCredentialsResponse{}, err
	}

	member, err := s.teams.GetMember(ctx, team.ID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LeaderCredentialsResponse{}, ErrMemberNotFound
		}
		return dto.LeaderCredentialsResponse{}, err
	}

	username, password, err := generateLeaderCredentials()
	if err != nil {
		return dto.LeaderCredentialsResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dto.LeaderCredentialsResponse{}, fmt.Errorf("failed to hash leader password: %w", err)
	}

	member.IsLeader = true
	if err := s.teams.UpdateMember(ctx, &member); err != nil {
		return dto.LeaderCredentialsResponse{}, err
	}

	team.LeaderID = &member.StudentID
	team.LeaderUsername = &username
	team.LeaderPasswordHash = string(hash)
	if err := s.teams.Update(ctx, &team); err != nil {
		return dto.LeaderCredentialsResponse{}, err
	}

	s.logger.Info().Uint("team_id", team.ID).Uint("student_id", studentID).Msg("team leader assigned")

	return dto.LeaderCredentialsResponse{
		TeamID:   team.ID,
		Leader:   member.Student.Name,
		Username: username,
		Password: password,
	}, nil
}

const (
	usernameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

func generateLeaderCredentials() (string, string, error) {
	suffix, err := randomString(usernameAlphabet, 8)
	if err != nil {
		return "", "", err
	}

	password, err := randomString(passwordAlphabet, 12)
	if err != nil {
		return "", "", err
	}

	return "leader_" + suffix, password, nil
}

func randomString(alphabet string, length int) (string, error) {
	var builder strings.Builder
	max := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		index, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random string: %w", err)
		}
		builder.WriteByte(alphabet[index.Int64()])
	}

	return builder.String(), nil
}

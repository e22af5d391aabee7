package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/projeval/projeval-api/internal/dto"
	"github.com/projeval/projeval-api/internal/models"
	"github.com/projeval/projeval-api/internal/repository"
)

var (
	// ErrProjectNotFound indicates the project does not exist for this faculty.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidLeaderCredentials indicates the submitted leader login does not match.
	ErrInvalidLeaderCredentials = errors.New("invalid leader credentials")
	// ErrReportRequired indicates a first submission arrived without a report file.
	ErrReportRequired = errors.New("project report file is required")
	// ErrReportNotPDF indicates the uploaded report is not a PDF document.
	ErrReportNotPDF = errors.New("project report must be a PDF document")
	// ErrReportTooLarge indicates the report exceeds the configured size limit.
	ErrReportTooLarge = errors.New("project report exceeds maximum allowed size")
)

// ReportStore persists uploaded report files and returns their stored path.
type ReportStore interface {
	Save(reader io.Reader) (string, error)
	Remove(path string) error
}

// ProjectService handles leader submissions and faculty project views.
type ProjectService interface {
	Submit(ctx context.Context, payload dto.ProjectSubmitRequest, file *multipart.FileHeader) (dto.ProjectResponse, error)
	Get(ctx context.Context, id, facultyID uint) (dto.ProjectResponse, error)
}

type projectService struct {
	projects    repository.ProjectRepository
	teams       repository.TeamRepository
	evaluations repository.EvaluationRepository
	store       ReportStore
	validator   *validator.Validate
	logger      zerolog.Logger
	maxSize     int64
}

// NewProjectService constructs the project service.
func NewProjectService(projects repository.ProjectRepository, teams repository.TeamRepository, evaluations repository.EvaluationRepository, store ReportStore, maxSizeMB int, validator *validator.Validate, logger zerolog.Logger) ProjectService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &projectService{
		projects:    projects,
		teams:       teams,
		evaluations: evaluations,
		store:       store,
		validator:   validator,
		logger:      logger.With().Str("component", "project_service").Logger(),
		maxSize:     int64(maxSizeMB) * 1024 * 1024,
	}
}

// Submit creates or updates the team's project. The leader must present
// the generated credentials; the submission flips the project status to
// submitted regardless of any earlier state.
func (s *projectService) Submit(ctx context.Context, payload dto.ProjectSubmitRequest, file *multipart.FileHeader) (dto.ProjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProjectResponse{}, err
	}

	team, err := s.teams.GetByLeaderUsername(ctx, payload.LeaderUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same answer as a wrong password: no username probing.
			return dto.ProjectResponse{}, ErrInvalidLeaderCredentials
		}
		return dto.ProjectResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(team.LeaderPasswordHash), []byte(payload.LeaderPassword)) != nil {
		return dto.ProjectResponse{}, ErrInvalidLeaderCredentials
	}

	project, err := s.projects.GetByTeam(ctx, team.ID)
	created := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectResponse{}, err
		}
		if file == nil {
			return dto.ProjectResponse{}, ErrReportRequired
		}
		project = models.Project{TeamID: team.ID}
		created = true
	}

	project.Name = payload.ProjectName
	project.RepoLink = payload.RepoLink
	project.Status = models.ProjectStatusSubmitted

	if file != nil {
		path, err := s.storeReport(file)
		if err != nil {
			return dto.ProjectResponse{}, err
		}
		if project.ReportPath != "" {
			if err := s.store.Remove(project.ReportPath); err != nil {
				s.logger.Warn().Err(err).Str("path", project.ReportPath).Msg("failed to delete superseded report")
			}
		}
		project.ReportPath = path
	}

	if created {
		err = s.projects.Create(ctx, &project)
	} else {
		err = s.projects.Update(ctx, &project)
	}
	if err != nil {
		return dto.ProjectResponse{}, err
	}

	s.logger.Info().
		Uint("project_id", project.ID).
		Uint("team_id", team.ID).
		Bool("created", created).
		Msg("project submitted")

	project.Team = team

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) Get(ctx context.Context, id, facultyID uint) (dto.ProjectResponse, error) {
	project, err := s.projects.GetByIDForFaculty(ctx, id, facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProjectResponse{}, ErrProjectNotFound
		}
		return dto.ProjectResponse{}, err
	}

	response := dto.NewProjectResponse(project)

	if evaluation, err := s.evaluations.GetByProject(ctx, project.ID); err == nil {
		evaluationResponse := dto.NewEvaluationResponse(evaluation)
		response.Evaluation = &evaluationResponse
	}

	return response, nil
}

func (s *projectService) storeReport(file *multipart.FileHeader) (string, error) {
	if file.Size > s.maxSize {
		return "", ErrReportTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		return "", err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		return "", err
	}
	if int64(buf.Len()) > s.maxSize {
		return "", ErrReportTooLarge
	}

	if !mimetype.Detect(buf.Bytes()).Is("application/pdf") {
		return "", ErrReportNotPDF
	}

	return s.store.Save(buf)
}

package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/projeval/projeval-api/internal/dto"
	"github.com/projeval/projeval-api/internal/models"
)

var pdfStub = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF")

func newTestFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("report", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(int64(len(content))+1024))
	files := req.MultipartForm.File["report"]
	require.Len(t, files, 1)
	return files[0]
}

type projectFixture struct {
	service     ProjectService
	projects    *memoryProjectRepo
	teams       *memoryTeamRepo
	evaluations *memoryEvaluationRepo
	store       *stubReportStore
	password    string
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()

	students := newMemoryStudentRepo(models.Student{ID: 1, USN: "1AB21CS001", Name: "Asha", Email: "asha@example.com"})
	teams := newMemoryTeamRepo(students)
	projects := newMemoryProjectRepo(teams)
	evaluations := newMemoryEvaluationRepo()
	store := &stubReportStore{path: "/reports/report_abc.pdf"}

	password := "Secret123xyz"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	username := "leader_asha01"
	leaderID := uint(1)
	require.NoError(t, teams.Create(context.Background(), &models.Team{
		Name:               "Alpha",
		FacultyID:          7,
		LeaderID:           &leaderID,
		LeaderUsername:     &username,
		LeaderPasswordHash: string(hash),
	}))
	require.NoError(t, teams.AddMember(context.Background(), &models.TeamMember{TeamID: 1, StudentID: 1, IsLeader: true}))

	return &projectFixture{
		service:     NewProjectService(projects, teams, evaluations, store, 10, validator.New(), zerolog.Nop()),
		projects:    projects,
		teams:       teams,
		evaluations: evaluations,
		store:       store,
		password:    password,
	}
}

func (fx *projectFixture) submitRequest() dto.ProjectSubmitRequest {
	return dto.ProjectSubmitRequest{
		LeaderUsername: "leader_asha01",
		LeaderPassword: fx.password,
		ProjectName:    "Tiny Compiler",
		RepoLink:       "https://github.com/alpha/tiny-compiler",
	}
}

func TestProjectSubmitCreates(t *testing.T) {
	fx := newProjectFixture(t)

	response, err := fx.service.Submit(context.Background(), fx.submitRequest(), newTestFileHeader(t, "report.pdf", pdfStub))
	require.NoError(t, err)

	require.Equal(t, "Tiny Compiler", response.Name)
	require.Equal(t, models.ProjectStatusSubmitted, response.Status)
	require.Equal(t, "Alpha", response.TeamName)
	require.Equal(t, 1, fx.store.saves)
	require.Equal(t, "/reports/report_abc.pdf", fx.projects.projects[1].ReportPath)
}

func TestProjectSubmitResubmissionKeepsExistingReport(t *testing.T) {
	fx := newProjectFixture(t)

	_, err := fx.service.Submit(context.Background(), fx.submitRequest(), newTestFileHeader(t, "report.pdf", pdfStub))
	require.NoError(t, err)

	payload := fx.submitRequest()
	payload.ProjectName = "Tiny Compiler v2"
	response, err := fx.service.Submit(context.Background(), payload, nil)
	require.NoError(t, err)

	require.Equal(t, "Tiny Compiler v2", response.Name)
	require.Equal(t, 1, fx.store.saves)
	require.Equal(t, "/reports/report_abc.pdf", fx.projects.projects[1].ReportPath)
	require.Len(t, fx.projects.projects, 1)
}

func TestProjectSubmitReplacementDeletesOldReport(t *testing.T) {
	fx := newProjectFixture(t)

	_, err := fx.service.Submit(context.Background(), fx.submitRequest(), newTestFileHeader(t, "report.pdf", pdfStub))
	require.NoError(t, err)

	_, err = fx.service.Submit(context.Background(), fx.submitRequest(), newTestFileHeader(t, "report-v2.pdf", pdfStub))
	require.NoError(t, err)

	require.Equal(t, 2, fx.store.saves)
	require.Equal(t, []string{"/reports/report_abc.pdf"}, fx.store.removed)
}

func TestProjectSubmitRequiresReportOnFirstSubmission(t *testing.T) {
	fx := newProjectFixture(t)

	_, err := fx.service.Submit(context.Background(), fx.submitRequest(), nil)
	require.ErrorIs(t, err, ErrReportRequired)
	require.Empty(t, fx.projects.projects)
}

func TestProjectSubmitRejectsBadCredentials(t *testing.T) {
	fx := newProjectFixture(t)

	payload := fx.submitRequest()
	payload.LeaderPassword = "wrong"
	_, err := fx.service.Submit(context.Background(), payload, newTestFileHeader(t, "report.pdf", pdfStub))
	require.ErrorIs(t, err, ErrInvalidLeaderCredentials)

	payload = fx.submitRequest()
	payload.LeaderUsername = "leader_nobody"
	_, err = fx.service.Submit(context.Background(), payload, newTestFileHeader(t, "report.pdf", pdfStub))
	require.ErrorIs(t, err, ErrInvalidLeaderCredentials)

	require.Equal(t, 0, fx.store.saves)
}

func TestProjectSubmitRejectsNonPDF(t *testing.T) {
	fx := newProjectFixture(t)

	_, err := fx.service.Submit(context.Background(), fx.submitRequest(), newTestFileHeader(t, "report.docx", []byte("PK\x03\x04 not a pdf")))
	require.ErrorIs(t, err, ErrReportNotPDF)
	require.Equal(t, 0, fx.store.saves)
}

func TestProjectSubmitRejectsOversizedReport(t *testing.T) {
	fx := newProjectFixture(t)
	svc := NewProjectService(fx.projects, fx.teams, fx.evaluations, fx.store, 1, validator.New(), zerolog.Nop())

	big := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), 2*1024*1024)...)
	_, err := svc.Submit(context.Background(), fx.submitRequest(), newTestFileHeader(t, "report.pdf", big))
	require.ErrorIs(t, err, ErrReportTooLarge)
}

func TestProjectSubmitValidatesRepoLink(t *testing.T) {
	fx := newProjectFixture(t)

	payload := fx.submitRequest()
	payload.RepoLink = "not-a-url"
	_, err := fx.service.Submit(context.Background(), payload, newTestFileHeader(t, "report.pdf", pdfStub))
	require.Error(t, err)
}

func TestProjectGetAttachesEvaluation(t *testing.T) {
	fx := newProjectFixture(t)

	_, err := fx.service.Submit(context.Background(), fx.submitRequest(), newTestFileHeader(t, "report.pdf", pdfStub))
	require.NoError(t, err)

	score := 82.5
	require.NoError(t, fx.evaluations.Create(context.Background(), &models.Evaluation{
		ProjectID: 1,
		FacultyID: 7,
		Criteria:  []byte(`[{"name":"Implementation","description":"","max_marks":30}]`),
		AIScore:   &score,
	}))

	project, err := fx.service.Get(context.Background(), 1, 7)
	require.NoError(t, err)
	require.NotNil(t, project.Evaluation)
	require.InDelta(t, 82.5, *project.Evaluation.AIScore, 0.001)
	require.Len(t, project.Evaluation.Criteria, 1)

	_, err = fx.service.Get(context.Background(), 1, 8)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/projeval/projeval-api/internal/models"
	"github.com/projeval/projeval-api/internal/repository"
)

type memoryCriteriaRepo struct {
	criteria map[uint]models.Criterion
	nextID   uint
}

func newMemoryCriteriaRepo() *memoryCriteriaRepo {
	return &memoryCriteriaRepo{criteria: make(map[uint]models.Criterion), nextID: 1}
}

func (m *memoryCriteriaRepo) ListByFaculty(_ context.Context, facultyID uint) ([]models.Criterion, error) {
	results := make([]models.Criterion, 0, len(m.criteria))
	for _, criterion := range m.criteria {
		if criterion.FacultyID == facultyID {
			results = append(results, criterion)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryCriteriaRepo) GetByID(_ context.Context, id, facultyID uint) (models.Criterion, error) {
	criterion, ok := m.criteria[id]
	if !ok || criterion.FacultyID != facultyID {
		return models.Criterion{}, gorm.ErrRecordNotFound
	}
	return criterion, nil
}

func (m *memoryCriteriaRepo) Create(_ context.Context, criterion *models.Criterion) error {
	criterion.ID = m.nextID
	criterion.CreatedAt = time.Now()
	criterion.UpdatedAt = time.Now()
	m.criteria[m.nextID] = *criterion
	m.nextID++
	return nil
}

func (m *memoryCriteriaRepo) Update(_ context.Context, criterion *models.Criterion) error {
	if _, ok := m.criteria[criterion.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	criterion.UpdatedAt = time.Now()
	m.criteria[criterion.ID] = *criterion
	return nil
}

func (m *memoryCriteriaRepo) Delete(_ context.Context, criterion *models.Criterion) error {
	if _, ok := m.criteria[criterion.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.criteria, criterion.ID)
	return nil
}

type memoryStudentRepo struct {
	students map[uint]models.Student
}

func newMemoryStudentRepo(students ...models.Student) *memoryStudentRepo {
	repo := &memoryStudentRepo{students: make(map[uint]models.Student)}
	for _, student := range students {
		repo.students[student.ID] = student
	}
	return repo
}

func (m *memoryStudentRepo) GetByID(_ context.Context, id uint) (models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (m *memoryStudentRepo) GetByUSN(_ context.Context, usn string) (models.Student, error) {
	for _, student := range m.students {
		if strings.EqualFold(student.USN, usn) {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

type memoryTeamRepo struct {
	teams        map[uint]models.Team
	members      map[uint]models.TeamMember
	students     *memoryStudentRepo
	nextTeamID   uint
	nextMemberID uint
}

func newMemoryTeamRepo(students *memoryStudentRepo) *memoryTeamRepo {
	return &memoryTeamRepo{
		teams:        make(map[uint]models.Team),
		members:      make(map[uint]models.TeamMember),
		students:     students,
		nextTeamID:   1,
		nextMemberID: 1,
	}
}

func (m *memoryTeamRepo) hydrate(team models.Team) models.Team {
	team.Members = nil
	memberIDs := make([]uint, 0, len(m.members))
	for id, member := range m.members {
		if member.TeamID == team.ID {
			memberIDs = append(memberIDs, id)
		}
	}
	sort.Slice(memberIDs, func(i, j int) bool { return memberIDs[i] < memberIDs[j] })
	for _, id := range memberIDs {
		member := m.members[id]
		if student, ok := m.students.students[member.StudentID]; ok {
			member.Student = student
		}
		team.Members = append(team.Members, member)
	}
	if team.LeaderID != nil {
		if student, ok := m.students.students[*team.LeaderID]; ok {
			team.Leader = &student
		}
	}
	return team
}

func (m *memoryTeamRepo) Create(_ context.Context, team *models.Team) error {
	team.ID = m.nextTeamID
	team.CreatedAt = time.Now()
	team.UpdatedAt = time.Now()
	m.teams[m.nextTeamID] = *team
	m.nextTeamID++
	return nil
}

func (m *memoryTeamRepo) GetByID(_ context.Context, id, facultyID uint) (models.Team, error) {
	team, ok := m.teams[id]
	if !ok || team.FacultyID != facultyID {
		return models.Team{}, gorm.ErrRecordNotFound
	}
	return m.hydrate(team), nil
}

func (m *memoryTeamRepo) GetByLeaderUsername(_ context.Context, username string) (models.Team, error) {
	for _, team := range m.teams {
		if team.LeaderUsername != nil && *team.LeaderUsername == username {
			return m.hydrate(team), nil
		}
	}
	return models.Team{}, gorm.ErrRecordNotFound
}

func (m *memoryTeamRepo) Update(_ context.Context, team *models.Team) error {
	if _, ok := m.teams[team.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	team.UpdatedAt = time.Now()
	stored := *team
	stored.Members = nil
	stored.Leader = nil
	m.teams[team.ID] = stored
	return nil
}

func (m *memoryTeamRepo) ListByFaculty(_ context.Context, facultyID uint) ([]models.Team, error) {
	results := make([]models.Team, 0, len(m.teams))
	for _, team := range m.teams {
		if team.FacultyID == facultyID {
			results = append(results, m.hydrate(team))
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryTeamRepo) CountMembers(_ context.Context, teamID uint) (int64, error) {
	var count int64
	for _, member := range m.members {
		if member.TeamID == teamID {
			count++
		}
	}
	return count, nil
}

func (m *memoryTeamRepo) GetMember(_ context.Context, teamID, studentID uint) (models.TeamMember, error) {
	for _, member := range m.members {
		if member.TeamID == teamID && member.StudentID == studentID {
			if student, ok := m.students.students[member.StudentID]; ok {
				member.Student = student
			}
			return member, nil
		}
	}
	return models.TeamMember{}, gorm.ErrRecordNotFound
}

func (m *memoryTeamRepo) GetMemberByID(_ context.Context, memberID, teamID uint) (models.TeamMember, error) {
	member, ok := m.members[memberID]
	if !ok || member.TeamID != teamID {
		return models.TeamMember{}, gorm.ErrRecordNotFound
	}
	if student, ok := m.students.students[member.StudentID]; ok {
		member.Student = student
	}
	return member, nil
}

func (m *memoryTeamRepo) AddMember(_ context.Context, member *models.TeamMember) error {
	member.ID = m.nextMemberID
	member.AddedAt = time.Now()
	stored := *member
	stored.Student = models.Student{}
	m.members[m.nextMemberID] = stored
	m.nextMemberID++
	return nil
}

func (m *memoryTeamRepo) UpdateMember(_ context.Context, member *models.TeamMember) error {
	if _, ok := m.members[member.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *member
	stored.Student = models.Student{}
	m.members[member.ID] = stored
	return nil
}

func (m *memoryTeamRepo) RemoveMember(_ context.Context, member *models.TeamMember) error {
	if _, ok := m.members[member.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.members, member.ID)
	return nil
}

type memoryProjectRepo struct {
	projects      map[uint]models.Project
	teams         *memoryTeamRepo
	nextID        uint
	statusUpdates []string
}

func newMemoryProjectRepo(teams *memoryTeamRepo) *memoryProjectRepo {
	return &memoryProjectRepo{projects: make(map[uint]models.Project), teams: teams, nextID: 1}
}

func (m *memoryProjectRepo) hydrate(project models.Project) models.Project {
	if team, ok := m.teams.teams[project.TeamID]; ok {
		project.Team = m.teams.hydrate(team)
	}
	return project
}

func (m *memoryProjectRepo) GetByIDForFaculty(_ context.Context, id, facultyID uint) (models.Project, error) {
	project, ok := m.projects[id]
	if !ok {
		return models.Project{}, gorm.ErrRecordNotFound
	}
	team, ok := m.teams.teams[project.TeamID]
	if !ok || team.FacultyID != facultyID {
		return models.Project{}, gorm.ErrRecordNotFound
	}
	return m.hydrate(project), nil
}

func (m *memoryProjectRepo) GetByTeam(_ context.Context, teamID uint) (models.Project, error) {
	for _, project := range m.projects {
		if project.TeamID == teamID {
			return m.hydrate(project), nil
		}
	}
	return models.Project{}, gorm.ErrRecordNotFound
}

func (m *memoryProjectRepo) Create(_ context.Context, project *models.Project) error {
	project.ID = m.nextID
	project.SubmittedAt = time.Now()
	project.UpdatedAt = time.Now()
	stored := *project
	stored.Team = models.Team{}
	m.projects[m.nextID] = stored
	m.nextID++
	return nil
}

func (m *memoryProjectRepo) Update(_ context.Context, project *models.Project) error {
	if _, ok := m.projects[project.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	project.UpdatedAt = time.Now()
	stored := *project
	stored.Team = models.Team{}
	m.projects[project.ID] = stored
	return nil
}

func (m *memoryProjectRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	project, ok := m.projects[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	project.Status = status
	m.projects[id] = project
	m.statusUpdates = append(m.statusUpdates, status)
	return nil
}

type memoryEvaluationRepo struct {
	evaluations map[uint]models.Evaluation
	nextID      uint
	staleWrites int
	writes      int
}

func newMemoryEvaluationRepo() *memoryEvaluationRepo {
	return &memoryEvaluationRepo{evaluations: make(map[uint]models.Evaluation), nextID: 1}
}

func (m *memoryEvaluationRepo) GetByProject(_ context.Context, projectID uint) (models.Evaluation, error) {
	for _, evaluation := range m.evaluations {
		if evaluation.ProjectID == projectID {
			return evaluation, nil
		}
	}
	return models.Evaluation{}, gorm.ErrRecordNotFound
}

func (m *memoryEvaluationRepo) Create(_ context.Context, evaluation *models.Evaluation) error {
	evaluation.ID = m.nextID
	evaluation.CreatedAt = time.Now()
	evaluation.UpdatedAt = time.Now()
	m.evaluations[m.nextID] = *evaluation
	m.nextID++
	return nil
}

func (m *memoryEvaluationRepo) UpdateScores(_ context.Context, evaluation *models.Evaluation) error {
	stored, ok := m.evaluations[evaluation.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if m.staleWrites > 0 {
		m.staleWrites--
		return repository.ErrStaleEvaluation
	}
	if stored.Version != evaluation.Version {
		return repository.ErrStaleEvaluation
	}
	updated := *evaluation
	updated.Version = stored.Version + 1
	updated.UpdatedAt = time.Now()
	m.evaluations[evaluation.ID] = updated
	evaluation.Version = updated.Version
	m.writes++
	return nil
}

type fakeExtractor struct {
	text  string
	paths []string
}

func (f *fakeExtractor) ExtractText(path string) string {
	f.paths = append(f.paths, path)
	return f.text
}

type fakeEvaluator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeEvaluator) Evaluate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type stubReportStore struct {
	saves   int
	path    string
	removed []string
}

func (s *stubReportStore) Save(reader io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	s.saves++
	return s.path, nil
}

func (s *stubReportStore) Remove(path string) error {
	s.removed = append(s.removed, path)
	return nil
}

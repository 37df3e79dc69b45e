package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/projman/internal/db"
	"github.com/alexanderramin/projman/internal/domain"
	"github.com/alexanderramin/projman/internal/repository"
	"github.com/alexanderramin/projman/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	db          *sql.DB
	uow         db.UnitOfWork
	projects    ProjectService
	subs        SubProcessService
	people      PersonnelService
	assignments AssignmentService
	exchange    ExchangeService
}

func setupServices(t *testing.T, observers ...UseCaseObserver) *testServices {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	return &testServices{
		db:          database,
		uow:         uow,
		projects:    NewProjectService(repository.NewSQLiteProjectRepo(database), uow, observers...),
		subs:        NewSubProcessService(repository.NewSQLiteSubProcessRepo(database), uow, observers...),
		people:      NewPersonnelService(repository.NewSQLitePersonRepo(database), uow, observers...),
		assignments: NewAssignmentService(repository.NewSQLiteAssignmentRepo(database), uow, observers...),
		exchange:    NewExchangeService(uow, ExchangeOptions{Backup: true}, observers...),
	}
}

func (s *testServices) addProject(t *testing.T, name string, status domain.Status) *domain.Project {
	t.Helper()
	p, err := s.projects.Add(context.Background(), ProjectFields{Name: name, Status: status})
	require.NoError(t, err)
	return p
}

func (s *testServices) addPeople(t *testing.T, names ...string) {
	t.Helper()
	for _, n := range names {
		_, err := s.people.Add(context.Background(), n)
		require.NoError(t, err)
	}
}

func (s *testServices) assign(t *testing.T, owner domain.AssignmentOwner, pairs ...string) {
	t.Helper()
	for i := 0; i+1 < len(pairs); i += 2 {
		_, err := s.assignments.Add(context.Background(), owner, pairs[i], pairs[i+1])
		require.NoError(t, err)
	}
}

func (s *testServices) pairs(t *testing.T, owner domain.AssignmentOwner) []string {
	t.Helper()
	as, err := s.assignments.List(context.Background(), owner)
	require.NoError(t, err)
	return testutil.Pairs(as)
}

func names(ps []*domain.Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func (s *testServices) active(t *testing.T) []string {
	t.Helper()
	ps, err := s.projects.ListActive(context.Background())
	require.NoError(t, err)
	return names(ps)
}

func (s *testServices) completed(t *testing.T) []string {
	t.Helper()
	ps, err := s.projects.ListCompleted(context.Background())
	require.NoError(t, err)
	return names(ps)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/projman/internal/domain"
	"github.com/alexanderramin/projman/internal/repository"
	"github.com/alexanderramin/projman/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonnelService_AddAndList(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	name, err := s.people.Add(ctx, "  Bob ")
	require.NoError(t, err)
	assert.Equal(t, "Bob", name)
	s.addPeople(t, "Alice")

	_, err = s.people.Add(ctx, "Bob")
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	_, err = s.people.Add(ctx, "")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	list, err := s.people.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, list)
}

func TestPersonnelService_RemoveCascades(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	s.addPeople(t, "Alice", "Bob")
	p := s.addProject(t, "Apollo", domain.StatusInProgress)
	done := s.addProject(t, "Mercury", domain.StatusCompleted)
	sp, err := s.subs.Add(ctx, done.ID, SubProcessFields{Name: "Wrap", Status: domain.StatusCompleted})
	require.NoError(t, err)

	po := domain.ProjectOwner(p.ID)
	so := domain.SubProcessOwner(sp.ID)
	s.assign(t, po, "Alice", "Lead", "Bob", "Dev")
	s.assign(t, so, "Alice", "QA")

	res, err := s.people.Remove(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Removed)
	assert.ElementsMatch(t, []domain.AssignmentOwner{po, so}, res.Affected)

	assert.Equal(t, []string{"Bob", "Dev"}, s.pairs(t, po))
	assert.Empty(t, s.pairs(t, so))
	list, err := s.people.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob"}, list)

	_, err = s.people.Remove(ctx, "Alice")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPersonnelService_RenameCascades(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	s.addPeople(t, "Alice", "Bob")
	p := s.addProject(t, "Apollo", domain.StatusInProgress)
	sp, err := s.subs.Add(ctx, p.ID, SubProcessFields{Name: "Build", Status: domain.StatusInProgress})
	require.NoError(t, err)
	po := domain.ProjectOwner(p.ID)
	so := domain.SubProcessOwner(sp.ID)
	s.assign(t, po, "Bob", "Dev", "Alice", "Lead")
	s.assign(t, so, "Bob", "QA")

	res, err := s.people.Rename(ctx, "Bob", "Robert")
	require.NoError(t, err)
	assert.Equal(t, "Robert", res.NewName)
	assert.Len(t, res.Affected, 2)

	assert.Equal(t, []string{"Robert", "Dev", "Alice", "Lead"}, s.pairs(t, po), "position and role preserved")
	assert.Equal(t, []string{"Robert", "QA"}, s.pairs(t, so))
	list, err := s.people.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Robert"}, list)
}

func TestPersonnelService_RenameToExistingFailsWithoutChanges(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	s.addPeople(t, "Alice", "Bob")
	p := s.addProject(t, "Apollo", domain.StatusInProgress)
	po := domain.ProjectOwner(p.ID)
	s.assign(t, po, "Bob", "Dev")

	_, err := s.people.Rename(ctx, "Bob", "Alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	assert.Equal(t, []string{"Bob", "Dev"}, s.pairs(t, po))
	list, err := s.people.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, list)
}

func TestPersonnelService_RenameEdgeCases(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	s.addPeople(t, "Alice")

	res, err := s.people.Rename(ctx, "Alice", " Alice ")
	require.NoError(t, err, "renaming to the same name is a no-op")
	assert.Empty(t, res.Affected)

	_, err = s.people.Rename(ctx, "Nobody", "Somebody")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = s.people.Rename(ctx, "Alice", "  ")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestPersonnelService_RenameRollsBackOnCascadeFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	uow := testutil.NewTestUoW(database)
	people := NewPersonnelService(repository.NewSQLitePersonRepo(database), uow)
	projects := NewProjectService(repository.NewSQLiteProjectRepo(database), uow)
	assignments := NewAssignmentService(repository.NewSQLiteAssignmentRepo(database), uow)

	_, err := people.Add(ctx, "Bob")
	require.NoError(t, err)
	p, err := projects.Add(ctx, ProjectFields{Name: "Apollo", Status: domain.StatusPaused})
	require.NoError(t, err)
	_, err = assignments.Add(ctx, domain.ProjectOwner(p.ID), "Bob", "Dev")
	require.NoError(t, err)

	// Exec #1 renames the person, #2 rewrites the assignments.
	failing := NewPersonnelService(repository.NewSQLitePersonRepo(database), &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 2,
		Err:    fmt.Errorf("injected cascade failure"),
	})
	_, err = failing.Rename(ctx, "Bob", "Robert")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected cascade failure")

	list, err := people.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob"}, list, "person rename rolled back")
	as, err := assignments.List(ctx, domain.ProjectOwner(p.ID))
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "Dev"}, testutil.Pairs(as))
}

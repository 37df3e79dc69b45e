package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/projman/internal/domain"
	"github.com/alexanderramin/projman/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cascadeFixture struct {
	people      *SQLitePersonRepo
	projects    *SQLiteProjectRepo
	subs        *SQLiteSubProcessRepo
	assignments *SQLiteAssignmentRepo
	project     *domain.Project
	sub         *domain.SubProcess
}

func newCascadeFixture(t *testing.T) *cascadeFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	f := &cascadeFixture{
		people:      NewSQLitePersonRepo(db),
		projects:    NewSQLiteProjectRepo(db),
		subs:        NewSQLiteSubProcessRepo(db),
		assignments: NewSQLiteAssignmentRepo(db),
	}
	for _, name := range []string{"Alice", "Bob"} {
		require.NoError(t, f.people.Add(ctx, name))
	}
	f.project = testutil.NewTestProject("Apollo")
	require.NoError(t, f.projects.Create(ctx, f.project))
	f.sub = testutil.NewTestSubProcess("Design")
	f.sub.ProjectID = f.project.ID
	require.NoError(t, f.subs.Create(ctx, f.sub))
	return f
}

func (f *cascadeFixture) assign(t *testing.T, owner domain.AssignmentOwner, person, role string) {
	t.Helper()
	a := &domain.Assignment{ID: uuid.New().String(), Person: person, Role: role}
	require.NoError(t, f.assignments.Append(context.Background(), owner, a))
}

func (f *cascadeFixture) list(t *testing.T, owner domain.AssignmentOwner) []string {
	t.Helper()
	as, err := f.assignments.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	return testutil.Pairs(as)
}

func TestAssignmentRepo_AppendKeepsInsertionOrderAndDuplicates(t *testing.T) {
	f := newCascadeFixture(t)
	owner := domain.ProjectOwner(f.project.ID)

	f.assign(t, owner, "Bob", "Dev")
	f.assign(t, owner, "Alice", "Lead")
	f.assign(t, owner, "Bob", "QA")

	assert.Equal(t, []string{"Bob", "Dev", "Alice", "Lead", "Bob", "QA"}, f.list(t, owner))
	assert.Empty(t, f.list(t, domain.SubProcessOwner(f.sub.ID)), "lists are scoped to their owner")
}

func TestAssignmentRepo_UpdateInPlace(t *testing.T) {
	f := newCascadeFixture(t)
	ctx := context.Background()
	owner := domain.SubProcessOwner(f.sub.ID)
	f.assign(t, owner, "Alice", "Lead")
	f.assign(t, owner, "Bob", "Dev")

	as, err := f.assignments.ListByOwner(ctx, owner)
	require.NoError(t, err)
	as[0].Person, as[0].Role = "Bob", "Reviewer"
	require.NoError(t, f.assignments.Update(ctx, as[0]))

	assert.Equal(t, []string{"Bob", "Reviewer", "Bob", "Dev"}, f.list(t, owner))
}

func TestAssignmentRepo_RenamePersonAcrossOwners(t *testing.T) {
	f := newCascadeFixture(t)
	ctx := context.Background()
	po := domain.ProjectOwner(f.project.ID)
	so := domain.SubProcessOwner(f.sub.ID)
	f.assign(t, po, "Alice", "Lead")
	f.assign(t, po, "Bob", "Dev")
	f.assign(t, so, "Bob", "QA")

	owners, err := f.assignments.RenamePerson(ctx, "Bob", "Robert")
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.AssignmentOwner{po, so}, owners)

	assert.Equal(t, []string{"Alice", "Lead", "Robert", "Dev"}, f.list(t, po))
	assert.Equal(t, []string{"Robert", "QA"}, f.list(t, so))
}

func TestAssignmentRepo_DeleteOrphansSweepsEverything(t *testing.T) {
	f := newCascadeFixture(t)
	ctx := context.Background()
	po := domain.ProjectOwner(f.project.ID)
	so := domain.SubProcessOwner(f.sub.ID)
	f.assign(t, po, "Alice", "Lead")
	f.assign(t, po, "Bob", "Dev")
	f.assign(t, so, "Ghost", "Left earlier")

	require.NoError(t, f.people.Delete(ctx, "Alice"))
	owners, removed, err := f.assignments.DeleteOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed, "Alice and the older Ghost orphan both go")
	assert.ElementsMatch(t, []domain.AssignmentOwner{po, so}, owners)

	assert.Equal(t, []string{"Bob", "Dev"}, f.list(t, po))
	assert.Empty(t, f.list(t, so))
}

func TestCascadeDelete_SubProcessToAssignments(t *testing.T) {
	f := newCascadeFixture(t)
	so := domain.SubProcessOwner(f.sub.ID)
	f.assign(t, so, "Alice", "Lead")

	require.NoError(t, f.subs.Delete(context.Background(), f.sub.ID))
	assert.Empty(t, f.list(t, so))
}

func TestCascadeDelete_ProjectToSubProcesses(t *testing.T) {
	f := newCascadeFixture(t)
	ctx := context.Background()

	require.NoError(t, f.projects.Delete(ctx, f.project.ID))
	_, err := f.subs.GetByID(ctx, f.sub.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "sub-process should be cascade-deleted with its project")
}

func TestPersonRepo_DuplicateAndRename(t *testing.T) {
	f := newCascadeFixture(t)
	ctx := context.Background()

	err := f.people.Add(ctx, "Alice")
	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Alice", dup.Name)

	err = f.people.Rename(ctx, "Alice", "Bob")
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	require.NoError(t, f.people.Rename(ctx, "Alice", "Alicia"))
	names, err := f.people.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alicia", "Bob"}, names)

	err = f.people.Rename(ctx, "Nobody", "Somebody")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPersonRepo_ListIsByteOrdered(t *testing.T) {
	f := newCascadeFixture(t)
	ctx := context.Background()
	require.NoError(t, f.people.Add(ctx, "adam"))
	require.NoError(t, f.people.Add(ctx, "Zed"))

	names, err := f.people.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Zed", "adam"}, names)

	n, err := f.people.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestStoreRepo_Clear(t *testing.T) {
	f := newCascadeFixture(t)
	ctx := context.Background()
	f.assign(t, domain.ProjectOwner(f.project.ID), "Alice", "Lead")

	require.NoError(t, NewSQLiteStoreRepo(f.people.db).Clear(ctx))

	n, err := f.people.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	active, err := f.projects.List(ctx, domain.CollectionActive)
	require.NoError(t, err)
	assert.Empty(t, active)
}

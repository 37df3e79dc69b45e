package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/projman/internal/domain"
	"github.com/alexanderramin/projman/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "PERSON,Alice\r\n" +
	"PERSON,Bob\r\n" +
	"PROJECT,Apollo,In Progress,Jan,Jun\r\n" +
	"PPERSONNEL,Apollo,Alice,Lead\r\n" +
	"SUBPROCESS,Apollo,Design,Completed,,\r\n" +
	"SPERSONNEL,Apollo,Design,Bob,Dev\r\n" +
	"PROJECT,Gemini,Paused,,\r\n" +
	"PROJECT,Mercury,Completed,,\r\n" +
	"PPERSONNEL,Mercury,Bob,Owner\r\n"

func seed(t *testing.T, s *testServices) {
	t.Helper()
	_, err := s.exchange.Import(context.Background(), strings.NewReader(sampleCSV))
	require.NoError(t, err)
}

func TestExchangeService_ImportPopulatesSession(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	res, err := s.exchange.Import(ctx, strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, res.People)
	assert.Equal(t, 2, res.Active)
	assert.Equal(t, 1, res.Completed)
	assert.Equal(t, 1, res.SubProcesses)
	assert.Equal(t, 3, res.Assignments)

	assert.Equal(t, []string{"Apollo", "Gemini"}, s.active(t))
	assert.Equal(t, []string{"Mercury"}, s.completed(t))

	found, err := s.projects.FindByName(ctx, "Apollo")
	require.NoError(t, err)
	apollo, err := s.projects.Get(ctx, found[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Jan", apollo.StartDate)
	assert.Equal(t, []string{"Alice", "Lead"}, testutil.Pairs(apollo.Assignments))
	require.Len(t, apollo.SubProcesses, 1)
	assert.Equal(t, []string{"Bob", "Dev"}, testutil.Pairs(apollo.SubProcesses[0].Assignments))
}

func TestExchangeService_ExportImportRoundTrip(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	seed(t, s)

	// Reorder and mutate so the export reflects session state, not the input.
	_, err := s.projects.MoveDown(ctx, 0)
	require.NoError(t, err)

	var first bytes.Buffer
	require.NoError(t, s.exchange.Export(ctx, &first))
	assert.True(t, strings.Index(first.String(), "PROJECT,Gemini") < strings.Index(first.String(), "PROJECT,Apollo"))

	other := setupServices(t)
	_, err = other.exchange.Import(ctx, bytes.NewReader(first.Bytes()))
	require.NoError(t, err)

	var second bytes.Buffer
	require.NoError(t, other.exchange.Export(ctx, &second))
	assert.Equal(t, first.String(), second.String())
}

func TestExchangeService_RoundTripWithCarriageReturns(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	s.addPeople(t, "Alice")
	p, err := s.projects.Add(ctx, ProjectFields{Name: "Apo\rllo", Status: domain.StatusPaused, StartDate: "Jan\r\nFeb"})
	require.NoError(t, err)
	assert.Equal(t, "Apo\nllo", p.Name)
	owner := domain.ProjectOwner(p.ID)
	s.assign(t, owner, "Alice", "line1\r\nline2")
	assert.Equal(t, []string{"Alice", "line1\nline2"}, s.pairs(t, owner))

	var first bytes.Buffer
	require.NoError(t, s.exchange.Export(ctx, &first))

	other := setupServices(t)
	_, err = other.exchange.Import(ctx, bytes.NewReader(first.Bytes()))
	require.NoError(t, err)
	found, err := other.projects.FindByName(ctx, "Apo\nllo")
	require.NoError(t, err)
	require.Len(t, found, 1)
	got, err := other.projects.Get(ctx, found[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Jan\nFeb", got.StartDate)
	assert.Equal(t, []string{"Alice", "line1\nline2"}, testutil.Pairs(got.Assignments))

	var second bytes.Buffer
	require.NoError(t, other.exchange.Export(ctx, &second))
	assert.Equal(t, first.String(), second.String())
}

func TestExchangeService_ImportReplacesExistingState(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	s.addPeople(t, "Zed")
	s.addProject(t, "Old", domain.StatusPaused)

	seed(t, s)

	list, err := s.people.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, list)
	assert.Equal(t, []string{"Apollo", "Gemini"}, s.active(t))
}

func TestExchangeService_MalformedImportLeavesStateUnchanged(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	seed(t, s)

	bad := "PERSON,Carol\nPROJECT,Broken,Not Started\n"
	_, err := s.exchange.Import(ctx, strings.NewReader(bad))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrParse))
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "PROJECT")

	list, err := s.people.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, list)
	assert.Equal(t, []string{"Apollo", "Gemini"}, s.active(t))
}

func TestExchangeService_StoreFailureRollsBackImport(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	seed(t, s)

	// Execs #1-#4 clear the store; #6 is the second person insert.
	failing := NewExchangeService(&testutil.FailOnNthExecUoW{
		DB:     s.db,
		FailOn: 6,
		Err:    fmt.Errorf("injected insert failure"),
	}, ExchangeOptions{})

	_, err := failing.Import(ctx, strings.NewReader("PERSON,Carol\nPERSON,Dave\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected insert failure")

	list, err := s.people.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, list)
	assert.Equal(t, []string{"Mercury"}, s.completed(t))
}

func TestExchangeService_ExportFile(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	seed(t, s)
	dir := t.TempDir()

	path, err := s.exchange.ExportFile(ctx, filepath.Join(dir, "plans"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "plans.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(content))

	s.addPeople(t, "Carol")
	_, err = s.exchange.ExportFile(ctx, path)
	require.NoError(t, err)

	bak, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(bak))

	other := setupServices(t)
	res, err := other.exchange.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 3, res.People)
}

func TestExchangeService_ImportFileMissing(t *testing.T) {
	s := setupServices(t)
	_, err := s.exchange.ImportFile(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestExchangeService_ObserverRecordsImport(t *testing.T) {
	var logs bytes.Buffer
	s := setupServices(t, NewLogUseCaseObserver(&logs))
	seed(t, s)

	out := logs.String()
	assert.Contains(t, out, "use_case=workbook-import")
	assert.Contains(t, out, "success=true")
	assert.Contains(t, out, "active=2")
}

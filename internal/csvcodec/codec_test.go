package csvcodec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/alexanderramin/projman/internal/domain"
	"github.com/alexanderramin/projman/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorkbook() *domain.Workbook {
	design := testutil.NewTestSubProcess("Design",
		testutil.WithSubStatus(domain.StatusCompleted),
		testutil.WithSubPersonnel("Bob", "Dev"))
	build := testutil.NewTestSubProcess("Build, test",
		testutil.WithSubStatus(domain.StatusInProgress),
		testutil.WithSubDates("May", ""))

	apollo := testutil.NewTestProject("Apollo",
		testutil.WithStatus(domain.StatusInProgress),
		testutil.WithDates("2024-01-01", "2024-12-31"),
		testutil.WithPersonnel("Alice", "Lead", "Bob", "Dev"),
		testutil.WithSubProcess(design),
		testutil.WithSubProcess(build))
	gemini := testutil.NewTestProject("Gemini \"2\"")
	mercury := testutil.NewTestProject("Mercury",
		testutil.WithStatus(domain.StatusCompleted),
		testutil.WithPersonnel("Carol", "Owner"))

	return testutil.NewTestWorkbook([]string{"Dave"}, apollo, gemini, mercury)
}

func TestEncode_RowOrderAndFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleWorkbook()))

	want := strings.Join([]string{
		"PERSON,Alice",
		"PERSON,Bob",
		"PERSON,Carol",
		"PERSON,Dave",
		"PROJECT,Apollo,In Progress,2024-01-01,2024-12-31",
		"PPERSONNEL,Apollo,Alice,Lead",
		"PPERSONNEL,Apollo,Bob,Dev",
		"SUBPROCESS,Apollo,Design,Completed,,",
		"SPERSONNEL,Apollo,Design,Bob,Dev",
		`SUBPROCESS,Apollo,"Build, test",In Progress,May,`,
		`PROJECT,"Gemini ""2""",Not Started,,`,
		"PROJECT,Mercury,Completed,,",
		"PPERSONNEL,Mercury,Carol,Owner",
	}, "\r\n") + "\r\n"
	assert.Equal(t, want, buf.String())
}

func TestEncode_EmptyWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, domain.NewWorkbook()))
	assert.Empty(t, buf.String())
}

// summary reduces a workbook to comparable values, ignoring generated IDs.
func summary(wb *domain.Workbook) map[string]any {
	project := func(p *domain.Project) []any {
		out := []any{p.Name, p.Status, p.StartDate, p.EndDate, testutil.Pairs(p.Assignments)}
		for _, sp := range p.SubProcesses {
			out = append(out, []any{sp.Name, sp.Status, sp.StartDate, sp.EndDate, testutil.Pairs(sp.Assignments)})
		}
		return out
	}
	var active, completed [][]any
	for _, p := range wb.Active {
		active = append(active, project(p))
	}
	for _, p := range wb.Completed {
		completed = append(completed, project(p))
	}
	return map[string]any{"people": wb.People, "active": active, "completed": completed}
}

func TestDecode_RoundTrip(t *testing.T) {
	original := sampleWorkbook()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, original))

	decoded, stats, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, summary(original), summary(decoded))
	assert.Equal(t, 13, stats.Rows)
	assert.Zero(t, stats.Dropped)
	assert.Empty(t, stats.AutoRegistered)

	var again bytes.Buffer
	require.NoError(t, Encode(&again, decoded))
	var first bytes.Buffer
	require.NoError(t, Encode(&first, original))
	assert.Equal(t, first.String(), again.String(), "encoding is stable across a round trip")
}

func TestDecode_PartitionsByStatusInFileOrder(t *testing.T) {
	in := strings.Join([]string{
		"PROJECT,Done1,Completed,,",
		"PROJECT,A,Paused,,",
		"PROJECT,Done2,Completed,,",
		"PROJECT,B,Aborted,,",
	}, "\n")

	wb, _, err := Decode(strings.NewReader(in))
	require.NoError(t, err)

	var active, completed []string
	for i, p := range wb.Active {
		active = append(active, p.Name)
		assert.Equal(t, i+1, p.Position)
	}
	for _, p := range wb.Completed {
		completed = append(completed, p.Name)
	}
	assert.Equal(t, []string{"A", "B"}, active)
	assert.Equal(t, []string{"Done1", "Done2"}, completed)
}

func TestDecode_DropsRowsForUnknownOwners(t *testing.T) {
	in := strings.Join([]string{
		"PERSON,Alice",
		"PPERSONNEL,Ghost,Alice,Lead",
		"SUBPROCESS,Ghost,Design,Not Started,,",
		"PROJECT,Apollo,Not Started,,",
		"SUBPROCESS,Apollo,Design,Not Started,,",
		"SPERSONNEL,Apollo,Missing,Alice,Dev",
		"SPERSONNEL,Apollo,Design,Alice,Dev",
	}, "\n")

	wb, stats, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Dropped)

	require.Len(t, wb.Active, 1)
	apollo := wb.Active[0]
	assert.Empty(t, apollo.Assignments)
	require.Len(t, apollo.SubProcesses, 1)
	assert.Equal(t, []string{"Alice", "Dev"}, testutil.Pairs(apollo.SubProcesses[0].Assignments))
}

func TestDecode_SubProcessPersonnelAttachesToFirstMatch(t *testing.T) {
	in := strings.Join([]string{
		"PROJECT,Apollo,Not Started,,",
		"SUBPROCESS,Apollo,Review,Not Started,,",
		"SUBPROCESS,Apollo,Review,Paused,,",
		"SPERSONNEL,Apollo,Review,Alice,QA",
	}, "\n")

	wb, _, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	subs := wb.Active[0].SubProcesses
	require.Len(t, subs, 2)
	assert.Len(t, subs[0].Assignments, 1)
	assert.Empty(t, subs[1].Assignments)
}

func TestDecode_AutoRegistersAssignedPeople(t *testing.T) {
	in := strings.Join([]string{
		"PERSON,Zed",
		"PROJECT,Apollo,Not Started,,",
		"PPERSONNEL,Apollo,Bob,Dev",
		"PPERSONNEL,Nowhere,Carol,Dev",
		"PERSON,Bob",
	}, "\n")

	wb, stats, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "Carol", "Zed"}, wb.People)
	assert.Equal(t, []string{"Bob", "Carol"}, stats.AutoRegistered)
}

func TestDecode_DuplicateProjectReplacesInPlace(t *testing.T) {
	in := strings.Join([]string{
		"PROJECT,Apollo,Not Started,,",
		"PPERSONNEL,Apollo,Alice,Lead",
		"PROJECT,Gemini,Not Started,,",
		"PROJECT,Apollo,Paused,Jan,",
	}, "\n")

	wb, stats, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Replaced)
	require.Len(t, wb.Active, 2)
	assert.Equal(t, "Apollo", wb.Active[0].Name)
	assert.Equal(t, domain.StatusPaused, wb.Active[0].Status)
	assert.Empty(t, wb.Active[0].Assignments)
	assert.Contains(t, wb.People, "Alice", "people registered from the discarded project stay")
}

func TestDecode_SkipsBlankLinesAndAcceptsLF(t *testing.T) {
	in := "PERSON,Alice\n\n,,\nPROJECT,Apollo,in progress,,\n"

	wb, stats, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rows)
	require.Len(t, wb.Active, 1)
	assert.Equal(t, domain.StatusInProgress, wb.Active[0].Status)
}

func TestDecode_RoundTripKeepsLineBreaksInFields(t *testing.T) {
	apollo := testutil.NewTestProject("Apo\rllo",
		testutil.WithDates("Jan\r\nFeb", ""),
		testutil.WithPersonnel("Alice", "line1\r\nline2", "Bob", "multi\nline"))
	wb := testutil.NewTestWorkbook(nil, apollo)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, wb))
	assert.Contains(t, buf.String(), "\"Apo\r\nllo\"", "a lone CR is written as a line break, not dropped")

	decoded, _, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, decoded.Active, 1)
	got := decoded.Active[0]
	assert.Equal(t, "Apo\nllo", got.Name)
	assert.Equal(t, "Jan\nFeb", got.StartDate)
	assert.Equal(t, []string{"Alice", "line1\nline2", "Bob", "multi\nline"}, testutil.Pairs(got.Assignments))

	var again bytes.Buffer
	require.NoError(t, Encode(&again, decoded))
	redecoded, _, err := Decode(&again)
	require.NoError(t, err)
	assert.Equal(t, summary(decoded), summary(redecoded))
}

func TestDecode_NormalizesCarriageReturnsInQuotedFields(t *testing.T) {
	in := "PERSON,\"Ann\rLee\"\r\nPROJECT,Apollo,Not Started,\"a\r\nb\",\r\n"

	wb, _, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann\nLee"}, wb.People)
	require.Len(t, wb.Active, 1)
	assert.Equal(t, "a\nb", wb.Active[0].StartDate)
}

func TestDecode_IgnoresByteOrderMark(t *testing.T) {
	in := "\ufeffPERSON,Alice\r\nPROJECT,Apollo,Not Started,,\r\n"

	wb, stats, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, []string{"Alice"}, wb.People)

	quoted := "\ufeff\"PERSON\",Alice\n"
	wb, _, err = Decode(strings.NewReader(quoted))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, wb.People)
}

func TestDecode_EmptyInput(t *testing.T) {
	wb, stats, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, stats.Rows)
	assert.Empty(t, wb.People)
}

func TestDecode_MalformedRows(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		line     int
		tag      string
		contains string
	}{
		{"wrong arity", "PERSON,Alice\nPROJECT,Apollo,Not Started,\n", 2, "PROJECT", "3 columns, want 4"},
		{"too many columns", "PERSON,Alice,extra\n", 1, "PERSON", "2 columns, want 1"},
		{"unknown tag", "PERSON,Alice\n\nTASK,x\n", 3, "TASK", "unknown row tag"},
		{"invalid status", "PROJECT,Apollo,Done-ish,,\n", 1, "PROJECT", "invalid value"},
		{"empty project name", "PROJECT, ,Paused,,\n", 1, "PROJECT", "project name cannot be empty"},
		{"empty person", "PROJECT,A,Paused,,\nPPERSONNEL,A,,Dev\n", 2, "PPERSONNEL", "person name cannot be empty"},
		{"empty sub-process", "SUBPROCESS,A,,Paused,,\n", 1, "SUBPROCESS", "sub-process name cannot be empty"},
		{"bad quoting", "PERSON,Alice\nPERSON,Bo\"b\n", 2, "", "bare \""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrParse))

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, tt.tag, pe.Tag)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParseRecord_Variants(t *testing.T) {
	row, err := ParseRecord([]string{"SPERSONNEL", "Apollo", "Design", "Alice", ""})
	require.NoError(t, err)
	assert.Equal(t, SubProcessPersonnelRow{Project: "Apollo", SubProcess: "Design", Person: "Alice"}, row)
	assert.Equal(t, []string{"SPERSONNEL", "Apollo", "Design", "Alice", ""}, Record(row))

	row, err = ParseRecord([]string{"SUBPROCESS", "Apollo", "Design", "paused", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaused, row.(SubProcessRow).Status)
}

// Package csvcodec reads and writes the tagged-row CSV workbook.
//
// Every record starts with a tag naming its kind; the remaining columns
// depend on the tag. There is no header row.
package csvcodec

import (
	"fmt"

	"github.com/alexanderramin/projman/internal/domain"
)

// Tag identifies the kind of a workbook row.
type Tag string

const (
	TagPerson              Tag = "PERSON"
	TagProject             Tag = "PROJECT"
	TagProjectPersonnel    Tag = "PPERSONNEL"
	TagSubProcess          Tag = "SUBPROCESS"
	TagSubProcessPersonnel Tag = "SPERSONNEL"
)

// Row is one decoded workbook record.
type Row interface {
	Tag() Tag
	// Fields returns the columns after the tag.
	Fields() []string
}

// PersonRow declares a member of the personnel set.
type PersonRow struct {
	Name string
}

// ProjectRow declares a project. Which collection it lands in is decided
// by Status.
type ProjectRow struct {
	Project   string
	Status    domain.Status
	StartDate string
	EndDate   string
}

// ProjectPersonnelRow appends an assignment to a project's own list.
type ProjectPersonnelRow struct {
	Project string
	Person  string
	Role    string
}

// SubProcessRow appends a sub-process to a project.
type SubProcessRow struct {
	Project    string
	SubProcess string
	Status     domain.Status
	StartDate  string
	EndDate    string
}

// SubProcessPersonnelRow appends an assignment to the first sub-process of
// Project named SubProcess.
type SubProcessPersonnelRow struct {
	Project    string
	SubProcess string
	Person     string
	Role       string
}

func (PersonRow) Tag() Tag              { return TagPerson }
func (ProjectRow) Tag() Tag             { return TagProject }
func (ProjectPersonnelRow) Tag() Tag    { return TagProjectPersonnel }
func (SubProcessRow) Tag() Tag          { return TagSubProcess }
func (SubProcessPersonnelRow) Tag() Tag { return TagSubProcessPersonnel }

func (r PersonRow) Fields() []string { return []string{r.Name} }

func (r ProjectRow) Fields() []string {
	return []string{r.Project, string(r.Status), r.StartDate, r.EndDate}
}

func (r ProjectPersonnelRow) Fields() []string {
	return []string{r.Project, r.Person, r.Role}
}

func (r SubProcessRow) Fields() []string {
	return []string{r.Project, r.SubProcess, string(r.Status), r.StartDate, r.EndDate}
}

func (r SubProcessPersonnelRow) Fields() []string {
	return []string{r.Project, r.SubProcess, r.Person, r.Role}
}

// Record returns the full CSV record for r, tag first.
func Record(r Row) []string {
	return append([]string{string(r.Tag())}, r.Fields()...)
}

type rowDecoder struct {
	arity  int
	decode func(f []string) (Row, error)
}

var decoders = map[Tag]rowDecoder{
	TagPerson: {1, func(f []string) (Row, error) {
		if err := requireField("person name", f[0]); err != nil {
			return nil, err
		}
		return PersonRow{Name: f[0]}, nil
	}},
	TagProject: {4, func(f []string) (Row, error) {
		if err := requireField("project name", f[0]); err != nil {
			return nil, err
		}
		status, err := domain.ParseStatus(f[1])
		if err != nil {
			return nil, err
		}
		return ProjectRow{Project: f[0], Status: status, StartDate: f[2], EndDate: f[3]}, nil
	}},
	TagProjectPersonnel: {3, func(f []string) (Row, error) {
		if err := requireFields("project name", f[0], "person name", f[1]); err != nil {
			return nil, err
		}
		return ProjectPersonnelRow{Project: f[0], Person: f[1], Role: f[2]}, nil
	}},
	TagSubProcess: {5, func(f []string) (Row, error) {
		if err := requireFields("project name", f[0], "sub-process name", f[1]); err != nil {
			return nil, err
		}
		status, err := domain.ParseStatus(f[2])
		if err != nil {
			return nil, err
		}
		return SubProcessRow{Project: f[0], SubProcess: f[1], Status: status, StartDate: f[3], EndDate: f[4]}, nil
	}},
	TagSubProcessPersonnel: {4, func(f []string) (Row, error) {
		if err := requireFields("project name", f[0], "sub-process name", f[1], "person name", f[2]); err != nil {
			return nil, err
		}
		return SubProcessPersonnelRow{Project: f[0], SubProcess: f[1], Person: f[2], Role: f[3]}, nil
	}},
}

// ParseRecord decodes one CSV record into its Row variant.
func ParseRecord(record []string) (Row, error) {
	if len(record) == 0 {
		return nil, fmt.Errorf("empty record")
	}
	tag := Tag(record[0])
	d, ok := decoders[tag]
	if !ok {
		return nil, fmt.Errorf("unknown row tag %q", record[0])
	}
	fields := record[1:]
	if len(fields) != d.arity {
		return nil, fmt.Errorf("%s row has %d columns, want %d", tag, len(fields), d.arity)
	}
	return d.decode(fields)
}

func requireField(field, v string) error {
	if domain.TrimField(v) == "" {
		return &domain.ValidationError{Field: field, Reason: "cannot be empty"}
	}
	return nil
}

// requireFields checks (field, value) pairs in order.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := requireField(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}

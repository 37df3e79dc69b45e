package csvcodec

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/projman/internal/domain"
	"github.com/google/uuid"
)

// ParseError reports a workbook record that could not be decoded. Line is
// 1-based; Tag is empty when the record could not be tokenized.
type ParseError struct {
	Line int
	Tag  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Tag, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == domain.ErrParse }

// DecodeStats summarizes what Decode did with the rows it read.
type DecodeStats struct {
	// Rows counts non-blank records.
	Rows int
	// Dropped counts rows that referenced a project or sub-process not
	// declared earlier in the file.
	Dropped int
	// Replaced counts PROJECT rows whose name had already been declared.
	Replaced int
	// AutoRegistered lists people added because an assignment named them
	// before, or without, a PERSON row.
	AutoRegistered []string
}

// Decode reads a whole workbook. It builds a fresh model and never touches
// existing state; the first malformed record aborts with a *ParseError.
//
// Rows that reference an unknown project or sub-process are dropped.
// Assigned people missing from the personnel set are registered. A second
// PROJECT row with an already-declared name replaces the earlier project in
// place, discarding its assignments and sub-processes.
//
// A leading UTF-8 byte order mark is ignored, and line breaks inside
// fields come back as LF.
func Decode(r io.Reader) (*domain.Workbook, DecodeStats, error) {
	br := bufio.NewReader(r)
	if err := skipBOM(br); err != nil {
		return nil, DecodeStats{}, fmt.Errorf("reading workbook: %w", err)
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	b := newBuilder()
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, DecodeStats{}, csvError(err)
		}
		for i, f := range record {
			record[i] = domain.NormalizeNewlines(f)
		}
		if blank(record) {
			continue
		}
		line, _ := cr.FieldPos(0)
		row, err := ParseRecord(record)
		if err != nil {
			return nil, DecodeStats{}, &ParseError{Line: line, Tag: record[0], Err: err}
		}
		b.apply(row)
	}
	return b.workbook(), b.stats, nil
}

// skipBOM drops the UTF-8 byte order mark spreadsheet tools put at the
// start of a CSV file.
func skipBOM(br *bufio.Reader) error {
	r, _, err := br.ReadRune()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	if r != '\ufeff' {
		return br.UnreadRune()
	}
	return nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("reading workbook: %w", err)
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// builder accumulates decoded rows in file order.
type builder struct {
	people   map[string]bool
	wb       *domain.Workbook
	projects []*domain.Project
	byName   map[string]int
	stats    DecodeStats
}

func newBuilder() *builder {
	return &builder{
		people: make(map[string]bool),
		wb:     domain.NewWorkbook(),
		byName: make(map[string]int),
	}
}

func (b *builder) apply(row Row) {
	b.stats.Rows++
	switch r := row.(type) {
	case PersonRow:
		b.addPerson(r.Name)
	case ProjectRow:
		p := &domain.Project{
			ID:        uuid.New().String(),
			Name:      r.Project,
			Status:    r.Status,
			StartDate: r.StartDate,
			EndDate:   r.EndDate,
		}
		if i, ok := b.byName[r.Project]; ok {
			b.projects[i] = p
			b.stats.Replaced++
			return
		}
		b.byName[r.Project] = len(b.projects)
		b.projects = append(b.projects, p)
	case ProjectPersonnelRow:
		b.register(r.Person)
		p := b.project(r.Project)
		if p == nil {
			b.stats.Dropped++
			return
		}
		p.Assignments = append(p.Assignments, newAssignment(r.Person, r.Role))
	case SubProcessRow:
		p := b.project(r.Project)
		if p == nil {
			b.stats.Dropped++
			return
		}
		p.SubProcesses = append(p.SubProcesses, &domain.SubProcess{
			ID:        uuid.New().String(),
			ProjectID: p.ID,
			Name:      r.SubProcess,
			Status:    r.Status,
			StartDate: r.StartDate,
			EndDate:   r.EndDate,
			Position:  len(p.SubProcesses) + 1,
		})
	case SubProcessPersonnelRow:
		b.register(r.Person)
		p := b.project(r.Project)
		if p == nil {
			b.stats.Dropped++
			return
		}
		sp := p.FindSubProcess(r.SubProcess)
		if sp == nil {
			b.stats.Dropped++
			return
		}
		sp.Assignments = append(sp.Assignments, newAssignment(r.Person, r.Role))
	}
}

func (b *builder) project(name string) *domain.Project {
	i, ok := b.byName[name]
	if !ok {
		return nil
	}
	return b.projects[i]
}

func (b *builder) addPerson(name string) bool {
	if b.people[name] {
		return false
	}
	b.people[name] = true
	b.wb.People = append(b.wb.People, name)
	return true
}

// register adds an assigned person that no PERSON row declared yet.
func (b *builder) register(name string) {
	if b.addPerson(name) {
		b.stats.AutoRegistered = append(b.stats.AutoRegistered, name)
	}
}

// workbook partitions the projects by status, keeping file order within
// each collection.
func (b *builder) workbook() *domain.Workbook {
	for _, p := range b.projects {
		if p.Collection() == domain.CollectionCompleted {
			b.wb.Completed = append(b.wb.Completed, p)
			p.Position = len(b.wb.Completed)
		} else {
			b.wb.Active = append(b.wb.Active, p)
			p.Position = len(b.wb.Active)
		}
	}
	b.wb.SortPeople()
	return b.wb
}

func newAssignment(person, role string) domain.Assignment {
	return domain.Assignment{ID: uuid.New().String(), Person: person, Role: role}
}

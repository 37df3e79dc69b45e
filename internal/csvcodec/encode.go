package csvcodec

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/alexanderramin/projman/internal/domain"
)

// Rows flattens wb into workbook rows: the sorted personnel set, then each
// active project in display order, then each completed project. A project
// is followed by its own assignments and then by each sub-process with
// that sub-process's assignments.
func Rows(wb *domain.Workbook) []Row {
	people := append([]string(nil), wb.People...)
	sort.Strings(people)

	rows := make([]Row, 0, len(people))
	for _, name := range people {
		rows = append(rows, PersonRow{Name: name})
	}
	for _, p := range wb.Projects() {
		rows = appendProject(rows, p)
	}
	return rows
}

func appendProject(rows []Row, p *domain.Project) []Row {
	rows = append(rows, ProjectRow{
		Project:   p.Name,
		Status:    p.Status,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
	})
	for _, a := range p.Assignments {
		rows = append(rows, ProjectPersonnelRow{Project: p.Name, Person: a.Person, Role: a.Role})
	}
	for _, sp := range p.SubProcesses {
		rows = append(rows, SubProcessRow{
			Project:    p.Name,
			SubProcess: sp.Name,
			Status:     sp.Status,
			StartDate:  sp.StartDate,
			EndDate:    sp.EndDate,
		})
		for _, a := range sp.Assignments {
			rows = append(rows, SubProcessPersonnelRow{
				Project:    p.Name,
				SubProcess: sp.Name,
				Person:     a.Person,
				Role:       a.Role,
			})
		}
	}
	return rows
}

// Encode writes wb as CSV with CRLF line endings and standard quoting.
// Line breaks inside a field are written as CRLF too, so a lone CR in a
// value comes back from Decode as LF rather than being lost.
func Encode(w io.Writer, wb *domain.Workbook) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	for _, row := range Rows(wb) {
		record := Record(row)
		for i, f := range record {
			record[i] = domain.NormalizeNewlines(f)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing %s row: %w", row.Tag(), err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing workbook: %w", err)
	}
	return nil
}

package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/alexanderramin/projman/internal/cli/formatter"
	"github.com/alexanderramin/projman/internal/domain"
)

// projectMatch is a resolved project reference.
type projectMatch struct {
	Project    *domain.Project
	Collection domain.Collection
	// Index is 0-based within Collection.
	Index int
}

// resolveProject accepts a 1-based active index ("2"), a completed index
// ("c2") or a project name matched case-insensitively. Active projects win
// a name tie.
func resolveProject(ctx context.Context, app *App, ref string) (*projectMatch, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &domain.ValidationError{Field: "project", Reason: "reference is required"}
	}

	if n, ok := parseIndex(ref); ok {
		return projectAt(ctx, app, domain.CollectionActive, n, ref)
	}
	if rest, found := cutPrefixFold(ref, formatter.CompletedRefPrefix); found {
		if n, ok := parseIndex(rest); ok {
			return projectAt(ctx, app, domain.CollectionCompleted, n, ref)
		}
	}

	matches, err := app.Projects.FindByName(ctx, ref)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, &domain.NotFoundError{Kind: "project", Ref: ref}
	}
	p := matches[0]
	list, err := listCollection(ctx, app, p.Collection())
	if err != nil {
		return nil, err
	}
	for i, q := range list {
		if q.ID == p.ID {
			return &projectMatch{Project: q, Collection: p.Collection(), Index: i}, nil
		}
	}
	return nil, &domain.NotFoundError{Kind: "project", Ref: ref}
}

func projectAt(ctx context.Context, app *App, c domain.Collection, n int, ref string) (*projectMatch, error) {
	list, err := listCollection(ctx, app, c)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(list) {
		return nil, &domain.NotFoundError{Kind: "project", Ref: ref}
	}
	return &projectMatch{Project: list[n-1], Collection: c, Index: n - 1}, nil
}

func listCollection(ctx context.Context, app *App, c domain.Collection) ([]*domain.Project, error) {
	if c == domain.CollectionCompleted {
		return app.Projects.ListCompleted(ctx)
	}
	return app.Projects.ListActive(ctx)
}

// resolveSubProcess accepts a 1-based index within the project or an exact
// sub-process name; the first name match wins.
func resolveSubProcess(ctx context.Context, app *App, projectID, ref string) (*domain.SubProcess, error) {
	ref = strings.TrimSpace(ref)
	subs, err := app.Subs.List(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if n, ok := parseIndex(ref); ok {
		if n < 1 || n > len(subs) {
			return nil, &domain.NotFoundError{Kind: "sub-process", Ref: ref}
		}
		return subs[n-1], nil
	}
	for _, sp := range subs {
		if sp.Name == ref {
			return sp, nil
		}
	}
	return nil, &domain.NotFoundError{Kind: "sub-process", Ref: ref}
}

// resolveOwner picks the assignment list a command operates on: the
// project's own, or a sub-process's when subRef is set. The label names
// the list for output.
func resolveOwner(ctx context.Context, app *App, projectRef, subRef string) (domain.AssignmentOwner, string, error) {
	m, err := resolveProject(ctx, app, projectRef)
	if err != nil {
		return domain.AssignmentOwner{}, "", err
	}
	if subRef == "" {
		return domain.ProjectOwner(m.Project.ID), m.Project.Name, nil
	}
	sp, err := resolveSubProcess(ctx, app, m.Project.ID, subRef)
	if err != nil {
		return domain.AssignmentOwner{}, "", err
	}
	return domain.SubProcessOwner(sp.ID), m.Project.Name + " / " + sp.Name, nil
}

// parseIndex accepts only plain decimal digits, so names such as "-1" or
// "+2" fall through to name matching.
func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseListIndex converts a 1-based list position typed by the user into a
// 0-based index.
func parseListIndex(field, s string) (int, error) {
	n, ok := parseIndex(strings.TrimSpace(s))
	if !ok || n < 1 {
		return 0, &domain.ValidationError{Field: field, Reason: "must be a positive number"}
	}
	return n - 1, nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

package domain

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state shared by projects and sub-processes.
// The string values are the exact labels written to the CSV workbook.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusCompleted  Status = "Completed"
	StatusInProgress Status = "In Progress"
	StatusAborted    Status = "Aborted"
	StatusPaused     Status = "Paused"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{
	StatusNotStarted,
	StatusCompleted,
	StatusInProgress,
	StatusAborted,
	StatusPaused,
}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus accepts a status label case-insensitively, ignoring spaces,
// underscores and hyphens, so "in_progress", "In Progress" and "inprogress"
// all resolve to StatusInProgress.
func ParseStatus(s string) (Status, error) {
	key := statusKey(s)
	if key == "" {
		return "", &ValidationError{Field: "status", Reason: "is required"}
	}
	for _, v := range Statuses {
		if statusKey(string(v)) == key {
			return v, nil
		}
	}
	return "", &ValidationError{
		Field:  "status",
		Reason: fmt.Sprintf("invalid value %q (expected one of %s)", s, StatusLabels()),
	}
}

// StatusLabels returns the valid statuses joined for help and error text.
func StatusLabels() string {
	labels := make([]string, len(Statuses))
	for i, v := range Statuses {
		labels[i] = string(v)
	}
	return strings.Join(labels, ", ")
}

func statusKey(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

// Collection is one of the two top-level project partitions.
type Collection string

const (
	CollectionActive    Collection = "active"
	CollectionCompleted Collection = "completed"
)

// CollectionFor returns the collection a project with status s belongs in.
func CollectionFor(s Status) Collection {
	if s == StatusCompleted {
		return CollectionCompleted
	}
	return CollectionActive
}

// OwnerKind identifies what an assignment list hangs off.
type OwnerKind string

const (
	OwnerProject    OwnerKind = "project"
	OwnerSubProcess OwnerKind = "subprocess"
)

package kpi

import (
	"sort"

	"github.com/lorrc/ticket-insights/internal/core/domain"
)

// Group is one partition produced by GroupBy.
type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// GroupBy partitions items by key, in order of each key's first occurrence.
// Items for which key reports false are left out.
func GroupBy[T any, K comparable](items []T, key func(T) (K, bool)) []Group[K, T] {
	index := make(map[K]int)
	var groups []Group[K, T]

	for _, item := range items {
		k, ok := key(item)
		if !ok {
			continue
		}
		i, seen := index[k]
		if !seen {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, T]{Key: k})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// SortGroups orders groups by key ascending.
func SortGroups[T any](groups []Group[int, T]) {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
}

// ByYear keys a ticket by creation year. Undated tickets are skipped.
func ByYear(a Annotated) (int, bool) {
	if !a.HasCreated() {
		return 0, false
	}
	return a.Created.Year(), true
}

// ByMonth keys a ticket by creation month, 0 for January. Undated tickets are skipped.
func ByMonth(a Annotated) (int, bool) {
	if !a.HasCreated() {
		return 0, false
	}
	return int(a.Created.Month()) - 1, true
}

// ByAssignee keys a ticket by assignee, substituting the unassigned label.
func ByAssignee(a Annotated) (string, bool) {
	return a.AssigneeOrUnassigned(), true
}

// ByAppName keys a ticket by application name.
func ByAppName(a Annotated) (string, bool) {
	return a.AppName, true
}

// ByIssueType keys a ticket by issue type.
func ByIssueType(a Annotated) (domain.IssueType, bool) {
	return a.IssueType, true
}

// InYear keeps tickets created in year.
func InYear(items []Annotated, year int) []Annotated {
	var out []Annotated
	for _, a := range items {
		if a.HasCreated() && a.Created.Year() == year {
			out = append(out, a)
		}
	}
	return out
}

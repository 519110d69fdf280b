package view

import (
	"strings"

	"barogreen/internal/moderation"

	"golang.org/x/text/cases"
)

// Record is anything the search can look into by field name
type Record interface {
	Field(name string) (string, bool)
}

// Searchable fields per collection
var (
	UserFields    = []string{"name", "email"}
	PostFields    = []string{"title", "author"}
	CommentFields = []string{"content", "author"}
	ReportFields  = []string{"type", "reason", "reporter"}
	CompanyFields = []string{"name", "owner", "area", "registrationNumber", "phone"}
)

// Filter projects items through the state's filters, in order:
//
//  1. on the community tab with a post filter set, comments of other posts are dropped
//  2. on the reports tab, reports outside the selected category are dropped
//  3. with a non-empty search term, records whose searchable fields do not
//     contain the term (case-folded) are dropped
//
// Order is preserved. When no filter applies the input slice is returned
// as is; otherwise a new slice is built.
func Filter[T Record](items []T, fields []string, state State) []T {
	filtered := items

	if state.Tab == TabCommunity && state.FilterPostID != 0 {
		filtered = keep(filtered, func(item T) bool {
			c, ok := any(item).(moderation.Comment)
			return !ok || c.PostID == state.FilterPostID
		})
	}

	if state.Tab == TabReports {
		filtered = keep(filtered, func(item T) bool {
			r, ok := any(item).(moderation.Report)
			return !ok || r.Category == state.ReportView
		})
	}

	if state.Search != "" {
		fold := cases.Fold()
		needle := fold.String(state.Search)
		filtered = keep(filtered, func(item T) bool {
			return Matches(item, fields, needle, fold)
		})
	}

	return filtered
}

// Matches reports whether any of the fields of r contains needle.
// needle must already be folded with fold.
func Matches(r Record, fields []string, needle string, fold cases.Caser) bool {
	for _, name := range fields {
		value, ok := r.Field(name)
		if !ok {
			continue
		}
		if strings.Contains(fold.String(value), needle) {
			return true
		}
	}
	return false
}

func keep[T any](items []T, pred func(T) bool) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			result = append(result, item)
		}
	}
	return result
}

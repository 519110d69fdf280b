// Package pages renders the server-side admin dashboard.
package pages

import (
	"barogreen/internal/moderation"
	"barogreen/internal/view"
)

// Route paths the dashboard links and posts to
const (
	AdminPath        = "/admin"
	AdminActionPath  = "/admin/actions"
	AdminCompanyPath = "/admin/companies"
)

// CSRFField is the form field every dashboard POST carries its token in
const CSRFField = "csrf_token"

// Stats is the summary strip above the main panel
type Stats struct {
	Users                 int `json:"users"`
	Posts                 int `json:"posts"`
	Comments              int `json:"comments"`
	VisibleComments       int `json:"visibleComments"`
	Reports               int `json:"reports"`
	Companies             int `json:"companies"`
	PendingIllegalDumping int `json:"pendingIllegalDumping"`
	PendingCommunityAbuse int `json:"pendingCommunityAbuse"`
}

// DashboardProps is everything the dashboard page renders. The record
// slices are already filtered for State.
type DashboardProps struct {
	State     view.State
	Users     []moderation.User
	Posts     []moderation.Post
	Comments  []moderation.Comment
	Reports   []moderation.Report
	Companies []moderation.Company

	// SelectedPost and PostComments are set for the post detail view
	SelectedPost *moderation.Post
	PostComments []moderation.Comment

	Form          view.CompanyForm
	MissingFields []string
	Stats         Stats

	CSRFToken string
	CSPNonce  string
}

// StateURL is the dashboard address that restores s
func StateURL(s view.State) string {
	if q := s.Values().Encode(); q != "" {
		return AdminPath + "?" + q
	}
	return AdminPath
}

func buttonKind(a moderation.Action) string {
	switch a {
	case moderation.ActionDelete, moderation.ActionSuspend:
		return "danger"
	case moderation.ActionWarn:
		return "warning"
	case moderation.ActionEdit:
		return "secondary"
	}
	return "primary"
}

var commentColumns = []string{"ID", "내용", "게시글 ID", "작성자", "작성일", "상태", "관리"}

var reportViews = []struct {
	category moderation.ReportCategory
	label    string
}{
	{moderation.CategoryIllegalDumping, "불법 투기 신고"},
	{moderation.CategoryCommunityAbuse, "커뮤니티 신고"},
}

func tabClass(active bool) string {
	if active {
		return "tab active"
	}
	return "tab"
}

func activeKind(active bool) string {
	if active {
		return "primary"
	}
	return "secondary"
}

func postMeta(p moderation.Post) string {
	return p.Author + " · " + p.Date + " · " + string(p.Status)
}

// Package view holds the dashboard's view state and the read-only
// projections derived from the moderation collections.
package view

import (
	"net/url"
	"strconv"
	"strings"

	"barogreen/internal/moderation"

	"github.com/google/go-querystring/query"
)

// Tab is a sidebar section of the dashboard
type Tab string

const (
	TabUsers     Tab = "users"
	TabCommunity Tab = "community"
	TabReports   Tab = "reports"
	TabCompanies Tab = "companies"
)

// Tabs lists the sidebar sections in display order
func Tabs() []Tab {
	return []Tab{TabUsers, TabCommunity, TabReports, TabCompanies}
}

// Valid reports whether t is a known tab
func (t Tab) Valid() bool {
	switch t {
	case TabUsers, TabCommunity, TabReports, TabCompanies:
		return true
	}
	return false
}

// Label is the sidebar caption
func (t Tab) Label() string {
	switch t {
	case TabUsers:
		return "사용자 관리"
	case TabCommunity:
		return "커뮤니티 관리"
	case TabReports:
		return "신고 관리"
	case TabCompanies:
		return "업체 관리"
	}
	return "관리자 대시보드"
}

// Content identifies what the main panel shows
type Content string

const (
	ContentUsers      Content = "users"
	ContentPosts      Content = "posts"
	ContentComments   Content = "comments"
	ContentPostDetail Content = "post_detail"
	ContentReports    Content = "reports"
	ContentCompanies  Content = "companies"
)

// State is the dashboard's view state. It is a value: every transition
// returns a new State and leaves the receiver untouched. Zero ids mean
// "none".
type State struct {
	Tab             Tab                       `url:"tab,omitempty"`
	Search          string                    `url:"q,omitempty"`
	FilterPostID    int                       `url:"post,omitempty"`
	ReportView      moderation.ReportCategory `url:"report_view,omitempty"`
	SelectedPostID  int                       `url:"selected,omitempty"`
	CompanyFormOpen bool                      `url:"form,omitempty"`
}

// NewState returns the state the dashboard opens with
func NewState() State {
	return State{
		Tab:        TabUsers,
		ReportView: moderation.CategoryIllegalDumping,
	}
}

// SwitchTab moves to another sidebar section and resets everything else
func (s State) SwitchTab(tab Tab) State {
	if !tab.Valid() {
		tab = TabUsers
	}
	next := NewState()
	next.Tab = tab
	return next
}

// ViewPostDetail opens the detail view for a post and drops the comment filter
func (s State) ViewPostDetail(postID int) State {
	s.SelectedPostID = postID
	s.FilterPostID = 0
	return s
}

// ViewCommentsByPost jumps to the community tab showing the post's comments
func (s State) ViewCommentsByPost(postID int) State {
	s.Tab = TabCommunity
	s.FilterPostID = postID
	s.SelectedPostID = 0
	return s
}

// ClearPostFilter drops the comment filter
func (s State) ClearPostFilter() State {
	s.FilterPostID = 0
	return s
}

// BackToList closes the post detail view
func (s State) BackToList() State {
	s.SelectedPostID = 0
	return s
}

func (s State) WithSearch(term string) State {
	s.Search = term
	return s
}

// WithReportView selects a report category. Unknown categories are ignored.
func (s State) WithReportView(category moderation.ReportCategory) State {
	if category.Valid() {
		s.ReportView = category
	}
	return s
}

func (s State) OpenCompanyForm() State {
	s.CompanyFormOpen = true
	return s
}

func (s State) CloseCompanyForm() State {
	s.CompanyFormOpen = false
	return s
}

// AfterAction updates the state for the outcome of an action. A detail view
// pointing at a removed post is closed.
func (s State) AfterAction(res moderation.Result) State {
	if res.RemovedPostID != 0 && res.RemovedPostID == s.SelectedPostID {
		s.SelectedPostID = 0
	}
	return s
}

// Reconcile closes a detail view whose post no longer exists
func (s State) Reconcile(postExists func(id int) bool) State {
	if s.SelectedPostID != 0 && !postExists(s.SelectedPostID) {
		s.SelectedPostID = 0
	}
	return s
}

// Content reports which panel the state shows
func (s State) Content() Content {
	if s.SelectedPostID != 0 {
		return ContentPostDetail
	}
	switch s.Tab {
	case TabCommunity:
		if s.FilterPostID != 0 {
			return ContentComments
		}
		return ContentPosts
	case TabReports:
		return ContentReports
	case TabCompanies:
		return ContentCompanies
	}
	return ContentUsers
}

// Title is the page heading
func (s State) Title() string {
	if s.SelectedPostID != 0 {
		return "게시글 상세보기"
	}
	return s.Tab.Label()
}

// SearchPlaceholder is the hint shown in the search box
func (s State) SearchPlaceholder() string {
	switch s.Tab {
	case TabUsers:
		return "사용자 이름/이메일 검색..."
	case TabReports:
		return "신고 내용/신고자 검색..."
	case TabCompanies:
		return "업체명/대표자/지역/사업자 등록번호/전화번호 검색..."
	}
	return s.Title() + " 검색..."
}

// ReportViewTitle is the heading of the report table
func (s State) ReportViewTitle() string {
	switch s.ReportView {
	case moderation.CategoryIllegalDumping:
		return "불법 쓰레기 투기 신고 목록"
	case moderation.CategoryCommunityAbuse:
		return "커뮤니티/유저 신고 목록"
	}
	return "신고 목록"
}

// Values encodes the state as query parameters
func (s State) Values() url.Values {
	v, err := query.Values(s)
	if err != nil {
		// State has only scalar fields; encoding cannot fail
		return url.Values{}
	}
	return v
}

// ParseState decodes query parameters produced by Values. Missing or
// malformed parameters fall back to the defaults of NewState.
func ParseState(v url.Values) State {
	s := NewState()
	if tab := Tab(v.Get("tab")); tab.Valid() {
		s.Tab = tab
	}
	s.Search = v.Get("q")
	s.FilterPostID = parseID(v.Get("post"))
	s.SelectedPostID = parseID(v.Get("selected"))
	s = s.WithReportView(moderation.ReportCategory(v.Get("report_view")))
	s.CompanyFormOpen, _ = strconv.ParseBool(v.Get("form"))
	return s
}

func parseID(raw string) int {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id < 0 {
		return 0
	}
	return id
}

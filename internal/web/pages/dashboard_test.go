package pages

import (
	"context"
	"strings"
	"testing"

	"barogreen/internal/moderation"
	"barogreen/internal/view"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderToString(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(ctx, &sb))
	return sb.String()
}

func fixtureProps(state view.State) DashboardProps {
	snap := moderation.Fixtures()
	return DashboardProps{
		State:     state,
		Users:     snap.Users,
		Posts:     snap.Posts,
		Comments:  snap.Comments,
		Reports:   view.Filter(snap.Reports, view.ReportFields, state),
		Companies: snap.Companies,
		CSRFToken: "tok-123",
		CSPNonce:  "nonce-abc",
	}
}

func TestDashboard_Users(t *testing.T) {
	html := renderToString(t, context.Background(), Dashboard(fixtureProps(view.NewState())))

	assert.Contains(t, html, "<h2>사용자 관리</h2>")
	assert.Contains(t, html, `placeholder="사용자 이름/이메일 검색..."`)
	assert.Contains(t, html, "chulsu@example.com")
	assert.Contains(t, html, `name="csrf_token" value="tok-123"`)
	assert.Contains(t, html, `<script nonce="nonce-abc">`)
	// every tab is linked from the sidebar
	for _, tab := range view.Tabs() {
		assert.Contains(t, html, tab.Label())
	}
}

func TestDashboard_EscapesContent(t *testing.T) {
	props := fixtureProps(view.NewState())
	props.Users = []moderation.User{{ID: 9, Name: "<script>alert(1)</script>", Status: moderation.UserStatusActive}}

	html := renderToString(t, context.Background(), Dashboard(props))
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestDashboard_DestructiveFormsAskForConfirmation(t *testing.T) {
	state := view.NewState().SwitchTab(view.TabCommunity)
	html := renderToString(t, context.Background(), Dashboard(fixtureProps(state)))

	assert.Contains(t, html, `data-confirm="게시글 ID 101을(를) 정말로 삭제하시겠습니까?"`)
	assert.Contains(t, html, `name="confirm" value=""`)
}

func TestDashboard_Reports(t *testing.T) {
	state := view.NewState().SwitchTab(view.TabReports).WithReportView(moderation.CategoryCommunityAbuse)
	html := renderToString(t, context.Background(), Dashboard(fixtureProps(state)))

	assert.Contains(t, html, "커뮤니티/유저 신고 목록")
	assert.NotContains(t, html, "불법 쓰레기 투기 신고 목록")
}

func TestDashboard_PostDetail(t *testing.T) {
	snap := moderation.Fixtures()
	post := snap.Posts[0]
	state := view.NewState().SwitchTab(view.TabCommunity).ViewPostDetail(post.ID)

	props := fixtureProps(state)
	props.SelectedPost = &post

	html := renderToString(t, context.Background(), Dashboard(props))
	assert.Contains(t, html, "<h2>게시글 상세보기</h2>")
	assert.Contains(t, html, templ.EscapeString(post.Title))
	assert.Contains(t, html, "목록으로")
}

func TestDashboard_CompanyFormKeepsInput(t *testing.T) {
	state := view.NewState().SwitchTab(view.TabCompanies).OpenCompanyForm()
	props := fixtureProps(state)
	props.Form = view.CompanyForm{Open: true}
	props.Form.Set("name", "그린환경")
	props.MissingFields = []string{"registrationNumber"}

	html := renderToString(t, context.Background(), Dashboard(props))
	assert.Contains(t, html, `name="name" placeholder="업체명 입력" value="그린환경"`)
	assert.Contains(t, html, "모든 필드를 입력해주세요.")
	assert.Contains(t, html, `action="/admin/companies"`)
}

func TestStateURL(t *testing.T) {
	assert.Equal(t, "/admin?report_view=illegal_dumping&tab=users", StateURL(view.NewState()))
	assert.Equal(t, "/admin", StateURL(view.State{}))
}

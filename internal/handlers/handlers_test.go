package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"barogreen/internal/metrics"
	"barogreen/internal/moderation"
	"barogreen/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// listIDs decodes a list response and returns the record ids in order
func listIDs(t *testing.T, rec *httptest.ResponseRecorder) []int {
	t.Helper()
	var body struct {
		Items []struct {
			Record struct {
				ID int `json:"id"`
			} `json:"record"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	ids := []int{}
	for _, item := range body.Items {
		ids = append(ids, item.Record.ID)
	}
	return ids
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"3", 3, true},
		{" 101 ", 101, true},
		{"", 0, false},
		{"0", 0, false},
		{"-4", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		id, ok := parseID(tt.raw)
		assert.Equal(t, tt.want, id, tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
	}
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 100, parseLimit("", 100))
	assert.Equal(t, 20, parseLimit("20", 100))
	assert.Equal(t, 100, parseLimit("500", 100))
	assert.Equal(t, 100, parseLimit("-1", 100))
}

func TestHandleListUsers_Search(t *testing.T) {
	tc := NewTestContext()

	req := httptest.NewRequest(http.MethodGet, "/api/users?q=CHULSU", nil)
	rec := httptest.NewRecorder()
	tc.Handler.HandleListUsers(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[listResponse[moderation.User]](t, rec)
	assert.Equal(t, 5, body.Total)
	require.Len(t, body.Items, 1)
	assert.Equal(t, 1, body.Items[0].Record.ID)
	assert.NotEmpty(t, body.Items[0].Actions)
}

func TestHandleListComments_ByPost(t *testing.T) {
	tc := NewTestContext()

	req := httptest.NewRequest(http.MethodGet, "/api/comments?post=101", nil)
	rec := httptest.NewRecorder()
	tc.Handler.HandleListComments(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[listResponse[moderation.Comment]](t, rec)
	ids := []int{}
	for _, row := range body.Items {
		ids = append(ids, row.Record.ID)
	}
	assert.Equal(t, []int{501, 502}, ids)
}

func TestHandleListReports_Category(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"default category", "", []int{2, 4}},
		{"community abuse", "?report_view=community_abuse", []int{1, 3}},
		{"unknown category falls back", "?report_view=bogus", []int{2, 4}},
		{"search within category", "?report_view=community_abuse&q=욕설", []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := NewTestContext()
			req := httptest.NewRequest(http.MethodGet, "/api/reports"+tt.query, nil)
			rec := httptest.NewRecorder()
			tc.Handler.HandleListReports(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			body := decode[listResponse[moderation.Report]](t, rec)
			ids := []int{}
			for _, row := range body.Items {
				ids = append(ids, row.Record.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestHandleLists_SearchWithoutTab(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		handle func(*Handler, http.ResponseWriter, *http.Request)
		want   []int
	}{
		{"users", "/api/users?q=김철수", (*Handler).HandleListUsers, []int{1}},
		{"posts", "/api/posts?q=분리수거", (*Handler).HandleListPosts, []int{102}},
		{"comments", "/api/comments?q=스팸맨", (*Handler).HandleListComments, []int{503}},
		{"reports", "/api/reports?q=음식물", (*Handler).HandleListReports, []int{4}},
		{"companies", "/api/companies?q=강남", (*Handler).HandleListCompanies, []int{10}},
		{"tab from another panel", "/api/posts?tab=users&q=분리수거", (*Handler).HandleListPosts, []int{102}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := NewTestContext()
			u, err := url.Parse(tt.path)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodGet, u.Path+"?"+u.Query().Encode(), nil)
			rec := httptest.NewRecorder()
			tt.handle(tc.Handler, rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, listIDs(t, rec))
		})
	}
}

func TestHandlePostDetail(t *testing.T) {
	tc := NewTestContext()
	tc.Store.ApplyAction(context.Background(), moderation.EntityComment, moderation.ActionDelete, 502)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/101", nil)
	req.SetPathValue("id", "101")
	rec := httptest.NewRecorder()
	tc.Handler.HandlePostDetail(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[postDetailResponse](t, rec)
	assert.Equal(t, "우리 동네 불법 투기 해결!", body.Post.Title)
	assert.Equal(t, 5, body.Post.CommentsCount)
	assert.Len(t, body.Comments, 2)
	assert.Equal(t, 1, body.LiveCommentCount)
}

func TestHandlePostDetail_Errors(t *testing.T) {
	tests := []struct {
		id   string
		code int
	}{
		{"999", http.StatusNotFound},
		{"abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		tc := NewTestContext()
		req := httptest.NewRequest(http.MethodGet, "/api/posts/"+tt.id, nil)
		req.SetPathValue("id", tt.id)
		rec := httptest.NewRecorder()
		tc.Handler.HandlePostDetail(rec, req)
		assert.Equal(t, tt.code, rec.Code, tt.id)
	}
}

func TestHandleDashboard(t *testing.T) {
	tc := NewTestContext()
	state := view.NewState().SwitchTab(view.TabCommunity).WithSearch("분리수거")

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?"+stateQuery(state), nil)
	rec := httptest.NewRecorder()
	tc.Handler.HandleDashboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[dashboardResponse](t, rec)
	assert.Equal(t, view.ContentPosts, body.Content)
	assert.Equal(t, "커뮤니티 관리", body.Title)
	require.Len(t, body.Posts, 1)
	assert.Equal(t, 102, body.Posts[0].Record.ID)
	// the search term belongs to the community tab only
	assert.Len(t, body.Users, 5)
	assert.Equal(t, 5, body.Stats.Users)
	assert.Equal(t, 6, body.Stats.VisibleComments)
	assert.Equal(t, 2, body.Stats.PendingIllegalDumping)
	assert.Equal(t, 1, body.Stats.PendingCommunityAbuse)
}

func TestHandleDashboard_StaleSelectionReconciled(t *testing.T) {
	tc := NewTestContext()
	tc.Store.ApplyAction(context.Background(), moderation.EntityPost, moderation.ActionDelete, 103)

	state := view.NewState().SwitchTab(view.TabCommunity).ViewPostDetail(103)
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?"+stateQuery(state), nil)
	rec := httptest.NewRecorder()
	tc.Handler.HandleDashboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[dashboardResponse](t, rec)
	assert.Equal(t, view.ContentPosts, body.Content)
	assert.Nil(t, body.SelectedPost)
	assert.NotContains(t, body.Query, "selected")
}

func TestHandleAction_Applied(t *testing.T) {
	tc := NewTestContext()
	before := metrics.CounterValue(metrics.ActionsTotal.WithLabelValues("사용자", "정지", "applied"))

	req := NewFormRequest("/api/actions", actionForm(moderation.EntityUser, moderation.ActionSuspend, "1"))
	rec := httptest.NewRecorder()
	tc.Handler.HandleAction(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[moderation.Result](t, rec)
	assert.Equal(t, moderation.OutcomeApplied, res.Outcome)

	user, ok := tc.Store.User(1)
	require.True(t, ok)
	assert.Equal(t, moderation.UserStatusSuspended, user.Status)

	require.Len(t, tc.Logged(), 1)
	assert.Equal(t, "사용자:1", tc.Logged()[0].Target())
	assert.Equal(t, before+1, metrics.CounterValue(metrics.ActionsTotal.WithLabelValues("사용자", "정지", "applied")))
}

func TestHandleAction_ReportCascade(t *testing.T) {
	tc := NewTestContext(moderation.WithSnapshot(openUserReport()))

	req := NewFormRequest("/api/actions", actionForm(moderation.EntityReport, moderation.ActionWarn, "3"))
	rec := httptest.NewRecorder()
	tc.Handler.HandleAction(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[moderation.Result](t, rec)
	assert.Equal(t, moderation.OutcomeApplied, res.Outcome)
	require.NotNil(t, res.Cascade)
	assert.Equal(t, 2, res.Cascade.ID)
	assert.Equal(t, moderation.OutcomeApplied, res.Cascade.Outcome)

	report, ok := tc.Store.Report(3)
	require.True(t, ok)
	assert.Equal(t, moderation.ReportStatusWarned, report.Status)
	assert.True(t, report.IsProcessed)

	user, ok := tc.Store.User(2)
	require.True(t, ok)
	assert.Equal(t, moderation.UserStatusWarned, user.Status)
}

func TestHandleAction_DoneReportIsTerminal(t *testing.T) {
	tc := NewTestContext()

	req := NewFormRequest("/api/actions", actionForm(moderation.EntityReport, moderation.ActionWarn, "3"))
	rec := httptest.NewRecorder()
	tc.Handler.HandleAction(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[moderation.Result](t, rec)
	assert.Equal(t, moderation.OutcomeIgnored, res.Outcome)
	assert.Nil(t, res.Cascade)

	report, ok := tc.Store.Report(3)
	require.True(t, ok)
	assert.Equal(t, moderation.ReportStatusDone, report.Status)

	user, ok := tc.Store.User(2)
	require.True(t, ok)
	assert.Equal(t, moderation.UserStatusSuspended, user.Status)
}

func TestHandleAction_NotFoundIsNotAnError(t *testing.T) {
	tc := NewTestContext()

	req := NewFormRequest("/api/actions", actionForm(moderation.EntityCompany, moderation.ActionSuspend, "99"))
	rec := httptest.NewRecorder()
	tc.Handler.HandleAction(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[moderation.Result](t, rec)
	assert.Equal(t, moderation.OutcomeNotFound, res.Outcome)
}

func TestHandleAction_DestructiveNeedsConfirmation(t *testing.T) {
	tc := NewTestContext()
	before := metrics.CounterValue(metrics.ActionsDeclinedTotal.WithLabelValues("게시글"))

	req := NewFormRequest("/api/actions", actionForm(moderation.EntityPost, moderation.ActionDelete, "101"))
	rec := httptest.NewRecorder()
	tc.Handler.HandleAction(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode[errorResponse](t, rec)
	assert.Equal(t, view.ConfirmPrompt(moderation.EntityPost, 101), body.Prompt)

	_, ok := tc.Store.Post(101)
	assert.True(t, ok, "declined delete must leave the post")
	assert.Empty(t, tc.Logged())
	assert.Equal(t, before+1, metrics.CounterValue(metrics.ActionsDeclinedTotal.WithLabelValues("게시글")))
}

func TestHandleAction_ConfirmedDelete(t *testing.T) {
	tc := NewTestContext()

	form := actionForm(moderation.EntityPost, moderation.ActionDelete, "101")
	form.Set("confirm", "true")
	req := NewFormRequest("/api/actions", form)
	rec := httptest.NewRecorder()
	tc.Handler.HandleAction(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[moderation.Result](t, rec)
	assert.Equal(t, 101, res.RemovedPostID)
	assert.ElementsMatch(t, []int{501, 502}, res.RemovedComments)

	_, ok := tc.Store.Post(101)
	assert.False(t, ok)
	assert.Empty(t, tc.Store.CommentsForPost(101))
}

func TestHandleAction_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		msg  string
	}{
		{"unknown entity", actionForm("회원", moderation.ActionSuspend, "1"), "Unknown entity type"},
		{"missing action", actionForm(moderation.EntityUser, "", "1"), "Action is required"},
		{"bad id", actionForm(moderation.EntityUser, moderation.ActionSuspend, "x"), "Invalid id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := NewTestContext()
			rec := httptest.NewRecorder()
			tc.Handler.HandleAction(rec, NewFormRequest("/api/actions", tt.form))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
			assert.Empty(t, tc.Logged())
		})
	}
}

func TestHandleAddCompany(t *testing.T) {
	tc := NewTestContext()
	before := metrics.CounterValue(metrics.CompaniesCreatedTotal)

	form := url.Values{
		"registrationNumber": {"111-22-33333"},
		"name":               {"바른 환경"},
		"owner":              {"정대표"},
		"phone":              {"010-0000-1111"},
		"area":               {"마포구"},
	}
	rec := httptest.NewRecorder()
	tc.Handler.HandleAddCompany(rec, NewFormRequest("/api/companies", form))

	require.Equal(t, http.StatusCreated, rec.Code)
	company := decode[moderation.Company](t, rec)
	assert.Equal(t, 12, company.ID)
	assert.Equal(t, moderation.LicenseNormal, company.License)
	assert.Equal(t, moderation.CompanyStatusActive, company.Status)
	assert.Len(t, tc.Store.Companies(), 3)
	assert.Equal(t, before+1, metrics.CounterValue(metrics.CompaniesCreatedTotal))
}

func TestHandleAddCompany_MissingFields(t *testing.T) {
	tc := NewTestContext()
	before := metrics.CounterValue(metrics.CompanyRejectionsTotal)

	form := url.Values{
		"registrationNumber": {"111-22-33333"},
		"name":               {"   "},
		"phone":              {"010-0000-1111"},
		"area":               {"마포구"},
	}
	rec := httptest.NewRecorder()
	tc.Handler.HandleAddCompany(rec, NewFormRequest("/api/companies", form))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorResponse](t, rec)
	assert.ElementsMatch(t, []string{"name", "owner"}, body.MissingFields)
	assert.Len(t, tc.Store.Companies(), 2)
	assert.Equal(t, before+1, metrics.CounterValue(metrics.CompanyRejectionsTotal))
}

func TestHandleAuditLog(t *testing.T) {
	tc := NewTestContext()
	entry := moderation.AuditEntry{
		ID:       "3lbaudit00001",
		Entity:   moderation.EntityUser,
		Action:   moderation.ActionWarn,
		TargetID: 3,
		Outcome:  moderation.OutcomeApplied,
	}

	var gotLimit int
	tc.MockAudit.ListAuditLogFunc = func(ctx context.Context, limit int) ([]moderation.AuditEntry, error) {
		gotLimit = limit
		return []moderation.AuditEntry{entry}, nil
	}
	var gotEntity moderation.EntityType
	var gotID int
	tc.MockAudit.ListAuditLogForTargetFunc = func(ctx context.Context, entity moderation.EntityType, id int, limit int) ([]moderation.AuditEntry, error) {
		gotEntity, gotID = entity, id
		return nil, nil
	}

	rec := httptest.NewRecorder()
	tc.Handler.HandleAuditLog(rec, httptest.NewRequest(http.MethodGet, "/api/audit?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, gotLimit)
	body := decode[auditResponse](t, rec)
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "사용자:3", body.Entries[0].Target())

	q := url.Values{"entity": {"사용자"}, "id": {"3"}}
	rec = httptest.NewRecorder()
	tc.Handler.HandleAuditLog(rec, httptest.NewRequest(http.MethodGet, "/api/audit?"+q.Encode(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, moderation.EntityUser, gotEntity)
	assert.Equal(t, 3, gotID)
	assert.JSONEq(t, `{"entries":[]}`, rec.Body.String())
}

func TestHandleAuditLog_Errors(t *testing.T) {
	tc := NewTestContext()
	tc.MockAudit.ListAuditLogFunc = func(ctx context.Context, limit int) ([]moderation.AuditEntry, error) {
		return nil, errors.New("disk gone")
	}

	rec := httptest.NewRecorder()
	tc.Handler.HandleAuditLog(rec, httptest.NewRequest(http.MethodGet, "/api/audit", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	tc.Handler.HandleAuditLog(rec, httptest.NewRequest(http.MethodGet, "/api/audit?entity=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

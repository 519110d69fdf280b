package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"barogreen/internal/moderation"
	"barogreen/internal/view"
	"barogreen/internal/web/pages"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleAdmin_RendersState(t *testing.T) {
	tc := NewTestContext()
	state := view.NewState().SwitchTab(view.TabCompanies)

	rec := httptest.NewRecorder()
	tc.Handler.HandleAdmin(rec, httptest.NewRequest(http.MethodGet, "/admin?"+stateQuery(state), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "그린 청소 대행")
	assert.Contains(t, body, "신속 폐기물 처리")
	assert.NotContains(t, body, "chulsu@example.com")
}

func TestHandleAdminAction_RedirectsToState(t *testing.T) {
	tc := NewTestContext()
	state := view.NewState().SwitchTab(view.TabCommunity).WithSearch("투기")

	form := actionForm(moderation.EntityPost, moderation.ActionEdit, "101")
	for k, v := range state.Values() {
		form[k] = v
	}
	rec := httptest.NewRecorder()
	tc.Handler.HandleAdminAction(rec, NewFormRequest(pages.AdminActionPath, form))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, pages.StateURL(state), rec.Header().Get("Location"))

	post, ok := tc.Store.Post(101)
	require.True(t, ok)
	assert.Equal(t, moderation.PostStatusPublic, post.Status)
	require.Len(t, tc.Logged(), 1)
	assert.Equal(t, moderation.OutcomeAcknowledged, tc.Logged()[0].Outcome)
}

func TestHandleAdminAction_DeleteClosesDetail(t *testing.T) {
	tc := NewTestContext()
	state := view.NewState().SwitchTab(view.TabCommunity).ViewPostDetail(104)

	form := actionForm(moderation.EntityPost, moderation.ActionDelete, "104")
	form.Set("confirm", "true")
	for k, v := range state.Values() {
		form[k] = v
	}
	rec := httptest.NewRecorder()
	tc.Handler.HandleAdminAction(rec, NewFormRequest(pages.AdminActionPath, form))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	want := state
	want.SelectedPostID = 0
	assert.Equal(t, pages.StateURL(want), rec.Header().Get("Location"))
}

func TestHandleAdminAction_DeclinedLeavesStore(t *testing.T) {
	tc := NewTestContext()

	form := actionForm(moderation.EntityComment, moderation.ActionDelete, "503")
	rec := httptest.NewRecorder()
	tc.Handler.HandleAdminAction(rec, NewFormRequest(pages.AdminActionPath, form))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	comment, ok := tc.Store.Comment(503)
	require.True(t, ok)
	assert.Equal(t, moderation.CommentStatusFlagged, comment.Status)
}

func TestHandleAdminCompany_RejectedKeepsInput(t *testing.T) {
	tc := NewTestContext()
	state := view.NewState().SwitchTab(view.TabCompanies).OpenCompanyForm()

	form := url.Values{
		"registrationNumber": {"555-66-77777"},
		"name":               {"깨끗한 마을"},
	}
	for k, v := range state.Values() {
		form[k] = v
	}
	rec := httptest.NewRecorder()
	tc.Handler.HandleAdminCompany(rec, NewFormRequest(pages.AdminCompanyPath, form))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "555-66-77777")
	assert.Contains(t, body, "깨끗한 마을")
	assert.Len(t, tc.Store.Companies(), 2)
}

func TestHandleAdminCompany_Created(t *testing.T) {
	tc := NewTestContext()
	state := view.NewState().SwitchTab(view.TabCompanies).OpenCompanyForm()

	form := url.Values{
		"registrationNumber": {"555-66-77777"},
		"name":               {"깨끗한 마을"},
		"owner":              {"한대표"},
		"phone":              {"010-2222-3333"},
		"area":               {"용산구"},
	}
	for k, v := range state.Values() {
		form[k] = v
	}
	rec := httptest.NewRecorder()
	tc.Handler.HandleAdminCompany(rec, NewFormRequest(pages.AdminCompanyPath, form))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, pages.StateURL(state.CloseCompanyForm()), rec.Header().Get("Location"))

	company, ok := tc.Store.Company(12)
	require.True(t, ok)
	assert.Equal(t, "깨끗한 마을", company.Name)
}

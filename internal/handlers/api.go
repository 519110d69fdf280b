package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"barogreen/internal/metrics"
	"barogreen/internal/moderation"
	"barogreen/internal/view"
	"barogreen/internal/web/pages"

	"github.com/rs/zerolog/log"
)

// listResponse is the body of the collection endpoints
type listResponse[T view.Record] struct {
	Items []Row[T] `json:"items"`
	// Total is the collection size before filtering
	Total int `json:"total"`
}

func serveList[T view.Record](w http.ResponseWriter, r *http.Request, name string, tab view.Tab, fields []string, items []T) {
	// The route names the collection, so the query's tab never hides the
	// search term or the post and category filters
	state := view.ParseState(r.URL.Query())
	state.Tab = tab
	filtered := view.Filter(items, fields, state)
	writeJSON(w, http.StatusOK, listResponse[T]{Items: rows(filtered), Total: len(items)}, name)
}

// HandleListUsers handles GET /api/users
func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "users", view.TabUsers, view.UserFields, h.store.Users())
}

// HandleListPosts handles GET /api/posts
func (h *Handler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "posts", view.TabCommunity, view.PostFields, h.store.Posts())
}

// HandleListComments handles GET /api/comments. ?post= narrows to one post.
func (h *Handler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "comments", view.TabCommunity, view.CommentFields, h.store.Comments())
}

// HandleListReports handles GET /api/reports. ?report_view= picks the
// category, illegal_dumping by default.
func (h *Handler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "reports", view.TabReports, view.ReportFields, h.store.Reports())
}

// HandleListCompanies handles GET /api/companies
func (h *Handler) HandleListCompanies(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "companies", view.TabCompanies, view.CompanyFields, h.store.Companies())
}

// postDetailResponse is the body of GET /api/posts/{id}
type postDetailResponse struct {
	Post     moderation.Post           `json:"post"`
	Actions  []view.Control            `json:"actions"`
	Comments []Row[moderation.Comment] `json:"comments"`
	// LiveCommentCount counts the post's comments that are not deleted;
	// Post.CommentsCount is the cached figure
	LiveCommentCount int `json:"liveCommentCount"`
}

// HandlePostDetail handles GET /api/posts/{id}
func (h *Handler) HandlePostDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid post id")
		return
	}
	post, ok := h.store.Post(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	comments := h.store.CommentsForPost(id)
	live := 0
	for _, c := range comments {
		if c.Status != moderation.CommentStatusDeleted {
			live++
		}
	}

	writeJSON(w, http.StatusOK, postDetailResponse{
		Post:             post,
		Actions:          view.AvailableActions(post),
		Comments:         rows(comments),
		LiveCommentCount: live,
	}, "post detail")
}

// dashboardResponse is the body of GET /api/dashboard
type dashboardResponse struct {
	Title             string       `json:"title"`
	SearchPlaceholder string       `json:"searchPlaceholder"`
	Content           view.Content `json:"content"`
	ReportViewTitle   string       `json:"reportViewTitle"`
	// Query re-encodes the reconciled view state
	Query string `json:"query"`

	Users        []Row[moderation.User]    `json:"users"`
	Posts        []Row[moderation.Post]    `json:"posts"`
	Comments     []Row[moderation.Comment] `json:"comments"`
	Reports      []Row[moderation.Report]  `json:"reports"`
	Companies    []Row[moderation.Company] `json:"companies"`
	SelectedPost *moderation.Post          `json:"selectedPost,omitempty"`
	PostComments []Row[moderation.Comment] `json:"postComments,omitempty"`

	Stats pages.Stats `json:"stats"`
}

// HandleDashboard handles GET /api/dashboard
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	state := h.reconcile(view.ParseState(r.URL.Query()))

	p, err := h.buildProjections(r.Context(), state)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build dashboard projections")
		writeError(w, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}

	resp := dashboardResponse{
		Title:             state.Title(),
		SearchPlaceholder: state.SearchPlaceholder(),
		Content:           state.Content(),
		ReportViewTitle:   state.ReportViewTitle(),
		Query:             state.Values().Encode(),
		Users:             rows(p.Users),
		Posts:             rows(p.Posts),
		Comments:          rows(p.Comments),
		Reports:           rows(p.Reports),
		Companies:         rows(p.Companies),
		SelectedPost:      p.SelectedPost,
		Stats:             h.collectStats(),
	}
	if p.SelectedPost != nil {
		resp.PostComments = rows(p.PostComments)
	}
	writeJSON(w, http.StatusOK, resp, "dashboard")
}

// actionRequest is the parsed form of an action submission
type actionRequest struct {
	Entity    moderation.EntityType
	Action    moderation.Action
	ID        int
	Confirmed bool
}

// parseActionForm reads entity, action, id and confirm from a parsed form.
// The returned message is empty when the request is valid.
func parseActionForm(r *http.Request) (actionRequest, string) {
	entity, err := moderation.ParseEntityType(r.FormValue("entity"))
	if err != nil {
		return actionRequest{}, "Unknown entity type"
	}
	action := moderation.Action(strings.TrimSpace(r.FormValue("action")))
	if action == "" {
		return actionRequest{}, "Action is required"
	}
	id, ok := parseID(r.FormValue("id"))
	if !ok {
		return actionRequest{}, "Invalid id"
	}
	return actionRequest{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Confirmed: r.FormValue("confirm") == "true",
	}, ""
}

// dispatch applies the request through the confirmation gate and counts it
func (h *Handler) dispatch(ctx context.Context, req actionRequest) (moderation.Result, error) {
	d := view.Dispatcher{
		Store: h.store,
		Confirmer: view.ConfirmFunc(func(context.Context, string) bool {
			return req.Confirmed
		}),
	}
	res, err := d.Dispatch(ctx, req.Entity, req.Action, req.ID)
	if err != nil {
		metrics.ActionsDeclinedTotal.WithLabelValues(string(req.Entity)).Inc()
		return res, err
	}
	countAction(res)
	return res, nil
}

func countAction(res moderation.Result) {
	metrics.ActionsTotal.WithLabelValues(string(res.Entity), string(res.Action), string(res.Outcome)).Inc()
	if res.Cascade != nil {
		countAction(*res.Cascade)
	}
}

// HandleAction handles POST /api/actions
func (h *Handler) HandleAction(w http.ResponseWriter, r *http.Request) {
	// Parse form data only (JSON is rejected to prevent CSRF bypass)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req, msg := parseActionForm(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := h.dispatch(r.Context(), req)
	if errors.Is(err, view.ErrNotConfirmed) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:  "Confirmation required",
			Prompt: view.ConfirmPrompt(req.Entity, req.ID),
		}, "action")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to apply action")
		writeError(w, http.StatusInternalServerError, "Failed to apply action")
		return
	}

	writeJSON(w, http.StatusOK, res, "action")
}

// submitCompanyForm copies the form fields into a CompanyForm and submits it
func (h *Handler) submitCompanyForm(ctx context.Context, r *http.Request) (view.CompanyForm, moderation.Company, error) {
	form := view.CompanyForm{Open: true}
	for _, f := range view.CompanyFormFields {
		form.Set(f.Name, r.FormValue(f.Name))
	}
	company, err := form.Submit(ctx, h.store)
	if err != nil {
		metrics.CompanyRejectionsTotal.Inc()
		return form, moderation.Company{}, err
	}
	metrics.CompaniesCreatedTotal.Inc()
	return form, company, nil
}

// HandleAddCompany handles POST /api/companies
func (h *Handler) HandleAddCompany(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, company, err := h.submitCompanyForm(r.Context(), r)
	if missing := validationFields(err); missing != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:         "모든 필드를 입력해주세요.",
			MissingFields: missing,
		}, "company")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to add company")
		writeError(w, http.StatusInternalServerError, "Failed to add company")
		return
	}

	writeJSON(w, http.StatusCreated, company, "company")
}

// validationFields returns the missing fields reported by err, or nil when
// err is not a validation failure
func validationFields(err error) []string {
	var verr *moderation.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}

// auditResponse is the body of GET /api/audit
type auditResponse struct {
	Entries []moderation.AuditEntry `json:"entries"`
}

// HandleAuditLog handles GET /api/audit. ?entity= and ?id= narrow the log to
// one record; ?limit= caps the number of entries.
func (h *Handler) HandleAuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := parseLimit(q.Get("limit"), h.config.AuditLimit)

	var entries []moderation.AuditEntry
	var err error
	if raw := q.Get("entity"); raw != "" {
		entity, perr := moderation.ParseEntityType(raw)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Unknown entity type")
			return
		}
		id, ok := parseID(q.Get("id"))
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid id")
			return
		}
		entries, err = h.audit.ListAuditLogForTarget(r.Context(), entity, id, limit)
	} else {
		entries, err = h.audit.ListAuditLog(r.Context(), limit)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to list audit log")
		writeError(w, http.StatusInternalServerError, "Failed to list audit log")
		return
	}

	if entries == nil {
		entries = []moderation.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, auditResponse{Entries: entries}, "audit log")
}

package handlers

import (
	"errors"
	"net/http"

	"barogreen/internal/middleware"
	"barogreen/internal/view"
	"barogreen/internal/web/pages"

	"github.com/rs/zerolog/log"
)

// renderDashboard builds the page for state and writes it with status
func (h *Handler) renderDashboard(w http.ResponseWriter, r *http.Request, status int, state view.State, form view.CompanyForm, missing []string) {
	state = h.reconcile(state)

	p, err := h.buildProjections(r.Context(), state)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build dashboard projections")
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}

	form.Open = state.CompanyFormOpen
	props := pages.DashboardProps{
		State:         state,
		Users:         p.Users,
		Posts:         p.Posts,
		Comments:      p.Comments,
		Reports:       p.Reports,
		Companies:     p.Companies,
		SelectedPost:  p.SelectedPost,
		PostComments:  p.PostComments,
		Form:          form,
		MissingFields: missing,
		Stats:         h.collectStats(),
		CSRFToken:     middleware.GetCSRFToken(r),
		CSPNonce:      middleware.CSPNonceFromContext(r.Context()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.Dashboard(props).Render(r.Context(), w); err != nil {
		log.Error().Err(err).Msg("Failed to render dashboard")
	}
}

// HandleAdmin handles GET /admin
func (h *Handler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, http.StatusOK, view.ParseState(r.URL.Query()), view.CompanyForm{}, nil)
}

// HandleAdminAction handles POST /admin/actions, the form behind every
// action button. It redirects back to the dashboard state the button was
// rendered in, adjusted for what the action changed.
func (h *Handler) HandleAdminAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	state := view.ParseState(r.PostForm)

	req, msg := parseActionForm(r)
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	res, err := h.dispatch(r.Context(), req)
	if errors.Is(err, view.ErrNotConfirmed) {
		http.Redirect(w, r, pages.StateURL(state), http.StatusSeeOther)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to apply action")
		http.Error(w, "Failed to apply action", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, pages.StateURL(state.AfterAction(res)), http.StatusSeeOther)
}

// HandleAdminCompany handles POST /admin/companies. A rejected submission
// re-renders the page with the form open and the entered values kept.
func (h *Handler) HandleAdminCompany(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	state := view.ParseState(r.PostForm)

	form, _, err := h.submitCompanyForm(r.Context(), r)
	if err != nil {
		var missing []string
		if verr := validationFields(err); verr != nil {
			missing = verr
		} else {
			log.Error().Err(err).Msg("Failed to add company")
		}
		if state.Tab != view.TabCompanies {
			state = state.SwitchTab(view.TabCompanies)
		}
		state = state.OpenCompanyForm()
		h.renderDashboard(w, r, http.StatusBadRequest, state, form, missing)
		return
	}

	http.Redirect(w, r, pages.StateURL(state.CloseCompanyForm()), http.StatusSeeOther)
}

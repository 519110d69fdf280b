package handlers

import (
	"context"

	"barogreen/internal/moderation"
	"barogreen/internal/view"
	"barogreen/internal/web/pages"

	"golang.org/x/sync/errgroup"
)

// Row pairs a record with the controls the dashboard offers for it
type Row[T view.Record] struct {
	Record  T              `json:"record"`
	Actions []view.Control `json:"actions"`
}

func rows[T view.Record](items []T) []Row[T] {
	result := make([]Row[T], 0, len(items))
	for _, item := range items {
		result = append(result, Row[T]{Record: item, Actions: view.AvailableActions(item)})
	}
	return result
}

// projectionState is the state a collection is filtered with. The route or
// panel fixes the tab; a search term only applies to the tab it was typed on.
func projectionState(s view.State, tab view.Tab) view.State {
	if s.Tab != tab {
		s.Search = ""
	}
	s.Tab = tab
	return s
}

// projections holds every filtered collection for one view state
type projections struct {
	Users        []moderation.User
	Posts        []moderation.Post
	Comments     []moderation.Comment
	Reports      []moderation.Report
	Companies    []moderation.Company
	SelectedPost *moderation.Post
	PostComments []moderation.Comment
}

// buildProjections filters a single snapshot of the store for state,
// one collection per goroutine.
func (h *Handler) buildProjections(ctx context.Context, state view.State) (projections, error) {
	snap := h.store.Snapshot()

	g, ctx := errgroup.WithContext(ctx)
	var p projections

	g.Go(func() error {
		p.Users = view.Filter(snap.Users, view.UserFields, projectionState(state, view.TabUsers))
		return ctx.Err()
	})
	g.Go(func() error {
		p.Posts = view.Filter(snap.Posts, view.PostFields, projectionState(state, view.TabCommunity))
		return ctx.Err()
	})
	g.Go(func() error {
		p.Comments = view.Filter(snap.Comments, view.CommentFields, projectionState(state, view.TabCommunity))
		return ctx.Err()
	})
	g.Go(func() error {
		p.Reports = view.Filter(snap.Reports, view.ReportFields, projectionState(state, view.TabReports))
		return ctx.Err()
	})
	g.Go(func() error {
		p.Companies = view.Filter(snap.Companies, view.CompanyFields, projectionState(state, view.TabCompanies))
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return projections{}, err
	}

	if state.SelectedPostID != 0 {
		for i := range snap.Posts {
			if snap.Posts[i].ID == state.SelectedPostID {
				post := snap.Posts[i]
				p.SelectedPost = &post
				break
			}
		}
		for _, c := range snap.Comments {
			if c.PostID == state.SelectedPostID {
				p.PostComments = append(p.PostComments, c)
			}
		}
	}
	return p, nil
}

// collectStats gathers the summary counts shown above the main panel
func (h *Handler) collectStats() pages.Stats {
	counts := h.store.Counts()
	pending := h.store.PendingReports()
	return pages.Stats{
		Users:                 counts["users"],
		Posts:                 counts["posts"],
		Comments:              counts["comments"],
		VisibleComments:       len(h.store.VisibleComments()),
		Reports:               counts["reports"],
		Companies:             counts["companies"],
		PendingIllegalDumping: pending[moderation.CategoryIllegalDumping],
		PendingCommunityAbuse: pending[moderation.CategoryCommunityAbuse],
	}
}

// reconcile closes a post detail view whose post is gone
func (h *Handler) reconcile(state view.State) view.State {
	return state.Reconcile(func(id int) bool {
		_, ok := h.store.Post(id)
		return ok
	})
}

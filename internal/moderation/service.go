package moderation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"barogreen/internal/tracing"

	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

// Service owns the five entity collections and applies moderation actions
// to them. Every mutation replaces the affected collection with a new slice;
// records that did not change keep their previous values.
type Service struct {
	mu sync.RWMutex

	users     []User
	posts     []Post
	comments  []Comment
	reports   []Report
	companies []Company

	nextCompanyID int

	audit    AuditStore
	validate *validator.Validate
	now      func() time.Time
	tids     *syntax.TIDClock
}

// Option configures a Service
type Option func(*Service)

// WithSnapshot seeds the service with the given collections instead of the
// built-in fixtures
func WithSnapshot(snap Snapshot) Option {
	return func(s *Service) {
		s.users = slices.Clone(snap.Users)
		s.posts = slices.Clone(snap.Posts)
		s.comments = slices.Clone(snap.Comments)
		s.reports = slices.Clone(snap.Reports)
		s.companies = slices.Clone(snap.Companies)
	}
}

// WithAuditStore sets where the audit trail is written.
// The default is an in-memory store.
func WithAuditStore(store AuditStore) Option {
	return func(s *Service) {
		if store != nil {
			s.audit = store
		}
	}
}

// WithClock overrides the clock used for audit timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a moderation service seeded with Fixtures()
func NewService(opts ...Option) *Service {
	s := &Service{
		audit:    NewMemoryAuditStore(),
		validate: newValidator(),
		now:      time.Now,
		tids:     syntax.NewTIDClock(0),
	}
	WithSnapshot(Fixtures())(s)
	for _, opt := range opts {
		opt(s)
	}

	s.nextCompanyID = 1
	for _, c := range s.companies {
		if c.ID >= s.nextCompanyID {
			s.nextCompanyID = c.ID + 1
		}
	}

	log.Debug().
		Int("users", len(s.users)).
		Int("posts", len(s.posts)).
		Int("comments", len(s.comments)).
		Int("reports", len(s.reports)).
		Int("companies", len(s.companies)).
		Msg("moderation: collections loaded")

	return s
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report missing fields by their form names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// AuditLog returns the store the service writes its audit trail to
func (s *Service) AuditLog() AuditStore {
	return s.audit
}

// ApplyAction applies action to the record of the given entity type with
// the given id. A missing record or an action the entity does not accept is
// a no-op reported through the Result's Outcome; it is never an error.
func (s *Service) ApplyAction(ctx context.Context, entity EntityType, action Action, id int) Result {
	ctx, span := tracing.ActionSpan(ctx, string(entity), string(action), id)
	defer span.End()

	s.mu.Lock()
	var res Result
	switch entity {
	case EntityUser:
		res = s.applyUserLocked(action, id)
	case EntityComment:
		res = s.applyCommentLocked(action, id)
	case EntityPost:
		res = s.applyPostLocked(action, id)
	case EntityReport:
		res = s.applyReportLocked(action, id)
	case EntityCompany:
		res = s.applyCompanyLocked(action, id)
	default:
		res = Result{Entity: entity, Action: action, ID: id, Outcome: OutcomeIgnored}
	}
	s.mu.Unlock()

	span.SetAttributes(attribute.String("moderation.outcome", string(res.Outcome)))

	log.Info().
		Str("entity", string(entity)).
		Str("action", string(action)).
		Int("id", id).
		Str("outcome", string(res.Outcome)).
		Msg("moderation: action applied")

	if err := s.record(ctx, res); err != nil {
		tracing.EndWithError(span, err)
		log.Error().Err(err).Str("target", string(entity)+":"+strconv.Itoa(id)).Msg("moderation: failed to write audit entry")
	}

	return res
}

func (s *Service) applyUserLocked(action Action, id int) Result {
	res := Result{Entity: EntityUser, Action: action, ID: id, Outcome: OutcomeNotFound}
	users, outcome, ok := s.transitionUserLocked(action, id)
	if ok {
		res.Outcome = outcome
		s.users = users
	}
	return res
}

// transitionUserLocked computes the user collection after applying action to
// user id without committing it. ok is false when no user has that id.
func (s *Service) transitionUserLocked(action Action, id int) ([]User, Outcome, bool) {
	i := slices.IndexFunc(s.users, func(u User) bool { return u.ID == id })
	if i < 0 {
		return s.users, OutcomeNotFound, false
	}
	next, outcome := TransitionUser(s.users[i], action)
	return replaceAt(s.users, i, next), outcome, true
}

func (s *Service) applyCommentLocked(action Action, id int) Result {
	res := Result{Entity: EntityComment, Action: action, ID: id, Outcome: OutcomeNotFound}
	i := slices.IndexFunc(s.comments, func(c Comment) bool { return c.ID == id })
	if i < 0 {
		return res
	}
	next, outcome := TransitionComment(s.comments[i], action)
	res.Outcome = outcome
	s.comments = replaceAt(s.comments, i, next)
	return res
}

func (s *Service) applyPostLocked(action Action, id int) Result {
	res := Result{Entity: EntityPost, Action: action, ID: id, Outcome: OutcomeNotFound}
	i := slices.IndexFunc(s.posts, func(p Post) bool { return p.ID == id })
	if i < 0 {
		return res
	}
	res.Outcome = TransitionPost(action)
	if res.Outcome != OutcomeRemoved {
		return res
	}

	posts := make([]Post, 0, len(s.posts)-1)
	posts = append(posts, s.posts[:i]...)
	posts = append(posts, s.posts[i+1:]...)

	comments := make([]Comment, 0, len(s.comments))
	for _, c := range s.comments {
		if c.PostID == id {
			res.RemovedComments = append(res.RemovedComments, c.ID)
			continue
		}
		comments = append(comments, c)
	}

	s.posts = posts
	s.comments = comments
	res.RemovedPostID = id
	return res
}

// applyReportLocked applies a report action and, for community reports
// against a user, the matching user action. Both updated collections are
// computed before either is committed.
func (s *Service) applyReportLocked(action Action, id int) Result {
	res := Result{Entity: EntityReport, Action: action, ID: id, Outcome: OutcomeNotFound}
	i := slices.IndexFunc(s.reports, func(r Report) bool { return r.ID == id })
	if i < 0 {
		return res
	}

	report := s.reports[i]
	next, outcome := TransitionReport(report, action)
	res.Outcome = outcome

	users := s.users
	if CascadesToUser(report, action) {
		cascade := Result{Entity: EntityUser, Action: action, ID: report.TargetID, Outcome: OutcomeNotFound}
		if updated, userOutcome, ok := s.transitionUserLocked(action, report.TargetID); ok {
			users = updated
			cascade.Outcome = userOutcome
		}
		res.Cascade = &cascade
	}

	s.users = users
	s.reports = replaceAt(s.reports, i, next)
	return res
}

func (s *Service) applyCompanyLocked(action Action, id int) Result {
	res := Result{Entity: EntityCompany, Action: action, ID: id, Outcome: OutcomeNotFound}
	i := slices.IndexFunc(s.companies, func(c Company) bool { return c.ID == id })
	if i < 0 {
		return res
	}
	next, outcome := TransitionCompany(s.companies[i], action)
	res.Outcome = outcome
	s.companies = replaceAt(s.companies, i, next)
	return res
}

// replaceAt returns items with index i set to v. When v equals the current
// value the original slice is returned untouched.
func replaceAt[T comparable](items []T, i int, v T) []T {
	if items[i] == v {
		return items
	}
	next := slices.Clone(items)
	next[i] = v
	return next
}

// AddCompany registers a new service company. Every field is trimmed and
// must be non-empty; otherwise a *ValidationError is returned and nothing
// changes.
func (s *Service) AddCompany(ctx context.Context, in CompanyInput) (Company, error) {
	in = CompanyInput{
		RegistrationNumber: strings.TrimSpace(in.RegistrationNumber),
		Name:               strings.TrimSpace(in.Name),
		Owner:              strings.TrimSpace(in.Owner),
		Phone:              strings.TrimSpace(in.Phone),
		Area:               strings.TrimSpace(in.Area),
	}
	if err := s.validateInput(in); err != nil {
		log.Warn().Err(err).Msg("moderation: company rejected")
		return Company{}, err
	}

	s.mu.Lock()
	company := Company{
		ID:                 s.nextCompanyID,
		RegistrationNumber: in.RegistrationNumber,
		Name:               in.Name,
		Owner:              in.Owner,
		Phone:              in.Phone,
		Area:               in.Area,
		License:            LicenseNormal,
		Status:             CompanyStatusActive,
	}
	s.nextCompanyID++
	companies := make([]Company, 0, len(s.companies)+1)
	companies = append(companies, s.companies...)
	s.companies = append(companies, company)
	s.mu.Unlock()

	log.Info().Int("id", company.ID).Str("name", company.Name).Msg("moderation: company added")

	entry := s.newEntry(EntityCompany, ActionAdd, company.ID, OutcomeApplied)
	entry.Details = map[string]string{
		"name":                company.Name,
		"registration_number": company.RegistrationNumber,
	}
	if err := s.audit.LogAction(ctx, entry); err != nil {
		log.Error().Err(err).Str("target", entry.Target()).Msg("moderation: failed to write audit entry")
	}

	return company, nil
}

func (s *Service) validateInput(in CompanyInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return fmt.Errorf("failed to validate company: %w", err)
	}
	fields := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields}
}

func (s *Service) newEntry(entity EntityType, action Action, id int, outcome Outcome) AuditEntry {
	return AuditEntry{
		ID:        s.tids.Next().String(),
		Entity:    entity,
		Action:    action,
		TargetID:  id,
		Outcome:   outcome,
		Timestamp: s.now(),
	}
}

func (s *Service) record(ctx context.Context, res Result) error {
	entry := s.newEntry(res.Entity, res.Action, res.ID, res.Outcome)
	details := map[string]string{}
	if len(res.RemovedComments) > 0 {
		ids := make([]string, len(res.RemovedComments))
		for i, id := range res.RemovedComments {
			ids[i] = strconv.Itoa(id)
		}
		details["removed_comments"] = strings.Join(ids, ",")
	}
	if res.Cascade != nil {
		details["cascade_user"] = strconv.Itoa(res.Cascade.ID)
		details["cascade_outcome"] = string(res.Cascade.Outcome)
	}
	if len(details) > 0 {
		entry.Details = details
	}
	return s.audit.LogAction(ctx, entry)
}

// Users returns a copy of the user collection
func (s *Service) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

// Posts returns a copy of the post collection
func (s *Service) Posts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.posts)
}

// Comments returns a copy of the comment collection, soft-deleted comments
// included
func (s *Service) Comments() []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.comments)
}

// Reports returns a copy of the report collection
func (s *Service) Reports() []Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reports)
}

// Companies returns a copy of the company collection
func (s *Service) Companies() []Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.companies)
}

// Snapshot returns a consistent copy of all five collections
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Users:     slices.Clone(s.users),
		Posts:     slices.Clone(s.posts),
		Comments:  slices.Clone(s.comments),
		Reports:   slices.Clone(s.reports),
		Companies: slices.Clone(s.companies),
	}
}

// User looks up a user by id
func (s *Service) User(id int) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.users, func(u User) bool { return u.ID == id })
}

// Post looks up a post by id
func (s *Service) Post(id int) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.posts, func(p Post) bool { return p.ID == id })
}

// Comment looks up a comment by id
func (s *Service) Comment(id int) (Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.comments, func(c Comment) bool { return c.ID == id })
}

// Report looks up a report by id
func (s *Service) Report(id int) (Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.reports, func(r Report) bool { return r.ID == id })
}

// Company looks up a company by id
func (s *Service) Company(id int) (Company, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.companies, func(c Company) bool { return c.ID == id })
}

// CommentsForPost returns every comment on the post, soft-deleted included
func (s *Service) CommentsForPost(postID int) []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			result = append(result, c)
		}
	}
	return result
}

// VisibleComments returns the comments that are not soft-deleted
func (s *Service) VisibleComments() []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Comment, 0, len(s.comments))
	for _, c := range s.comments {
		if c.Status != CommentStatusDeleted {
			result = append(result, c)
		}
	}
	return result
}

// Counts returns the number of records in each collection keyed by the
// collection's English name
func (s *Service) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		"users":     len(s.users),
		"posts":     len(s.posts),
		"comments":  len(s.comments),
		"reports":   len(s.reports),
		"companies": len(s.companies),
	}
}

// PendingReports counts reports that still need an action: received or in
// progress, per category
func (s *Service) PendingReports() map[ReportCategory]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := map[ReportCategory]int{
		CategoryIllegalDumping: 0,
		CategoryCommunityAbuse: 0,
	}
	for _, r := range s.reports {
		if r.Status == ReportStatusReceived || r.Status == ReportStatusInProgress {
			result[r.Category]++
		}
	}
	return result
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	if i := slices.IndexFunc(items, match); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

package moderation

import (
	"strconv"
	"time"
)

// EntityType identifies which collection an action targets
type EntityType string

const (
	EntityUser    EntityType = "사용자"
	EntityPost    EntityType = "게시글"
	EntityComment EntityType = "댓글"
	EntityReport  EntityType = "신고"
	EntityCompany EntityType = "업체"
)

// AllEntityTypes returns every entity type the store manages
func AllEntityTypes() []EntityType {
	return []EntityType{
		EntityUser,
		EntityPost,
		EntityComment,
		EntityReport,
		EntityCompany,
	}
}

// Valid reports whether e names a known collection
func (e EntityType) Valid() bool {
	switch e {
	case EntityUser, EntityPost, EntityComment, EntityReport, EntityCompany:
		return true
	}
	return false
}

// Action is a moderation action requested from the dashboard.
// Each entity type accepts a subset; anything else is a no-op.
type Action string

const (
	ActionSuspend  Action = "정지"
	ActionActivate Action = "활성"
	ActionWarn     Action = "경고"
	ActionEdit     Action = "수정"
	ActionDelete   Action = "삭제"
	ActionProcess  Action = "처리"
	ActionComplete Action = "완료"

	// ActionAdd is recorded in the audit trail when a company is registered.
	// ApplyAction does not accept it.
	ActionAdd Action = "추가"
)

// Destructive reports whether the action removes or hides content and
// therefore needs explicit confirmation before it is applied.
func Destructive(entity EntityType, action Action) bool {
	return action == ActionDelete && (entity == EntityComment || entity == EntityPost)
}

// Role is informational only; it never affects which actions apply
type Role string

const (
	RoleMember  Role = "일반"
	RoleCompany Role = "업체"
	RoleAdmin   Role = "관리자"
)

// UserStatus is the account state of a platform user
type UserStatus string

const (
	UserStatusActive    UserStatus = "활성"
	UserStatusSuspended UserStatus = "정지"
	UserStatusDormant   UserStatus = "휴면"
	UserStatusWarned    UserStatus = "경고"
)

// User is a platform account
type User struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   Role       `json:"role"`
	Status UserStatus `json:"status"`
}

// PostStatus is the visibility of a community post
type PostStatus string

const (
	PostStatusPublic  PostStatus = "공개"
	PostStatusPrivate PostStatus = "비공개"
)

// Post is a community post.
// CommentsCount is the cached count shipped with the record; it is not
// recomputed when comments change.
type Post struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Date          string     `json:"date"`
	Content       string     `json:"content"`
	CommentsCount int        `json:"commentsCount"`
	Status        PostStatus `json:"status"`
}

// CommentStatus is the moderation state of a comment
type CommentStatus string

const (
	CommentStatusActive  CommentStatus = "활성"
	CommentStatusFlagged CommentStatus = "신고됨"
	CommentStatusDeleted CommentStatus = "삭제됨"
)

// Comment belongs to exactly one post via PostID
type Comment struct {
	ID      int           `json:"id"`
	Content string        `json:"content"`
	PostID  int           `json:"postId"`
	Author  string        `json:"author"`
	Date    string        `json:"date"`
	Status  CommentStatus `json:"status"`
}

// ReportCategory partitions reports; it never changes after creation
type ReportCategory string

const (
	CategoryIllegalDumping ReportCategory = "illegal_dumping"
	CategoryCommunityAbuse ReportCategory = "community_abuse"
)

// Valid reports whether c is one of the two report categories
func (c ReportCategory) Valid() bool {
	return c == CategoryIllegalDumping || c == CategoryCommunityAbuse
}

// ReportStatus is the triage state of a report. The reachable subset
// depends on the report's category.
type ReportStatus string

const (
	ReportStatusReceived   ReportStatus = "접수"
	ReportStatusInProgress ReportStatus = "처리 중"
	ReportStatusDone       ReportStatus = "완료"
	ReportStatusWarned     ReportStatus = "경고"
	ReportStatusSuspended  ReportStatus = "정지"
)

// ReportTypeUser marks a community report whose target is a user account
const ReportTypeUser = "사용자"

// Report is an illegal-dumping or community-abuse report
type Report struct {
	ID          int            `json:"id"`
	Category    ReportCategory `json:"category"`
	Type        string         `json:"type"`
	TargetID    int            `json:"targetId"`
	Reason      string         `json:"reason"`
	Reporter    string         `json:"reporter"`
	Date        string         `json:"date"`
	Status      ReportStatus   `json:"status"`
	IsProcessed bool           `json:"isProcessed,omitempty"`
}

// CompanyStatus is the standing of a registered service company
type CompanyStatus string

const (
	CompanyStatusActive    CompanyStatus = "활성"
	CompanyStatusAttention CompanyStatus = "주의"
	CompanyStatusSuspended CompanyStatus = "정지"
)

// LicenseNormal is assigned to every newly registered company
const LicenseNormal = "정상"

// Company is a registered waste-collection service company
type Company struct {
	ID                 int           `json:"id"`
	RegistrationNumber string        `json:"registrationNumber"`
	Name               string        `json:"name"`
	Owner              string        `json:"owner"`
	Phone              string        `json:"phone"`
	Area               string        `json:"area"`
	License            string        `json:"license"`
	Status             CompanyStatus `json:"status"`
}

// CompanyInput carries the fields of the add-company form
type CompanyInput struct {
	RegistrationNumber string `json:"registrationNumber" validate:"required"`
	Name               string `json:"name" validate:"required"`
	Owner              string `json:"owner" validate:"required"`
	Phone              string `json:"phone" validate:"required"`
	Area               string `json:"area" validate:"required"`
}

// Outcome describes what an action did to the targeted record
type Outcome string

const (
	// OutcomeApplied means the record's status was rewritten
	OutcomeApplied Outcome = "applied"
	// OutcomeAcknowledged means a 수정 save acknowledgment with no state change
	OutcomeAcknowledged Outcome = "acknowledged"
	// OutcomeIgnored means the action does not apply to the record in its current state
	OutcomeIgnored Outcome = "ignored"
	// OutcomeNotFound means no record has the requested id
	OutcomeNotFound Outcome = "not_found"
	// OutcomeRemoved means the record was removed from its collection
	OutcomeRemoved Outcome = "removed"
)

// Result reports the effect of ApplyAction
type Result struct {
	Entity  EntityType `json:"entity"`
	Action  Action     `json:"action"`
	ID      int        `json:"id"`
	Outcome Outcome    `json:"outcome"`

	// RemovedPostID is set when a post was hard-deleted
	RemovedPostID int `json:"removedPostId,omitempty"`
	// RemovedComments lists comment ids removed by a post deletion cascade
	RemovedComments []int `json:"removedComments,omitempty"`
	// Cascade is the result of the user update triggered by a report action
	Cascade *Result `json:"cascade,omitempty"`
}

// Changed reports whether the action mutated any collection
func (r Result) Changed() bool {
	if r.Outcome == OutcomeApplied || r.Outcome == OutcomeRemoved {
		return true
	}
	return r.Cascade != nil && r.Cascade.Changed()
}

// Snapshot is a point-in-time copy of all five collections
type Snapshot struct {
	Users     []User    `json:"users"`
	Posts     []Post    `json:"posts"`
	Comments  []Comment `json:"comments"`
	Reports   []Report  `json:"reports"`
	Companies []Company `json:"companies"`
}

// AuditEntry represents a logged moderation action
type AuditEntry struct {
	ID        string            `json:"id"`
	Entity    EntityType        `json:"entity"`
	Action    Action            `json:"action"`
	TargetID  int               `json:"target_id"`
	Outcome   Outcome           `json:"outcome"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Target renders the entity/id pair used as a log field
func (e AuditEntry) Target() string {
	return string(e.Entity) + ":" + strconv.Itoa(e.TargetID)
}

package moderation

// The functions in this file are pure: they take a record by value and
// return the updated copy together with the outcome. They never touch the
// collections; the Service commits their results.

// TransitionUser applies a user action.
// 정지, 활성 and 경고 set the matching status; 수정 is a save acknowledgment.
func TransitionUser(u User, action Action) (User, Outcome) {
	switch action {
	case ActionSuspend:
		u.Status = UserStatusSuspended
	case ActionActivate:
		u.Status = UserStatusActive
	case ActionWarn:
		u.Status = UserStatusWarned
	case ActionEdit:
		return u, OutcomeAcknowledged
	default:
		return u, OutcomeIgnored
	}
	return u, OutcomeApplied
}

// TransitionComment applies a comment action.
// 삭제 is a soft delete and can be reverted with 활성.
func TransitionComment(c Comment, action Action) (Comment, Outcome) {
	switch action {
	case ActionDelete:
		c.Status = CommentStatusDeleted
	case ActionActivate:
		c.Status = CommentStatusActive
	case ActionEdit:
		return c, OutcomeAcknowledged
	default:
		return c, OutcomeIgnored
	}
	return c, OutcomeApplied
}

// TransitionPost classifies a post action. Posts have no status
// transitions: 삭제 removes the record and 수정 is an acknowledgment.
func TransitionPost(action Action) Outcome {
	switch action {
	case ActionDelete:
		return OutcomeRemoved
	case ActionEdit:
		return OutcomeAcknowledged
	}
	return OutcomeIgnored
}

// TransitionCompany applies a company action.
func TransitionCompany(c Company, action Action) (Company, Outcome) {
	switch action {
	case ActionSuspend:
		c.Status = CompanyStatusSuspended
	case ActionActivate:
		c.Status = CompanyStatusActive
	case ActionEdit:
		return c, OutcomeAcknowledged
	default:
		return c, OutcomeIgnored
	}
	return c, OutcomeApplied
}

// TransitionReport applies a report action according to the report's
// category. 완료 is terminal in both categories.
//
// Community-abuse reports are marked processed on every action, whether or
// not the action matched a transition.
func TransitionReport(r Report, action Action) (Report, Outcome) {
	switch r.Category {
	case CategoryIllegalDumping:
		return transitionDumpingReport(r, action)
	case CategoryCommunityAbuse:
		next, outcome := transitionAbuseReport(r, action)
		next.IsProcessed = true
		return next, outcome
	}
	return r, OutcomeIgnored
}

func transitionDumpingReport(r Report, action Action) (Report, Outcome) {
	if r.Status == ReportStatusDone {
		return r, OutcomeIgnored
	}
	switch action {
	case ActionProcess:
		r.Status = ReportStatusInProgress
	case ActionComplete:
		r.Status = ReportStatusDone
	default:
		return r, OutcomeIgnored
	}
	return r, OutcomeApplied
}

func transitionAbuseReport(r Report, action Action) (Report, Outcome) {
	if r.Status == ReportStatusDone {
		return r, OutcomeIgnored
	}
	switch action {
	case ActionWarn:
		r.Status = ReportStatusWarned
	case ActionSuspend:
		r.Status = ReportStatusSuspended
	case ActionActivate:
		// "해제" in the dashboard: the penalty is released and the report closed
		r.Status = ReportStatusDone
	default:
		return r, OutcomeIgnored
	}
	return r, OutcomeApplied
}

// CascadesToUser reports whether applying action to r must also apply the
// same action to the user the report targets.
func CascadesToUser(r Report, action Action) bool {
	if r.Category != CategoryCommunityAbuse || r.Type != ReportTypeUser {
		return false
	}
	if r.Status == ReportStatusDone {
		return false
	}
	return action == ActionWarn || action == ActionSuspend
}

package view

import (
	"fmt"

	"barogreen/internal/moderation"
)

// Control is a button the dashboard offers for a record
type Control struct {
	Action moderation.Action `json:"action"`
	Label  string            `json:"label"`
	// Confirm is set for destructive actions that prompt before dispatch
	Confirm bool `json:"confirm,omitempty"`
}

// AvailableActions lists the controls shown next to a record in its
// current state. Unknown record types get none.
func AvailableActions(r Record) []Control {
	switch rec := r.(type) {
	case moderation.User:
		controls := []Control{{Action: moderation.ActionEdit, Label: "수정"}}
		if rec.Status != moderation.UserStatusSuspended {
			return append(controls, Control{Action: moderation.ActionSuspend, Label: "정지"})
		}
		return append(controls, Control{Action: moderation.ActionActivate, Label: "활성"})

	case moderation.Post:
		return []Control{
			{Action: moderation.ActionEdit, Label: "수정"},
			{Action: moderation.ActionDelete, Label: "삭제", Confirm: true},
		}

	case moderation.Comment:
		var controls []Control
		if rec.Status != moderation.CommentStatusDeleted {
			controls = append(controls, Control{Action: moderation.ActionDelete, Label: "삭제", Confirm: true})
		}
		if rec.Status != moderation.CommentStatusActive {
			controls = append(controls, Control{Action: moderation.ActionActivate, Label: "활성"})
		}
		return controls

	case moderation.Report:
		return reportActions(rec)

	case moderation.Company:
		controls := []Control{{Action: moderation.ActionEdit, Label: "수정"}}
		if rec.Status != moderation.CompanyStatusSuspended {
			return append(controls, Control{Action: moderation.ActionSuspend, Label: "정지"})
		}
		return append(controls, Control{Action: moderation.ActionActivate, Label: "활성 해제"})
	}
	return nil
}

func reportActions(r moderation.Report) []Control {
	switch r.Category {
	case moderation.CategoryIllegalDumping:
		switch r.Status {
		case moderation.ReportStatusReceived:
			return []Control{{Action: moderation.ActionProcess, Label: "처리 시작"}}
		case moderation.ReportStatusInProgress:
			return []Control{{Action: moderation.ActionComplete, Label: "처리 완료"}}
		}
	case moderation.CategoryCommunityAbuse:
		var controls []Control
		if r.Status == moderation.ReportStatusReceived || r.Status == moderation.ReportStatusWarned {
			controls = append(controls,
				Control{Action: moderation.ActionWarn, Label: "경고"},
				Control{Action: moderation.ActionSuspend, Label: "정지"},
			)
		}
		if r.Status == moderation.ReportStatusWarned || r.Status == moderation.ReportStatusSuspended {
			controls = append(controls, Control{Action: moderation.ActionActivate, Label: "해제"})
		}
		return controls
	}
	return nil
}

// ConfirmPrompt is the question asked before a destructive action
func ConfirmPrompt(entity moderation.EntityType, id int) string {
	return fmt.Sprintf("%s ID %d을(를) 정말로 삭제하시겠습니까?", entity, id)
}

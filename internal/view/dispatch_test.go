package view

import (
	"context"
	"errors"
	"testing"

	"barogreen/internal/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_DeclinedLeavesStateUntouched(t *testing.T) {
	svc := moderation.NewService()
	before := svc.Snapshot()

	var prompts []string
	d := Dispatcher{
		Store: svc,
		Confirmer: ConfirmFunc(func(ctx context.Context, prompt string) bool {
			prompts = append(prompts, prompt)
			return false
		}),
	}

	_, err := d.Dispatch(context.Background(), moderation.EntityComment, moderation.ActionDelete, 503)
	assert.ErrorIs(t, err, ErrNotConfirmed)

	_, err = d.Dispatch(context.Background(), moderation.EntityPost, moderation.ActionDelete, 101)
	assert.ErrorIs(t, err, ErrNotConfirmed)

	assert.Equal(t, before, svc.Snapshot())
	assert.Equal(t, []string{
		"댓글 ID 503을(를) 정말로 삭제하시겠습니까?",
		"게시글 ID 101을(를) 정말로 삭제하시겠습니까?",
	}, prompts)

	entries, err := svc.AuditLog().ListAuditLog(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDispatch_Confirmed(t *testing.T) {
	svc := moderation.NewService()
	d := Dispatcher{
		Store:     svc,
		Confirmer: ConfirmFunc(func(context.Context, string) bool { return true }),
	}

	res, err := d.Dispatch(context.Background(), moderation.EntityPost, moderation.ActionDelete, 101)
	require.NoError(t, err)
	assert.Equal(t, moderation.OutcomeRemoved, res.Outcome)
	assert.Len(t, svc.Posts(), 3)
}

func TestDispatch_NonDestructiveSkipsConfirmation(t *testing.T) {
	svc := moderation.NewService()
	d := Dispatcher{
		Store: svc,
		Confirmer: ConfirmFunc(func(context.Context, string) bool {
			t.Fatal("confirmation must not be requested")
			return false
		}),
	}

	res, err := d.Dispatch(context.Background(), moderation.EntityUser, moderation.ActionSuspend, 1)
	require.NoError(t, err)
	assert.Equal(t, moderation.OutcomeApplied, res.Outcome)

	// restoring a deleted comment does not ask either
	res, err = d.Dispatch(context.Background(), moderation.EntityComment, moderation.ActionActivate, 503)
	require.NoError(t, err)
	assert.Equal(t, moderation.OutcomeApplied, res.Outcome)
}

func TestDispatch_NilConfirmerDeclines(t *testing.T) {
	svc := moderation.NewService()
	d := Dispatcher{Store: svc}

	_, err := d.Dispatch(context.Background(), moderation.EntityComment, moderation.ActionDelete, 503)
	assert.True(t, errors.Is(err, ErrNotConfirmed))
	c, _ := svc.Comment(503)
	assert.Equal(t, moderation.CommentStatusFlagged, c.Status)
}

package screen

import (
	"context"

	"github.com/felixgeelhaar/portal/internal/gateway"
)

// NoticeKind classifies a notification.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// Notice is a non-blocking notification shown after a submission.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Submit runs a create or update action and describes the outcome. The
// caller keeps its form contents on failure so the user can resubmit.
func Submit(ctx context.Context, what, success string, fn func(ctx context.Context) error) (Notice, error) {
	if err := fn(ctx); err != nil {
		msg := gateway.DetailOf(err)
		if msg == "" {
			msg = "Failed to submit " + what + ". Please try again."
		}
		return Notice{Kind: NoticeError, Message: msg}, err
	}
	return Notice{Kind: NoticeSuccess, Message: success}, nil
}

package auth

import "context"

// ResetNotification carries everything a delivery channel needs to tell a
// user how to complete a password reset.
type ResetNotification struct {
	Email    string
	Token    string
	ResetURL string
	UserID   string
}

// Notifier delivers reset notifications. Delivery is best effort, callers
// never block a reset request on it.
type Notifier interface {
	NotifyPasswordReset(ctx context.Context, notification ResetNotification) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, notification ResetNotification) error

// NotifyPasswordReset implements Notifier.
func (f NotifierFunc) NotifyPasswordReset(ctx context.Context, notification ResetNotification) error {
	if f == nil {
		return nil
	}
	return f(ctx, notification)
}

type noopNotifier struct{}

func (noopNotifier) NotifyPasswordReset(context.Context, ResetNotification) error {
	return nil
}

func normalizeNotifier(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DefaultResetTokenTTL is how long a reset token stays redeemable.
var DefaultResetTokenTTL = time.Hour

type RequestPasswordResetMessage struct {
	Email      string `json:"email" example:"pepe.rone@example.com" doc:"Customer email."`
	ResetURL   string `json:"reset_url,omitempty" doc:"Base URL the reset link points at."`
	OnResponse func(resp *RequestPasswordResetResponse)
}

func (p RequestPasswordResetMessage) Type() string { return "user.password_reset_request" }

type RequestPasswordResetResponse struct {
	Reset   *PasswordResetToken
	Success bool
}

type RequestPasswordResetHandler struct {
	repo     RepositoryManager
	notifier Notifier
	activity ActivitySink
	logger   Logger
	tokenTTL time.Duration
}

// NewRequestPasswordResetHandler creates a handler with sane defaults.
func NewRequestPasswordResetHandler(repo RepositoryManager) *RequestPasswordResetHandler {
	return &RequestPasswordResetHandler{
		repo:     repo,
		notifier: noopNotifier{},
		activity: noopActivitySink{},
		logger:   defLogger{},
		tokenTTL: DefaultResetTokenTTL,
	}
}

// WithNotifier sets the channel used to deliver reset instructions.
func (h *RequestPasswordResetHandler) WithNotifier(n Notifier) *RequestPasswordResetHandler {
	h.notifier = normalizeNotifier(n)
	return h
}

// WithActivitySink sets the sink used to emit password reset events.
func (h *RequestPasswordResetHandler) WithActivitySink(sink ActivitySink) *RequestPasswordResetHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *RequestPasswordResetHandler) WithLogger(logger Logger) *RequestPasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithTokenTTL overrides the reset token lifetime.
func (h *RequestPasswordResetHandler) WithTokenTTL(ttl time.Duration) *RequestPasswordResetHandler {
	if ttl > 0 {
		h.tokenTTL = ttl
	}
	return h
}

func (h *RequestPasswordResetHandler) Execute(ctx context.Context, event RequestPasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset request",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RequestPasswordResetHandler) execute(ctx context.Context, event RequestPasswordResetMessage) error {
	resp := &RequestPasswordResetResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if event.Email == "" {
		return goerrors.New("password reset requires an email", goerrors.CategoryBadInput).
			WithTextCode("EMAIL_REQUIRED")
	}

	var notification *ResetNotification

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := h.repo.Users().GetByIdentifier(ctx, event.Email)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				// Report success for unknown addresses too, a different
				// answer here would let callers probe which emails exist.
				return nil
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
		}

		reset := &PasswordResetToken{
			Token:     uuid.NewString(),
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(h.tokenTTL),
		}

		created, err := h.repo.PasswordResets().CreateTx(ctx, tx, reset)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create password reset record")
		}
		resp.Reset = created

		h.recordActivity(ctx, user.ID.String())

		notification = &ResetNotification{
			Email:    user.Email,
			Token:    created.Token,
			ResetURL: event.ResetURL,
			UserID:   user.ID.String(),
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to request password reset")
	}

	// Only notify once the transaction has committed. A token that never
	// made it to the database must never reach an inbox.
	if notification != nil {
		n := *notification
		go func() {
			if err := h.notifier.NotifyPasswordReset(context.WithoutCancel(ctx), n); err != nil {
				h.logger.Warn("failed to deliver password reset notification: %v", err)
			}
		}()
	}

	resp.Success = true
	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

func (h *RequestPasswordResetHandler) recordActivity(ctx context.Context, userID string) {
	event := ActivityEvent{
		EventType: ActivityEventPasswordResetRequested,
		Actor: ActorRef{
			ID:   userID,
			Type: "user",
		},
		UserID:     userID,
		OccurredAt: time.Now(),
	}

	if err := normalizeActivitySink(h.activity).Record(ctx, event); err != nil {
		h.logger.Warn("activity sink error during password reset request: %v", err)
	}
}

package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type RedeemPasswordResetMessage struct {
	Token    string `json:"token" example:"350399bc-c095-4bdc-a59c-3352d44848e4" doc:"Reset password token"`
	Password string `json:"password" example:"some_secret_word" doc:"New password"`
}

func (p RedeemPasswordResetMessage) Type() string { return "user.password_reset_redeem" }

type RedeemPasswordResetHandler struct {
	repo     RepositoryManager
	activity ActivitySink
	logger   Logger
}

// NewRedeemPasswordResetHandler creates a handler with sane defaults.
func NewRedeemPasswordResetHandler(repo RepositoryManager) *RedeemPasswordResetHandler {
	return &RedeemPasswordResetHandler{
		repo:     repo,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

// WithActivitySink sets the sink used to emit password reset events.
func (h *RedeemPasswordResetHandler) WithActivitySink(sink ActivitySink) *RedeemPasswordResetHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *RedeemPasswordResetHandler) WithLogger(logger Logger) *RedeemPasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RedeemPasswordResetHandler) Execute(ctx context.Context, event RedeemPasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset redemption",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RedeemPasswordResetHandler) execute(ctx context.Context, event RedeemPasswordResetMessage) error {
	reset := &PasswordResetToken{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if event.Token == "" {
		return ErrResetTokenInvalid
	}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Redeem flips used atomically. Unknown, spent, and expired tokens
		// all come back as not-found and collapse into one error.
		redeemed, err := h.repo.PasswordResets().RedeemTx(ctx, tx, event.Token)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return ErrResetTokenInvalid
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not redeem password reset token")
		}
		reset = redeemed

		passwordHash, err := HashPassword(event.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
		}

		if err := h.repo.Users().ResetPasswordTx(ctx, tx, reset.UserID, passwordHash); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user password in database")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to redeem password reset")
	}

	h.recordActivity(ctx, reset)

	return nil
}

func (h *RedeemPasswordResetHandler) recordActivity(ctx context.Context, reset *PasswordResetToken) {
	if reset == nil {
		return
	}

	event := ActivityEvent{
		EventType: ActivityEventPasswordResetSuccess,
		Actor: ActorRef{
			ID:   reset.UserID.String(),
			Type: "user",
		},
		UserID: reset.UserID.String(),
		Metadata: map[string]any{
			"password_reset_id": reset.ID.String(),
		},
		OccurredAt: time.Now(),
	}

	if err := normalizeActivitySink(h.activity).Record(ctx, event); err != nil {
		h.logger.Warn("activity sink error during password reset: %v", err)
	}
}

package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RedeemResetTokenSQL flips the used flag exactly once. The used = FALSE
// guard makes concurrent redemptions race for a single winning row.
var RedeemResetTokenSQL = `UPDATE "password_reset_tokens" AS "prt"
SET
	"used" = TRUE
WHERE
	"prt"."token" = ?
AND "prt"."used" = FALSE
AND "prt"."expires_at" > ?
RETURNING *;`

type PasswordResets interface {
	repository.Repository[*PasswordResetToken]

	GetByResetToken(ctx context.Context, token string) (*PasswordResetToken, error)
	GetByResetTokenTx(ctx context.Context, tx bun.IDB, token string) (*PasswordResetToken, error)

	Redeem(ctx context.Context, token string) (*PasswordResetToken, error)
	RedeemTx(ctx context.Context, tx bun.IDB, token string) (*PasswordResetToken, error)

	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type passwordResets struct {
	repository.Repository[*PasswordResetToken]
	db *bun.DB
}

var _ PasswordResets = (*passwordResets)(nil)

func NewPasswordResetsRepository(db *bun.DB) PasswordResets {
	handlers := repository.ModelHandlers[*PasswordResetToken]{
		NewRecord: func() *PasswordResetToken {
			return &PasswordResetToken{}
		},
		GetID: func(record *PasswordResetToken) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *PasswordResetToken, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "token"
		},
	}

	return &passwordResets{
		Repository: repository.NewRepository(db, handlers),
		db:         db,
	}
}

func (p *passwordResets) GetByResetToken(ctx context.Context, token string) (*PasswordResetToken, error) {
	return p.GetByResetTokenTx(ctx, p.db, token)
}

func (p *passwordResets) GetByResetTokenTx(ctx context.Context, tx bun.IDB, token string) (*PasswordResetToken, error) {
	record := &PasswordResetToken{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"token": token,
				})
		}
		return nil, err
	}

	return record, nil
}

// Redeem marks the token as used if and only if it is still unused and
// unexpired. Returns a record-not-found error for every other state so
// callers cannot tell a bogus token from a spent or stale one.
func (p *passwordResets) Redeem(ctx context.Context, token string) (*PasswordResetToken, error) {
	return p.RedeemTx(ctx, p.db, token)
}

func (p *passwordResets) RedeemTx(ctx context.Context, tx bun.IDB, token string) (*PasswordResetToken, error) {
	record := &PasswordResetToken{}
	err := tx.NewRaw(RedeemResetTokenSQL, token, time.Now()).Scan(ctx, record)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"token": token,
				})
		}
		return nil, err
	}

	return record, nil
}

func (p *passwordResets) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := p.db.NewDelete().
		Model((*PasswordResetToken)(nil)).
		Where("expires_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

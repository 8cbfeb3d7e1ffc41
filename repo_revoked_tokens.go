package auth

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// RevokedTokens is the relational deny-list backing RevocationStore.
type RevokedTokens interface {
	RevocationStore

	InsertTx(ctx context.Context, tx bun.IDB, jti string, expiresAt time.Time) error
}

type revokedTokens struct {
	db *bun.DB
}

var _ RevokedTokens = (*revokedTokens)(nil)

func NewRevokedTokensRepository(db *bun.DB) RevokedTokens {
	return &revokedTokens{db: db}
}

func (r *revokedTokens) Exists(ctx context.Context, jti string) (bool, error) {
	return r.db.NewSelect().
		Model((*RevokedToken)(nil)).
		Where("jti = ?", jti).
		Exists(ctx)
}

func (r *revokedTokens) Insert(ctx context.Context, jti string, expiresAt time.Time) error {
	return r.InsertTx(ctx, r.db, jti, expiresAt)
}

func (r *revokedTokens) InsertTx(ctx context.Context, tx bun.IDB, jti string, expiresAt time.Time) error {
	record := &RevokedToken{
		JTI:       jti,
		ExpiresAt: expiresAt,
	}

	// Revoking twice is a no-op, the entry is already on the list.
	_, err := tx.NewInsert().
		Model(record).
		On("CONFLICT (jti) DO NOTHING").
		Exec(ctx)

	return err
}

func (r *revokedTokens) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*RevokedToken)(nil)).
		Where("expires_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

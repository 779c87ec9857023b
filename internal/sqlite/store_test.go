package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/crowdvault/internal/repository"
)

func TestStore_WithinTx_Commit(t *testing.T) {
	db := NewTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	wallet := testWallet(t)
	err := store.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Accounts().Credit(ctx, wallet, 1000); err != nil {
			return err
		}
		return r.Accounts().Debit(ctx, wallet, 300)
	})
	require.NoError(t, err)

	balance, err := store.Accounts().Balance(ctx, wallet)
	require.NoError(t, err)
	require.Equal(t, uint64(700), balance)
}

func TestStore_WithinTx_RollbackOnError(t *testing.T) {
	db := NewTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	wallet := testWallet(t)
	failure := errors.New("operation failed")
	err := store.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Accounts().Credit(ctx, wallet, 1000); err != nil {
			return err
		}
		return failure
	})
	require.ErrorIs(t, err, failure)

	// The credit must not survive the rollback
	_, err = store.Accounts().Balance(ctx, wallet)
	require.Equal(t, repository.ErrNotFound, err)
}

func TestStore_WithinTx_RollbackOnPanic(t *testing.T) {
	db := NewTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	wallet := testWallet(t)
	require.Panics(t, func() {
		_ = store.WithinTx(ctx, func(r repository.Repositories) error {
			if err := r.Accounts().Credit(ctx, wallet, 1000); err != nil {
				return err
			}
			panic("boom")
		})
	})

	_, err := store.Accounts().Balance(ctx, wallet)
	require.Equal(t, repository.ErrNotFound, err)
}
